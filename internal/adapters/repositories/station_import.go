package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/platform/db"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Prices below this are treated as missing.
const minImportPrice = 0.1

// StationRecord is one entry of a station price export.
type StationRecord struct {
	Address        *StationAddress `json:"address,omitempty"`
	AddressCompact string          `json:"address-compact,omitempty"`
	Latitude       flexFloat       `json:"latitude"`
	Longitude      flexFloat       `json:"longitude"`
	Price          flexFloat       `json:"price"`
	PriceDate      string          `json:"price_date"` // dd/mm/yyyy
}

type StationAddress struct {
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country,omitempty"`
}

func (r StationRecord) address() string {
	if r.AddressCompact != "" {
		return r.AddressCompact
	}
	if r.Address == nil {
		return ""
	}
	parts := []string{r.Address.Street, r.Address.PostalCode, r.Address.City}
	if r.Address.Country != "" {
		parts = append(parts, r.Address.Country)
	}
	return strings.Join(parts, ", ")
}

// flexFloat accepts a JSON number, a numeric string or an empty string.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
		if s == "" {
			return nil
		}
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %s: %w", string(b), err)
	}
	f.Value, f.Set = v, true
	return nil
}

type ImportStats struct {
	Added   int
	Updated int
	Skipped int
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// ImportStationsFromJSON loads a station export into the stations table.
// Stations are matched by coordinates rounded to 6 decimals; a known station
// is only updated when the incoming price is newer.
func ImportStationsFromJSON(ctx context.Context, conn *sql.DB, driver db.Driver, jsonPath string) (ImportStats, error) {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return ImportStats{}, fmt.Errorf("import stations: read %q: %w", jsonPath, err)
	}

	var records []StationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return ImportStats{}, fmt.Errorf("import stations: parse json: %w", err)
	}

	return ImportStations(ctx, conn, driver, records)
}

func ImportStations(ctx context.Context, conn *sql.DB, driver db.Driver, records []StationRecord) (ImportStats, error) {
	var stats ImportStats
	if conn == nil {
		return stats, errors.New("import stations: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("import stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lookup, err := tx.PrepareContext(ctx, db.Rebind(driver, `
	SELECT id, price_date
	FROM stations
	WHERE latitude = ? AND longitude = ?;
	`))
	if err != nil {
		return stats, fmt.Errorf("import stations: prepare lookup: %w", err)
	}
	defer lookup.Close()

	insert, err := tx.PrepareContext(ctx, db.Rebind(driver, `
	INSERT INTO stations (
		latitude,
		longitude,
		fuel_price,
		price_date,
		address
	)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return stats, fmt.Errorf("import stations: prepare insert: %w", err)
	}
	defer insert.Close()

	update, err := tx.PrepareContext(ctx, db.Rebind(driver, `
	UPDATE stations
	SET fuel_price = ?, price_date = ?
	WHERE id = ?;
	`))
	if err != nil {
		return stats, fmt.Errorf("import stations: prepare update: %w", err)
	}
	defer update.Close()

	for i, rec := range records {
		if !rec.Price.Set || rec.Price.Value < minImportPrice || strings.TrimSpace(rec.PriceDate) == "" {
			stats.Skipped++
			continue
		}
		if !rec.Latitude.Set || !rec.Longitude.Set {
			return stats, fmt.Errorf("import stations: entry #%d has no coordinates", i+1)
		}
		day, err := time.Parse("02/01/2006", strings.TrimSpace(rec.PriceDate))
		if err != nil {
			return stats, fmt.Errorf("import stations: entry #%d: parse price_date %q: %w", i+1, rec.PriceDate, err)
		}
		date := day.Format(PriceDateLayout)
		lat, lon := round6(rec.Latitude.Value), round6(rec.Longitude.Value)

		var (
			id      int64
			oldDate string
		)
		err = lookup.QueryRowContext(ctx, lat, lon).Scan(&id, &oldDate)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := insert.ExecContext(ctx, lat, lon, rec.Price.Value, date, rec.address()); err != nil {
				return stats, fmt.Errorf("import stations: insert entry #%d: %w", i+1, err)
			}
			stats.Added++
		case err != nil:
			return stats, fmt.Errorf("import stations: lookup entry #%d: %w", i+1, err)
		case date <= oldDate:
			stats.Skipped++
		default:
			if _, err := update.ExecContext(ctx, rec.Price.Value, date, id); err != nil {
				return stats, fmt.Errorf("import stations: update station_id=%d: %w", id, err)
			}
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("import stations: commit tx: %w", err)
	}

	return stats, nil
}
