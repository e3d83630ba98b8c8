package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/db"
	"fuel-stop-planner/internal/platform/obs"
	"strings"
	"time"
)

// PriceDateLayout is how price dates are stored.
const PriceDateLayout = "2006-01-02"

// SQL-backed implementation of the StationRepository port. Works on both
// SQLite and Postgres.
type SQLStationRepository struct {
	DB     *sql.DB
	Driver db.Driver
}

func NewSQLStationRepository(conn *sql.DB, driver db.Driver) *SQLStationRepository {
	return &SQLStationRepository{DB: conn, Driver: driver}
}

const stationColumns = `id, latitude, longitude, fuel_price, price_date, address`

func scanStation(rows *sql.Rows) (domain.Station, error) {
	var (
		s    domain.Station
		date string
	)
	if err := rows.Scan(&s.ID, &s.Coords.Lat, &s.Coords.Lon, &s.Price, &date, &s.Address); err != nil {
		return domain.Station{}, err
	}
	if date != "" {
		t, err := time.Parse(PriceDateLayout, date)
		if err != nil {
			return domain.Station{}, fmt.Errorf("station_id=%d: parse price_date %q: %w", s.ID, date, err)
		}
		s.LastUpdate = t
	}
	return s, nil
}

func (s *SQLStationRepository) StationsByIDs(ctx context.Context, ids []int) (_ map[int]domain.Station, err error) {
	defer obs.Time(ctx, "stations.ByIDs")(&err)

	if s.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	seen := make(map[int]struct{}, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		args = append(args, id)
	}
	if len(args) == 0 {
		return map[int]domain.Station{}, nil
	}

	// Only the placeholder structure is interpolated; values stay parameterized.
	q := fmt.Sprintf(`
	SELECT %s
	FROM stations
	WHERE id IN (%s);
	`, stationColumns, db.Placeholders(len(args)))

	rows, err := s.DB.QueryContext(ctx, db.Rebind(s.Driver, q), args...)
	if err != nil {
		return nil, fmt.Errorf("stations by ids: query stations table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]domain.Station, len(args))
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("stations by ids: scan row: %w", err)
		}
		out[st.ID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stations by ids: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLStationRepository) FindStations(ctx context.Context, filter domain.StationFilter) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.Find")(&err)

	if s.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	var (
		where []string
		args  []any
	)
	if b := filter.Box; b != nil {
		where = append(where, "latitude BETWEEN ? AND ?", "longitude BETWEEN ? AND ?")
		args = append(args, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	}
	if p := filter.Price; p != nil {
		where = append(where, "fuel_price BETWEEN ? AND ?")
		args = append(args, p.Min, p.Max)
	}

	q := "SELECT " + stationColumns + " FROM stations"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := s.DB.QueryContext(ctx, db.Rebind(s.Driver, q), args...)
	if err != nil {
		return nil, fmt.Errorf("find stations: query stations table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Station, 0, 64)
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("find stations: scan row: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find stations: row iteration: %w", err)
	}

	return out, nil
}
