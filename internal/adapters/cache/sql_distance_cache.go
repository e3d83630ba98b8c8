package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/platform/db"
	"fuel-stop-planner/internal/platform/obs"
)

// SQLDistanceCache is a SQL-backed cache of directed station-to-station
// distances in km. It runs on SQLite or Postgres.
type SQLDistanceCache struct {
	DB     *sql.DB
	Driver db.Driver
}

func NewSQLDistanceCache(conn *sql.DB, driver db.Driver) *SQLDistanceCache {
	return &SQLDistanceCache{DB: conn, Driver: driver}
}

func pairIDs(pairs []domain.StationPair) []int64 {
	seen := map[int]struct{}{}
	ids := make([]int64, 0, len(pairs))
	for _, p := range pairs {
		for _, id := range []int{p.From, p.To} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, int64(id))
		}
	}
	return ids
}

// GetMany loads every cached distance among the stations named in pairs
// and keeps the requested ones.
func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	pairs []domain.StationPair,
) (_ map[domain.StationPair]float64, err error) {
	defer obs.Time(ctx, "distance.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("distance cache: db is nil")
	}

	if len(pairs) == 0 {
		return map[domain.StationPair]float64{}, nil
	}

	ids := pairIDs(pairs)

	var (
		q    string
		args []any
	)
	if s.Driver == db.DriverPostgres {
		q = `
		SELECT from_id, to_id, distance
		FROM distances
		WHERE from_id = ANY($1::bigint[])
			AND to_id = ANY($1::bigint[]);
		`
		args = []any{ids}
	} else {
		// SQLite does not support binding slices directly in an IN (...) clause.
		// Only the placeholder structure is interpolated; all values remain parameterized.
		ph := db.Placeholders(len(ids))
		q = fmt.Sprintf(`
		SELECT from_id, to_id, distance
		FROM distances
		WHERE from_id IN (%s)
			AND to_id IN (%s);
		`, ph, ph)
		args = make([]any, 0, 2*len(ids))
		for range 2 {
			for _, id := range ids {
				args = append(args, id)
			}
		}
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distances table: %w", err)
	}
	defer rows.Close()

	all := make(map[domain.StationPair]float64, len(pairs))
	for rows.Next() {
		var (
			p domain.StationPair
			d float64
		)
		if err := rows.Scan(&p.From, &p.To, &d); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		all[p] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	out := make(map[domain.StationPair]float64, len(pairs))
	for _, p := range pairs {
		if d, ok := all[p]; ok {
			out[p] = d
		}
	}
	return out, nil
}

// PutMany inserts distances in one transaction. Rows already present are
// kept as they are.
func (s *SQLDistanceCache) PutMany(ctx context.Context, distances map[domain.StationPair]float64) (err error) {
	defer obs.Time(ctx, "distance.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}

	if len(distances) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert distance cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.Driver, `
	INSERT INTO distances (
		from_id,
		to_id,
		distance
	)
	VALUES (?, ?, ?)
	ON CONFLICT (from_id, to_id) DO NOTHING;
	`))
	if err != nil {
		return fmt.Errorf("insert distance cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for p, d := range distances {
		if d < 0 {
			return fmt.Errorf("insert distance cache: negative distance %f for %d->%d", d, p.From, p.To)
		}
		if _, err := stmt.ExecContext(ctx, p.From, p.To, d); err != nil {
			return fmt.Errorf("insert distance cache %d->%d: %w", p.From, p.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert distance cache commit: %w", err)
	}

	return nil
}
