package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"fuel-stop-planner/internal/platform/db"
)

var sqliteSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS stations (
		id INTEGER PRIMARY KEY,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		fuel_price REAL NOT NULL,
		price_date TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		UNIQUE (latitude, longitude)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS distances (
		from_id INTEGER NOT NULL,
		to_id INTEGER NOT NULL,
		distance REAL NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_stations_price
	ON stations(fuel_price);
	`,
}

var postgresSchema = []string{
	`
	CREATE TABLE IF NOT EXISTS stations (
		id BIGSERIAL PRIMARY KEY,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		fuel_price DOUBLE PRECISION NOT NULL,
		price_date TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		UNIQUE (latitude, longitude)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS distances (
		from_id BIGINT NOT NULL,
		to_id BIGINT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (from_id, to_id)
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_stations_price
	ON stations(fuel_price);
	`,
}

// InitSchema creates the stations and distances tables if they are missing.
func InitSchema(conn *sql.DB, driver db.Driver) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	statements := sqliteSchema
	if driver == db.DriverPostgres {
		statements = postgresSchema
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
