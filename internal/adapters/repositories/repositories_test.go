package repositories

import (
	"context"
	"database/sql"
	"fuel-stop-planner/internal/domain"
	"fuel-stop-planner/internal/geo"
	"fuel-stop-planner/internal/platform/db"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, InitSchema(conn, db.DriverSQLite))
	// Running it twice must be harmless.
	require.NoError(t, InitSchema(conn, db.DriverSQLite))
	return conn
}

const sampleExport = `[
  {"address": {"street": "1 Main St", "postal_code": "01000", "city": "Alpha"},
   "latitude": 45.1234567, "longitude": 5.7654321, "price": 0.999, "price_date": "31/12/2025"},
  {"address-compact": "2 High St, 02000, Beta, Nowhere",
   "latitude": "45.5", "longitude": "6.0", "price": "1,059", "price_date": "01/01/2026"},
  {"address-compact": "no price", "latitude": 46, "longitude": 6, "price": "", "price_date": "01/01/2026"},
  {"address-compact": "too cheap", "latitude": 46, "longitude": 7, "price": 0.05, "price_date": "01/01/2026"},
  {"address-compact": "no date", "latitude": 46, "longitude": 8, "price": 1.1, "price_date": ""}
]`

func writeExport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestImportStationsFromJSON(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	stats, err := ImportStationsFromJSON(ctx, conn, db.DriverSQLite, writeExport(t, sampleExport))
	require.NoError(t, err)
	require.Equal(t, ImportStats{Added: 2, Updated: 0, Skipped: 3}, stats)

	repo := NewSQLStationRepository(conn, db.DriverSQLite)
	all, err := repo.FindStations(ctx, domain.StationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	first := all[0]
	require.Equal(t, 45.123457, first.Coords.Lat)
	require.Equal(t, 5.765432, first.Coords.Lon)
	require.Equal(t, "1 Main St, 01000, Alpha", first.Address)
	require.Equal(t, "2025-12-31", first.LastUpdate.Format(PriceDateLayout))
	require.Equal(t, 1.059, all[1].Price)
	require.Equal(t, "2 High St, 02000, Beta, Nowhere", all[1].Address)
}

func TestImportUpdatesOnlyNewerPrices(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, err := ImportStationsFromJSON(ctx, conn, db.DriverSQLite, writeExport(t, sampleExport))
	require.NoError(t, err)

	update := `[
	  {"address-compact": "x", "latitude": 45.1234567, "longitude": 5.7654321, "price": 0.899, "price_date": "15/01/2026"},
	  {"address-compact": "y", "latitude": 45.5, "longitude": 6.0, "price": 0.5, "price_date": "01/01/2026"}
	]`
	stats, err := ImportStationsFromJSON(ctx, conn, db.DriverSQLite, writeExport(t, update))
	require.NoError(t, err)
	require.Equal(t, ImportStats{Updated: 1, Skipped: 1}, stats)

	repo := NewSQLStationRepository(conn, db.DriverSQLite)
	all, err := repo.FindStations(ctx, domain.StationFilter{})
	require.NoError(t, err)
	require.Equal(t, 0.899, all[0].Price)
	require.Equal(t, "1 Main St, 01000, Alpha", all[0].Address, "address is kept on update")
	require.Equal(t, 1.059, all[1].Price)
}

func TestImportRejectsBadDate(t *testing.T) {
	conn := openTestDB(t)
	_, err := ImportStationsFromJSON(context.Background(), conn, db.DriverSQLite,
		writeExport(t, `[{"address-compact": "x", "latitude": 1, "longitude": 1, "price": 1, "price_date": "2026-01-01"}]`))
	require.Error(t, err)
}

func seedStations(t *testing.T, conn *sql.DB) {
	t.Helper()
	records := []StationRecord{
		{AddressCompact: "a", Latitude: flexFloat{40, true}, Longitude: flexFloat{-3, true}, Price: flexFloat{1.2, true}, PriceDate: "01/02/2026"},
		{AddressCompact: "b", Latitude: flexFloat{41, true}, Longitude: flexFloat{-2, true}, Price: flexFloat{0.9, true}, PriceDate: "01/02/2026"},
		{AddressCompact: "c", Latitude: flexFloat{42, true}, Longitude: flexFloat{2, true}, Price: flexFloat{1.9, true}, PriceDate: "01/02/2026"},
	}
	stats, err := ImportStations(context.Background(), conn, db.DriverSQLite, records)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Added)
}

func TestSQLStationRepositoryFindStations(t *testing.T) {
	conn := openTestDB(t)
	seedStations(t, conn)
	repo := NewSQLStationRepository(conn, db.DriverSQLite)
	ctx := context.Background()

	box := geo.BoundingBox{MinLat: 39.5, MaxLat: 41.5, MinLon: -3.5, MaxLon: 0}
	got, err := repo.FindStations(ctx, domain.StationFilter{Box: &box})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Address)
	require.Equal(t, "b", got[1].Address)

	got, err = repo.FindStations(ctx, domain.StationFilter{Box: &box, Price: &domain.PriceRange{Min: 1, Max: 2}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a", got[0].Address)

	got, err = repo.FindStations(ctx, domain.StationFilter{Price: &domain.PriceRange{Min: 1.5, Max: 2}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "c", got[0].Address)
}

func TestSQLStationRepositoryStationsByIDs(t *testing.T) {
	conn := openTestDB(t)
	seedStations(t, conn)
	repo := NewSQLStationRepository(conn, db.DriverSQLite)
	ctx := context.Background()

	all, err := repo.FindStations(ctx, domain.StationFilter{})
	require.NoError(t, err)
	id := all[1].ID

	got, err := repo.StationsByIDs(ctx, []int{id, id, 9999})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "b", got[id].Address)
	require.Equal(t, domain.Coordinates{Lat: 41, Lon: -2}, got[id].Coords)

	got, err = repo.StationsByIDs(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}
