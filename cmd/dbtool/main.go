package main

import (
	"context"
	"flag"
	"fuel-stop-planner/internal/adapters/repositories"
	"fuel-stop-planner/internal/config"
	"fuel-stop-planner/internal/platform/db"
	"log"
)

// dbtool creates the schema and imports a station price export.
//
//	dbtool -file data/stations.json
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	seedPath := flag.String("file", cfg.SeedPath, "station export (JSON) to import")
	schemaOnly := flag.Bool("schema-only", false, "create tables and exit")
	flag.Parse()

	driver, err := db.ParseDriver(cfg.DBDriver)
	if err != nil {
		log.Fatal(err)
	}
	dsn := cfg.DBPath
	if driver == db.DriverPostgres {
		dsn = cfg.DatabaseURL
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn, driver); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if *schemaOnly {
		return
	}
	if *seedPath == "" {
		log.Fatal("no station export given (use -file or SEED_PATH)")
	}

	log.Printf("Importing stations from %s...", *seedPath)
	stats, err := repositories.ImportStationsFromJSON(context.Background(), conn, driver, *seedPath)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("Import complete. added=%d updated=%d skipped=%d", stats.Added, stats.Updated, stats.Skipped)
}
