package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bookit/internal/httpapi"
	"bookit/internal/seed"
	"bookit/pkg/config"
	"bookit/pkg/db"
)

func main() {
	withSeed := flag.Bool("seed", false, "load the demo marketplace after migrating")
	flag.Parse()

	cfg := config.MustLoad()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = db.DefaultMigrationsPath
	}

	// This uses DIRECT_URL if set (recommended behind a pooler).
	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Sanity check the runtime connection (DATABASE_URL if set).
	// DSNs are not printed to keep secrets out of logs.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if *withSeed {
		if err := seed.Load(context.Background(), httpapi.PostgresStores(pool).Seed(), cfg.SeedPassword); err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
	}

	version, dirty, err := db.MigrationStatus(cfg.MigrationsPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration status failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("migrations applied (version %d, dirty=%t)\n", version, dirty)
}
