package db

import (
	"testing"

	"bookit/pkg/config"
)

func TestRuntimeConnString_PrefersDatabaseURL(t *testing.T) {
	cfg := config.Config{
		DatabaseURL: "postgres://u:p@pooler:6543/app?pgbouncer=true",
		DB:          config.DBConfig{Host: "localhost", Port: "5432", Name: "bookit", User: "bookit", Password: "bookit"},
	}
	if got := runtimeConnString(cfg); got != cfg.DatabaseURL {
		t.Fatalf("expected DATABASE_URL, got %q", got)
	}
}

func TestMigrationConnString_FallsBackToDSN(t *testing.T) {
	cfg := config.Config{
		DB: config.DBConfig{Host: "db", Port: "5432", Name: "bookit", User: "bookit", Password: "secret"},
	}
	want := "postgres://bookit:secret@db:5432/bookit?sslmode=disable"
	if got := migrationConnString(cfg); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMigrate_MissingSourceFails(t *testing.T) {
	cfg := config.Config{
		DB: config.DBConfig{Host: "127.0.0.1", Port: "1", Name: "bookit", User: "bookit", Password: "bookit"},
	}
	if err := Migrate("file://does-not-exist", cfg); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
	if _, _, err := MigrationStatus("file://does-not-exist", cfg); err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}
