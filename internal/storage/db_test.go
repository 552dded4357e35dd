package storage_test

import (
	"context"
	"errors"
	"testing"

	"crumb/internal/storage"
	"crumb/internal/testsupport"
)

func TestOpenCreatesSchemaAndSeeds(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	var steps int
	err := db.Handle().QueryRowContext(ctx,
		"SELECT COUNT(1) FROM steps WHERE is_predefined = 1").Scan(&steps)
	if err != nil {
		t.Fatalf("count predefined steps: %v", err)
	}
	if steps == 0 {
		t.Fatal("expected seeded predefined steps")
	}

	var ingredients int
	err = db.Handle().QueryRowContext(ctx,
		"SELECT COUNT(1) FROM ingredients").Scan(&ingredients)
	if err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if ingredients == 0 {
		t.Fatal("expected seeded ingredient catalog")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	var version int
	err = second.Handle().QueryRowContext(context.Background(),
		"SELECT version FROM schema_version").Scan(&version)
	if err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version == 0 {
		t.Fatal("schema version not recorded")
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := db.InTx(ctx, func(tx storage.Querier) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO ingredients (ingredient_name, is_wet) VALUES ('Spelt Flour', 0)`)
		if execErr != nil {
			t.Fatalf("insert inside tx: %v", execErr)
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	var count int
	err = db.Handle().QueryRowContext(ctx,
		"SELECT COUNT(1) FROM ingredients WHERE ingredient_name = 'Spelt Flour'").Scan(&count)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("rolled back insert is still visible")
	}
}

func TestInTxCommits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)
	ctx := context.Background()

	err := db.InTx(ctx, func(tx storage.Querier) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO ingredients (ingredient_name, is_wet) VALUES ('Einkorn Flour', 0)`)
		return execErr
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	var count int
	err = db.Handle().QueryRowContext(ctx,
		"SELECT COUNT(1) FROM ingredients WHERE ingredient_name = 'Einkorn Flour'").Scan(&count)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected committed row, found %d", count)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db := testsupport.MustOpenDB(t, cfg)

	_, err := db.Handle().ExecContext(context.Background(),
		`INSERT INTO bake_logs (user_id, recipe_id, status, start_timestamp)
		 VALUES (999, 999, 'active', '2026-01-01T00:00:00Z')`)
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestMakePlaceholders(t *testing.T) {
	if got := storage.MakePlaceholders(3); got != "?,?,?" {
		t.Fatalf("unexpected placeholders: %q", got)
	}
	if got := storage.MakePlaceholders(0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestParseTimeToleratesSecondPrecision(t *testing.T) {
	ts, err := storage.ParseTime("2026-03-01T08:30:00Z")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ts.Hour() != 8 || ts.Minute() != 30 {
		t.Fatalf("unexpected time: %v", ts)
	}
}
