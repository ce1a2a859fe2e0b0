package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/opengs/readmegen/storage/testlib"
)

func getTestingStorage(t *testing.T, options ...Option) *Storage {
	dbURL := os.Getenv("TEST_STORAGE_POSTGRES_DBURL")
	if dbURL == "" {
		t.Skip("TEST_STORAGE_POSTGRES_DBURL is not configured")
	}

	cfg, err := pgx.ParseConfig(dbURL)
	if err != nil {
		t.Error(err.Error())
		t.FailNow()
	}

	db := stdlib.OpenDB(*cfg)
	t.Cleanup(func() {
		db.Close()
	})

	schemaName := testlib.RandSchemaName(32)
	if _, err := db.ExecContext(context.Background(), "CREATE SCHEMA "+schemaName); err != nil {
		t.Error(err.Error())
		t.FailNow()
	}
	t.Cleanup(func() {
		db.ExecContext(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
	})

	options = append([]Option{WithDatabaseSchema(schemaName)}, options...)
	s := New(db, options...)
	t.Cleanup(func() {
		s.UnInstall(context.Background())
	})

	if err := s.Install(context.Background()); err != nil {
		t.Error(err.Error())
		t.FailNow()
	}

	return s
}

func TestPostgresStorage(t *testing.T) {
	s := getTestingStorage(t)
	testlib.TestStorage(t, s)
}

func TestPostgresStorage_InstallTwice(t *testing.T) {
	s := getTestingStorage(t)
	if err := s.Install(context.Background()); err != nil {
		t.Errorf("second Install must be a no-op, got: %v", err)
	}
}
