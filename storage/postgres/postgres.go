// Package postgres keeps README generation history in a PostgreSQL database.
// Useful when the generator runs as a shared service and past analyses must
// survive restarts.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/storage"
	"github.com/opengs/readmegen/storage/postgres/migrations"
)

type Storage struct {
	db *sql.DB

	databaseName   string
	databaseSchema string
	tablePrefix    string

	analysisTable string
}

func New(db *sql.DB, options ...Option) *Storage {
	s := &Storage{
		db:             db,
		databaseName:   "postgres",
		databaseSchema: "public",
		tablePrefix:    "readmegen_",
	}

	for _, option := range options {
		option(s)
	}

	s.analysisTable = fmt.Sprintf("%s.%sanalysis", s.databaseSchema, s.tablePrefix)

	return s
}

// Install makes sure all the tables are created and the schema is up to
// date. Safe to run several times.
func (s *Storage) Install(ctx context.Context) error {
	migrator, err := s.migrator()
	if err != nil {
		return err
	}

	if err := migrator.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Join(errors.New("error while performing migration on the database"), err)
	}

	return nil
}

// UnInstall completely removes the storage tables from the database.
func (s *Storage) UnInstall(ctx context.Context) error {
	migrator, err := s.migrator()
	if err != nil {
		return err
	}

	if err := migrator.Down(); err != nil && err != migrate.ErrNoChange {
		return errors.Join(errors.New("error while performing migration on the database"), err)
	}

	if _, err := s.db.Exec("DROP TABLE " + fmt.Sprintf("%s.%smigrations", s.databaseSchema, s.tablePrefix)); err != nil {
		return errors.Join(errors.New("failed to drop migrations table"), err)
	}

	return nil
}

func (s *Storage) migrator() (*migrate.Migrate, error) {
	migrationFiles, err := migrations.PrepareMigrations(s.databaseSchema, s.tablePrefix)
	if err != nil {
		return nil, errors.Join(errors.New("failed to prepare migration files"), err)
	}

	driver, err := migratepostgres.WithInstance(s.db, &migratepostgres.Config{
		SchemaName:      s.databaseSchema,
		MigrationsTable: fmt.Sprintf("%smigrations", s.tablePrefix),
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to create postgres migration driver"), err)
	}

	migrationsSource, err := iofs.New(migrationFiles, ".")
	if err != nil {
		return nil, errors.Join(errors.New("failed to open postgres migrations source"), err)
	}

	migrator, err := migrate.NewWithInstance("migrations", migrationsSource, s.databaseName, driver)
	if err != nil {
		return nil, errors.Join(errors.New("failed to create migrator"), err)
	}

	return migrator, nil
}

func (s *Storage) PutAnalysis(ctx context.Context, record *storage.Record) error {
	analysis := record.Analysis
	if analysis == nil {
		analysis = &analyzer.Analysis{RepoName: record.RepoName}
	}
	analysis = analysis.StripContent()

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return errors.Join(errors.New("failed to marshal analysis"), err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			repo_name, model, project_type, total_files, total_lines, analysis, readme, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
	`, s.analysisTable)

	var createdAt any
	if !record.CreatedAt.IsZero() {
		createdAt = record.CreatedAt
	}

	if _, err := s.db.ExecContext(ctx, query,
		record.RepoName,
		record.Model,
		analysis.ProjectType,
		analysis.TotalFiles,
		analysis.TotalLines,
		analysisJSON,
		record.Readme,
		createdAt,
	); err != nil {
		return errors.Join(errors.New("failed to insert analysis record to the database"), err)
	}

	return nil
}

func (s *Storage) ListAnalyses(ctx context.Context, repoName string, limit uint32) ([]storage.Record, error) {
	query := fmt.Sprintf(`
		SELECT repo_name, model, analysis, readme, created_at
		FROM %s
		WHERE ($1 = '' OR repo_name = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, s.analysisTable)

	rows, err := s.db.QueryContext(ctx, query, repoName, int64(limit))
	if err != nil {
		return nil, errors.Join(errors.New("failed to query analysis records"), err)
	}
	defer rows.Close()

	var records []storage.Record
	for rows.Next() {
		var record storage.Record
		var analysisJSON []byte
		if err := rows.Scan(&record.RepoName, &record.Model, &analysisJSON, &record.Readme, &record.CreatedAt); err != nil {
			return nil, errors.Join(errors.New("failed to scan analysis record"), err)
		}

		record.Analysis = &analyzer.Analysis{}
		if err := json.Unmarshal(analysisJSON, record.Analysis); err != nil {
			return nil, errors.Join(errors.New("failed to unmarshal stored analysis"), err)
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(errors.New("error while iterating analysis records"), err)
	}

	return records, nil
}
