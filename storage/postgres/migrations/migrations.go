package migrations

import (
	"embed"
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/psanford/memfs"
)

//go:embed *.sql
var migrations embed.FS

// PrepareMigrations renders the embedded migration files for a concrete
// schema and table prefix and returns them as an in-memory filesystem ready
// for the migrator.
func PrepareMigrations(schema string, prefix string) (fs.FS, error) {
	rootFS := memfs.New()

	entries, err := migrations.ReadDir(".")
	if err != nil {
		return nil, errors.Join(errors.New("failed to read migrations directory"), err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		file, err := migrations.Open(entry.Name())
		if err != nil {
			return nil, err
		}
		fileData, err := io.ReadAll(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		file.Close()

		newData := strings.ReplaceAll(string(fileData), "SCHEMA_NAME", schema)
		newData = strings.ReplaceAll(newData, "TABLE_PREFIX_", prefix)

		if err := rootFS.WriteFile(entry.Name(), []byte(newData), 0755); err != nil {
			return nil, err
		}
	}

	return rootFS, nil
}
