// Package fsjson stores the latest analysis record as a JSON report on disk,
// the way a CLI run leaves a repository_analysis.json next to the generated
// README.
package fsjson

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/opengs/readmegen/storage"
)

// Name of the report file inside the target directory.
const ReportFileName = "repository_analysis.json"

type FSJson struct {
	dir    string
	locker sync.Mutex
}

func New(dir string) *FSJson {
	return &FSJson{
		dir: dir,
	}
}

func (f *FSJson) reportPath() string {
	return filepath.Join(f.dir, ReportFileName)
}

func (f *FSJson) PutAnalysis(ctx context.Context, record *storage.Record) error {
	f.locker.Lock()
	defer f.locker.Unlock()

	if record.Analysis != nil {
		record = &storage.Record{
			RepoName:  record.RepoName,
			Model:     record.Model,
			Analysis:  record.Analysis.StripContent(),
			Readme:    record.Readme,
			CreatedAt: record.CreatedAt,
		}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Join(errors.New("failed to marshal analysis record"), err)
	}

	if err := os.WriteFile(f.reportPath(), data, 0644); err != nil {
		return errors.Join(errors.New("failed to write analysis report"), err)
	}

	return nil
}

func (f *FSJson) ListAnalyses(ctx context.Context, repoName string, limit uint32) ([]storage.Record, error) {
	f.locker.Lock()
	defer f.locker.Unlock()

	data, err := os.ReadFile(f.reportPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Join(errors.New("failed to read analysis report"), err)
	}

	var record storage.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Join(errors.New("failed to unmarshal analysis report"), err)
	}

	if repoName != "" && record.RepoName != repoName {
		return nil, nil
	}
	if limit == 0 {
		return nil, nil
	}

	return []storage.Record{record}, nil
}
