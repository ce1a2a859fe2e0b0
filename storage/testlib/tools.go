package testlib

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/storage"
)

func RandString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz" + "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func RandSchemaName(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz"

	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func sampleRecord(repoName string) *storage.Record {
	return &storage.Record{
		RepoName: repoName,
		Model:    "llama-3.1-8b-instant",
		Analysis: &analyzer.Analysis{
			RepoName:    repoName,
			TotalFiles:  2,
			TotalLines:  10,
			Languages:   []string{".go"},
			ProjectType: "CLI Tool",
			Files: []analyzer.FileInfo{
				{Path: "main.go", Lines: 8, Content: "package main\n"},
				{Path: "go.mod", Lines: 2},
			},
		},
		Readme:    "# " + repoName + "\n",
		CreatedAt: time.Now().UTC(),
	}
}

// TestStorage runs the behavioral suite every storage backend must pass.
func TestStorage(t *testing.T, s storage.Storage) {
	t.Run("PutAndList", func(t *testing.T) {
		repoName := RandString(16)

		if err := s.PutAnalysis(context.Background(), sampleRecord(repoName)); err != nil {
			t.Error(err.Error())
			return
		}

		records, err := s.ListAnalyses(context.Background(), repoName, 10)
		if err != nil {
			t.Error(err.Error())
			return
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
			return
		}
		if records[0].RepoName != repoName {
			t.Errorf("unexpected repo name: %s", records[0].RepoName)
		}
		if records[0].Analysis == nil || records[0].Analysis.TotalFiles != 2 {
			t.Error("stored analysis not round tripped")
		}
	})

	t.Run("ContentStripped", func(t *testing.T) {
		repoName := RandString(16)

		if err := s.PutAnalysis(context.Background(), sampleRecord(repoName)); err != nil {
			t.Error(err.Error())
			return
		}

		records, err := s.ListAnalyses(context.Background(), repoName, 1)
		if err != nil {
			t.Error(err.Error())
			return
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
			return
		}
		for _, file := range records[0].Analysis.Files {
			if file.Content != "" {
				t.Errorf("file %s content must be stripped before storing", file.Path)
			}
		}
	})

	t.Run("ListUnknownRepo", func(t *testing.T) {
		records, err := s.ListAnalyses(context.Background(), RandString(16), 10)
		if err != nil {
			t.Error(err.Error())
			return
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}
