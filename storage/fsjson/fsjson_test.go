package fsjson

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/storage"
)

func testRecord() *storage.Record {
	return &storage.Record{
		RepoName: "myrepo",
		Model:    "llama-3.1-8b-instant",
		Analysis: &analyzer.Analysis{
			RepoName:   "myrepo",
			TotalFiles: 1,
			Files: []analyzer.FileInfo{
				{Path: "main.go", Lines: 3, Content: "package main\n"},
			},
		},
		Readme:    "# myrepo\n",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFSJson_PutAndList(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if err := store.PutAnalysis(context.Background(), testRecord()); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	records, err := store.ListAnalyses(context.Background(), "myrepo", 10)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Model != "llama-3.1-8b-instant" {
		t.Errorf("unexpected model: %s", records[0].Model)
	}
}

func TestFSJson_StripsFileContent(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if err := store.PutAnalysis(context.Background(), testRecord()); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportFileName))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}

	var record storage.Record
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if record.Analysis.Files[0].Content != "" {
		t.Error("report must not contain file contents")
	}
	if record.Analysis.Files[0].Lines != 3 {
		t.Error("report must keep file metadata")
	}
}

func TestFSJson_KeepsOnlyLatestRecord(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if err := store.PutAnalysis(context.Background(), testRecord()); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	newer := testRecord()
	newer.Readme = "# myrepo, regenerated\n"
	newer.CreatedAt = newer.CreatedAt.Add(time.Hour)
	if err := store.PutAnalysis(context.Background(), newer); err != nil {
		t.Fatalf("second PutAnalysis failed: %v", err)
	}

	records, err := store.ListAnalyses(context.Background(), "myrepo", 10)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("report retains only the latest record, got %d", len(records))
	}
	if records[0].Readme != "# myrepo, regenerated\n" {
		t.Errorf("expected the latest record, got readme %q", records[0].Readme)
	}
}

func TestFSJson_ListMissingReport(t *testing.T) {
	store := New(t.TempDir())

	records, err := store.ListAnalyses(context.Background(), "any", 10)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if records != nil {
		t.Errorf("expected no records, got %v", records)
	}
}

func TestFSJson_ListOtherRepo(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	if err := store.PutAnalysis(context.Background(), testRecord()); err != nil {
		t.Fatalf("PutAnalysis failed: %v", err)
	}

	records, err := store.ListAnalyses(context.Background(), "otherrepo", 10)
	if err != nil {
		t.Fatalf("ListAnalyses failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records for other repo, got %d", len(records))
	}
}
