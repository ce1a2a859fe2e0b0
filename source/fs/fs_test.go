package fs

import (
	"context"
	"io"
	"io/fs"
	"sort"
	"testing"
	"testing/fstest"
)

func collectPaths(t *testing.T, f *FS) []string {
	t.Helper()

	iter, err := f.Open()
	if err != nil {
		t.Fatalf("failed to open FS: %v", err)
	}
	defer iter.Close()

	var seen []string
	for {
		handler, err := iter.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error from Next: %v", err)
		}
		seen = append(seen, handler.Path())
		handler.Close()
	}

	sort.Strings(seen)
	return seen
}

func TestFS_Name(t *testing.T) {
	f := New(fstest.MapFS{}, ".", "myrepo")
	if f.Name() != "myrepo" {
		t.Errorf("expected name myrepo, got %s", f.Name())
	}
}

func TestFS_IterateFiles(t *testing.T) {
	memFS := fstest.MapFS{
		"main.go":        &fstest.MapFile{Data: []byte("package main")},
		"docs/guide.md":  &fstest.MapFile{Data: []byte("# guide")},
		"docs/notes.txt": &fstest.MapFile{Data: []byte("notes")},
	}

	f := New(memFS, ".", "repo")
	seen := collectPaths(t, f)

	expected := []string{"docs/guide.md", "docs/notes.txt", "main.go"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %d files, saw %d: %v", len(expected), len(seen), seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("expected %s at position %d, got %s", expected[i], i, seen[i])
		}
	}
}

func TestFS_ReadContent(t *testing.T) {
	memFS := fstest.MapFS{
		"file.txt": &fstest.MapFile{Data: []byte("hello world")},
	}

	f := New(memFS, ".", "repo")
	iter, err := f.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer iter.Close()

	handler, err := iter.Next(context.Background())
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	defer handler.Close()

	data, err := io.ReadAll(handler)
	if err != nil {
		t.Fatalf("failed to read data: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("unexpected content: %s", data)
	}
	if handler.Size() != int64(len("hello world")) {
		t.Errorf("unexpected size: %d", handler.Size())
	}
}

func TestFS_SkipsVendorAndDotDirectories(t *testing.T) {
	memFS := fstest.MapFS{
		"main.go":                  &fstest.MapFile{Data: []byte("package main")},
		"node_modules/lib/mod.js":  &fstest.MapFile{Data: []byte("js")},
		".git/config":              &fstest.MapFile{Data: []byte("cfg")},
		"vendor/dep/dep.go":        &fstest.MapFile{Data: []byte("package dep")},
		".github/workflows/ci.yml": &fstest.MapFile{Data: []byte("ci")},
	}

	f := New(memFS, ".", "repo")
	seen := collectPaths(t, f)

	if len(seen) != 1 || seen[0] != "main.go" {
		t.Errorf("expected only main.go, got: %v", seen)
	}
}

func TestFS_CustomSkipDirs(t *testing.T) {
	memFS := fstest.MapFS{
		"src/app.go":     &fstest.MapFile{Data: []byte("package app")},
		"vendor/v.go":    &fstest.MapFile{Data: []byte("package v")},
		"generated/g.go": &fstest.MapFile{Data: []byte("package g")},
	}

	f := New(memFS, ".", "repo", WithSkipDirs([]string{"generated"}))
	seen := collectPaths(t, f)

	expected := []string{"src/app.go", "vendor/v.go"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
}

func TestFS_IncludeExcludeGlobs(t *testing.T) {
	memFS := fstest.MapFS{
		"a.go":          &fstest.MapFile{Data: []byte("package a")},
		"a_test.go":     &fstest.MapFile{Data: []byte("package a")},
		"sub/b.go":      &fstest.MapFile{Data: []byte("package b")},
		"sub/README.md": &fstest.MapFile{Data: []byte("# b")},
	}

	f := New(memFS, ".", "repo",
		WithIncludeGlobs([]string{"**/*.go"}),
		WithExcludeGlobs([]string{"**/*_test.go"}),
	)
	seen := collectPaths(t, f)

	expected := []string{"a.go", "sub/b.go"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], seen[i])
		}
	}
}

func TestFS_SubdirectoryRoot(t *testing.T) {
	memFS := fstest.MapFS{
		"project/main.go":  &fstest.MapFile{Data: []byte("package main")},
		"project/util.go":  &fstest.MapFile{Data: []byte("package main")},
		"unrelated/x.go":   &fstest.MapFile{Data: []byte("package x")},
		"project/sub/s.go": &fstest.MapFile{Data: []byte("package sub")},
	}

	f := New(memFS, "project", "project")
	seen := collectPaths(t, f)

	expected := []string{"main.go", "sub/s.go", "util.go"}
	if len(seen) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, seen)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], seen[i])
		}
	}
}

func TestFS_EmptyFS(t *testing.T) {
	f := New(fstest.MapFS{}, ".", "repo")

	iter, err := f.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer iter.Close()

	_, err = iter.Next(context.Background())
	if err != io.EOF {
		t.Errorf("expected io.EOF, got: %v", err)
	}
}

func TestFS_SkipsIrregularFiles(t *testing.T) {
	memFS := fstest.MapFS{
		"real.txt": &fstest.MapFile{Data: []byte("data")},
		"link":     &fstest.MapFile{Mode: fs.ModeSymlink},
	}

	f := New(memFS, ".", "repo")
	seen := collectPaths(t, f)

	if len(seen) != 1 || seen[0] != "real.txt" {
		t.Errorf("expected only real.txt, got: %v", seen)
	}
}
