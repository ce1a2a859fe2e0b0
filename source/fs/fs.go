package fs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	pathlib "path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/opengs/readmegen/source"
)

// Directories that never contain code worth analyzing: package caches,
// VCS metadata, build outputs, virtual environments.
var defaultSkipDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	".svn":          true,
	".hg":           true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"venv":          true,
	"env":           true,
	"build":         true,
	"dist":          true,
	".next":         true,
	".nuxt":         true,
	"target":        true,
	"bin":           true,
	"obj":           true,
	".idea":         true,
	".vscode":       true,
	".vs":           true,
	"coverage":      true,
	"logs":          true,
	"log":           true,
	"tmp":           true,
	"temp":          true,
	"vendor":        true,
}

type Option func(f *FS)

// WithIncludeGlobs limits iteration to files matching at least one of the
// provided doublestar patterns.
func WithIncludeGlobs(globs []string) Option {
	return func(f *FS) {
		f.includeGlobs = globs
	}
}

// WithExcludeGlobs drops files matching any of the provided doublestar patterns.
func WithExcludeGlobs(globs []string) Option {
	return func(f *FS) {
		f.excludeGlobs = globs
	}
}

// WithSkipDirs replaces the default list of pruned directory names.
func WithSkipDirs(names []string) Option {
	return func(f *FS) {
		f.skipDirs = make(map[string]bool, len(names))
		for _, name := range names {
			f.skipDirs[strings.ToLower(name)] = true
		}
	}
}

type FS struct {
	fs   fs.FS
	path string
	name string

	skipDirs     map[string]bool
	includeGlobs []string
	excludeGlobs []string
}

func New(fsys fs.FS, path string, name string, options ...Option) *FS {
	f := &FS{
		fs:       fsys,
		path:     path,
		name:     name,
		skipDirs: defaultSkipDirs,
	}

	for _, option := range options {
		option(f)
	}

	return f
}

func (f *FS) Name() string {
	return f.name
}

func (f *FS) Open() (source.Iterator, error) {
	return &fsIterator{
		src:    f,
		walker: newWalker(f.fs, f.path),
	}, nil
}

// skipDir reports whether a directory must be pruned. The repository root
// itself is never pruned even when it is a dot directory.
func (f *FS) skipDir(name string) bool {
	return f.skipDirs[strings.ToLower(name)] || strings.HasPrefix(name, ".")
}

// accept applies include and exclude globs to a repository relative path.
func (f *FS) accept(relPath string) (bool, error) {
	for _, glob := range f.excludeGlobs {
		matched, err := doublestar.Match(glob, relPath)
		if err != nil {
			return false, errors.Join(errors.New("bad exclude pattern"), err)
		}
		if matched {
			return false, nil
		}
	}

	if len(f.includeGlobs) == 0 {
		return true, nil
	}
	for _, glob := range f.includeGlobs {
		matched, err := doublestar.Match(glob, relPath)
		if err != nil {
			return false, errors.Join(errors.New("bad include pattern"), err)
		}
		if matched {
			return true, nil
		}
	}

	return false, nil
}

// relPath converts a walker path to a path relative to the repository root.
func (f *FS) relPath(walkPath string) string {
	if f.path == "." {
		return walkPath
	}
	return strings.TrimPrefix(walkPath, f.path+"/")
}

type fsIterator struct {
	src    *FS
	walker *walker
	locker sync.Mutex
}

func (i *fsIterator) Next(ctx context.Context) (source.FileHandler, error) {
	i.locker.Lock()
	defer i.locker.Unlock()

	for i.walker.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if i.walker.Err() != nil {
			return nil, i.walker.Err()
		}

		entry := i.walker.Entry()
		if entry.IsDir() {
			if i.walker.Path() != i.src.path && i.src.skipDir(entry.Name()) {
				i.walker.SkipDir()
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		relPath := i.src.relPath(i.walker.Path())
		accepted, err := i.src.accept(relPath)
		if err != nil {
			return nil, err
		}
		if !accepted {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			return nil, errors.Join(errors.New("error while reading file info"), err)
		}

		handler := &fsFileHandler{
			fs:       i.src.fs,
			walkPath: i.walker.Path(),
			path:     relPath,
			size:     fileInfo.Size(),
		}
		return handler, nil
	}

	if i.walker.Err() != nil {
		return nil, i.walker.Err()
	}

	return nil, io.EOF
}

func (i *fsIterator) Close() error {
	return nil
}

type fsFileHandler struct {
	fs       fs.FS
	fp       fs.File
	walkPath string
	path     string
	size     int64
}

func (h *fsFileHandler) Path() string {
	return pathlib.Clean(h.path)
}

func (h *fsFileHandler) Size() int64 {
	return h.size
}

func (h *fsFileHandler) Close() error {
	if h.fp != nil {
		return h.fp.Close()
	}
	return nil
}

func (h *fsFileHandler) Read(p []byte) (n int, err error) {
	if h.fp == nil {
		fp, err := h.fs.Open(h.walkPath)
		if err != nil {
			return 0, errors.Join(errors.New("failed to open file for reading"), err)
		}
		h.fp = fp
	}

	return h.fp.Read(p)
}
