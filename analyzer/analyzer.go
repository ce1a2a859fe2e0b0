package analyzer

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/opengs/readmegen/source"
)

// Default number of bytes of file content kept in the analysis.
const DefaultContentCap = 2000

// Default number of files analyzed at the same time.
const DefaultParallelism = 4

// Bytes read from the head of every file to decide if it is text or binary.
const sniffLen = 1024

type Option func(a *Analyzer)

// WithContentCap changes the number of content bytes kept per file.
func WithContentCap(limit int) Option {
	return func(a *Analyzer) {
		a.contentCap = limit
	}
}

// WithParallelism changes the number of files analyzed simultaneously.
func WithParallelism(parallelism int) Option {
	return func(a *Analyzer) {
		a.parallelism = parallelism
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// Analyzer walks a repository source and builds an [Analysis] of its text
// files. Binary files and unreadable files are skipped, never an error.
type Analyzer struct {
	contentCap  int
	parallelism int
	logger      *zap.Logger
}

func New(options ...Option) *Analyzer {
	a := &Analyzer{
		contentCap:  DefaultContentCap,
		parallelism: DefaultParallelism,
		logger:      zap.NewNop(),
	}

	for _, option := range options {
		option(a)
	}

	if a.parallelism < 1 {
		a.parallelism = 1
	}

	return a
}

func (a *Analyzer) Analyze(ctx context.Context, src source.Source) (*Analysis, error) {
	iterator, err := src.Open()
	if err != nil {
		return nil, errors.Join(errors.New("failed to open source"), err)
	}
	defer iterator.Close()

	var locker sync.Mutex
	var files []FileInfo
	dependencies := make(map[string]string)

	group, groupCtx := errgroup.WithContext(ctx)
	for worker := 0; worker < a.parallelism; worker++ {
		group.Go(func() error {
			for {
				handler, err := iterator.Next(groupCtx)
				if err != nil {
					if err == io.EOF {
						return nil
					}

					return errors.Join(errors.New("error while iterating over source files"), err)
				}

				info, content, err := a.analyzeFile(handler)
				if closeErr := handler.Close(); closeErr != nil {
					return errors.Join(errors.New("error during closing analyzed file"), closeErr)
				}
				if err != nil {
					a.logger.Warn("could not read file, skipping",
						zap.String("path", handler.Path()),
						zap.Error(err),
					)
					continue
				}
				if info == nil {
					a.logger.Debug("skipping binary file", zap.String("path", handler.Path()))
					continue
				}

				locker.Lock()
				files = append(files, *info)
				extractDependencies(info.Path, content, dependencies)
				locker.Unlock()
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.Join(errors.New("failed to analyze source"), err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	analysis := &Analysis{
		RepoName:     src.Name(),
		Files:        files,
		Dependencies: dependencies,
	}

	languages := make(map[string]bool)
	for _, file := range files {
		analysis.TotalFiles++
		analysis.TotalLines += file.Lines
		if file.Extension != "" {
			languages[file.Extension] = true
		}
		if isConfigFile(file.Path) {
			analysis.ConfigFiles = append(analysis.ConfigFiles, file.Path)
		}
	}
	for language := range languages {
		analysis.Languages = append(analysis.Languages, language)
	}
	sort.Strings(analysis.Languages)

	return analysis, nil
}

// analyzeFile reads a single file. Returns nil info for binary files. The
// second return value is the full untruncated content, needed for manifest
// parsing.
func (a *Analyzer) analyzeFile(handler source.FileHandler) (*FileInfo, string, error) {
	head := make([]byte, sniffLen)
	readed, err := io.ReadFull(handler, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", errors.Join(errors.New("failed to read file head"), err)
	}
	head = head[:readed]

	if !isTextPath(handler.Path()) && !isTextContent(head) {
		return nil, "", nil
	}

	rest, err := io.ReadAll(handler)
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to read file content"), err)
	}
	content := string(append(head, rest...))

	size := handler.Size()
	if size < 0 {
		size = int64(len(content))
	}

	info := &FileInfo{
		Path:      handler.Path(),
		Size:      size,
		Lines:     countLines(content),
		Extension: extension(handler.Path()),
		Content:   truncate(content, a.contentCap),
	}
	info.Key = isKeyFile(info.Path, info.Content)

	return info, content, nil
}

func countLines(data string) int {
	lines := 0
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			lines++
		}
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		lines++
	}
	return lines
}

func truncate(data string, limit int) string {
	if limit > 0 && len(data) > limit {
		return data[:limit]
	}
	return data
}
