package readmegen

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/detect"
	"github.com/opengs/readmegen/llm"
	"github.com/opengs/readmegen/prompt"
	"github.com/opengs/readmegen/source"
	"github.com/opengs/readmegen/storage"
)

var ErrEmptyRepository = errors.New("repository contains no text files to analyze")

type Option func(e *Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAnalyzer replaces the default repository analyzer.
func WithAnalyzer(a *analyzer.Analyzer) Option {
	return func(e *Engine) {
		e.analyzer = a
	}
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b *prompt.Builder) Option {
	return func(e *Engine) {
		e.builder = b
	}
}

// WithStorage records every generation in the provided storage.
func WithStorage(s storage.Storage) Option {
	return func(e *Engine) {
		e.storage = s
	}
}

// WithDetection toggles the AI framework detection step. Enabled by default.
func WithDetection(enabled bool) Option {
	return func(e *Engine) {
		e.detection = enabled
	}
}

// Result of a single generation.
type Result struct {
	Analysis *analyzer.Analysis
	Readme   string
}

// Engine wires the generation pipeline together:
// source -> analyzer -> detection -> prompt -> completer.
type Engine struct {
	source    source.Source
	analyzer  *analyzer.Analyzer
	builder   *prompt.Builder
	completer llm.Completer
	storage   storage.Storage
	logger    *zap.Logger
	detection bool
}

func New(src source.Source, completer llm.Completer, options ...Option) *Engine {
	e := &Engine{
		source:    src,
		completer: completer,
		logger:    zap.NewNop(),
		detection: true,
	}

	for _, option := range options {
		option(e)
	}

	if e.analyzer == nil {
		e.analyzer = analyzer.New(analyzer.WithLogger(e.logger))
	}
	if e.builder == nil {
		e.builder = prompt.New()
	}

	return e
}

// Generate runs the pipeline and returns the generated README together with
// the repository analysis. Nothing is written to disk.
func (e *Engine) Generate(ctx context.Context) (*Result, error) {
	e.logger.Info("analyzing repository", zap.String("repo", e.source.Name()))

	analysis, err := e.analyzer.Analyze(ctx, e.source)
	if err != nil {
		return nil, errors.Join(errors.New("failed to analyze repository"), err)
	}
	if analysis.TotalFiles == 0 {
		return nil, ErrEmptyRepository
	}

	e.logger.Info("repository analyzed",
		zap.Int("files", analysis.TotalFiles),
		zap.Int("lines", analysis.TotalLines),
		zap.Strings("languages", analysis.Languages),
	)

	if e.detection {
		result, err := detect.New(e.completer, e.builder).Detect(ctx, analysis)
		if err != nil {
			// Detection is best effort, the readme prompt works without it
			e.logger.Warn("framework detection failed", zap.Error(err))
		} else {
			detect.Apply(result, analysis)
			e.logger.Info("frameworks detected",
				zap.Strings("frameworks", analysis.Frameworks),
				zap.String("projectType", analysis.ProjectType),
			)
		}
	}

	systemPrompt, userPrompt := e.builder.ReadmePrompt(analysis)

	e.logger.Info("generating readme", zap.String("model", e.completer.ModelName()))
	readme, err := e.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, errors.Join(errors.New("failed to generate readme"), err)
	}
	if readme == "" {
		return nil, errors.New("model returned empty readme")
	}

	if e.storage != nil {
		record := &storage.Record{
			RepoName:  analysis.RepoName,
			Model:     e.completer.ModelName(),
			Analysis:  analysis,
			Readme:    readme,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.storage.PutAnalysis(ctx, record); err != nil {
			return nil, errors.Join(errors.New("failed to store analysis record"), err)
		}
	}

	return &Result{Analysis: analysis, Readme: readme}, nil
}

// Run generates the README and writes it to outputPath.
func (e *Engine) Run(ctx context.Context, outputPath string) error {
	result, err := e.Generate(ctx)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(result.Readme), 0644); err != nil {
		return errors.Join(errors.New("failed to write generated readme"), err)
	}

	e.logger.Info("readme generated", zap.String("output", outputPath))
	return nil
}
