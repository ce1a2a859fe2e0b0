package storage

import (
	"context"
	"errors"
	"time"

	"github.com/opengs/readmegen/analyzer"
)

// Record is a single README generation: the stripped analysis, the model
// that produced the README and the README itself.
type Record struct {
	RepoName string `json:"repoName"`
	// Model used for the readme generation
	Model string `json:"model"`
	// Analysis with file contents stripped
	Analysis *analyzer.Analysis `json:"analysis"`
	// Generated README markdown
	Readme string `json:"readme,omitempty"`
	// Timestamp when the record was created
	CreatedAt time.Time `json:"createdAt"`
}

var ErrRecordDoesntExist = errors.New("analysis record does not exist in storage")

// Storage keeps repository analyses and generated READMEs. How much history
// is retained is backend specific: a database backend keeps every record, a
// report file keeps only the latest one.
type Storage interface {
	// PutAnalysis stores a generation record
	PutAnalysis(ctx context.Context, record *Record) error
	// ListAnalyses returns retained records for a repository, newest first,
	// at most limit entries. Empty repoName matches every repository
	ListAnalyses(ctx context.Context, repoName string, limit uint32) ([]Record, error)
}
