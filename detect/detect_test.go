package detect

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/llm/testlib"
	"github.com/opengs/readmegen/prompt"
)

func testAnalysis() *analyzer.Analysis {
	return &analyzer.Analysis{
		RepoName:   "detectme",
		TotalFiles: 1,
		Languages:  []string{".js"},
		Files: []analyzer.FileInfo{
			{Path: "package.json", Content: `{"dependencies":{"express":"^4.0.0"}}`, Key: true},
		},
	}
}

func TestDetector_Detect(t *testing.T) {
	fake := &testlib.Fake{Responses: []string{
		`{"frameworks":["Express.js"],"technologies":["Node.js","Docker"],"project_type":"Web API"}`,
	}}

	result, err := New(fake, prompt.New()).Detect(context.Background(), testAnalysis())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(result.Frameworks) != 1 || result.Frameworks[0] != "Express.js" {
		t.Errorf("unexpected frameworks: %v", result.Frameworks)
	}
	if result.ProjectType != "Web API" {
		t.Errorf("unexpected project type: %s", result.ProjectType)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 LLM call, got %d", len(calls))
	}
	if !strings.Contains(calls[0].UserPrompt, "Repository: detectme") {
		t.Error("detection prompt missing repository context")
	}
	if !strings.Contains(calls[0].SystemPrompt, "valid JSON only") {
		t.Error("unexpected system prompt")
	}
}

func TestDetector_ExtractsWrappedJSON(t *testing.T) {
	fake := &testlib.Fake{Responses: []string{
		"Sure! Here is the analysis you asked for:\n```json\n" +
			`{"frameworks":["Django"],"technologies":[],"project_type":"Web Application"}` +
			"\n```\nLet me know if you need anything else.",
	}}

	result, err := New(fake, prompt.New()).Detect(context.Background(), testAnalysis())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(result.Frameworks) != 1 || result.Frameworks[0] != "Django" {
		t.Errorf("unexpected frameworks: %v", result.Frameworks)
	}
}

func TestDetector_BadResponse(t *testing.T) {
	fake := &testlib.Fake{Responses: []string{"I could not analyze this repository."}}

	_, err := New(fake, prompt.New()).Detect(context.Background(), testAnalysis())
	if !errors.Is(err, ErrBadResponse) {
		t.Errorf("expected ErrBadResponse, got: %v", err)
	}
}

func TestDetector_CompleterError(t *testing.T) {
	wantErr := errors.New("network down")
	fake := &testlib.Fake{Err: wantErr}

	_, err := New(fake, prompt.New()).Detect(context.Background(), testAnalysis())
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped completer error, got: %v", err)
	}
}

func TestApply(t *testing.T) {
	analysis := testAnalysis()
	Apply(&Result{
		Frameworks:   []string{"Express.js"},
		Technologies: []string{"Node.js"},
		ProjectType:  "Web API",
	}, analysis)

	if analysis.ProjectType != "Web API" {
		t.Errorf("unexpected project type: %s", analysis.ProjectType)
	}
	if len(analysis.Frameworks) != 1 || len(analysis.Technologies) != 1 {
		t.Error("detection result not applied")
	}

	Apply(nil, analysis)
	if analysis.ProjectType != "Web API" {
		t.Error("nil result must not reset the analysis")
	}
}
