// Package detect asks the LLM to identify frameworks, technologies and the
// project type of an analyzed repository.
package detect

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/opengs/readmegen/analyzer"
	"github.com/opengs/readmegen/llm"
	"github.com/opengs/readmegen/prompt"
)

var ErrBadResponse = errors.New("model response does not contain a JSON object")

// Result of the AI detection.
type Result struct {
	Frameworks   []string `json:"frameworks"`
	Technologies []string `json:"technologies"`
	ProjectType  string   `json:"project_type"`
}

type Detector struct {
	completer llm.Completer
	builder   *prompt.Builder
}

func New(completer llm.Completer, builder *prompt.Builder) *Detector {
	return &Detector{
		completer: completer,
		builder:   builder,
	}
}

// Detect sends the detection prompt and parses the reply. Models sometimes
// wrap the JSON in prose despite the instructions, so the outermost object
// is extracted before unmarshalling.
func (d *Detector) Detect(ctx context.Context, analysis *analyzer.Analysis) (*Result, error) {
	systemPrompt, userPrompt := d.builder.DetectionPrompt(analysis)

	completion, err := d.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, errors.Join(errors.New("detection request failed"), err)
	}

	result, err := parseResult(completion)
	if err != nil {
		return nil, errors.Join(errors.New("failed to parse detection response"), err)
	}

	return result, nil
}

// Apply copies the detection result into the analysis.
func Apply(result *Result, analysis *analyzer.Analysis) {
	if result == nil {
		return
	}
	analysis.Frameworks = result.Frameworks
	analysis.Technologies = result.Technologies
	analysis.ProjectType = result.ProjectType
}

func parseResult(completion string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(completion), &result); err == nil {
		return &result, nil
	}

	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return nil, ErrBadResponse
	}

	if err := json.Unmarshal([]byte(completion[start:end+1]), &result); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}

	return &result, nil
}
