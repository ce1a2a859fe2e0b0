package testlib

import (
	"context"
	"sync"
	"testing"

	"github.com/opengs/readmegen/llm"
)

// Call records the prompts of a single Complete invocation.
type Call struct {
	SystemPrompt string
	UserPrompt   string
}

// Fake is a scripted [llm.Completer] for tests. Responses are returned in
// order, the last one repeats once the script is exhausted.
type Fake struct {
	Model     string
	Responses []string
	Err       error

	locker sync.Mutex
	calls  []Call
}

func (f *Fake) ModelName() string {
	if f.Model == "" {
		return "fake-model"
	}
	return f.Model
}

func (f *Fake) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	f.locker.Lock()
	defer f.locker.Unlock()

	f.calls = append(f.calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) == 0 {
		return "", nil
	}

	idx := len(f.calls) - 1
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	return f.Responses[idx], nil
}

func (f *Fake) Calls() []Call {
	f.locker.Lock()
	defer f.locker.Unlock()

	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)
	return calls
}

// TestCompleter runs the behavioral checks every completer must pass.
// Used by env-gated integration tests against real backends.
func TestCompleter(t *testing.T, c llm.Completer) {
	if c.ModelName() == "" {
		t.Error("completer must report a model name")
	}

	completion, err := c.Complete(context.Background(), "You answer with a single word.", "Say hello.")
	if err != nil {
		t.Error(err.Error())
		return
	}
	if completion == "" {
		t.Error("completer returned empty completion")
	}
}
