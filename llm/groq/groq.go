// Package groq implements [llm.Completer] over the Groq chat completions
// API. The API is OpenAI compatible, so the client also works against any
// service exposing the same endpoint.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
)

// Default model, fast and good for documentation tasks.
const DefaultModel = "llama-3.1-8b-instant"

var ErrMissingAPIKey = errors.New("groq api key is not configured")

type Groq struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	model       string
	temperature float64
	maxTokens   uint32
	maxRetries  int
}

func New(model string, apiKey string, config ...Config) *Groq {
	groq := &Groq{
		baseURL:     "https://api.groq.com/openai/v1",
		httpClient:  http.DefaultClient,
		model:       model,
		apiKey:      apiKey,
		temperature: 0.7,
		maxTokens:   4000,
		maxRetries:  3,
	}

	for _, cfg := range config {
		cfg(groq)
	}

	return groq
}

func (g *Groq) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	bodyData := map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  g.maxTokens,
		"temperature": g.temperature,
	}

	reqBody, err := json.Marshal(bodyData)
	if err != nil {
		return "", errors.Join(errors.New("couldn't marshal request body"), err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff before retrying rate limits and server errors
			select {
			case <-time.After(time.Duration(1<<uint(attempt-1)) * time.Second):
			case <-ctx.Done():
				return "", errors.Join(ctx.Err(), lastErr)
			}
		}

		completion, retryable, err := g.complete(ctx, reqBody)
		if err == nil {
			return completion, nil
		}

		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", errors.Join(errors.New("request failed after retries"), lastErr)
}

func (g *Groq) complete(ctx context.Context, reqBody []byte) (completion string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", false, errors.Join(errors.New("couldn't create request"), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, errors.Join(errors.New("couldn't send request"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, errors.New("error response from the completions API: " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, errors.Join(errors.New("couldn't read response body"), err)
	}

	var groqResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &groqResponse); err != nil {
		return "", false, errors.Join(errors.New("couldn't unmarshal response body"), err)
	}

	if len(groqResponse.Choices) == 0 || groqResponse.Choices[0].Message.Content == "" {
		return "", false, errors.New("no completion found in the response")
	}

	return groqResponse.Choices[0].Message.Content, false, nil
}

func (g *Groq) ModelName() string {
	return g.model
}
