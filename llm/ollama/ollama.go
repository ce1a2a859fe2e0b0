// Package ollama implements [llm.Completer] over a local Ollama server,
// allowing README generation without any API key.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type Ollama struct {
	baseURL     string
	httpClient  *http.Client
	model       string
	temperature float64
}

func New(model string, config ...Config) *Ollama {
	ollama := &Ollama{
		baseURL:     "http://localhost:11434/api",
		httpClient:  http.DefaultClient,
		model:       model,
		temperature: 0.7,
	}

	for _, cfg := range config {
		cfg(ollama)
	}

	return ollama
}

func (o *Ollama) PullModel(ctx context.Context) error {
	reqBody, err := json.Marshal(map[string]any{
		"name":   o.model,
		"stream": false,
	})
	if err != nil {
		return errors.Join(errors.New("couldn't marshal request body"), err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/pull", bytes.NewBuffer(reqBody))
	if err != nil {
		return errors.Join(errors.New("couldn't create request"), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return errors.Join(errors.New("couldn't send request"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("bad status code from ollama server: code [%d], body [%s]", resp.StatusCode, string(text))
	}

	var responseData struct {
		Status string `json:"status"`
	}
	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(errors.New("failed to read response body from ollama server"), err)
	}
	if err := json.Unmarshal(responseBytes, &responseData); err != nil {
		return errors.Join(errors.New("failed to unmarshall response body"), err)
	}

	if responseData.Status != "success" {
		return fmt.Errorf("bad response status: %s", responseData.Status)
	}

	return nil
}

func (o *Ollama) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	reqBody, err := json.Marshal(map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"stream": false,
		"options": map[string]any{
			"temperature": o.temperature,
		},
	})
	if err != nil {
		return "", errors.Join(errors.New("couldn't marshal request body"), err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", errors.Join(errors.New("couldn't create request"), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(errors.New("couldn't send request"), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("error response from the chat API: " + resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Join(errors.New("couldn't read response body"), err)
	}
	var ollamaResponse struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(body, &ollamaResponse); err != nil {
		return "", errors.Join(errors.New("couldn't unmarshal response body"), err)
	}

	if ollamaResponse.Message.Content == "" {
		return "", errors.New("no completion found in the response")
	}

	return ollamaResponse.Message.Content, nil
}

func (o *Ollama) ModelName() string {
	return o.model
}
