package groq

import "net/http"

type Config func(g *Groq)

func WithBaseURL(baseURL string) Config {
	return func(g *Groq) {
		g.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient *http.Client) Config {
	return func(g *Groq) {
		g.httpClient = httpClient
	}
}

func WithTemperature(temperature float64) Config {
	return func(g *Groq) {
		g.temperature = temperature
	}
}

func WithMaxTokens(maxTokens uint32) Config {
	return func(g *Groq) {
		g.maxTokens = maxTokens
	}
}

// WithMaxRetries changes how many times a failed request is retried on
// rate limits and server errors.
func WithMaxRetries(maxRetries int) Config {
	return func(g *Groq) {
		g.maxRetries = maxRetries
	}
}
