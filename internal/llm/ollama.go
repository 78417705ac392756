package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaConfig carries the settings for the local backend.
type OllamaConfig struct {
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// Ollama talks to a local Ollama server over its HTTP API.
type Ollama struct {
	baseURL      string
	defaultModel string
	httpClient   *http.Client
}

// OllamaOption customizes the client. Tests inject stub transports this way.
type OllamaOption func(*Ollama)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) OllamaOption {
	return func(o *Ollama) { o.httpClient = c }
}

// NewOllama builds the local backend client. The HTTP client timeout backs
// up the per-call context deadline.
func NewOllama(cfg OllamaConfig, opts ...OllamaOption) *Ollama {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	o := &Ollama{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel: cfg.DefaultModel,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: timeout}
	}
	return o
}

func (o *Ollama) Name() string { return "ollama" }

// BaseURL reports the configured server address for status payloads.
func (o *Ollama) BaseURL() string { return o.baseURL }

// DefaultModel reports the model used when requests do not name one.
func (o *Ollama) DefaultModel() string { return o.defaultModel }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int32   `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Chat posts the conversation to /api/chat and returns the reply content.
func (o *Ollama) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	model := opts.Model
	if model == "" {
		model = o.defaultModel
	}
	body := ollamaChatRequest{
		Model:  model,
		Stream: false,
		Options: ollamaOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", &UnavailableError{Backend: o.Name(), Reason: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnavailableError{Backend: o.Name(), Reason: "reading response: " + err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		if modelMissing(raw) {
			return "", &ModelNotFoundError{
				Model:     model,
				Available: o.knownModels(ctx),
				Hint:      fmt.Sprintf("pull it with: ollama pull %s", model),
			}
		}
		return "", &UnavailableError{
			Backend: o.Name(),
			Reason:  fmt.Sprintf("upstream status %d: %s", resp.StatusCode, trimBody(raw)),
		}
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &UnavailableError{Backend: o.Name(), Reason: "invalid response payload"}
	}
	if parsed.Message.Content == "" {
		return "", &UnavailableError{Backend: o.Name(), Reason: "empty completion"}
	}
	return parsed.Message.Content, nil
}

// Probe lists the installed models, the cheapest call the server answers.
func (o *Ollama) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return &UnavailableError{Backend: o.Name(), Reason: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &UnavailableError{Backend: o.Name(), Reason: fmt.Sprintf("tags endpoint returned %d", resp.StatusCode)}
	}
	return nil
}

// Models returns the names of the installed models.
func (o *Ollama) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Backend: o.Name(), Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &UnavailableError{Backend: o.Name(), Reason: fmt.Sprintf("tags endpoint returned %d", resp.StatusCode)}
	}
	var parsed ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &UnavailableError{Backend: o.Name(), Reason: "invalid tags payload"}
	}
	names := make([]string, 0, len(parsed.Models))
	for _, m := range parsed.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// knownModels is the best-effort variant used to enrich not-found errors.
func (o *Ollama) knownModels(ctx context.Context) []string {
	names, err := o.Models(ctx)
	if err != nil {
		return nil
	}
	return names
}

// modelMissing matches the error bodies Ollama returns for absent models.
func modelMissing(body []byte) bool {
	msg := strings.ToLower(string(body))
	if !strings.Contains(msg, "model") {
		return false
	}
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

func trimBody(raw []byte) string {
	s := strings.Join(strings.Fields(string(raw)), " ")
	const limit = 200
	if len(s) > limit {
		return s[:limit] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
