package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GoogleAIConfig carries the settings for the cloud backend.
type GoogleAIConfig struct {
	APIKey         string
	DefaultModel   string
	FallbackModels []string
}

// GoogleAI talks to Google AI Studio through the Gemini SDK. A client built
// without an API key stays in a configured-off state: every call fails with
// an UnavailableError carrying the configuration problem, so the service can
// boot without cloud credentials.
type GoogleAI struct {
	client         *genai.Client
	defaultModel   string
	fallbackModels []string
	configErr      string
}

// ModelInfo describes one generation-capable cloud model.
type ModelInfo struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"display_name"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supported_generation_methods"`
	InputTokenLimit            int32    `json:"input_token_limit"`
	OutputTokenLimit           int32    `json:"output_token_limit"`
}

// NewGoogleAI builds the cloud backend client. An empty API key is not an
// error at construction time.
func NewGoogleAI(ctx context.Context, cfg GoogleAIConfig) (*GoogleAI, error) {
	g := &GoogleAI{
		defaultModel:   normalizeModel(cfg.DefaultModel),
		fallbackModels: cfg.FallbackModels,
	}
	if cfg.APIKey == "" {
		g.configErr = "GOOGLE_AI_API_KEY environment variable is not set"
		return g, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating google ai client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *GoogleAI) Name() string { return "google_ai" }

// Configured reports whether the client holds working credentials.
func (g *GoogleAI) Configured() bool { return g.configErr == "" }

// ConfigErr returns the configuration problem, empty when configured.
func (g *GoogleAI) ConfigErr() string { return g.configErr }

// DefaultModel reports the model used when requests do not name one.
func (g *GoogleAI) DefaultModel() string { return g.defaultModel }

// Close releases the underlying SDK connection.
func (g *GoogleAI) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Chat flattens the conversation into a single prompt, calls the requested
// model, and walks the fallback chain when the primary model is out of
// quota. Each fallback gets one attempt.
func (g *GoogleAI) Chat(ctx context.Context, messages []Message, opts Options) (string, error) {
	if g.configErr != "" {
		return "", &UnavailableError{Backend: g.Name(), Reason: g.configErr}
	}
	model := normalizeModel(opts.Model)
	if model == "" {
		model = g.defaultModel
	}
	system, user := splitConversation(messages)

	text, err := g.generateOnce(ctx, model, system, user, opts)
	if err == nil {
		return text, nil
	}
	if !isQuotaError(err) {
		return "", g.mapError(model, err)
	}

	tried := []string{model}
	for _, fb := range g.fallbackModels {
		fb = normalizeModel(fb)
		if fb == model {
			continue
		}
		tried = append(tried, fb)
		text, ferr := g.generateOnce(ctx, fb, system, user, opts)
		if ferr == nil {
			return text, nil
		}
	}
	return "", &UnavailableError{
		Backend: g.Name(),
		Reason:  "quota exhausted for " + strings.Join(tried, ", "),
	}
}

// Probe asks for the first entry of the model list.
func (g *GoogleAI) Probe(ctx context.Context) error {
	if g.configErr != "" {
		return &UnavailableError{Backend: g.Name(), Reason: g.configErr}
	}
	it := g.client.ListModels(ctx)
	if _, err := it.Next(); err != nil && err != iterator.Done {
		return &UnavailableError{Backend: g.Name(), Reason: err.Error()}
	}
	return nil
}

// ListModels returns the cloud models that support content generation.
func (g *GoogleAI) ListModels(ctx context.Context) ([]ModelInfo, error) {
	if g.configErr != "" {
		return nil, &UnavailableError{Backend: g.Name(), Reason: g.configErr}
	}
	it := g.client.ListModels(ctx)
	var out []ModelInfo
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, &UnavailableError{Backend: g.Name(), Reason: "listing models: " + err.Error()}
		}
		if !supportsGeneration(m.SupportedGenerationMethods) {
			continue
		}
		out = append(out, ModelInfo{
			Name:                       m.Name,
			DisplayName:                m.DisplayName,
			Description:                m.Description,
			SupportedGenerationMethods: m.SupportedGenerationMethods,
			InputTokenLimit:            m.InputTokenLimit,
			OutputTokenLimit:           m.OutputTokenLimit,
		})
	}
	return out, nil
}

func (g *GoogleAI) generateOnce(ctx context.Context, model, system, user string, opts Options) (string, error) {
	m := g.client.GenerativeModel(model)
	if system != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	m.SetTemperature(opts.Temperature)
	if opts.MaxTokens > 0 {
		m.SetMaxOutputTokens(opts.MaxTokens)
	}
	resp, err := m.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", err
	}
	return g.collectText(resp)
}

// collectText extracts the reply, rejecting blocked prompts and completions
// the safety filter stopped. Truncation by the token limit is tolerated, the
// partial text is often still usable.
func (g *GoogleAI) collectText(resp *genai.GenerateContentResponse) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", &BlockedError{Reason: "prompt blocked (" + resp.PromptFeedback.BlockReason.String() + ")"}
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return "", &BlockedError{Reason: "completion stopped by safety filter"}
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	if sb.Len() == 0 {
		return "", &UnavailableError{Backend: g.Name(), Reason: "no text in completion"}
	}
	return sb.String(), nil
}

func (g *GoogleAI) mapError(model string, err error) error {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return err
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return err
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusNotFound {
			return &ModelNotFoundError{Model: model}
		}
		return &UnavailableError{
			Backend: g.Name(),
			Reason:  fmt.Sprintf("status %d: %s", gerr.Code, gerr.Message),
		}
	}
	return &UnavailableError{Backend: g.Name(), Reason: err.Error()}
}

func isQuotaError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// normalizeModel strips one leading "models/" path segment. Some configs
// carry the fully qualified resource name.
func normalizeModel(name string) string {
	return strings.TrimPrefix(name, "models/")
}

// splitConversation separates system messages from the dialogue. System
// content becomes the model's system instruction, the rest is flattened
// into labelled turns.
func splitConversation(messages []Message) (system, user string) {
	var sys, convo []string
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			sys = append(sys, m.Content)
		case RoleAssistant:
			convo = append(convo, "Assistant: "+m.Content)
		default:
			convo = append(convo, "User: "+m.Content)
		}
	}
	return strings.Join(sys, "\n\n"), strings.Join(convo, "\n\n")
}

func supportsGeneration(methods []string) bool {
	for _, m := range methods {
		if m == "generateContent" {
			return true
		}
	}
	return false
}
