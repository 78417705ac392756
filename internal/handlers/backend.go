package handlers

import (
	"context"
	"time"

	"github.com/ngphhnam/ollama/internal/extract"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("llama-api")

// withCall runs one backend call under a span, recording latency metrics.
// The call gets a fresh context bound to the configured timeout rather than
// the request context: a client hanging up must not cancel generation that
// is already paid for upstream.
func withCall(backend llm.Backend, timeout time.Duration, op, model string, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("llm.backend", backend.Name()),
		attribute.String("llm.model", model),
	))
	defer span.End()

	start := time.Now()
	raw, err := fn(ctx)
	middleware.ObserveUpstream(backend.Name(), time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "backend call failed")
		return "", err
	}
	return raw, nil
}

// chatText sends a prepared conversation and returns the raw reply.
func chatText(backend llm.Backend, timeout time.Duration, op string, messages []llm.Message, opts llm.Options) (string, error) {
	return withCall(backend, timeout, op, opts.Model, func(ctx context.Context) (string, error) {
		return backend.Chat(ctx, messages, opts)
	})
}

// generateObject runs a single-shot generation and extracts the JSON object
// from the reply.
func generateObject(backend llm.Backend, timeout time.Duration, op, system, user string, opts llm.Options) (map[string]any, error) {
	raw, err := withCall(backend, timeout, op, opts.Model, func(ctx context.Context) (string, error) {
		return llm.Generate(ctx, backend, system, user, opts)
	})
	if err != nil {
		return nil, err
	}
	return extract.Extract(raw)
}
