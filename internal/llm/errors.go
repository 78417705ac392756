package llm

import (
	"fmt"
	"strings"
)

// UnavailableError means the backend could not be reached, is not
// configured, or replied in a way no caller can act on.
type UnavailableError struct {
	Backend string
	Reason  string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %s", e.Backend, e.Reason)
}

// ModelNotFoundError means the requested model does not exist upstream.
// Available lists alternatives when the backend could enumerate them.
type ModelNotFoundError struct {
	Model     string
	Available []string
	Hint      string
}

func (e *ModelNotFoundError) Error() string {
	msg := fmt.Sprintf("model %q not found", e.Model)
	if len(e.Available) > 0 {
		msg += ", available: " + strings.Join(e.Available, ", ")
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

// BlockedError means the provider refused the prompt or withheld the reply,
// typically a safety filter.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return "content blocked by provider: " + e.Reason
}
