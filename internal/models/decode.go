package models

import (
	"encoding/json"
	"fmt"
	"math"
	"unicode/utf8"
)

// Kind is the JSON type expected for a top-level response field.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindArray  Kind = "array"
	KindObject Kind = "object"
)

// Field names one required top-level field of an LLM response and the JSON
// kind it must carry.
type Field struct {
	Name string
	Kind Kind
}

// Required field sets per operation. Validation is shallow on purpose:
// element-level defects surface when the object is decoded into its typed
// response.
var (
	ScoreFields = []Field{
		{"bandScore", KindNumber},
		{"pronunciationScore", KindNumber},
		{"grammarScore", KindNumber},
		{"vocabularyScore", KindNumber},
		{"fluencyScore", KindNumber},
		{"overallFeedback", KindString},
	}
	TopicListFields = []Field{
		{"topics", KindArray},
	}
	QuestionSetFields = []Field{
		{"question", KindString},
		{"sampleAnswer", KindString},
		{"vocabulary", KindArray},
		{"structures", KindArray},
	}
	AnswerSetFields = []Field{
		{"answer", KindString},
		{"vocabulary", KindArray},
		{"structures", KindArray},
	}
	StructureListFields = []Field{
		{"structures", KindArray},
	}
	VocabularyListFields = []Field{
		{"vocabulary", KindArray},
	}
	GrammarFields = []Field{
		{"original", KindString},
		{"corrected", KindString},
	}
	ImproveFields = []Field{
		{"original", KindString},
		{"improved", KindString},
	}
)

// SchemaError reports extracted JSON that does not match the shape an
// operation promised its clients.
type SchemaError struct {
	Field string
	Want  Kind
	Got   string
	Err   error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("schema: response does not match expected shape: %v", e.Err)
	case e.Got == "":
		return fmt.Sprintf("schema: missing required field %q", e.Field)
	default:
		return fmt.Sprintf("schema: field %q is %s, want %s", e.Field, e.Got, e.Want)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Check verifies that every required field is present with the right kind.
// A null value counts as missing.
func Check(obj map[string]any, fields ...Field) error {
	for _, f := range fields {
		v, ok := obj[f.Name]
		if !ok || v == nil {
			return &SchemaError{Field: f.Name, Want: f.Kind}
		}
		if got := kindOf(v); got != f.Kind {
			return &SchemaError{Field: f.Name, Want: f.Kind, Got: string(got)}
		}
	}
	return nil
}

func kindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case float64:
		return KindNumber
	case bool:
		return KindBool
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	}
	return Kind(fmt.Sprintf("%T", v))
}

// Decode checks the required fields and round-trips the object into T.
// Unknown extra fields are dropped silently; models often volunteer more
// than asked for.
func Decode[T any](obj map[string]any, fields ...Field) (*T, error) {
	if err := Check(obj, fields...); err != nil {
		return nil, err
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, &SchemaError{Err: err}
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &SchemaError{Err: err}
	}
	return &out, nil
}

// NormalizeAnswerAliases rewrites the field-name variants models use for the
// sample answer on the answers operation. Nothing happens when answer is
// already present.
func NormalizeAnswerAliases(obj map[string]any) {
	if _, ok := obj["answer"]; ok {
		return
	}
	for _, alias := range []string{"sampleAnswer", "sample_answer"} {
		if v, ok := obj[alias]; ok {
			obj["answer"] = v
			return
		}
	}
}

// Normalize clamps every score into the valid IELTS range and snaps it to
// the half-band grid examiners actually award.
func (s *ScoreResult) Normalize() {
	s.BandScore = clampBand(s.BandScore)
	s.PronunciationScore = clampBand(s.PronunciationScore)
	s.GrammarScore = clampBand(s.GrammarScore)
	s.VocabularyScore = clampBand(s.VocabularyScore)
	s.FluencyScore = clampBand(s.FluencyScore)
}

func clampBand(v float64) float64 {
	if v < 0 {
		v = 0
	}
	if v > 9 {
		v = 9
	}
	return math.Round(v*2) / 2
}

// Validate flags improve responses where the model rewrote only a fragment
// of a long transcription instead of the whole text.
func (r *ImproveResult) Validate() error {
	origLen := utf8.RuneCountInString(r.Original)
	improvedLen := utf8.RuneCountInString(r.Improved)
	if origLen > 100 && improvedLen*2 < origLen {
		return &SchemaError{Err: fmt.Errorf("improved text covers %d of %d characters, original not fully processed", improvedLen, origLen)}
	}
	return nil
}
