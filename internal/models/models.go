// Package models defines the request and response shapes of the scoring and
// generation API, plus the schema checks applied to extracted LLM output
// before it is returned to clients.
package models

// ChatMessage is a single turn in a chat-style request.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ChatRequest mirrors the upstream chat surface. Format is accepted for wire
// compatibility with older clients but plays no role in generation.
type ChatRequest struct {
	Model    string         `json:"model" binding:"required"`
	Messages []ChatMessage  `json:"messages" binding:"required,min=1,dive"`
	Format   map[string]any `json:"format"`
}

// ScoreRequest asks for an IELTS evaluation of a speaking transcription.
// IncludeGrammarCorrection additionally runs a grammar pass and embeds the
// result in the response.
type ScoreRequest struct {
	Transcription            string `json:"transcription" binding:"required"`
	QuestionText             string `json:"questionText"`
	Topic                    string `json:"topic"`
	Level                    string `json:"level"`
	IncludeGrammarCorrection bool   `json:"includeGrammarCorrection"`
}

// TopicsRequest configures topic-list generation. Prompt, when set, replaces
// the generated prompt entirely.
type TopicsRequest struct {
	PartNumber      int    `json:"partNumber"`
	DifficultyLevel string `json:"difficultyLevel"`
	Count           int    `json:"count"`
	TopicCategory   string `json:"topicCategory"`
	Prompt          string `json:"prompt"`
}

// QuestionsRequest configures cue-card generation.
type QuestionsRequest struct {
	PartNumber      int    `json:"partNumber"`
	DifficultyLevel string `json:"difficultyLevel"`
	Topic           string `json:"topic"`
	Prompt          string `json:"prompt"`
}

// AnswersRequest asks for a sample answer to one question.
type AnswersRequest struct {
	Question   string  `json:"question" binding:"required"`
	PartNumber int     `json:"partNumber"`
	TargetBand float64 `json:"targetBand"`
}

// StructuresRequest asks for sentence structures fitting one question.
type StructuresRequest struct {
	Question   string  `json:"question" binding:"required"`
	PartNumber int     `json:"partNumber"`
	TargetBand float64 `json:"targetBand"`
	Count      int     `json:"count"`
}

// VocabularyRequest asks for a vocabulary list fitting one question.
type VocabularyRequest struct {
	Question   string  `json:"question" binding:"required"`
	TargetBand float64 `json:"targetBand"`
	Count      int     `json:"count"`
}

// GenerateRequest drives the generic generation endpoint. TaskType selects
// the persona; unknown values fall back to general.
type GenerateRequest struct {
	Prompt   string         `json:"prompt" binding:"required"`
	TaskType string         `json:"task_type"`
	Context  map[string]any `json:"context"`
	Format   map[string]any `json:"format"`
}

// GrammarRequest asks for grammar correction of a transcription.
type GrammarRequest struct {
	Transcription string `json:"transcription" binding:"required"`
	TextQuestion  string `json:"textQuestion"`
	Language      string `json:"language"`
}

// ImproveRequest asks for a full-transcription rewrite at a higher level.
type ImproveRequest struct {
	Transcription string `json:"transcription" binding:"required"`
	QuestionText  string `json:"questionText"`
	Language      string `json:"language"`
}

// VocabularyItem is one entry of a vocabulary list.
type VocabularyItem struct {
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Example       string `json:"example"`
	Pronunciation string `json:"pronunciation,omitempty"`
}

// StructureItem is one sentence pattern with usage guidance.
type StructureItem struct {
	Pattern string `json:"pattern"`
	Example string `json:"example"`
	Usage   string `json:"usage,omitempty"`
}

// Topic is one speaking topic with its related questions.
type Topic struct {
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

// TopicList is the topics-generation response.
type TopicList struct {
	Topics []Topic `json:"topics"`
}

// QuestionSet is the cue-card generation response.
type QuestionSet struct {
	Question     string           `json:"question"`
	SampleAnswer string           `json:"sampleAnswer"`
	Vocabulary   []VocabularyItem `json:"vocabulary"`
	Structures   []StructureItem  `json:"structures"`
}

// AnswerSet is the sample-answer generation response.
type AnswerSet struct {
	Answer     string           `json:"answer"`
	Vocabulary []VocabularyItem `json:"vocabulary"`
	Structures []StructureItem  `json:"structures"`
	KeyPoints  []string         `json:"keyPoints,omitempty"`
}

// StructureList is the structures-generation response.
type StructureList struct {
	Structures []StructureItem `json:"structures"`
}

// VocabularyList is the vocabulary-generation response.
type VocabularyList struct {
	Vocabulary []VocabularyItem `json:"vocabulary"`
}

// Correction is one grammar fix with its reason.
type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Reason    string `json:"reason"`
}

// GrammarResult is the grammar-correction response.
type GrammarResult struct {
	Original    string       `json:"original"`
	Corrected   string       `json:"corrected"`
	Corrections []Correction `json:"corrections,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// Improvement is one rewrite applied by the improve operation.
type Improvement struct {
	Type     string `json:"type"`
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

// ImproveResult is the transcription-improvement response.
type ImproveResult struct {
	Original              string           `json:"original"`
	Improved              string           `json:"improved"`
	Improvements          []Improvement    `json:"improvements,omitempty"`
	Explanation           string           `json:"explanation,omitempty"`
	VocabularySuggestions []VocabularyItem `json:"vocabularySuggestions,omitempty"`
	StructureSuggestions  []StructureItem  `json:"structureSuggestions,omitempty"`
}

// ScoreResult carries the five IELTS scores and the examiner feedback.
type ScoreResult struct {
	BandScore          float64 `json:"bandScore"`
	PronunciationScore float64 `json:"pronunciationScore"`
	GrammarScore       float64 `json:"grammarScore"`
	VocabularyScore    float64 `json:"vocabularyScore"`
	FluencyScore       float64 `json:"fluencyScore"`
	OverallFeedback    string  `json:"overallFeedback"`
}

// ScoreWithGrammar is the score response when grammar correction was
// requested. The grammar fields stay present, null when the grammar pass
// failed, because clients opting in key off their presence.
type ScoreWithGrammar struct {
	ScoreResult
	GrammarCorrection      *GrammarResult `json:"grammarCorrection"`
	CorrectedTranscription *string        `json:"correctedTranscription"`
}
