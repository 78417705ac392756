// Package prompt builds the system and user prompts sent to the LLM
// backends. Prompt texts are the contract with the model: the JSON shapes
// they demand are what the extract and models packages expect back, so
// changes here ripple through response validation.
package prompt

// Task selects the persona and output shape for the generic generation
// endpoint.
type Task string

const (
	TaskTopics     Task = "topics"
	TaskQuestions  Task = "questions"
	TaskOutline    Task = "outline"
	TaskVocabulary Task = "vocabulary"
	TaskStructures Task = "structures"
	TaskRefine     Task = "refine"
	TaskCompare    Task = "compare"
	TaskGeneral    Task = "general"
)

// systemPrompts is the exhaustive dispatch table for generic generation.
// Tags not present here resolve to TaskGeneral via ParseTask.
var systemPrompts = map[Task]string{
	TaskTopics:     "You are an expert IELTS content creator. Generate IELTS speaking topics in JSON format.",
	TaskQuestions:  "You are an expert IELTS content creator. Generate IELTS speaking questions with sample answers, vocabulary, and structures in JSON format.",
	TaskOutline:    "You are an expert IELTS speaking coach. Generate speaking outlines and structures in JSON format.",
	TaskVocabulary: "You are an expert English teacher. Generate vocabulary lists with definitions, examples, and pronunciation in JSON format.",
	TaskStructures: "You are an expert English teacher. Generate sample sentence structures and patterns in JSON format.",
	TaskRefine:     "You are an expert IELTS speaking coach. Refine and improve speaking responses while preserving the original style.",
	TaskCompare:    "You are an expert IELTS speaking coach. Compare two versions of text and highlight improvements.",
	TaskGeneral:    "You are a helpful AI assistant. Generate content in the requested format.",
}

// Personas for the dedicated endpoints. Scoring and chat share ScoringSystem.
const (
	ScoringSystem = "You are an expert IELTS speaking examiner. Always return valid JSON only."
	AnswersSystem = "You are an expert IELTS speaking coach. Generate high-quality sample answers with vocabulary and structures in JSON format."
	GrammarSystem = "You are an expert English grammar teacher. Correct grammar errors and improve sentences while maintaining the original meaning. Return ONLY valid JSON format."
	ImproveSystem = "You are an expert IELTS speaking coach. Improve FULL transcriptions by fixing grammar, correcting mispronunciations, using advanced vocabulary, and improving structure. You MUST process the ENTIRE transcription, not just parts of it. Return ONLY valid JSON format."
)

// ParseTask maps a task tag to its Task. Unknown or empty tags resolve to
// TaskGeneral so the generic endpoint never rejects a request over the tag.
func ParseTask(s string) Task {
	t := Task(s)
	if _, ok := systemPrompts[t]; ok {
		return t
	}
	return TaskGeneral
}

// System returns the persona for a task.
func System(task Task) string {
	if p, ok := systemPrompts[task]; ok {
		return p
	}
	return systemPrompts[TaskGeneral]
}
