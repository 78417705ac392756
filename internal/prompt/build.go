package prompt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const scoringTemplate = `You are an expert IELTS speaking examiner. Evaluate the following speaking response.

Topic: %s
Target Level: %s

%sStudent's Response:
%s

%sPlease provide a detailed evaluation in the following JSON format:
{
    "bandScore": <decimal 0-9>,
    "pronunciationScore": <decimal 0-9>,
    "grammarScore": <decimal 0-9>,
    "vocabularyScore": <decimal 0-9>,
    "fluencyScore": <decimal 0-9>,
    "overallFeedback": "<detailed feedback paragraph explaining strengths and areas for improvement. If the response is off-topic, clearly state this and explain why the scores are reduced.>"
}

Evaluation Criteria:
- Band Score: Overall IELTS band score (0-9). MUST be significantly reduced if response is off-topic or doesn't answer the question.
- Pronunciation: Clarity, intonation, stress patterns
- Grammar: Accuracy, range, complexity
- Vocabulary: Range, precision, collocations (relevance to question matters)
- Fluency: Coherence, hesitation, natural flow (coherence with question is critical)

Return ONLY valid JSON, no additional text.`

const relevanceWarning = `
IMPORTANT: First check if the student's response is relevant to the question asked. If the response does not answer the question or is about a completely different topic, you MUST significantly penalize the scores, especially:
- Band Score: Reduce by 2-3 points if completely off-topic
- Fluency Score: Reduce significantly as the response lacks coherence with the question
- Vocabulary Score: May be less relevant if off-topic
- Grammar Score: Can still be evaluated but overall band should reflect irrelevance

If the response is off-topic, mention this clearly in the overallFeedback.

`

// Scoring builds the examiner prompt for a speaking transcription. The
// relevance warning and question section only appear when a question is
// supplied, so free-form evaluations are not penalized for missing context.
func Scoring(transcription, questionText, topic, level string) string {
	if topic == "" {
		topic = "General"
	}
	if level == "" {
		level = "intermediate"
	}
	var questionSection, warning string
	if questionText != "" {
		questionSection = "Question:\n" + questionText + "\n\n"
		warning = relevanceWarning
	}
	return fmt.Sprintf(scoringTemplate, topic, level, questionSection, transcription, warning)
}

// Topics builds the prompt for topic-list generation. Zero values fall back
// to part 1, intermediate difficulty, five topics about daily life.
func Topics(partNumber int, difficultyLevel string, count int, topicCategory string) string {
	if partNumber == 0 {
		partNumber = 1
	}
	if difficultyLevel == "" {
		difficultyLevel = "intermediate"
	}
	if count == 0 {
		count = 5
	}
	if topicCategory == "" {
		topicCategory = "daily life and hobbies"
	}
	return fmt.Sprintf(`Generate %d IELTS Speaking Part %d topics about %s.
Each topic should have 3-4 related questions.
Difficulty level: %s

Return JSON in this exact format:
{
    "topics": [
        {
            "name": "Topic name",
            "questions": ["Question 1", "Question 2", "Question 3"]
        }
    ]
}`, count, partNumber, topicCategory, difficultyLevel)
}

// Questions builds the cue-card prompt. An empty topic produces a generic
// cue card instead of an "about ''" fragment.
func Questions(partNumber int, difficultyLevel, topic string) string {
	if partNumber == 0 {
		partNumber = 2
	}
	if difficultyLevel == "" {
		difficultyLevel = "intermediate"
	}
	topicPart := ""
	if topic != "" {
		topicPart = fmt.Sprintf(" about '%s'", topic)
	}
	return fmt.Sprintf(`Generate an IELTS Speaking Part %d cue card%s.
Include:
1. The question/prompt
2. A sample answer (2-3 minutes speaking time)
3. Key vocabulary with definitions, examples, and pronunciation
4. Useful sentence structures with examples

Difficulty level: %s

Return JSON in this exact format:
{
    "question": "The cue card question/prompt",
    "sampleAnswer": "A detailed sample answer (2-3 minutes of speaking)",
    "vocabulary": [
        {
            "word": "word",
            "definition": "definition",
            "example": "example sentence",
            "pronunciation": "/pronunciation/"
        }
    ],
    "structures": [
        {
            "pattern": "sentence pattern",
            "example": "example sentence",
            "usage": "when to use this structure"
        }
    ]
}`, partNumber, topicPart, difficultyLevel)
}

// Answers builds the sample-answer prompt. The exact field-name demands
// matter: models drift to sampleAnswer without them, and the alias handling
// downstream only covers the two known variants.
func Answers(question string, partNumber int, targetBand float64) string {
	if partNumber == 0 {
		partNumber = 2
	}
	return fmt.Sprintf(`Generate a sample answer for this IELTS Speaking Part %d question:

Question: %s

Requirements:
- Target band score: %s
- Answer should be suitable for 2-3 minutes of speaking
- Include advanced vocabulary and complex structures appropriate for the target band
- Provide key vocabulary with definitions, examples, and pronunciation
- Provide useful sentence structures with examples
- List key points covered in the answer

IMPORTANT: You MUST return ONLY valid JSON. Do not include any text before or after the JSON. The JSON must have these exact field names:
- "answer" (required - the complete sample answer text)
- "vocabulary" (required - array of vocabulary items)
- "structures" (required - array of structure items)
- "keyPoints" (optional - array of strings)

Return JSON in this exact format (use these exact field names):
{
    "answer": "The complete sample answer (2-3 minutes of speaking)",
    "vocabulary": [
        {
            "word": "word",
            "definition": "definition",
            "example": "example sentence",
            "pronunciation": "/pronunciation/"
        }
    ],
    "structures": [
        {
            "pattern": "sentence pattern",
            "example": "example sentence",
            "usage": "when to use this structure"
        }
    ],
    "keyPoints": ["Key point 1", "Key point 2", "Key point 3"]
}`, partNumber, question, formatBand(targetBand))
}

// Structures builds the sentence-structure prompt.
func Structures(question string, partNumber int, targetBand float64, count int) string {
	if partNumber == 0 {
		partNumber = 3
	}
	if count == 0 {
		count = 5
	}
	return fmt.Sprintf(`Generate %d useful sentence structures for answering this IELTS Speaking Part %d question:

Question: %s

Requirements:
- Target band score: %s
- Structures should be appropriate for the target band level
- Each structure should be relevant to answering the question

Each structure should include:
- The pattern/formula
- A clear example sentence related to the question
- When/how to use it

Return JSON in this exact format:
{
    "structures": [
        {
            "pattern": "sentence pattern/formula",
            "example": "example sentence using the pattern",
            "usage": "explanation of when and how to use this structure"
        }
    ]
}`, count, partNumber, question, formatBand(targetBand))
}

// Vocabulary builds the vocabulary-list prompt.
func Vocabulary(question string, targetBand float64, count int) string {
	if count == 0 {
		count = 10
	}
	return fmt.Sprintf(`Generate a vocabulary list of %d words relevant to answering this IELTS Speaking question:

Question: %s

Requirements:
- Target band score: %s
- Vocabulary should be appropriate for the target band level
- Words should be relevant and useful for answering the question

For each word, provide:
- Word
- Definition
- Example sentence (preferably related to the question)
- Pronunciation guide (IPA format)

Return JSON in this exact format:
{
    "vocabulary": [
        {
            "word": "word",
            "definition": "clear definition",
            "example": "example sentence using the word",
            "pronunciation": "/pronunciation in IPA/"
        }
    ]
}`, count, question, formatBand(targetBand))
}

// GrammarCorrection builds the correction prompt for a transcription.
func GrammarCorrection(transcription, textQuestion, language string) string {
	if language == "" {
		language = "English"
	}
	questionContext := ""
	if textQuestion != "" {
		questionContext = "\n\nContext/Question: " + textQuestion
	}
	return fmt.Sprintf(`Correct the grammar and improve the following sentence in %s:

Sentence to correct: %s%s

Requirements:
1. Fix all grammatical errors
2. Improve sentence structure if needed
3. Maintain the original meaning
4. Keep the same style and tone
5. If the sentence is already correct, return it as is

Return JSON in this exact format:
{
    "original": "the original sentence",
    "corrected": "the corrected sentence",
    "corrections": [
        {
            "original": "incorrect word/phrase",
            "corrected": "correct word/phrase",
            "reason": "brief explanation of the correction"
        }
    ],
    "explanation": "Brief explanation of the main corrections made"
}

IMPORTANT:
- Return ONLY valid JSON, no additional text
- If no corrections are needed, return the original sentence as corrected
- The corrections array should list all significant corrections made`, language, transcription, questionContext)
}

// Improve builds the full-transcription improvement prompt. The repeated
// ENTIRE/FULL emphasis addresses a concrete model failure: on long inputs,
// replies that rewrite only the first sentence.
func Improve(transcription, questionText, language string) string {
	if language == "" {
		language = "English"
	}
	questionContext := ""
	if questionText != "" {
		questionContext = "\n\nQuestion/Context: " + questionText
	}
	return fmt.Sprintf(`Improve the following FULL transcription for IELTS Speaking in %s:

FULL ORIGINAL TRANSCRIPTION (you must improve ALL of it):
%s%s

CRITICAL REQUIREMENTS:
1. You MUST improve the ENTIRE transcription, not just a part of it
2. Fix ALL grammatical errors throughout the entire text
3. Correct ALL mispronounced words and transcription errors (e.g., "pretty table" -> "predictable", "off-new up tee" -> "often I have tea")
4. Use more advanced and appropriate vocabulary where suitable
5. Improve sentence structure and make it more natural
6. Maintain the original meaning and context
7. Make it sound more fluent and native-like
8. Keep the same length and structure - improve the ENTIRE text

IMPORTANT: The transcription may contain many errors and mispronunciations. You must process and improve EVERY part of it, not just a small portion.

Return JSON in this exact format:
{
    "original": "the FULL original transcription",
    "improved": "the FULL improved transcription",
    "improvements": [
        {
            "type": "grammar|vocabulary|structure|fluency|transcription",
            "original": "original word/phrase",
            "improved": "improved word/phrase",
            "reason": "brief explanation"
        }
    ],
    "explanation": "Brief explanation of the main improvements made",
    "vocabularySuggestions": [
        {
            "word": "advanced word",
            "definition": "definition",
            "example": "example sentence",
            "pronunciation": "/pronunciation/"
        }
    ],
    "structureSuggestions": [
        {
            "pattern": "sentence pattern",
            "example": "example using the pattern",
            "usage": "when to use"
        }
    ]
}

IMPORTANT:
- Return ONLY valid JSON, no additional text
- The "original" field MUST contain the FULL original transcription
- The "improved" field MUST contain the FULL improved transcription
- Include vocabulary and structure suggestions that would help improve the sentence
- The improvements array should list all significant changes made`, language, transcription, questionContext)
}

// Build produces the system and user prompt pair for a generic generation
// task. The task picks the persona, the user prompt carries the caller's
// text plus rendered context and format hints.
func Build(task Task, userPrompt string, context, format map[string]any) (string, string) {
	return System(task), Generic(userPrompt, context, format)
}

// Generic appends caller-supplied context and format hints to a free-form
// prompt. Context keys render in sorted order so identical requests produce
// identical prompts.
func Generic(userPrompt string, context, format map[string]any) string {
	out := userPrompt
	if len(context) > 0 {
		keys := make([]string, 0, len(context))
		for k := range context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %v", k, context[k]))
		}
		out += "\n\nContext: " + strings.Join(pairs, ", ")
	}
	if len(format) > 0 {
		if b, err := json.Marshal(format); err == nil {
			out += "\n\nReturn JSON matching this structure: " + string(b)
		}
	}
	return out
}

// formatBand renders a band score the way users write them: whole bands get
// a trailing .0, half bands keep one decimal.
func formatBand(band float64) string {
	if band == 0 {
		band = 7.0
	}
	if band == float64(int64(band)) {
		return strconv.FormatFloat(band, 'f', 1, 64)
	}
	return strconv.FormatFloat(band, 'f', -1, 64)
}
