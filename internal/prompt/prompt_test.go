package prompt

import (
	"strings"
	"testing"
)

func TestParseTask(t *testing.T) {
	cases := []struct {
		in   string
		want Task
	}{
		{"topics", TaskTopics},
		{"questions", TaskQuestions},
		{"outline", TaskOutline},
		{"vocabulary", TaskVocabulary},
		{"structures", TaskStructures},
		{"refine", TaskRefine},
		{"compare", TaskCompare},
		{"general", TaskGeneral},
		{"", TaskGeneral},
		{"summarize", TaskGeneral},
		{"TOPICS", TaskGeneral},
	}
	for _, tc := range cases {
		if got := ParseTask(tc.in); got != tc.want {
			t.Errorf("ParseTask(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSystemCoversEveryTask(t *testing.T) {
	tasks := []Task{TaskTopics, TaskQuestions, TaskOutline, TaskVocabulary, TaskStructures, TaskRefine, TaskCompare, TaskGeneral}
	seen := map[string]Task{}
	for _, task := range tasks {
		p := System(task)
		if p == "" {
			t.Errorf("System(%q) returned empty persona", task)
		}
		if prev, dup := seen[p]; dup {
			t.Errorf("System(%q) and System(%q) share a persona", task, prev)
		}
		seen[p] = task
	}
	if got := System(Task("bogus")); got != System(TaskGeneral) {
		t.Errorf("System(bogus) = %q, want general persona", got)
	}
}

func TestScoringIncludesQuestionSection(t *testing.T) {
	p := Scoring("I like reading books.", "Do you enjoy reading?", "Hobbies", "advanced")
	for _, want := range []string{
		"Topic: Hobbies",
		"Target Level: advanced",
		"Question:\nDo you enjoy reading?",
		"Student's Response:\nI like reading books.",
		"IMPORTANT: First check if the student's response is relevant",
		`"bandScore": <decimal 0-9>`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("Scoring() missing %q", want)
		}
	}
}

func TestScoringWithoutQuestionOmitsWarning(t *testing.T) {
	p := Scoring("I like reading books.", "", "", "")
	if strings.Contains(p, "Question:") {
		t.Error("Scoring() without question should not render a question section")
	}
	if strings.Contains(p, "off-topic") {
		t.Error("Scoring() without question should not render the relevance warning")
	}
	if !strings.Contains(p, "Topic: General") || !strings.Contains(p, "Target Level: intermediate") {
		t.Error("Scoring() should default topic and level")
	}
}

func TestTopicsDefaults(t *testing.T) {
	p := Topics(0, "", 0, "")
	for _, want := range []string{
		"Generate 5 IELTS Speaking Part 1 topics",
		"about daily life and hobbies",
		"Difficulty level: intermediate",
		`"topics"`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("Topics() missing %q", want)
		}
	}
}

func TestQuestionsTopicRendering(t *testing.T) {
	withTopic := Questions(2, "intermediate", "Technology")
	if !strings.Contains(withTopic, "cue card about 'Technology'") {
		t.Errorf("Questions() should quote the topic, got:\n%s", withTopic)
	}
	without := Questions(0, "", "")
	if strings.Contains(without, "about '") {
		t.Error("Questions() without topic should not render an about clause")
	}
	if !strings.Contains(without, "Part 2 cue card") {
		t.Error("Questions() should default to part 2")
	}
}

func TestVocabularyMentionsCount(t *testing.T) {
	p := Vocabulary("Describe a memorable trip you took.", 7.0, 10)
	if !strings.Contains(p, "vocabulary list of 10 words") {
		t.Errorf("Vocabulary() should carry the requested count, got:\n%s", p)
	}
	if !strings.Contains(p, "Target band score: 7.0") {
		t.Error("Vocabulary() should render the target band")
	}
}

func TestBandFormatting(t *testing.T) {
	if p := Answers("Why do people travel?", 2, 6.5); !strings.Contains(p, "Target band score: 6.5") {
		t.Error("Answers() should keep half bands as-is")
	}
	if p := Answers("Why do people travel?", 2, 8); !strings.Contains(p, "Target band score: 8.0") {
		t.Error("Answers() should render whole bands with one decimal")
	}
	if p := Structures("Why do people travel?", 0, 0, 0); !strings.Contains(p, "Target band score: 7.0") {
		t.Error("Structures() should default the target band to 7.0")
	}
}

func TestBuildPairsPersonaWithUserPrompt(t *testing.T) {
	system, user := Build(TaskVocabulary, "Words about travel.", map[string]any{"count": 10}, nil)
	if system != System(TaskVocabulary) {
		t.Errorf("Build() system = %q, want vocabulary persona", system)
	}
	if !strings.HasPrefix(user, "Words about travel.") || !strings.Contains(user, "count: 10") {
		t.Errorf("Build() user prompt missing text or context:\n%s", user)
	}
}

func TestGenericContextSortedAndFormatHint(t *testing.T) {
	out := Generic("Make an outline.", map[string]any{"zeta": 1, "alpha": "x"}, nil)
	alphaIdx := strings.Index(out, "alpha: x")
	zetaIdx := strings.Index(out, "zeta: 1")
	if alphaIdx < 0 || zetaIdx < 0 || alphaIdx > zetaIdx {
		t.Errorf("Generic() context keys not rendered in sorted order:\n%s", out)
	}
	if !strings.HasPrefix(out, "Make an outline.\n\nContext: ") {
		t.Errorf("Generic() context framing wrong:\n%s", out)
	}

	withFormat := Generic("Make an outline.", nil, map[string]any{"sections": []any{"intro"}})
	if !strings.Contains(withFormat, "Return JSON matching this structure: ") {
		t.Errorf("Generic() should render the format hint:\n%s", withFormat)
	}
	if !strings.Contains(withFormat, `"sections"`) {
		t.Error("Generic() format hint should embed the requested structure")
	}

	plain := Generic("Make an outline.", nil, nil)
	if plain != "Make an outline." {
		t.Errorf("Generic() without hints should pass the prompt through, got %q", plain)
	}
}

func TestGrammarAndImproveContextLines(t *testing.T) {
	g := GrammarCorrection("I go school yesterday", "What did you do?", "en")
	if !strings.Contains(g, "Context/Question: What did you do?") {
		t.Error("GrammarCorrection() should append the question context")
	}
	if !strings.Contains(g, "following sentence in en:") {
		t.Error("GrammarCorrection() should render the language code")
	}

	i := Improve("I go school yesterday", "What did you do?", "")
	if !strings.Contains(i, "Question/Context: What did you do?") {
		t.Error("Improve() should append the question context")
	}
	if !strings.Contains(i, "for IELTS Speaking in English:") {
		t.Error("Improve() should default the language to English")
	}
}
