package engine

import (
	"fmt"
	"sort"
	"strings"
)

// QuestionKind names a question variant
type QuestionKind string

const (
	KindAny            QuestionKind = ""
	KindTrueFalse      QuestionKind = "true_false"
	KindFreeText       QuestionKind = "free_text"
	KindMultipleChoice QuestionKind = "multiple_choice"
)

// AllKinds lists the concrete variants
var AllKinds = []QuestionKind{KindTrueFalse, KindFreeText, KindMultipleChoice}

// Valid reports whether k is a concrete variant
func (k QuestionKind) Valid() bool {
	switch k {
	case KindTrueFalse, KindFreeText, KindMultipleChoice:
		return true
	}
	return false
}

// Question gates a passage. The set of implementations is closed:
// *TrueFalse, *FreeText and *MultipleChoice.
type Question interface {
	ID() string
	Kind() QuestionKind
	Prompt() string
	// IsMatch reports whether candidate answers the question. It never fails;
	// empty or malformed input is simply not a match.
	IsMatch(candidate string) bool

	sealed()
}

// TrueFalse is answered with a boolean token
type TrueFalse struct {
	id     string
	prompt string
	answer bool
}

// NewTrueFalse creates a true/false question
func NewTrueFalse(id, prompt string, answer bool) *TrueFalse {
	return &TrueFalse{id: id, prompt: prompt, answer: answer}
}

func (q *TrueFalse) ID() string         { return q.id }
func (q *TrueFalse) Kind() QuestionKind { return KindTrueFalse }
func (q *TrueFalse) Prompt() string     { return q.prompt }
func (q *TrueFalse) Answer() bool       { return q.answer }
func (q *TrueFalse) sealed()            {}

// IsMatch accepts true/false or 1/0, case-insensitively
func (q *TrueFalse) IsMatch(candidate string) bool {
	value, ok := ParseBoolToken(candidate)
	return ok && value == q.answer
}

// ParseBoolToken normalizes a true/false answer token
func ParseBoolToken(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

// FreeText is answered by exact text, ignoring surrounding whitespace
type FreeText struct {
	id     string
	prompt string
	answer string
}

// NewFreeText creates a free-text question
func NewFreeText(id, prompt, answer string) *FreeText {
	return &FreeText{id: id, prompt: prompt, answer: strings.TrimSpace(answer)}
}

func (q *FreeText) ID() string         { return q.id }
func (q *FreeText) Kind() QuestionKind { return KindFreeText }
func (q *FreeText) Prompt() string     { return q.prompt }
func (q *FreeText) Answer() string     { return q.answer }
func (q *FreeText) sealed()            {}

// IsMatch is case-sensitive
func (q *FreeText) IsMatch(candidate string) bool {
	c := strings.TrimSpace(candidate)
	return c != "" && c == q.answer
}

// MultipleChoice is answered with the label of the correct choice
type MultipleChoice struct {
	id      string
	prompt  string
	choices map[string]string
	correct string
}

// NewMultipleChoice creates a multiple-choice question. choices maps a short
// label such as "A" to its display text; correct must be one of the labels.
func NewMultipleChoice(id, prompt string, choices map[string]string, correct string) (*MultipleChoice, error) {
	if len(choices) < 2 {
		return nil, fmt.Errorf("question %s: multiple choice needs at least 2 choices, got %d", id, len(choices))
	}
	if _, ok := choices[correct]; !ok {
		return nil, fmt.Errorf("question %s: correct label %q is not a choice", id, correct)
	}
	copied := make(map[string]string, len(choices))
	for label, text := range choices {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("question %s: empty choice label", id)
		}
		copied[label] = text
	}
	return &MultipleChoice{id: id, prompt: prompt, choices: copied, correct: correct}, nil
}

func (q *MultipleChoice) ID() string         { return q.id }
func (q *MultipleChoice) Kind() QuestionKind { return KindMultipleChoice }
func (q *MultipleChoice) Prompt() string     { return q.prompt }
func (q *MultipleChoice) Correct() string    { return q.correct }
func (q *MultipleChoice) sealed()            {}

// IsMatch compares the candidate label exactly
func (q *MultipleChoice) IsMatch(candidate string) bool {
	return strings.TrimSpace(candidate) == q.correct
}

// Choices returns a copy of the label to text mapping
func (q *MultipleChoice) Choices() map[string]string {
	out := make(map[string]string, len(q.choices))
	for label, text := range q.choices {
		out[label] = text
	}
	return out
}

// Labels returns the choice labels in sorted order
func (q *MultipleChoice) Labels() []string {
	labels := make([]string, 0, len(q.choices))
	for label := range q.choices {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Narrow returns a copy keeping the correct choice and one randomly picked
// incorrect choice. Questions with two or fewer choices are returned as-is.
func (q *MultipleChoice) Narrow(rng RandomSource) *MultipleChoice {
	if len(q.choices) <= 2 {
		return q
	}

	var wrong []string
	for _, label := range q.Labels() {
		if label != q.correct {
			wrong = append(wrong, label)
		}
	}
	keep := wrong[rng.Intn(len(wrong))]

	return &MultipleChoice{
		id:     q.id,
		prompt: q.prompt,
		choices: map[string]string{
			q.correct: q.choices[q.correct],
			keep:      q.choices[keep],
		},
		correct: q.correct,
	}
}

// ViewQuestion strips the answer key from q
func ViewQuestion(q Question) QuestionView {
	view := QuestionView{ID: q.ID(), Kind: q.Kind(), Prompt: q.Prompt()}
	if mc, ok := q.(*MultipleChoice); ok {
		view.Choices = mc.Choices()
	}
	return view
}
