package questions

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wricardo/trivia-maze/game/engine"
)

// questionNamespace seeds the name-based IDs given to records without one
var questionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/wricardo/trivia-maze/questions"))

// Record is the storage form of a question, shared by bank files and MongoDB.
// Answer holds "true"/"false" for true/false questions, the expected text for
// free text, and the correct label for multiple choice.
type Record struct {
	ID       string              `yaml:"id,omitempty" json:"id" bson:"_id"`
	Kind     engine.QuestionKind `yaml:"kind" json:"kind" bson:"kind"`
	Prompt   string              `yaml:"prompt" json:"prompt" bson:"prompt"`
	Answer   string              `yaml:"answer" json:"answer" bson:"answer"`
	Choices  map[string]string   `yaml:"choices,omitempty" json:"choices,omitempty" bson:"choices,omitempty"`
	Category string              `yaml:"category,omitempty" json:"category,omitempty" bson:"category,omitempty"`
}

// DeriveID returns the stable ID for a prompt
func DeriveID(prompt string) string {
	return uuid.NewSHA1(questionNamespace, []byte(strings.TrimSpace(prompt))).String()
}

// Normalize trims text fields and fills a missing ID from the prompt
func (r *Record) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Answer = strings.TrimSpace(r.Answer)
	r.Category = strings.TrimSpace(r.Category)
	if r.ID == "" && r.Prompt != "" {
		r.ID = DeriveID(r.Prompt)
	}
}

// Question converts the record to its engine variant
func (r Record) Question() (engine.Question, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("question has no id")
	}
	if r.Prompt == "" {
		return nil, fmt.Errorf("question %s: prompt is required", r.ID)
	}

	switch r.Kind {
	case engine.KindTrueFalse:
		value, ok := engine.ParseBoolToken(r.Answer)
		if !ok {
			return nil, fmt.Errorf("question %s: true_false answer must be true or false, got %q", r.ID, r.Answer)
		}
		return engine.NewTrueFalse(r.ID, r.Prompt, value), nil
	case engine.KindFreeText:
		if r.Answer == "" {
			return nil, fmt.Errorf("question %s: free_text answer is required", r.ID)
		}
		return engine.NewFreeText(r.ID, r.Prompt, r.Answer), nil
	case engine.KindMultipleChoice:
		return engine.NewMultipleChoice(r.ID, r.Prompt, r.Choices, r.Answer)
	default:
		return nil, fmt.Errorf("question %s: unknown kind %q", r.ID, r.Kind)
	}
}

// FromQuestion converts an engine question back to its storage form
func FromQuestion(q engine.Question, category string) Record {
	r := Record{ID: q.ID(), Kind: q.Kind(), Prompt: q.Prompt(), Category: category}
	switch v := q.(type) {
	case *engine.TrueFalse:
		r.Answer = fmt.Sprintf("%t", v.Answer())
	case *engine.FreeText:
		r.Answer = v.Answer()
	case *engine.MultipleChoice:
		r.Answer = v.Correct()
		r.Choices = v.Choices()
	}
	return r
}
