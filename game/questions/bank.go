package questions

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wricardo/trivia-maze/game/engine"
)

var (
	// ErrQuestionNotFound is returned by Lookup for an unknown ID
	ErrQuestionNotFound = errors.New("question not found")

	// ErrDuplicateQuestion is returned when two records share an ID
	ErrDuplicateQuestion = errors.New("duplicate question id")
)

// Bank is an in-memory question collection. It hands questions to the maze
// builder from per-kind decks that are shuffled when created and reshuffled
// when they run out, so every question is used once before any repeats.
type Bank struct {
	mu         sync.Mutex
	name       string
	rng        engine.RandomSource
	allowed    map[engine.QuestionKind]bool
	order      []string
	byID       map[string]engine.Question
	categories map[string]string
	decks      map[engine.QuestionKind][]engine.Question
}

// NewBank builds a bank from records. When kinds is non-empty, Next only draws
// questions of those kinds; Lookup still resolves every record.
func NewBank(name string, records []Record, rng engine.RandomSource, kinds ...engine.QuestionKind) (*Bank, error) {
	if rng == nil {
		rng = engine.NewRandomSource(0)
	}
	b := &Bank{
		name:       name,
		rng:        rng,
		byID:       make(map[string]engine.Question, len(records)),
		categories: make(map[string]string, len(records)),
		decks:      make(map[engine.QuestionKind][]engine.Question),
	}
	if len(kinds) > 0 {
		b.allowed = make(map[engine.QuestionKind]bool, len(kinds))
		for _, k := range kinds {
			if !k.Valid() {
				return nil, fmt.Errorf("bank %s: unknown question kind %q", name, k)
			}
			b.allowed[k] = true
		}
	}

	for i, r := range records {
		r.Normalize()
		q, err := r.Question()
		if err != nil {
			return nil, fmt.Errorf("bank %s: record %d: %w", name, i+1, err)
		}
		if _, dup := b.byID[q.ID()]; dup {
			return nil, fmt.Errorf("bank %s: %w: %s", name, ErrDuplicateQuestion, q.ID())
		}
		b.byID[q.ID()] = q
		b.categories[q.ID()] = r.Category
		b.order = append(b.order, q.ID())
	}

	return b, nil
}

// Name returns the bank's name
func (b *Bank) Name() string {
	return b.name
}

// Len returns the number of questions
func (b *Bank) Len() int {
	return len(b.order)
}

// Next draws the next question of kind, or of any allowed kind for KindAny
func (b *Bank) Next(kind engine.QuestionKind) (engine.Question, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if kind != engine.KindAny && b.allowed != nil && !b.allowed[kind] {
		return nil, fmt.Errorf("%w: bank %s does not serve %s questions", engine.ErrQuestionUnavailable, b.name, kind)
	}

	deck := b.decks[kind]
	if len(deck) == 0 {
		deck = b.pool(kind)
		if len(deck) == 0 {
			if kind == engine.KindAny {
				return nil, fmt.Errorf("%w: bank %s is empty", engine.ErrQuestionUnavailable, b.name)
			}
			return nil, fmt.Errorf("%w: bank %s has no %s questions", engine.ErrQuestionUnavailable, b.name, kind)
		}
		b.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	}

	q := deck[len(deck)-1]
	b.decks[kind] = deck[:len(deck)-1]
	return q, nil
}

// pool lists the questions eligible for a fresh deck, in record order
func (b *Bank) pool(kind engine.QuestionKind) []engine.Question {
	var out []engine.Question
	for _, id := range b.order {
		q := b.byID[id]
		if b.allowed != nil && !b.allowed[q.Kind()] {
			continue
		}
		if kind != engine.KindAny && q.Kind() != kind {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Lookup resolves a question by ID
func (b *Bank) Lookup(id string) (engine.Question, error) {
	q, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, id)
	}
	return q, nil
}

// Records returns the bank's contents in their original order
func (b *Bank) Records() []Record {
	out := make([]Record, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, FromQuestion(b.byID[id], b.categories[id]))
	}
	return out
}

// Stats summarizes a bank by kind and category
type Stats struct {
	Name       string                      `json:"name"`
	Total      int                         `json:"total"`
	ByKind     map[engine.QuestionKind]int `json:"by_kind"`
	ByCategory map[string]int              `json:"by_category"`
}

// Stats counts the bank's questions
func (b *Bank) Stats() Stats {
	s := Stats{
		Name:       b.name,
		Total:      len(b.order),
		ByKind:     make(map[engine.QuestionKind]int),
		ByCategory: make(map[string]int),
	}
	for _, id := range b.order {
		s.ByKind[b.byID[id].Kind()]++
		category := b.categories[id]
		if category == "" {
			category = "uncategorized"
		}
		s.ByCategory[category]++
	}
	return s
}

// Categories returns the sorted category names
func (s Stats) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available counts the questions Next can draw from, honoring the kind filter
func (b *Bank) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pool(engine.KindAny))
}
