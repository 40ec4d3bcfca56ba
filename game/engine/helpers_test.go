package engine

import (
	"fmt"
	"testing"
)

const (
	rightAnswer = "true"
	wrongAnswer = "false"
)

// trueProvider hands out true/false questions whose answer is always true.
// limit < 0 means no limit.
type trueProvider struct {
	issued int
	limit  int
}

func (p *trueProvider) Next(kind QuestionKind) (Question, error) {
	if p.limit >= 0 && p.issued >= p.limit {
		return nil, fmt.Errorf("%w: provider exhausted after %d", ErrQuestionUnavailable, p.issued)
	}
	p.issued++
	return NewTrueFalse(fmt.Sprintf("q%d", p.issued), fmt.Sprintf("Question %d?", p.issued), true), nil
}

func (p *trueProvider) Lookup(id string) (Question, error) {
	var n int
	if _, err := fmt.Sscanf(id, "q%d", &n); err != nil || n < 1 || n > p.issued {
		return nil, fmt.Errorf("unknown question %q", id)
	}
	return NewTrueFalse(id, fmt.Sprintf("Question %d?", n), true), nil
}

// scriptedRandom returns the same index every time
type scriptedRandom struct {
	index int
}

func (r scriptedRandom) Intn(n int) int {
	return r.index % n
}

func (r scriptedRandom) Shuffle(n int, swap func(i, j int)) {}

func newTestGame(t *testing.T, size int) (*GameEngine, *EventLog) {
	t.Helper()
	events := &EventLog{}
	game, err := NewGame(size, &trueProvider{limit: -1}, Options{Random: scriptedRandom{}, Sink: events, Hints: 2})
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	return game, events
}

// step attempts a move and answers it
func step(t *testing.T, game *GameEngine, d Direction, answer string) bool {
	t.Helper()
	if _, err := game.AttemptMove(d); err != nil {
		t.Fatalf("AttemptMove(%s) from %+v failed: %v", d, game.Position(), err)
	}
	correct, err := game.SubmitAnswer(answer)
	if err != nil {
		t.Fatalf("SubmitAnswer(%q) failed: %v", answer, err)
	}
	return correct
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func equalTypes(a, b []EventType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// assertSharedDoors checks that every pair of neighbors reports the same door state
func assertSharedDoors(t *testing.T, m *Maze) {
	t.Helper()
	for _, room := range m.Rooms() {
		for _, d := range room.Directions() {
			neighbor := m.Room(room.Position().Step(d))
			here := room.DoorTo(d)
			there := neighbor.DoorTo(d.Opposite())
			if here != there {
				t.Fatalf("Room %+v %s and room %+v %s hold different doors", room.Position(), d, neighbor.Position(), d.Opposite())
			}
			if here.IsOpen() != there.IsOpen() {
				t.Fatalf("Door state differs between %+v and %+v", room.Position(), neighbor.Position())
			}
		}
	}
}
