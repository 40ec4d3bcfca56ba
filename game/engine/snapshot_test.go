package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

// assertSameMaze compares CanMove and reachability from every room
func assertSameMaze(t *testing.T, want, got *Maze) {
	t.Helper()
	if want.Size() != got.Size() {
		t.Fatalf("Size mismatch: %d vs %d", want.Size(), got.Size())
	}
	for _, room := range want.Rooms() {
		other := got.Room(room.Position())
		for _, d := range AllDirections {
			a, b := room.DoorTo(d), other.DoorTo(d)
			if (a == nil) != (b == nil) {
				t.Fatalf("Room %+v %s: passage presence differs", room.Position(), d)
			}
			if a == nil {
				continue
			}
			if a.IsOpen() != b.IsOpen() {
				t.Fatalf("Room %+v %s: door state differs", room.Position(), d)
			}
			if room.QuestionTo(d).ID() != other.QuestionTo(d).ID() {
				t.Fatalf("Room %+v %s: question differs", room.Position(), d)
			}
		}
		if want.Reachable(room.Position(), want.Exit()) != got.Reachable(room.Position(), got.Exit()) {
			t.Fatalf("Room %+v: reachability differs", room.Position())
		}
		if room.Answered() != other.Answered() {
			t.Fatalf("Room %+v: answered flag differs", room.Position())
		}
	}
	assertSharedDoors(t, got)
}

func TestSnapshotRoundTrip(t *testing.T) {
	provider := &trueProvider{limit: -1}
	game, err := NewGame(4, provider, Options{Random: scriptedRandom{}, Hints: 2})
	if err != nil {
		t.Fatal(err)
	}
	step(t, game, East, rightAnswer)
	step(t, game, South, wrongAnswer)
	step(t, game, East, rightAnswer)
	step(t, game, South, wrongAnswer)
	game.AttemptMove(East)

	snap := game.Snapshot()

	// Snapshots travel as JSON in every persistence backend
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	restored, err := Restore(decoded, provider, Options{Random: scriptedRandom{}})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	assertSameMaze(t, game.Maze(), restored.Maze())
	if restored.Position() != game.Position() || restored.Phase() != game.Phase() {
		t.Errorf("Expected %+v/%s, got %+v/%s", game.Position(), game.Phase(), restored.Position(), restored.Phase())
	}
	if d, ok := restored.PendingDirection(); !ok || d != East {
		t.Errorf("Expected pending east, got %s %v", d, ok)
	}
	if restored.PendingQuestion().ID() != game.PendingQuestion().ID() {
		t.Error("Expected the same pending question")
	}
	if restored.Stats() != game.Stats() || restored.HintsRemaining() != game.HintsRemaining() {
		t.Errorf("Expected stats %+v, got %+v", game.Stats(), restored.Stats())
	}
	if len(restored.History()) != len(game.History()) {
		t.Errorf("Expected %d history entries, got %d", len(game.History()), len(restored.History()))
	}
	for _, d := range AllDirections {
		if restored.CanMove(d) != game.CanMove(d) {
			t.Errorf("CanMove(%s) differs", d)
		}
	}

	// Both games continue identically
	a, _ := game.SubmitAnswer(rightAnswer)
	b, _ := restored.SubmitAnswer(rightAnswer)
	if a != b || game.Position() != restored.Position() {
		t.Error("Expected restored game to continue like the original")
	}
}

func TestSnapshotRoundTrip_Terminal(t *testing.T) {
	provider := &trueProvider{limit: -1}
	game, _ := NewGame(2, provider, Options{})
	step(t, game, East, wrongAnswer)
	step(t, game, South, wrongAnswer)

	restored, err := Restore(game.Snapshot(), provider, Options{})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Phase() != Lost {
		t.Errorf("Expected %s, got %s", Lost, restored.Phase())
	}
	if _, err := restored.AttemptMove(East); !errors.Is(err, ErrIllegalState) {
		t.Errorf("Expected restored lost game to stay over, got %v", err)
	}
}

func TestSnapshotRoundTrip_NarrowedChoices(t *testing.T) {
	mc := newFourChoice(t)
	catalog := catalogFunc(func(id string) (Question, error) { return mc, nil })

	m, _ := BuildMaze(2, &mcProvider{question: mc})
	game := New(m, Options{Random: scriptedRandom{index: 1}, Hints: 1})
	game.AttemptMove(South)
	narrowed, err := game.NarrowChoices()
	if err != nil {
		t.Fatal(err)
	}

	snap := game.Snapshot()
	if len(snap.PendingChoices) != 2 {
		t.Fatalf("Expected narrowed choices in the snapshot, got %v", snap.PendingChoices)
	}

	restored, err := Restore(snap, catalog, Options{})
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	got := restored.PendingQuestion().(*MultipleChoice).Labels()
	want := narrowed.Labels()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Expected choices %v, got %v", want, got)
	}
	if restored.HintsRemaining() != 0 {
		t.Errorf("Expected spent hint to stay spent, got %d", restored.HintsRemaining())
	}
}

type catalogFunc func(id string) (Question, error)

func (f catalogFunc) Lookup(id string) (Question, error) {
	return f(id)
}

// sealExit closes both doors into the exit of a 3x3 snapshot
func sealExit(s *Snapshot) {
	exit := Position{2, 2}
	for i, d := range s.Doors {
		if d.From == exit || d.From.Step(d.Direction) == exit {
			s.Doors[i].Open = false
		}
	}
}

func TestRestore_Invalid(t *testing.T) {
	provider := &trueProvider{limit: -1}
	game, _ := NewGame(3, provider, Options{})
	base := game.Snapshot()

	dir := East
	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"grid too small", func(s *Snapshot) { s.GridSize = 1 }},
		{"missing passage", func(s *Snapshot) { s.Doors = s.Doors[1:] }},
		{"duplicate passage", func(s *Snapshot) { s.Doors = append(s.Doors, s.Doors[0]) }},
		{"duplicate from the other side", func(s *Snapshot) {
			d := s.Doors[0]
			s.Doors = append(s.Doors, DoorSnapshot{From: d.From.Step(d.Direction), Direction: d.Direction.Opposite(), Open: true, QuestionID: d.QuestionID})
		}},
		{"passage off the grid", func(s *Snapshot) { s.Doors[0].From = Position{2, 2} }},
		{"unknown question", func(s *Snapshot) { s.Doors[0].QuestionID = "nope" }},
		{"position off the grid", func(s *Snapshot) { s.Position = Position{3, 0} }},
		{"unknown phase", func(s *Snapshot) { s.Phase = "paused" }},
		{"pending without direction", func(s *Snapshot) { s.Phase = QuestionPending }},
		{"direction without pending", func(s *Snapshot) { s.PendingDirection = &dir }},
		{"pending through a wall", func(s *Snapshot) {
			north := North
			s.Phase = QuestionPending
			s.PendingDirection = &north
		}},
		{"won away from the exit", func(s *Snapshot) { s.Phase = Won }},
		{"awaiting on the exit", func(s *Snapshot) { s.Position = Position{2, 2} }},
		{"lost with the exit reachable", func(s *Snapshot) { s.Phase = Lost }},
		{"awaiting with the exit sealed", func(s *Snapshot) { sealExit(s) }},
		{"pending with the exit sealed", func(s *Snapshot) {
			sealExit(s)
			s.Phase = QuestionPending
			s.PendingDirection = &dir
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base
			s.Doors = append([]DoorSnapshot(nil), base.Doors...)
			tt.mutate(&s)
			if _, err := Restore(s, provider, Options{}); !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("Expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}

	if _, err := Restore(base, nil, Options{}); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("Expected ErrInvalidSnapshot without a catalog, got %v", err)
	}
}
