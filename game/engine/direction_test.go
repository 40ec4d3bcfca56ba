package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDirectionOpposite(t *testing.T) {
	for _, d := range AllDirections {
		if d.Opposite().Opposite() != d {
			t.Errorf("Opposite is not an involution for %s", d)
		}
		if d.Opposite() == d {
			t.Errorf("%s is its own opposite", d)
		}
		dx, dy := d.Delta()
		ox, oy := d.Opposite().Delta()
		if dx+ox != 0 || dy+oy != 0 {
			t.Errorf("Deltas of %s and its opposite do not cancel", d)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
	}{
		{"north", North},
		{"N", North},
		{"up", North},
		{"South", South},
		{"down", South},
		{"e", East},
		{"RIGHT", East},
		{" west ", West},
		{"left", West},
	}

	for _, tt := range tests {
		got, err := ParseDirection(tt.input)
		if err != nil {
			t.Errorf("ParseDirection(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}

	if _, err := ParseDirection("diagonal"); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("Expected ErrInvalidMove for an unknown direction, got %v", err)
	}
}

func TestDirectionJSON(t *testing.T) {
	entry := MoveHistoryEntry{Direction: West, FromPosition: Position{1, 0}, ToPosition: Position{0, 0}, Correct: true}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded MoveHistoryEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Direction != West {
		t.Errorf("Expected west, got %s", decoded.Direction)
	}

	if _, err := json.Marshal(Direction(7)); err == nil {
		t.Error("Expected an invalid direction to fail marshaling")
	}
}

func TestPositionStep(t *testing.T) {
	p := Position{X: 2, Y: 2}
	if got := p.Step(North); got != (Position{2, 1}) {
		t.Errorf("North of (2,2) should be (2,1), got %+v", got)
	}
	if got := p.Step(East); got != (Position{3, 2}) {
		t.Errorf("East of (2,2) should be (3,2), got %+v", got)
	}
}
