package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the four compass directions a passage can face
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// AllDirections lists every direction in a stable order
var AllDirections = []Direction{North, South, East, West}

// String returns the lowercase direction name
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four compass directions
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Opposite returns the direction facing back through the same passage
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Delta returns the x,y offset of one step in direction d.
// x grows to the east and y grows to the south.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// ParseDirection accepts compass names, their initials and the up/down/left/right aliases
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "n", "up":
		return North, nil
	case "south", "s", "down":
		return South, nil
	case "east", "e", "right":
		return East, nil
	case "west", "w", "left":
		return West, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrInvalidMove, s)
}

// MarshalText encodes the direction by name
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes any spelling accepted by ParseDirection
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
