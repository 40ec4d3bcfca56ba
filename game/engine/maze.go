package engine

import (
	"errors"
	"fmt"
)

// QuestionProvider supplies the question for each new passage. Implementations
// return an error wrapping ErrQuestionUnavailable when nothing of the requested
// kind is left.
type QuestionProvider interface {
	Next(kind QuestionKind) (Question, error)
}

// QuestionCatalog resolves a question by ID when restoring a saved game
type QuestionCatalog interface {
	Lookup(id string) (Question, error)
}

// Maze is the N×N room grid with one shared door per adjacency
type Maze struct {
	size  int
	rooms []*Room
	doors []*Door
}

// BuildMaze creates an n×n maze. Every passage starts open and gets one
// question drawn from provider. If any passage cannot be given a question the
// build fails and no maze is returned.
func BuildMaze(n int, provider QuestionProvider) (*Maze, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: no question provider", ErrQuestionUnavailable)
	}
	return buildMaze(n, func(from Position, d Direction) (Question, error) {
		q, err := provider.Next(KindAny)
		if err != nil {
			if errors.Is(err, ErrQuestionUnavailable) {
				return nil, fmt.Errorf("passage %s from (%d,%d): %w", d, from.X, from.Y, err)
			}
			return nil, fmt.Errorf("%w: passage %s from (%d,%d): %v", ErrQuestionUnavailable, d, from.X, from.Y, err)
		}
		if q == nil {
			return nil, fmt.Errorf("%w: passage %s from (%d,%d): provider returned no question", ErrQuestionUnavailable, d, from.X, from.Y)
		}
		return q, nil
	})
}

// buildMaze wires rooms row by row, creating the east then south passage of
// each cell so door IDs are stable for a given size.
func buildMaze(n int, questionFor func(from Position, d Direction) (Question, error)) (*Maze, error) {
	if n < MinGridSize || n > MaxGridSize {
		return nil, fmt.Errorf("grid size %d out of range [%d, %d]", n, MinGridSize, MaxGridSize)
	}

	m := &Maze{size: n, rooms: make([]*Room, n*n)}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			m.rooms[y*n+x] = &Room{pos: Position{X: x, Y: y}}
		}
	}

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			for _, d := range []Direction{East, South} {
				from := Position{X: x, Y: y}
				to := from.Step(d)
				if !m.InBounds(to) {
					continue
				}
				q, err := questionFor(from, d)
				if err != nil {
					return nil, err
				}
				door := newDoor(len(m.doors), from, to)
				m.doors = append(m.doors, door)
				m.link(from, d, &Passage{Door: door, Question: q})
			}
		}
	}

	return m, nil
}

// link registers the passage on both bordering rooms under opposite directions
func (m *Maze) link(from Position, d Direction, p *Passage) {
	m.Room(from).passages[d] = p
	m.Room(from.Step(d)).passages[d.Opposite()] = p
}

// Size returns N
func (m *Maze) Size() int {
	return m.size
}

// InBounds reports whether p lies on the grid
func (m *Maze) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.size && p.Y >= 0 && p.Y < m.size
}

// Room returns the room at p, or nil when p is off the grid
func (m *Maze) Room(p Position) *Room {
	if !m.InBounds(p) {
		return nil
	}
	return m.rooms[p.Y*m.size+p.X]
}

// Start is the top-left room
func (m *Maze) Start() Position {
	return Position{X: 0, Y: 0}
}

// Exit is the bottom-right room
func (m *Maze) Exit() Position {
	return Position{X: m.size - 1, Y: m.size - 1}
}

// Doors returns every door in creation order
func (m *Maze) Doors() []*Door {
	out := make([]*Door, len(m.doors))
	copy(out, m.doors)
	return out
}

// Rooms returns every room in row-major order
func (m *Maze) Rooms() []*Room {
	out := make([]*Room, len(m.rooms))
	copy(out, m.rooms)
	return out
}

// OpenDoors counts doors that are still open
func (m *Maze) OpenDoors() int {
	count := 0
	for _, d := range m.doors {
		if d.IsOpen() {
			count++
		}
	}
	return count
}
