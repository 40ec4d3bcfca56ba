package engine

import (
	"fmt"
	"time"
)

// DoorSnapshot records one passage by its west or north room
type DoorSnapshot struct {
	From       Position  `json:"from"`
	Direction  Direction `json:"direction"`
	Open       bool      `json:"open"`
	QuestionID string    `json:"question_id"`
}

// Snapshot is everything needed to resume a game: the door states and
// question identities of the maze plus the engine's session fields.
type Snapshot struct {
	GridSize         int                `json:"grid_size"`
	Doors            []DoorSnapshot     `json:"doors"`
	Position         Position           `json:"position"`
	Phase            Phase              `json:"phase"`
	PendingDirection *Direction         `json:"pending_direction,omitempty"`
	PendingChoices   []string           `json:"pending_choices,omitempty"`
	HintsRemaining   int                `json:"hints_remaining"`
	Stats            Stats              `json:"stats"`
	History          []MoveHistoryEntry `json:"history,omitempty"`
	TotalMoves       int                `json:"total_moves"`
	Answered         []Position         `json:"answered,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type passageKey struct {
	from Position
	dir  Direction
}

// canonical keys a passage by its west or north room so both sides agree
func canonical(from Position, d Direction) passageKey {
	if d == West || d == North {
		return passageKey{from: from.Step(d), dir: d.Opposite()}
	}
	return passageKey{from: from, dir: d}
}

// Snapshot captures the game for later Restore
func (e *GameEngine) Snapshot() Snapshot {
	s := Snapshot{
		GridSize:       e.maze.Size(),
		Position:       e.pos,
		Phase:          e.phase,
		HintsRemaining: e.hintsRemaining,
		Stats:          e.stats,
		History:        e.History(),
		TotalMoves:     e.totalMoves,
		UpdatedAt:      e.updatedAt,
	}

	for _, door := range e.maze.doors {
		a, b := door.Rooms()
		d := South
		if b.X > a.X {
			d = East
		}
		s.Doors = append(s.Doors, DoorSnapshot{
			From:       a,
			Direction:  d,
			Open:       door.IsOpen(),
			QuestionID: e.maze.Room(a).QuestionTo(d).ID(),
		})
	}

	for _, room := range e.maze.rooms {
		if room.answered {
			s.Answered = append(s.Answered, room.pos)
		}
	}

	if e.pendingDir != nil {
		d := *e.pendingDir
		s.PendingDirection = &d
		if mc, ok := e.pendingQuestion.(*MultipleChoice); ok {
			if original, ok := e.maze.Room(e.pos).QuestionTo(d).(*MultipleChoice); ok && len(mc.choices) < len(original.choices) {
				s.PendingChoices = mc.Labels()
			}
		}
	}

	return s
}

// Restore rebuilds a game from a snapshot, resolving questions through
// catalog. The restored engine answers CanMove and reachability queries
// exactly as the engine the snapshot was taken from.
func Restore(s Snapshot, catalog QuestionCatalog, opts Options) (*GameEngine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: no question catalog", ErrInvalidSnapshot)
	}
	if s.GridSize < MinGridSize || s.GridSize > MaxGridSize {
		return nil, fmt.Errorf("%w: grid size %d out of range", ErrInvalidSnapshot, s.GridSize)
	}

	inBounds := func(p Position) bool {
		return p.X >= 0 && p.X < s.GridSize && p.Y >= 0 && p.Y < s.GridSize
	}

	saved := make(map[passageKey]DoorSnapshot, len(s.Doors))
	for _, ds := range s.Doors {
		if !ds.Direction.Valid() || !inBounds(ds.From) || !inBounds(ds.From.Step(ds.Direction)) {
			return nil, fmt.Errorf("%w: passage %s from (%d,%d) is off the grid", ErrInvalidSnapshot, ds.Direction, ds.From.X, ds.From.Y)
		}
		key := canonical(ds.From, ds.Direction)
		if _, dup := saved[key]; dup {
			return nil, fmt.Errorf("%w: duplicate passage %s from (%d,%d)", ErrInvalidSnapshot, ds.Direction, ds.From.X, ds.From.Y)
		}
		saved[key] = ds
	}

	maze, err := buildMaze(s.GridSize, func(from Position, d Direction) (Question, error) {
		ds, ok := saved[canonical(from, d)]
		if !ok {
			return nil, fmt.Errorf("%w: missing passage %s from (%d,%d)", ErrInvalidSnapshot, d, from.X, from.Y)
		}
		q, err := catalog.Lookup(ds.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("%w: question %q: %v", ErrInvalidSnapshot, ds.QuestionID, err)
		}
		return q, nil
	})
	if err != nil {
		return nil, err
	}

	for _, door := range maze.doors {
		a, b := door.Rooms()
		d := South
		if b.X > a.X {
			d = East
		}
		if !saved[canonical(a, d)].Open {
			door.Close()
		}
	}

	if !inBounds(s.Position) {
		return nil, fmt.Errorf("%w: position (%d,%d) is off the grid", ErrInvalidSnapshot, s.Position.X, s.Position.Y)
	}
	for _, p := range s.Answered {
		if !inBounds(p) {
			return nil, fmt.Errorf("%w: answered room (%d,%d) is off the grid", ErrInvalidSnapshot, p.X, p.Y)
		}
		maze.Room(p).markAnswered()
	}

	opts.Hints = s.HintsRemaining
	e := New(maze, opts)
	e.pos = s.Position
	e.stats = s.Stats
	e.totalMoves = s.TotalMoves
	e.history = append([]MoveHistoryEntry(nil), s.History...)
	if !s.UpdatedAt.IsZero() {
		e.updatedAt = s.UpdatedAt
	}

	switch s.Phase {
	case AwaitingMove, Won, Lost:
		if s.PendingDirection != nil {
			return nil, fmt.Errorf("%w: pending direction without a pending question", ErrInvalidSnapshot)
		}
		e.phase = s.Phase
	case QuestionPending:
		if s.PendingDirection == nil {
			return nil, fmt.Errorf("%w: question pending without a direction", ErrInvalidSnapshot)
		}
		d := *s.PendingDirection
		passage, ok := maze.Room(e.pos).Passage(d)
		if !ok || !passage.Door.IsOpen() {
			return nil, fmt.Errorf("%w: pending move %s from (%d,%d) is not possible", ErrInvalidSnapshot, d, e.pos.X, e.pos.Y)
		}
		question := passage.Question
		if len(s.PendingChoices) > 0 {
			mc, ok := question.(*MultipleChoice)
			if !ok {
				return nil, fmt.Errorf("%w: narrowed choices on a %s question", ErrInvalidSnapshot, question.Kind())
			}
			if question, err = mc.restrict(s.PendingChoices); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
			}
		}
		e.phase = QuestionPending
		e.pendingDir = &d
		e.pendingQuestion = question
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidSnapshot, s.Phase)
	}

	atExit := e.pos == maze.Exit()
	reachable := maze.Reachable(e.pos, maze.Exit())
	switch {
	case e.phase == Won && !atExit:
		return nil, fmt.Errorf("%w: won at (%d,%d), away from the exit", ErrInvalidSnapshot, e.pos.X, e.pos.Y)
	case e.phase != Won && atExit:
		return nil, fmt.Errorf("%w: phase %s with the player on the exit", ErrInvalidSnapshot, e.phase)
	case e.phase == Lost && reachable:
		return nil, fmt.Errorf("%w: lost while the exit is reachable", ErrInvalidSnapshot)
	case !e.phase.Terminal() && !reachable:
		return nil, fmt.Errorf("%w: phase %s with the exit unreachable", ErrInvalidSnapshot, e.phase)
	}

	return e, nil
}

// restrict returns a copy limited to labels, which must keep the correct choice
func (q *MultipleChoice) restrict(labels []string) (*MultipleChoice, error) {
	choices := make(map[string]string, len(labels))
	for _, label := range labels {
		text, ok := q.choices[label]
		if !ok {
			return nil, fmt.Errorf("question %s has no choice %q", q.id, label)
		}
		choices[label] = text
	}
	if _, ok := choices[q.correct]; !ok {
		return nil, fmt.Errorf("question %s: restricted choices drop the correct answer", q.id)
	}
	return NewMultipleChoice(q.id, q.prompt, choices, q.correct)
}
