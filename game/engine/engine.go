package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	Phase() Phase
	Position() Position
	State() *GameState
	IsGameOver() bool
	IsVictory() bool
	IsExitReachable() bool

	// Movement
	CanMove(d Direction) bool
	PossibleMoves() []Direction
	AttemptMove(d Direction) (Question, error)
	SubmitAnswer(candidate string) (bool, error)
	NarrowChoices() (*MultipleChoice, error)

	// Pending question
	PendingQuestion() Question
	PendingDirection() (Direction, bool)

	// Bookkeeping
	Maze() *Maze
	Stats() Stats
	HintsRemaining() int
	History() []MoveHistoryEntry
	Snapshot() Snapshot
}

// Options wires the engine's collaborators
type Options struct {
	// Random drives choice narrowing. Defaults to a clock-seeded source.
	Random RandomSource
	// Sink receives every event. Defaults to discarding them.
	Sink EventSink
	// Hints is the number of NarrowChoices calls allowed; UnlimitedHints removes the limit.
	Hints int
}

// GameEngine is the move/answer state machine for one game. It is not safe
// for concurrent use.
type GameEngine struct {
	maze *Maze
	rng  RandomSource
	sink EventSink

	pos             Position
	phase           Phase
	pendingDir      *Direction
	pendingQuestion Question

	hintsRemaining int
	stats          Stats
	history        []MoveHistoryEntry
	totalMoves     int
	updatedAt      time.Time
}

var _ Engine = (*GameEngine)(nil)

// New starts a game on an already built maze with the player at its start room
func New(maze *Maze, opts Options) *GameEngine {
	e := &GameEngine{
		maze:           maze,
		rng:            opts.Random,
		sink:           opts.Sink,
		pos:            maze.Start(),
		phase:          AwaitingMove,
		hintsRemaining: opts.Hints,
		updatedAt:      time.Now(),
	}
	if e.rng == nil {
		e.rng = NewRandomSource(0)
	}
	if e.sink == nil {
		e.sink = discardSink
	}
	return e
}

// NewGame builds a size×size maze from provider and starts a game on it
func NewGame(size int, provider QuestionProvider, opts Options) (*GameEngine, error) {
	maze, err := BuildMaze(size, provider)
	if err != nil {
		return nil, fmt.Errorf("build maze: %w", err)
	}
	return New(maze, opts), nil
}

// Maze returns the underlying room graph
func (e *GameEngine) Maze() *Maze {
	return e.maze
}

// Phase returns the current state machine phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// Position returns the room the player is in
func (e *GameEngine) Position() Position {
	return e.pos
}

// IsGameOver returns whether the game reached a terminal phase
func (e *GameEngine) IsGameOver() bool {
	return e.phase.Terminal()
}

// IsVictory returns whether the player reached the exit
func (e *GameEngine) IsVictory() bool {
	return e.phase == Won
}

// IsExitReachable reports whether open doors still connect the player to the exit
func (e *GameEngine) IsExitReachable() bool {
	return e.maze.Reachable(e.pos, e.maze.Exit())
}

// PendingQuestion returns the question awaiting an answer, or nil
func (e *GameEngine) PendingQuestion() Question {
	return e.pendingQuestion
}

// PendingDirection returns the direction of the attempted move, if any
func (e *GameEngine) PendingDirection() (Direction, bool) {
	if e.pendingDir == nil {
		return 0, false
	}
	return *e.pendingDir, true
}

// Stats returns the answer counters for this game
func (e *GameEngine) Stats() Stats {
	return e.stats
}

// HintsRemaining returns how many narrowing hints are left, or UnlimitedHints
func (e *GameEngine) HintsRemaining() int {
	if e.hintsRemaining < 0 {
		return UnlimitedHints
	}
	return e.hintsRemaining
}

// History returns the resolved move attempts, oldest first
func (e *GameEngine) History() []MoveHistoryEntry {
	out := make([]MoveHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// LastMove returns the most recent resolved attempt, or nil
func (e *GameEngine) LastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// State builds a serializable view of the game. Answer keys are never included.
func (e *GameEngine) State() *GameState {
	state := &GameState{
		GridSize:       e.maze.Size(),
		PlayerPos:      e.pos,
		Start:          e.maze.Start(),
		Exit:           e.maze.Exit(),
		Phase:          e.phase,
		GameOver:       e.phase.Terminal(),
		Victory:        e.phase == Won,
		PossibleMoves:  e.PossibleMoves(),
		ExitReachable:  e.IsExitReachable(),
		DistanceToExit: -1,
		HintsRemaining: e.HintsRemaining(),
		Stats:          e.stats,
		TotalMoves:     e.totalMoves,
		UpdatedAt:      e.updatedAt,
	}
	if state.PossibleMoves == nil {
		state.PossibleMoves = []Direction{}
	}
	if path, ok := e.maze.ShortestPath(e.pos, e.maze.Exit()); ok {
		state.DistanceToExit = len(path)
	}
	if e.pendingDir != nil {
		d := *e.pendingDir
		state.PendingDirection = &d
	}
	if e.pendingQuestion != nil {
		view := ViewQuestion(e.pendingQuestion)
		state.PendingQuestion = &view
	}
	for _, room := range e.maze.rooms {
		state.Rooms = append(state.Rooms, room.view())
	}
	return state
}

func (e *GameEngine) emit(event Event) {
	e.sink.Notify(event)
}

func (e *GameEngine) touch() {
	e.updatedAt = time.Now()
}
