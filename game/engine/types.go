package engine

import (
	"errors"
	"time"
)

const (
	// Validation constants
	MinGridSize    = 2
	MaxGridSize    = 12
	UnlimitedHints = -1
	MaxHistory     = 1000
)

var (
	// ErrInvalidMove is returned when a move targets the grid boundary or a sealed door
	ErrInvalidMove = errors.New("invalid move")

	// ErrIllegalState is returned when an operation is not allowed in the current phase
	ErrIllegalState = errors.New("illegal state")

	// ErrQuestionUnavailable is returned when no question can be supplied for a passage
	ErrQuestionUnavailable = errors.New("question unavailable")

	// ErrNoHints is returned by NarrowChoices once the hint budget is spent
	ErrNoHints = errors.New("no hints remaining")

	// ErrInvalidSnapshot is returned when a snapshot cannot be restored
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Phase is the state of a game in the move/answer cycle
type Phase string

const (
	AwaitingMove    Phase = "awaiting_move"
	QuestionPending Phase = "question_pending"
	Won             Phase = "won"
	Lost            Phase = "lost"
)

// Terminal reports whether no further moves are possible
func (p Phase) Terminal() bool {
	return p == Won || p == Lost
}

// Position represents x,y coordinates; x is the column and y the row
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighboring position in direction d
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Stats counts answer outcomes for one game
type Stats struct {
	Correct   int `json:"correct"`
	Wrong     int `json:"wrong"`
	HintsUsed int `json:"hints_used"`
}

// MoveHistoryEntry records one resolved question
type MoveHistoryEntry struct {
	Direction    Direction `json:"direction"`
	FromPosition Position  `json:"from_position"`
	ToPosition   Position  `json:"to_position"`
	QuestionID   string    `json:"question_id"`
	Answer       string    `json:"answer"`
	Correct      bool      `json:"correct"`
	Timestamp    int64     `json:"timestamp"`
	MoveNumber   int       `json:"move_number"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	GridSize      int            `json:"grid_size"`
	QuestionBank  string         `json:"question_bank"`
	QuestionKinds []QuestionKind `json:"question_kinds,omitempty"`
	Hints         int            `json:"hints"`
	Seed          int64          `json:"seed,omitempty"`
	Messages      Messages       `json:"messages"`
}

// Messages are the player-facing texts for each outcome
type Messages struct {
	Welcome  string `json:"welcome"`
	Question string `json:"question"`
	Correct  string `json:"correct"`
	Wrong    string `json:"wrong"`
	Blocked  string `json:"blocked"`
	Victory  string `json:"victory"`
	Defeat   string `json:"defeat"`
}

// DoorView describes one passage as seen from a room
type DoorView struct {
	Direction  Direction `json:"direction"`
	Open       bool      `json:"open"`
	QuestionID string    `json:"question_id"`
}

// RoomView is the serializable form of a room
type RoomView struct {
	X        int        `json:"x"`
	Y        int        `json:"y"`
	Answered bool       `json:"answered,omitempty"`
	Doors    []DoorView `json:"doors"`
}

// QuestionView is a question stripped of its answer key
type QuestionView struct {
	ID      string            `json:"id"`
	Kind    QuestionKind      `json:"kind"`
	Prompt  string            `json:"prompt"`
	Choices map[string]string `json:"choices,omitempty"`
}

// GameState is a read-only view of a game for clients
type GameState struct {
	GridSize         int           `json:"grid_size"`
	PlayerPos        Position      `json:"player_pos"`
	Start            Position      `json:"start"`
	Exit             Position      `json:"exit"`
	Phase            Phase         `json:"phase"`
	GameOver         bool          `json:"game_over"`
	Victory          bool          `json:"victory"`
	PendingDirection *Direction    `json:"pending_direction,omitempty"`
	PendingQuestion  *QuestionView `json:"pending_question,omitempty"`
	PossibleMoves    []Direction   `json:"possible_moves"`
	ExitReachable    bool          `json:"exit_reachable"`
	DistanceToExit   int           `json:"distance_to_exit"`
	HintsRemaining   int           `json:"hints_remaining"`
	Stats            Stats         `json:"stats"`
	Rooms            []RoomView    `json:"rooms"`
	TotalMoves       int           `json:"total_moves"`
	Message          string        `json:"message,omitempty"`
	ConfigName       string        `json:"config_name,omitempty"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
