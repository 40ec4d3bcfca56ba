package service

import (
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move attempt. A successful attempt
// does not move the player; it presents the question guarding the door.
type MoveResult struct {
	Success   bool                 `json:"success"`
	Direction engine.Direction     `json:"direction"`
	Question  *engine.QuestionView `json:"question,omitempty"`
	GameState *engine.GameState    `json:"game_state"`
	Message   string               `json:"message"`
	Events    []GameEvent          `json:"events,omitempty"`
}

// AnswerResult contains the outcome of answering the pending question
type AnswerResult struct {
	Correct       bool                     `json:"correct"`
	Moved         bool                     `json:"moved"`
	DoorClosed    bool                     `json:"door_closed"`
	From          engine.Position          `json:"from"`
	To            engine.Position          `json:"to"`
	ExitReachable bool                     `json:"exit_reachable"`
	GameOver      bool                     `json:"game_over"`
	Victory       bool                     `json:"victory"`
	Attempt       *engine.MoveHistoryEntry `json:"attempt,omitempty"`
	GameState     *engine.GameState        `json:"game_state"`
	Message       string                   `json:"message"`
	Events        []GameEvent              `json:"events,omitempty"`
}

// HintResult contains the pending question after its choices were narrowed
type HintResult struct {
	Question       *engine.QuestionView `json:"question"`
	HintsRemaining int                  `json:"hints_remaining"`
	GameState      *engine.GameState    `json:"game_state"`
	Message        string               `json:"message"`
	Events         []GameEvent          `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string               `json:"type"` // engine event type, or "new_game"
	Message   string               `json:"message"`
	Timestamp time.Time            `json:"timestamp"`
	Position  engine.Position      `json:"position"`
	Direction *engine.Direction    `json:"direction,omitempty"`
	Question  *engine.QuestionView `json:"question,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string `json:"filename"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	GridSize     int    `json:"grid_size"`
	Hints        int    `json:"hints"`
	QuestionBank string `json:"question_bank"`
}
