package service

import (
	"context"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	AttemptMove(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error)
	NarrowChoices(ctx context.Context, sessionID string) (*HintResult, error)
	NewGame(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	Restart(id string) (*Session, error)
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles game configuration loading and the question
// banks the configurations point at
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	DefaultID() string
	SaveConfig(name string, config *engine.GameConfig) error
	Bank(config *engine.GameConfig, rng engine.RandomSource) (*questions.Bank, error)
}

// Session represents an active game session. Events collects the engine's
// notifications until the service drains them into a response.
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Events         *engine.EventLog
	Config         *engine.GameConfig
	Bank           *questions.Bank
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
