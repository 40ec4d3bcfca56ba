package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions
type PersistedSessionData struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	Snapshot       engine.Snapshot `json:"snapshot"`
}

// encodeSession serializes a session for storage
func encodeSession(session *service.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}
	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID, // Store config ID, not display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Snapshot:       session.Engine.Snapshot(),
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session data: %w", err)
	}
	return jsonData, nil
}

// decodeSession rebuilds a session from stored bytes, restoring its game
// against a fresh bank for the session's configuration
func decodeSession(jsonData []byte, configs service.ConfigManager) (*service.Session, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	gameConfig, err := configs.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	rng := engine.NewRandomSource(gameConfig.Seed)
	bank, err := configs.Bank(gameConfig, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	events := &engine.EventLog{}
	gameEngine, err := engine.Restore(data.Snapshot, bank, engine.Options{
		Random: rng,
		Sink:   events,
		Hints:  gameConfig.Hints,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigName,
		Engine:         gameEngine,
		Events:         events,
		Config:         gameConfig,
		Bank:           bank,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}
