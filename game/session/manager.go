package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// Manager handles game session lifecycle
type Manager struct {
	sessions    map[string]*service.Session
	configs     service.ConfigManager
	persistence SessionPersistence
	mu          sync.RWMutex
}

var _ service.SessionManager = (*Manager)(nil)

// NewManager creates a new session manager. configs supplies each new
// game's question bank.
func NewManager(configs service.ConfigManager) *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
		configs:  configs,
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(configs service.ConfigManager, persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		configs:     configs,
		persistence: persistence,
	}
}

// Create creates a new session with the given ID and configuration. An
// empty id gets a generated one.
func (m *Manager) Create(id, configID string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	}
	if strings.ContainsAny(id, `/\. `) {
		return nil, ErrInvalidSessionID
	}
	if config == nil {
		return nil, fmt.Errorf("failed to create session: config is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if session already exists (case-insensitive)
	if m.sessionExists(id) {
		return nil, ErrSessionAlreadyExists
	}

	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	if err := m.startGame(session); err != nil {
		return nil, err
	}

	m.sessions[strings.ToLower(id)] = session

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			// Log error but don't fail the creation
			log.Printf("Warning: Failed to persist session %s: %v", id, err)
		}
	}

	return session, nil
}

// Restart replaces a session's game with a new maze built from the same
// configuration. Pending events from the old game are discarded.
func (m *Manager) Restart(id string) (*service.Session, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.startGame(session); err != nil {
		return nil, err
	}
	session.LastAccessedAt = time.Now()

	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			log.Printf("Warning: Failed to persist session %s after restart: %v", id, err)
		}
	}

	return session, nil
}

// startGame gives session a fresh bank, event log and engine
func (m *Manager) startGame(session *service.Session) error {
	if m.configs == nil {
		return fmt.Errorf("failed to create engine: no config manager")
	}
	rng := engine.NewRandomSource(session.Config.Seed)
	bank, err := m.configs.Bank(session.Config, rng)
	if err != nil {
		return fmt.Errorf("failed to load question bank: %w", err)
	}

	events := &engine.EventLog{}
	eng, err := engine.NewGame(session.Config.GridSize, bank, engine.Options{
		Random: rng,
		Sink:   events,
		Hints:  session.Config.Hints,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	session.Engine = eng
	session.Events = events
	session.Bank = bank
	return nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && m.persistence.Exists(id) {
		session, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		// Add to memory cache unless another caller got there first
		m.mu.Lock()
		defer m.mu.Unlock()
		if cached, ok := m.sessions[strings.ToLower(id)]; ok {
			return cached, nil
		}
		m.sessions[strings.ToLower(id)] = session

		return session, nil
	}

	return nil, ErrSessionNotFound
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.sessions[lowerID]
	delete(m.sessions, lowerID)

	// Delete from persistence if it exists
	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	// If not in persistence and not in memory, it doesn't exist
	if !inMemory {
		return ErrSessionNotFound
	}

	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}

	session.LastAccessedAt = time.Now()

	// Auto-save if persistence is enabled
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			log.Printf("Warning: Failed to persist session %s after access update: %v", id, err)
		}
	}

	return nil
}

// Save saves a specific session to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the
// given duration from memory. Persisted copies stay loadable.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// PruneOrphans drops in-memory sessions whose persisted copy was deleted
// behind the manager's back. It returns the pruned IDs.
func (m *Manager) PruneOrphans() []string {
	if m.persistence == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var pruned []string
	for id, session := range m.sessions {
		if !m.persistence.Exists(session.ID) {
			delete(m.sessions, id)
			pruned = append(pruned, session.ID)
		}
	}
	return pruned
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists (case-insensitive), in memory or in storage
func (m *Manager) sessionExists(id string) bool {
	if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return true
	}
	return m.persistence != nil && m.persistence.Exists(id)
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range sessionIDs {
		// Skip if already loaded in memory
		if _, exists := m.sessions[strings.ToLower(id)]; exists {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted session %s: %v", id, err)
			continue
		}

		m.sessions[strings.ToLower(id)] = session
		loadedCount++
	}

	if loadedCount > 0 {
		log.Printf("Loaded %d persisted sessions from storage", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	sessions := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, session := range sessions {
		if err := m.persistence.Save(session); err != nil {
			log.Printf("Warning: Failed to save session %s: %v", session.ID, err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}
