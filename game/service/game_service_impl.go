package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
)

// gameServiceImpl implements the GameService interface. mu serializes
// writers to session fields and engines; readers hold it shared.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	configID := strings.ToLower(strings.TrimSuffix(configName, ".json"))
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	session.Events.Drain()

	info := s.sessionInfo(session)
	info.GameState.Message = config.Messages.Welcome
	return info, nil
}

// GetSession retrieves session information. It touches LastAccessedAt, so
// it takes the write lock like every other path that updates a session.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	return nil
}

// AttemptMove asks to move through a door. The player stays put; the
// question guarding the door is returned and must be answered next.
func (s *gameServiceImpl) AttemptMove(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	d, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	question, err := sess.Engine.AttemptMove(d)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidMove) {
			return nil, fmt.Errorf("%w: %s", err, sess.Config.Messages.Blocked)
		}
		return nil, err
	}

	events := s.collectEvents(sess)
	view := engine.ViewQuestion(question)
	state := s.gameState(sess)
	result := &MoveResult{
		Success:   true,
		Direction: d,
		Question:  &view,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}

	s.persist(sessionID, "move")
	return result, nil
}

// SubmitAnswer answers the pending question
func (s *gameServiceImpl) SubmitAnswer(ctx context.Context, sessionID, answer string) (*AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	from := sess.Engine.Position()
	correct, err := sess.Engine.SubmitAnswer(answer)
	if err != nil {
		return nil, err
	}

	raw := sess.Events.Events()
	events := s.collectEvents(sess)
	state := s.gameState(sess)

	result := &AnswerResult{
		Correct:       correct,
		Moved:         correct,
		From:          from,
		To:            sess.Engine.Position(),
		ExitReachable: state.ExitReachable,
		GameOver:      state.GameOver,
		Victory:       state.Victory,
		Attempt:       sess.Engine.LastMove(),
		GameState:     state,
		Events:        events,
	}
	for _, ev := range raw {
		if ev.Type == engine.EventWrongAnswer && ev.DoorClosed {
			result.DoorClosed = true
		}
	}

	// Lead with the answer outcome, then the end of the game if it came
	var parts []string
	for _, ev := range events {
		switch engine.EventType(ev.Type) {
		case engine.EventCorrectAnswer, engine.EventWrongAnswer, engine.EventWon, engine.EventLost:
			parts = append(parts, ev.Message)
		}
	}
	result.Message = strings.Join(parts, " ")
	state.Message = result.Message

	s.persist(sessionID, "answer")
	return result, nil
}

// NarrowChoices spends a hint on the pending multiple choice question
func (s *gameServiceImpl) NarrowChoices(ctx context.Context, sessionID string) (*HintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	narrowed, err := sess.Engine.NarrowChoices()
	if err != nil {
		return nil, err
	}

	events := s.collectEvents(sess)
	view := engine.ViewQuestion(narrowed)
	state := s.gameState(sess)
	message := fmt.Sprintf("Choices left: %s.", strings.Join(narrowed.Labels(), ", "))
	state.Message = message

	s.persist(sessionID, "hint")
	return &HintResult{
		Question:       &view,
		HintsRemaining: sess.Engine.HintsRemaining(),
		GameState:      state,
		Message:        message,
		Events:         events,
	}, nil
}

// NewGame replaces the session's game with a fresh maze from the same configuration
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Restart(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	sess.Events.Drain()

	state := s.gameState(sess)
	state.Message = sess.Config.Messages.Welcome
	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.gameState(sess), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.History()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      s.gameState(sess),
		GameConfig:     sess.Config,
	}
}

// gameState is the engine's view plus the message for the current phase
func (s *gameServiceImpl) gameState(sess *Session) *engine.GameState {
	state := sess.Engine.State()
	state.ConfigName = sess.ConfigID
	msgs := sess.Config.Messages

	switch state.Phase {
	case engine.Won:
		state.Message = fmt.Sprintf(msgs.Victory, state.Stats.Correct)
	case engine.Lost:
		state.Message = msgs.Defeat
	case engine.QuestionPending:
		state.Message = fmt.Sprintf(msgs.Question, *state.PendingDirection)
	default:
		if state.TotalMoves == 0 {
			state.Message = msgs.Welcome
		}
	}
	return state
}

// collectEvents drains the session's event log into response events
func (s *gameServiceImpl) collectEvents(sess *Session) []GameEvent {
	raw := sess.Events.Drain()
	events := make([]GameEvent, 0, len(raw))
	now := time.Now()
	stats := sess.Engine.Stats()

	for _, ev := range raw {
		events = append(events, GameEvent{
			Type:      string(ev.Type),
			Message:   eventMessage(sess.Config.Messages, ev, stats),
			Timestamp: now,
			Position:  ev.Position,
			Direction: ev.Direction,
			Question:  ev.Question,
		})
	}
	return events
}

func eventMessage(msgs engine.Messages, ev engine.Event, stats engine.Stats) string {
	dir := ""
	if ev.Direction != nil {
		dir = ev.Direction.String()
	}

	switch ev.Type {
	case engine.EventQuestionPresented:
		return fmt.Sprintf(msgs.Question, dir)
	case engine.EventCorrectAnswer:
		return fmt.Sprintf(msgs.Correct, ev.Position.X, ev.Position.Y)
	case engine.EventMoved:
		return fmt.Sprintf("Moved %s to (%d,%d)", dir, ev.Position.X, ev.Position.Y)
	case engine.EventWrongAnswer:
		return msgs.Wrong
	case engine.EventWon:
		return fmt.Sprintf(msgs.Victory, stats.Correct)
	case engine.EventLost:
		return msgs.Defeat
	case engine.EventChoicesNarrowed:
		return "Two choices remain."
	}
	return string(ev.Type)
}

// persist auto-saves a session after an operation
func (s *gameServiceImpl) persist(sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, op, err)
	}
}
