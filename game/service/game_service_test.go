package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
	"github.com/wricardo/trivia-maze/game/service"
)

var errNotFound = errors.New("session not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	configs  service.ConfigManager
	saves    int
}

func NewMockSessionManager(configs service.ConfigManager) *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
		configs:  configs,
	}
}

func (m *MockSessionManager) Create(id, configID string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	if err := m.start(session); err != nil {
		return nil, err
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) start(session *service.Session) error {
	rng := engine.NewRandomSource(1)
	bank, err := m.configs.Bank(session.Config, rng)
	if err != nil {
		return err
	}
	events := &engine.EventLog{}
	eng, err := engine.NewGame(session.Config.GridSize, bank, engine.Options{Random: rng, Sink: events, Hints: session.Config.Hints})
	if err != nil {
		return err
	}
	session.Engine, session.Events, session.Bank = eng, events, bank
	return nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) Restart(id string) (*service.Session, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return session, m.start(session)
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

func (m *MockSessionManager) Save(id string) error {
	m.saves++
	return nil
}

// MockConfigManager serves two configs backed by in-memory question records.
// Every true/false question is answered "true"; every multiple choice "A".
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	records []questions.Record
}

func NewMockConfigManager() *MockConfigManager {
	base := func(name string, size, hints int, kinds ...engine.QuestionKind) *engine.GameConfig {
		cfg := &engine.GameConfig{
			Name:          name,
			Description:   name + " test config",
			GridSize:      size,
			QuestionBank:  "mock",
			QuestionKinds: kinds,
			Hints:         hints,
			Messages: engine.Messages{
				Welcome: "Welcome to " + name,
				Victory: "Escaped with %d correct answers",
				Defeat:  "Trapped",
			},
		}
		engine.ApplyDefaults(cfg)
		return cfg
	}

	var records []questions.Record
	for i := 1; i <= 4; i++ {
		records = append(records,
			questions.Record{ID: fmt.Sprintf("tf%d", i), Kind: engine.KindTrueFalse, Prompt: fmt.Sprintf("Is %d positive?", i), Answer: "true"},
			questions.Record{ID: fmt.Sprintf("mc%d", i), Kind: engine.KindMultipleChoice, Prompt: fmt.Sprintf("Pick A (%d)", i), Answer: "A",
				Choices: map[string]string{"A": "yes", "B": "no", "C": "nope", "D": "never"}},
		)
	}

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"small": base("Small", 3, 1, engine.KindTrueFalse),
			"mc":    base("Choices", 2, 1, engine.KindMultipleChoice),
		},
		records: records,
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if config, exists := m.configs[name]; exists {
		return config, nil
	}
	return nil, errors.New("configuration not found")
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			GridSize:    config.GridSize,
			Hints:       config.Hints,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["small"]
}

func (m *MockConfigManager) DefaultID() string {
	return "small"
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func (m *MockConfigManager) Bank(config *engine.GameConfig, rng engine.RandomSource) (*questions.Bank, error) {
	return questions.NewBank("mock", m.records, rng, config.QuestionKinds...)
}

func newTestService() (service.GameService, *MockSessionManager) {
	configs := NewMockConfigManager()
	sessions := NewMockSessionManager(configs)
	return service.NewGameService(sessions, configs), sessions
}

func eventTypes(events []service.GameEvent) string {
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return strings.Join(types, ",")
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "small")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ConfigName != "small" {
			t.Errorf("Expected config_name small, got %s", info.ConfigName)
		}
		if info.GameState.GridSize != 3 || info.GameState.Phase != engine.AwaitingMove {
			t.Errorf("Unexpected initial state: %+v", info.GameState)
		}
		if info.GameState.Message != "Welcome to Small" {
			t.Errorf("Expected welcome message, got %q", info.GameState.Message)
		}
	})

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ConfigName != "small" {
			t.Errorf("Expected default config id small, got %s", info.ConfigName)
		}
	})

	t.Run("unknown config lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "huge")
		if err == nil || !strings.Contains(err.Error(), "Available configs") {
			t.Errorf("Expected available configs in error, got %v", err)
		}
	})
}

func TestGameService_MoveAndAnswer(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	move, err := svc.AttemptMove(ctx, info.ID, "right")
	if err != nil {
		t.Fatalf("AttemptMove failed: %v", err)
	}
	if !move.Success || move.Direction != engine.East {
		t.Errorf("Unexpected move result: %+v", move)
	}
	if move.Question == nil || move.Question.Kind != engine.KindTrueFalse {
		t.Fatalf("Expected a true/false question, got %+v", move.Question)
	}
	if got := eventTypes(move.Events); got != "question_presented" {
		t.Errorf("Expected question_presented, got %s", got)
	}
	if move.Message != "A question guards the east door." {
		t.Errorf("Unexpected message %q", move.Message)
	}
	if move.GameState.PlayerPos != (engine.Position{X: 0, Y: 0}) {
		t.Error("Attempting a move must not move the player")
	}

	answer, err := svc.SubmitAnswer(ctx, info.ID, "true")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if !answer.Correct || !answer.Moved || answer.To != (engine.Position{X: 1, Y: 0}) {
		t.Errorf("Unexpected answer result: %+v", answer)
	}
	if got := eventTypes(answer.Events); got != "correct_answer,moved" {
		t.Errorf("Expected correct_answer,moved, got %s", got)
	}
	if answer.Message != "Correct! You pass through to (1,0)." {
		t.Errorf("Unexpected message %q", answer.Message)
	}
	if answer.Attempt == nil || answer.Attempt.MoveNumber != 1 || answer.Attempt.QuestionID != move.Question.ID {
		t.Errorf("Expected attempt 1 for question %s, got %+v", move.Question.ID, answer.Attempt)
	}

	if _, err := svc.AttemptMove(ctx, info.ID, "down"); err != nil {
		t.Fatalf("AttemptMove failed: %v", err)
	}
	wrong, err := svc.SubmitAnswer(ctx, info.ID, "false")
	if err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if wrong.Correct || wrong.Moved || !wrong.DoorClosed {
		t.Errorf("Unexpected wrong answer result: %+v", wrong)
	}
	if !wrong.ExitReachable || wrong.GameOver {
		t.Error("One sealed door must not end the game")
	}
	if got := eventTypes(wrong.Events); got != "wrong_answer" {
		t.Errorf("Expected wrong_answer, got %s", got)
	}
	if wrong.Attempt == nil || wrong.Attempt.MoveNumber != 2 || wrong.Attempt.Correct {
		t.Errorf("Expected a failed attempt 2, got %+v", wrong.Attempt)
	}

	if sessions.saves < 4 {
		t.Errorf("Expected a save after every operation, got %d", sessions.saves)
	}
}

func TestGameService_Errors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"boundary", func() error { _, err := svc.AttemptMove(ctx, info.ID, "up"); return err }, engine.ErrInvalidMove},
		{"bad direction", func() error { _, err := svc.AttemptMove(ctx, info.ID, "sideways"); return err }, engine.ErrInvalidMove},
		{"answer without question", func() error { _, err := svc.SubmitAnswer(ctx, info.ID, "true"); return err }, engine.ErrIllegalState},
		{"hint without question", func() error { _, err := svc.NarrowChoices(ctx, info.ID); return err }, engine.ErrIllegalState},
		{"unknown session", func() error { _, err := svc.GetGameState(ctx, "nope"); return err }, errNotFound},
		{"unknown session move", func() error { _, err := svc.AttemptMove(ctx, "nope", "right"); return err }, errNotFound},
		{"unknown session new game", func() error { _, err := svc.NewGame(ctx, "nope"); return err }, errNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("blocked message", func(t *testing.T) {
		_, err := svc.AttemptMove(ctx, info.ID, "left")
		if err == nil || !strings.Contains(err.Error(), engine.DefaultBlockedMessage) {
			t.Errorf("Expected the blocked message, got %v", err)
		}
	})

	t.Run("sealed door", func(t *testing.T) {
		if _, err := svc.AttemptMove(ctx, info.ID, "east"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.SubmitAnswer(ctx, info.ID, "no"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.AttemptMove(ctx, info.ID, "east"); !errors.Is(err, engine.ErrInvalidMove) {
			t.Errorf("Expected ErrInvalidMove through a sealed door, got %v", err)
		}
	})
}

func TestGameService_Victory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	var last *service.AnswerResult
	for _, dir := range []string{"e", "e", "s", "s"} {
		if _, err := svc.AttemptMove(ctx, info.ID, dir); err != nil {
			t.Fatalf("AttemptMove(%s) failed: %v", dir, err)
		}
		result, err := svc.SubmitAnswer(ctx, info.ID, "TRUE")
		if err != nil {
			t.Fatalf("SubmitAnswer failed: %v", err)
		}
		last = result
	}

	if !last.Victory || !last.GameOver {
		t.Fatalf("Expected victory, got %+v", last)
	}
	if got := eventTypes(last.Events); got != "correct_answer,moved,won" {
		t.Errorf("Expected correct_answer,moved,won, got %s", got)
	}
	if !strings.HasSuffix(last.Message, "Escaped with 4 correct answers") {
		t.Errorf("Unexpected victory message %q", last.Message)
	}

	state, err := svc.GetGameState(ctx, info.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Message != "Escaped with 4 correct answers" {
		t.Errorf("Expected victory message in state, got %q", state.Message)
	}
	if _, err := svc.AttemptMove(ctx, info.ID, "up"); !errors.Is(err, engine.ErrIllegalState) {
		t.Errorf("Expected ErrIllegalState after victory, got %v", err)
	}
}

func TestGameService_Defeat(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	// Seal both doors of the start room
	for i, dir := range []string{"east", "south"} {
		if _, err := svc.AttemptMove(ctx, info.ID, dir); err != nil {
			t.Fatalf("AttemptMove(%s) failed: %v", dir, err)
		}
		result, err := svc.SubmitAnswer(ctx, info.ID, "false")
		if err != nil {
			t.Fatalf("SubmitAnswer failed: %v", err)
		}
		if i == 0 && result.GameOver {
			t.Fatal("Game must not be lost after the first door")
		}
		if i == 1 {
			if !result.GameOver || result.Victory || result.ExitReachable {
				t.Errorf("Expected defeat, got %+v", result)
			}
			if got := eventTypes(result.Events); got != "wrong_answer,lost" {
				t.Errorf("Expected wrong_answer,lost, got %s", got)
			}
			if !strings.HasSuffix(result.Message, "Trapped") {
				t.Errorf("Unexpected defeat message %q", result.Message)
			}
		}
	}
}

func TestGameService_NarrowChoices(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "mc")

	move, err := svc.AttemptMove(ctx, info.ID, "east")
	if err != nil {
		t.Fatalf("AttemptMove failed: %v", err)
	}
	if len(move.Question.Choices) != 4 {
		t.Fatalf("Expected 4 choices, got %d", len(move.Question.Choices))
	}

	hint, err := svc.NarrowChoices(ctx, info.ID)
	if err != nil {
		t.Fatalf("NarrowChoices failed: %v", err)
	}
	if len(hint.Question.Choices) != 2 {
		t.Errorf("Expected 2 choices, got %d", len(hint.Question.Choices))
	}
	if _, ok := hint.Question.Choices["A"]; !ok {
		t.Error("The correct choice must survive narrowing")
	}
	if hint.HintsRemaining != 0 || hint.GameState.Stats.HintsUsed != 1 {
		t.Errorf("Expected the hint to be spent, got %+v", hint)
	}
	if got := eventTypes(hint.Events); got != "choices_narrowed" {
		t.Errorf("Expected choices_narrowed, got %s", got)
	}

	// Already at two choices: free and unchanged
	again, err := svc.NarrowChoices(ctx, info.ID)
	if err != nil {
		t.Fatalf("Second NarrowChoices failed: %v", err)
	}
	if len(again.Question.Choices) != 2 {
		t.Errorf("Expected 2 choices, got %d", len(again.Question.Choices))
	}

	if _, err := svc.SubmitAnswer(ctx, info.ID, "A"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
	if _, err := svc.AttemptMove(ctx, info.ID, "south"); err != nil {
		t.Fatalf("AttemptMove failed: %v", err)
	}
	if _, err := svc.NarrowChoices(ctx, info.ID); !errors.Is(err, engine.ErrNoHints) {
		t.Errorf("Expected ErrNoHints, got %v", err)
	}
}

func TestGameService_NewGame(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	svc.AttemptMove(ctx, info.ID, "east")
	svc.SubmitAnswer(ctx, info.ID, "false")

	state, err := svc.NewGame(ctx, info.ID)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if state.TotalMoves != 0 || state.Stats.Wrong != 0 {
		t.Errorf("Expected a fresh game, got %+v", state)
	}
	if len(state.PossibleMoves) != 2 {
		t.Errorf("Expected both start doors open, got %v", state.PossibleMoves)
	}
	if state.Message != "Welcome to Small" {
		t.Errorf("Expected welcome message, got %q", state.Message)
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "small")

	// One wrong answer, then around the sealed door to the exit
	steps := []struct{ dir, answer string }{
		{"east", "true"}, {"east", "false"}, {"south", "true"}, {"east", "true"}, {"south", "true"},
	}
	for _, step := range steps {
		if _, err := svc.AttemptMove(ctx, info.ID, step.dir); err != nil {
			t.Fatalf("AttemptMove(%s) failed: %v", step.dir, err)
		}
		if _, err := svc.SubmitAnswer(ctx, info.ID, step.answer); err != nil {
			t.Fatalf("SubmitAnswer failed: %v", err)
		}
	}

	t.Run("default page is newest first", func(t *testing.T) {
		history, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if history.TotalMoves != 5 || len(history.Moves) != 5 {
			t.Fatalf("Expected 5 moves, got %d/%d", history.TotalMoves, len(history.Moves))
		}
		if history.Moves[0].MoveNumber != 5 {
			t.Errorf("Expected newest first, got move %d", history.Moves[0].MoveNumber)
		}
		if history.Moves[3].Correct {
			t.Error("Expected move 2 to be the wrong answer")
		}
	})

	t.Run("ascending pages", func(t *testing.T) {
		page2, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 2, Order: "asc"})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if len(page2.Moves) != 2 || page2.Moves[0].MoveNumber != 3 {
			t.Errorf("Unexpected page 2: %+v", page2.Moves)
		}
		if page2.TotalPages != 3 || !page2.HasNext || !page2.HasPrevious {
			t.Errorf("Unexpected pagination: %+v", page2)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		empty, err := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Page: 9, Limit: 2})
		if err != nil {
			t.Fatalf("GetMoveHistory failed: %v", err)
		}
		if empty.Moves == nil || len(empty.Moves) != 0 {
			t.Errorf("Expected an empty, non-nil page, got %v", empty.Moves)
		}
	})
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.CreateSession(ctx, "small")
	svc.CreateSession(ctx, "mc")

	list, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 sessions, got %d", len(list))
	}

	if err := svc.DeleteSession(ctx, first.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, first.ID); !errors.Is(err, errNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
	if err := svc.DeleteSession(ctx, first.ID); !errors.Is(err, errNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}

func TestGameService_Configs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}

	cfg, err := svc.LoadConfig(ctx, "mc")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	custom := *cfg
	custom.Name = "Custom"
	custom.GridSize = 4
	if err := svc.SaveConfig(ctx, "custom", &custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	info, err := svc.CreateSession(ctx, "custom")
	if err != nil {
		t.Fatalf("CreateSession with saved config failed: %v", err)
	}
	if info.GameState.GridSize != 4 {
		t.Errorf("Expected a 4x4 maze, got %d", info.GameState.GridSize)
	}
}
