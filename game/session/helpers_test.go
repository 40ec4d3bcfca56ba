package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/wricardo/trivia-maze/game/config"
	"github.com/wricardo/trivia-maze/game/engine"
)

// Every question in the test bank is answered by "true"
const testBank = `name: always-true
questions:
  - {id: t1, kind: true_false, prompt: One is odd., answer: "true"}
  - {id: t2, kind: true_false, prompt: Three is odd., answer: "true"}
  - {id: t3, kind: true_false, prompt: Five is odd., answer: "true"}
`

func createTestConfig() *engine.GameConfig {
	config := &engine.GameConfig{
		Name:         "Tiny",
		Description:  "3x3 test maze",
		GridSize:     3,
		QuestionBank: "questions/test.yaml",
		Hints:        1,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Victory: "Out after %d answers!",
			Defeat:  "Trapped!",
		},
	}
	engine.ApplyDefaults(config)
	return config
}

// newTestConfigManager lays out configs/tiny.json and questions/test.yaml in a temp dir
func newTestConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	root, err := os.MkdirTemp("", "session-configs-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })

	for _, dir := range []string{"configs", "questions"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "questions", "test.yaml"), []byte(testBank), 0644); err != nil {
		t.Fatalf("Failed to write bank: %v", err)
	}
	data, _ := json.MarshalIndent(createTestConfig(), "", "  ")
	if err := os.WriteFile(filepath.Join(root, "configs", "tiny.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	manager, err := config.NewManager(filepath.Join(root, "configs"))
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return manager
}

// play attempts a move and answers it
func play(t *testing.T, game *engine.GameEngine, d engine.Direction, answer string) {
	t.Helper()
	if _, err := game.AttemptMove(d); err != nil {
		t.Fatalf("AttemptMove(%s) failed: %v", d, err)
	}
	if _, err := game.SubmitAnswer(answer); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}
}
