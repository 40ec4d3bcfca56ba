package config

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
)

const testBank = `name: test
questions:
  - id: t1
    kind: true_false
    prompt: One is odd.
    answer: "true"
  - id: t2
    kind: true_false
    prompt: Three is odd.
    answer: "true"
  - id: m1
    kind: multiple_choice
    prompt: Two plus two?
    answer: B
    choices: {A: "3", B: "4", C: "5"}
`

// createTestDirs lays out root/configs and root/questions/test.yaml
func createTestDirs(t *testing.T) (root, configDir string) {
	t.Helper()
	root, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })

	configDir = filepath.Join(root, "configs")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "questions"), 0755); err != nil {
		t.Fatalf("Failed to create questions dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "questions", "test.yaml"), []byte(testBank), 0644); err != nil {
		t.Fatalf("Failed to write bank: %v", err)
	}
	return root, configDir
}

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:         "Test Config",
		Description:  "Test configuration",
		GridSize:     3,
		QuestionBank: "questions/test.yaml",
		Hints:        2,
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Victory: "Out after %d answers!",
			Defeat:  "Trapped!",
		},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		_, dir := createTestDirs(t)
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Test Config" {
			t.Errorf("Expected classic to be the default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("first config when classic is missing", func(t *testing.T) {
		_, dir := createTestDirs(t)
		other := createValidConfig()
		other.Name = "Other"
		writeConfigFile(t, dir, "other", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Other" {
			t.Errorf("Expected Other as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("built-in default without config files", func(t *testing.T) {
		_, dir := createTestDirs(t)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}
		def := manager.GetDefault()
		if def == nil || def.GridSize != 5 {
			t.Errorf("Expected the built-in 5x5 default, got %+v", def)
		}
		if id := manager.DefaultID(); id != DefaultConfigID {
			t.Errorf("Expected default ID %q, got %q", DefaultConfigID, id)
		}
		loaded, err := manager.LoadConfig(DefaultConfigID)
		if err != nil {
			t.Fatalf("Expected %q to load the built-in config: %v", DefaultConfigID, err)
		}
		if loaded != def {
			t.Errorf("Expected %q to resolve to the built-in default", DefaultConfigID)
		}
	})
}

func TestManager_DefaultID(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "other", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if id := manager.DefaultID(); id != "other" {
		t.Errorf("Expected default ID other, got %q", id)
	}
	if _, err := manager.LoadConfig(manager.DefaultID()); err != nil {
		t.Errorf("Default ID should load: %v", err)
	}

	writeConfigFile(t, dir, "classic", createValidConfig())
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if id := manager.DefaultID(); id != "classic" {
		t.Errorf("Expected classic after refresh, got %q", id)
	}
}

func TestManager_LoadConfig(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	invalid := createValidConfig()
	invalid.GridSize = 1
	writeConfigFile(t, dir, "invalid", invalid)

	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name    string
		config  string
		wantErr error
	}{
		{"existing", "classic", nil},
		{"with extension", "classic.json", nil},
		{"upper case", "CLASSIC", nil},
		{"missing", "nope", ErrConfigNotFound},
		{"path traversal", "../classic", ErrConfigNotFound},
		{"invalid grid", "invalid", ErrInvalidConfig},
		{"malformed json", "broken", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := manager.LoadConfig(tt.config)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if config.Messages.Question != engine.DefaultQuestionMessage {
				t.Errorf("Expected default question message to be applied, got %q", config.Messages.Question)
			}
		})
	}
}

func TestManager_ListConfigs(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	big := createValidConfig()
	big.Name = "Big"
	big.GridSize = 8
	big.Hints = engine.UnlimitedHints
	writeConfigFile(t, dir, "big", big)

	invalid := createValidConfig()
	invalid.Name = ""
	writeConfigFile(t, dir, "invalid", invalid)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "big" || configs[1].ConfigID != "classic" {
		t.Errorf("Expected configs sorted by id, got %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	if configs[0].GridSize != 8 || configs[0].Hints != engine.UnlimitedHints {
		t.Errorf("Unexpected details for big: %+v", configs[0])
	}
	if configs[1].QuestionBank != "questions/test.yaml" {
		t.Errorf("Unexpected question bank: %s", configs[1].QuestionBank)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	_, dir := createTestDirs(t)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := createValidConfig()
	config.Name = "Saved"
	if err := manager.SaveConfig("saved", config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected saved.json on disk: %v", err)
	}

	loaded, err := manager.LoadConfig("saved")
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Name != "Saved" {
		t.Errorf("Expected Saved, got %s", loaded.Name)
	}
	if loaded.Messages.Correct != engine.DefaultCorrectMessage {
		t.Errorf("Expected the stored config to carry default messages, got %q", loaded.Messages.Correct)
	}
	if config.Messages.Correct != "" || config.Messages.Blocked != "" {
		t.Errorf("SaveConfig should not modify the caller's config, got %+v", config.Messages)
	}
	if loaded == config {
		t.Error("Expected the cache to hold a copy of the saved config")
	}

	bad := createValidConfig()
	bad.Messages.Victory = "no count"
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a path name, got %v", err)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	changed := createValidConfig()
	changed.Name = "Changed"
	writeConfigFile(t, dir, "classic", changed)

	// Cached until refreshed
	if cfg, _ := manager.LoadConfig("classic"); cfg.Name != "Test Config" {
		t.Errorf("Expected cached config, got %s", cfg.Name)
	}
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if manager.GetDefault().Name != "Changed" {
		t.Errorf("Expected refreshed default, got %s", manager.GetDefault().Name)
	}
}

func TestManager_Bank(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	config := manager.GetDefault()

	bank, err := manager.Bank(config, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Failed to build bank: %v", err)
	}
	if bank.Len() != 3 || bank.Name() != "test" {
		t.Errorf("Unexpected bank %s with %d questions", bank.Name(), bank.Len())
	}

	// Each call gets its own bank
	other, err := manager.Bank(config, nil)
	if err != nil {
		t.Fatalf("Failed to build second bank: %v", err)
	}
	if other == bank {
		t.Error("Expected a fresh bank per call")
	}

	kinds := createValidConfig()
	kinds.QuestionKinds = []engine.QuestionKind{engine.KindTrueFalse}
	filtered, err := manager.Bank(kinds, nil)
	if err != nil {
		t.Fatalf("Failed to build filtered bank: %v", err)
	}
	if filtered.Available() != 2 {
		t.Errorf("Expected 2 true/false questions, got %d", filtered.Available())
	}

	missing := createValidConfig()
	missing.QuestionBank = "questions/missing.yaml"
	if _, err := manager.Bank(missing, nil); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("Expected ErrBankNotFound, got %v", err)
	}

	mongo := createValidConfig()
	mongo.QuestionBank = questions.MongoBankName
	if _, err := manager.Bank(mongo, nil); !errors.Is(err, ErrBankNotFound) {
		t.Errorf("Expected ErrBankNotFound without a MongoDB store, got %v", err)
	}

	if _, err := manager.Bank(nil, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for nil config, got %v", err)
	}
}

func TestManager_BankDir(t *testing.T) {
	root, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	manager.SetBankDir(filepath.Join(root, "questions"))
	config := createValidConfig()
	config.QuestionBank = "test.yaml"
	if _, err := manager.Bank(config, nil); err != nil {
		t.Errorf("Expected bank relative to the bank dir: %v", err)
	}

	abs := createValidConfig()
	abs.QuestionBank = filepath.Join(root, "questions", "test.yaml")
	if _, err := manager.Bank(abs, nil); err != nil {
		t.Errorf("Expected absolute bank path to load: %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	_, dir := createTestDirs(t)
	writeConfigFile(t, dir, "classic", createValidConfig())

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Test concurrent loading
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			config, err := manager.LoadConfig(configName)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Bank(config, nil); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.Count() < 6 {
		t.Errorf("Expected at least 6 configs in cache, got %d", manager.Count())
	}
}
