package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
	"github.com/wricardo/trivia-maze/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrBankNotFound   = errors.New("question bank not found")
)

// DefaultConfigID names the built-in configuration used when the config
// directory has no loadable file
const DefaultConfigID = "default"

// Manager handles game configuration loading and caching. It also caches
// the question bank files the configurations refer to, so every session
// gets its own Bank without re-reading the source.
type Manager struct {
	configDir     string
	bankDir       string
	defaultConfig *engine.GameConfig
	defaultID     string
	configs       map[string]*engine.GameConfig
	banks         map[string]*questions.BankFile
	mongo         *questions.MongoStore
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager. Relative question_bank
// paths resolve against the parent of configDir.
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		bankDir:   filepath.Dir(filepath.Clean(configDir)),
		configs:   make(map[string]*engine.GameConfig),
		banks:     make(map[string]*questions.BankFile),
	}

	// Load default config
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// SetBankDir changes the directory relative question_bank paths resolve against
func (m *Manager) SetBankDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bankDir = dir
	m.banks = make(map[string]*questions.BankFile)
}

// SetMongoStore enables configurations whose question_bank is "mongo"
func (m *Manager) SetMongoStore(store *questions.MongoStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mongo = store
	delete(m.banks, questions.MongoBankName)
}

// LoadConfig loads a configuration by name (case-insensitive)
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	name = strings.ToLower(strings.TrimSuffix(name, ".json"))
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	configPath := filepath.Join(m.configDir, name+".json")

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			if name == DefaultConfigID && m.defaultConfig != nil {
				return m.defaultConfig, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := engine.ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Cache the config
	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for config name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the config to get details
		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:     entry.Name(),
			ConfigID:     strings.ToLower(name), // This is the identifier to use for session creation
			Name:         config.Name,
			Description:  config.Description,
			GridSize:     config.GridSize,
			Hints:        config.Hints,
			QuestionBank: config.QuestionBank,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// DefaultID returns the config ID that loads the default configuration
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// RefreshCache drops every cached configuration and bank, then reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.banks = make(map[string]*questions.BankFile)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// Count returns how many configurations are cached
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

// loadDefaultConfig loads the default configuration
func (m *Manager) loadDefaultConfig() error {
	// Try to load classic.json as default
	id := "classic"
	config, err := m.LoadConfig(id)
	if err != nil {
		// Try to load the first available config
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			m.setDefault(DefaultConfigID, engine.DefaultGameConfig())
			return nil
		}

		// Use the first available config
		id = configs[0].ConfigID
		config, err = m.LoadConfig(id)
		if err != nil {
			m.setDefault(DefaultConfigID, engine.DefaultGameConfig())
			return nil
		}
	}

	m.setDefault(id, config)
	return nil
}

func (m *Manager) setDefault(id string, config *engine.GameConfig) {
	m.mu.Lock()
	m.defaultID = id
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig saves a configuration to disk
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	name = strings.ToLower(strings.TrimSuffix(name, ".json"))
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	config = cloneConfig(config)
	engine.ApplyDefaults(config)

	configPath := filepath.Join(m.configDir, name+".json")

	// Marshal config to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// Bank returns a new question bank for one game of config. The bank's
// source is read once and cached; each call gets independent decks drawn
// with rng and limited to the config's question kinds.
func (m *Manager) Bank(config *engine.GameConfig, rng engine.RandomSource) (*questions.Bank, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	file, err := m.bankFile(config.QuestionBank)
	if err != nil {
		return nil, err
	}
	return file.Bank(rng, config.QuestionKinds...)
}

// bankFile loads and caches the records behind a question_bank value
func (m *Manager) bankFile(source string) (*questions.BankFile, error) {
	m.mu.RLock()
	key := m.bankKey(source)
	if file, ok := m.banks[key]; ok {
		m.mu.RUnlock()
		return file, nil
	}
	store := m.mongo
	m.mu.RUnlock()

	var file *questions.BankFile
	if source == questions.MongoBankName {
		if store == nil {
			return nil, fmt.Errorf("%w: no MongoDB store configured", ErrBankNotFound)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		records, err := store.All(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load questions from MongoDB: %w", err)
		}
		file = &questions.BankFile{Name: questions.MongoBankName, Questions: records}
	} else {
		loaded, err := questions.LoadBankFile(key)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrBankNotFound, source)
			}
			return nil, err
		}
		file = loaded
	}

	m.mu.Lock()
	m.banks[key] = file
	m.mu.Unlock()
	return file, nil
}

// bankKey resolves a question_bank value to its cache key. Callers hold mu.
func (m *Manager) bankKey(source string) string {
	if source == questions.MongoBankName || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(m.bankDir, source)
}

// cloneConfig copies config so the cached value is not shared with the caller
func cloneConfig(config *engine.GameConfig) *engine.GameConfig {
	clone := *config
	clone.QuestionKinds = append([]engine.QuestionKind(nil), config.QuestionKinds...)
	return &clone
}
