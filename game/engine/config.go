package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Default texts for the optional messages
const (
	DefaultQuestionMessage = "A question guards the %s door."
	DefaultCorrectMessage  = "Correct! You pass through to (%d,%d)."
	DefaultWrongMessage    = "Wrong! The door slams shut and locks forever."
	DefaultBlockedMessage  = "That way is blocked."
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.QuestionBank == "" {
		return fmt.Errorf("config validation: question_bank is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}

	if config.Hints < UnlimitedHints {
		return fmt.Errorf("config validation: hints must be %d (unlimited) or more, got %d", UnlimitedHints, config.Hints)
	}

	seen := make(map[QuestionKind]bool)
	for _, kind := range config.QuestionKinds {
		if !kind.Valid() {
			return fmt.Errorf("config validation: unknown question kind %q", kind)
		}
		if seen[kind] {
			return fmt.Errorf("config validation: question kind %q listed twice", kind)
		}
		seen[kind] = true
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.Defeat == "" {
		return fmt.Errorf("config validation: messages.defeat is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the correct answer count")
	}
	if config.Messages.Question != "" && !strings.Contains(config.Messages.Question, "%s") {
		return fmt.Errorf("config validation: messages.question must contain %%s for the direction")
	}
	if config.Messages.Correct != "" && strings.Count(config.Messages.Correct, "%d") != 2 {
		return fmt.Errorf("config validation: messages.correct must contain two %%d for the new position")
	}

	return nil
}

// ApplyDefaults fills optional messages left empty
func ApplyDefaults(config *GameConfig) {
	if config.Messages.Question == "" {
		config.Messages.Question = DefaultQuestionMessage
	}
	if config.Messages.Correct == "" {
		config.Messages.Correct = DefaultCorrectMessage
	}
	if config.Messages.Wrong == "" {
		config.Messages.Wrong = DefaultWrongMessage
	}
	if config.Messages.Blocked == "" {
		config.Messages.Blocked = DefaultBlockedMessage
	}
}

// ParseGameConfig decodes, defaults and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	ApplyDefaults(&config)

	return &config, nil
}

// DefaultGameConfig is the built-in 5×5 game used when no config file is given
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:         "Classic Trivia Maze",
		Description:  "A 5x5 maze of rooms. Every door asks a question; a wrong answer locks it for good.",
		GridSize:     5,
		QuestionBank: "questions/general.yaml",
		Hints:        3,
		Messages: Messages{
			Welcome: "Welcome to the Trivia Maze! Find your way from the top-left room to the exit in the bottom-right.",
			Victory: "You escaped the maze after %d correct answers!",
			Defeat:  "Every path to the exit is locked. You are trapped!",
		},
	}
	ApplyDefaults(config)
	return config
}
