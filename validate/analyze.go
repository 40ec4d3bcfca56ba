package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
)

// Report summarizes how a config's maze uses its question bank
type Report struct {
	File     string
	Name     string
	GridSize int
	Hints    int
	// Doors is the number of passages in a full maze of GridSize
	Doors int
	// MinAnswers is the fewest correct answers that reach the exit
	MinAnswers int
	Bank       questions.Stats
	// Usable counts the bank questions the config's kinds allow
	Usable int
}

// Coverage is usable questions per door. Below 1 some doors share questions.
func (r *Report) Coverage() float64 {
	if r.Doors == 0 {
		return 0
	}
	return float64(r.Usable) / float64(r.Doors)
}

// Analyze reads a config and its question bank. MongoDB banks are not
// analyzed.
func Analyze(configPath, bankDir string) (*Report, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	if config.QuestionBank == questions.MongoBankName {
		return nil, fmt.Errorf("%s uses the MongoDB question store", filepath.Base(configPath))
	}

	file, err := questions.LoadBankFile(ResolveBank(config.QuestionBank, bankDir))
	if err != nil {
		return nil, err
	}
	bank, err := file.Bank(nil, config.QuestionKinds...)
	if err != nil {
		return nil, err
	}

	n := config.GridSize
	return &Report{
		File:       filepath.Base(configPath),
		Name:       config.Name,
		GridSize:   n,
		Hints:      config.Hints,
		Doors:      2 * n * (n - 1),
		MinAnswers: 2 * (n - 1),
		Bank:       bank.Stats(),
		Usable:     bank.Available(),
	}, nil
}
