// Package validate checks game configuration files and the question banks
// they point at. It verifies:
//   - JSON structure, required fields and message templates
//   - Grid size bounds and question kinds
//   - The question bank parses, has no duplicate IDs and has questions of
//     the configured kinds
//   - A maze of the configured size can actually be built from the bank
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages prefixed with
// "✓"; otherwise it accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// Problems returns the error entries, skipping informational ones
func (r ValidationResult) Problems() []string {
	var out []string
	for _, e := range r.Errors {
		if !strings.HasPrefix(e, "✓") {
			out = append(out, e)
		}
	}
	return out
}

// ResolveBank turns a config's question_bank value into a file path.
// Relative paths are taken from bankDir; "mongo" is returned unchanged.
func ResolveBank(source, bankDir string) string {
	if source == questions.MongoBankName || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(bankDir, source)
}

// ValidateConfig loads and validates a single configuration JSON file,
// then the question bank it refers to.
func ValidateConfig(filePath, bankDir string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%s", strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}
	engine.ApplyDefaults(&config)

	if config.QuestionBank == questions.MongoBankName {
		result.info("Name: %s", config.Name)
		result.info("Grid: %dx%d", config.GridSize, config.GridSize)
		result.info("Questions: loaded from MongoDB at startup")
		return result
	}

	bankPath := ResolveBank(config.QuestionBank, bankDir)
	file, err := questions.LoadBankFile(bankPath)
	if err != nil {
		result.fail("Question bank %s: %v", config.QuestionBank, err)
		return result
	}

	rng := engine.NewRandomSource(config.Seed)
	bank, err := file.Bank(rng, config.QuestionKinds...)
	if err != nil {
		result.fail("Question bank %s: %v", config.QuestionBank, err)
		return result
	}
	if bank.Available() == 0 {
		result.fail("Question bank %s has no questions of kinds %s", config.QuestionBank, kindList(config.QuestionKinds))
		return result
	}

	maze, err := engine.BuildMaze(config.GridSize, bank)
	if err != nil {
		result.fail("Cannot build a %dx%d maze: %v", config.GridSize, config.GridSize, err)
		return result
	}

	doors := len(maze.Doors())
	result.info("Name: %s", config.Name)
	result.info("Grid: %dx%d (%d doors)", config.GridSize, config.GridSize, doors)
	result.info("Question bank: %s (%d usable questions)", bank.Name(), bank.Available())
	if bank.Available() < doors {
		result.info("Questions repeat: %d doors share %d questions", doors, bank.Available())
	}
	if config.Hints == engine.UnlimitedHints {
		result.info("Hints: unlimited")
	} else {
		result.info("Hints: %d", config.Hints)
	}

	return result
}

// ValidateBank checks a question bank file on its own
func ValidateBank(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	file, err := questions.LoadBankFile(path)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	bank, err := file.Bank(nil)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	if bank.Len() == 0 {
		result.fail("Question bank %s is empty", bank.Name())
		return result
	}

	stats := bank.Stats()
	result.info("Name: %s", stats.Name)
	result.info("Questions: %d", stats.Total)
	for _, kind := range engine.AllKinds {
		if n := stats.ByKind[kind]; n > 0 {
			result.info("%s: %d", kind, n)
		}
	}
	return result
}

// ValidateDir validates every *.json config in configDir
func ValidateDir(configDir, bankDir string) ([]ValidationResult, error) {
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files found in %s", configDir)
	}
	sort.Strings(files)

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateConfig(file, bankDir))
	}
	return results, nil
}

func kindList(kinds []engine.QuestionKind) string {
	if len(kinds) == 0 {
		return "any"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
