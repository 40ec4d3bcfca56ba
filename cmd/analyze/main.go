// Command analyze prints quick, human-readable statistics about the
// configurations in the project's configs directory: maze size, door count,
// question bank makeup by kind and category, and whether doors will have to
// share questions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/validate"
)

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	configs, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil || len(configs) == 0 {
		fmt.Printf("No configs found in %s\n", configDir)
		os.Exit(1)
	}
	sort.Strings(configs)

	bankDir := filepath.Dir(filepath.Clean(configDir))
	for _, path := range configs {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(path))
		report, err := validate.Analyze(path, bankDir)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printReport(report)
	}
}

func printReport(r *validate.Report) {
	fmt.Printf("Name: %s\n", r.Name)
	fmt.Printf("Grid Size: %d x %d\n", r.GridSize, r.GridSize)
	fmt.Printf("Doors: %d\n", r.Doors)
	fmt.Printf("Shortest Escape: %d correct answers\n", r.MinAnswers)
	if r.Hints == engine.UnlimitedHints {
		fmt.Printf("Hints: unlimited\n")
	} else {
		fmt.Printf("Hints: %d\n", r.Hints)
	}

	fmt.Printf("Question Bank: %s (%d questions, %d usable)\n", r.Bank.Name, r.Bank.Total, r.Usable)
	for _, kind := range engine.AllKinds {
		fmt.Printf("  %-16s %d\n", kind, r.Bank.ByKind[kind])
	}
	for _, category := range r.Bank.Categories() {
		fmt.Printf("  [%s] %d\n", category, r.Bank.ByCategory[category])
	}

	switch {
	case r.Usable == 0:
		fmt.Printf("⚠️  CRITICAL: no usable questions, the maze cannot be built\n")
	case r.Coverage() < 1:
		fmt.Printf("⚠️  WARNING: %d doors share %d questions (%.2f per door)\n", r.Doors, r.Usable, r.Coverage())
	default:
		fmt.Printf("✅ Every door can get its own question\n")
	}
}
