// Package config loads and caches trivia maze game configurations.
//
// Configurations are JSON files in a configs directory; the file name
// without extension is the config ID used when creating sessions. Each
// configuration names a question bank: a YAML file path, resolved against
// the parent of the configs directory, or "mongo" for the MongoDB store
// set with SetMongoStore.
//
// Example configuration:
//
//	{
//	  "name": "Classic Trivia Maze",
//	  "description": "A 5x5 maze",
//	  "grid_size": 5,
//	  "question_bank": "questions/general.yaml",
//	  "hints": 3,
//	  "messages": {
//	    "welcome": "Welcome!",
//	    "victory": "Out after %d correct answers!",
//	    "defeat": "Trapped!"
//	  }
//	}
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	gameConfig, err := manager.LoadConfig("easy")
//	bank, err := manager.Bank(gameConfig, engine.NewRandomSource(gameConfig.Seed))
//
// classic.json is the default configuration when present; otherwise the
// first valid file, and the built-in engine.DefaultGameConfig when the
// directory has none.
package config
