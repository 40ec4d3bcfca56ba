// Package engine provides the core game logic for the Trivia Maze.
//
// The engine package implements the game mechanics including:
//   - The N×N room grid where each pair of adjacent rooms shares one door
//   - Question variants (true/false, free text, multiple choice) that gate doors
//   - The move/answer state machine with win and loss detection
//   - Exit reachability over open doors
//   - Snapshots for save and restore
//   - Configuration loading and validation
//
// Core Types:
//
// Maze owns Rooms and Doors. A Door is shared: the two rooms it separates
// hold the same pointer, so sealing it from one side seals it from the other.
// GameEngine drives one game over a Maze and reports what happens to an
// EventSink. GameConfig defines a game's rules and texts, loaded from JSON.
//
// Usage:
//
//	bank, err := questions.LoadBankFile("questions/general.yaml", rng)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	events := &engine.EventLog{}
//	game, err := engine.NewGame(5, bank, engine.Options{Random: rng, Sink: events, Hints: 3})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	q, err := game.AttemptMove(engine.East)
//	correct, err := game.SubmitAnswer("true")
//
// Game Rules:
//
// The player starts in the top-left room (0,0) and must reach the exit in the
// bottom-right room. x is the column and y is the row, so moving east
// increments x and moving south increments y. Choosing a direction presents
// the question of that door. A correct answer moves the player through; a
// wrong answer seals the door permanently. The game is lost as soon as no
// sequence of open doors connects the player to the exit.
package engine
