// Package service provides the business logic layer for the trivia maze.
//
// GameService is what the transports (HTTP, WebSocket, MCP, terminal) call.
// It resolves sessions through a SessionManager and configurations and
// question banks through a ConfigManager, drives the session's engine and
// turns the events the engine reported into player-facing messages.
//
// A move happens in two calls:
//
//	move, err := gameService.AttemptMove(ctx, id, "east")   // presents move.Question
//	answer, err := gameService.SubmitAnswer(ctx, id, "true") // moves, or seals the door
//
// NarrowChoices spends a hint on a pending multiple choice question. NewGame
// replaces the session's maze with a fresh one from the same configuration.
//
// Every mutating call saves the session afterwards; a failed save is logged
// and does not fail the call.
package service
