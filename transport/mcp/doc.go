// Package mcp exposes the trivia maze to AI agents over the Model Context Protocol.
//
// The client is thin: every tool call is forwarded to the REST API and the
// JSON response is rendered as text, including an ASCII map of the maze.
//
// Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: map, position, pending question, stats
//   - move: choose a door; returns the question guarding it
//   - answer: answer the pending question
//   - hint: narrow a multiple choice question to two choices
//   - new_game: rebuild the maze in the same session
//   - move_history: paginated answers, newest first
//   - describe_room: doors of one room
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// For remote agents the same server can be mounted over streamable HTTP with
// server.NewStreamableHTTPServer(client.GetMCPServer()).
package mcp
