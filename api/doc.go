// Package api provides the HTTP REST API for the trivia maze.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "classic"}, empty for the default)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its state and config
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - {"direction": "east"}; returns the question guarding the door
//   - POST /api/sessions/{id}/answer - {"answer": "true"}; moves through or seals the door
//   - POST /api/sessions/{id}/hint - Narrow a multiple choice question to two choices
//   - POST /api/sessions/{id}/new-game - Fresh maze, same configuration
//   - GET /api/sessions/{id}/history - Resolved moves (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get one configuration
//
// Other:
//   - GET /health - Liveness
//   - GET /ws?session={id} - WebSocket updates for a session
//
// Errors are JSON with the status repeated in the body:
//
//	{"error": "invalid move: no room north of (0,0): That way is blocked.", "code": 422}
//
// Status codes: 404 for unknown sessions and configs, 422 for moves into a
// wall or a sealed door, 409 for operations the game phase does not allow
// (answering with no question pending, hints without hints left), 503 when a
// question bank cannot supply the maze.
package api
