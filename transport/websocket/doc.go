// Package websocket pushes live game updates to browser clients.
//
// A Hub groups connections by session ID. After every operation the API
// broadcasts the operation's game events (event "game_events") followed by
// the new game state (event "state_update"). Deleting a session sends
// "session_closed" and disconnects its clients.
//
// Messages are JSON, one per frame:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//	{"session_id": "a1b2", "event": "game_events", "data": [...]}
//
// Clients do not send anything; the connection is kept alive with
// ping/pong.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
