// Package session manages trivia maze game sessions.
//
// A session owns one game: its engine, the event log the engine reports
// into, the configuration it was created from and its own question bank.
// The Manager keeps sessions in memory under case-insensitive IDs (4 hex
// characters when generated) and is safe for concurrent use.
//
// Persistence is optional. FilePersistence writes one indented JSON file
// per session; RedisPersistence stores the same JSON under
// trivia-maze:session:<id> with a TTL, taking a redsync lock around writes.
// Both store the engine Snapshot and rebuild the game with engine.Restore
// against a fresh bank for the session's configuration.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	manager := session.NewManagerWithPersistence(configMgr, persistence)
//	sess, err := manager.Create("", "classic", gameConfig)
//	sess, err = manager.Get(sess.ID)
//	sess, err = manager.Restart(sess.ID) // new maze, same config
package session
