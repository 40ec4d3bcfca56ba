package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/service"
)

var directionEnum = []string{"north", "south", "east", "west", "up", "down", "left", "right"}

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Trivia Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Trivia Maze - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk from the top-left room to the exit in the bottom-right room. Every door
between rooms is guarded by a trivia question. Answer correctly to pass; answer
wrong and that door is sealed forever. If every path to the exit is sealed, you lose.

AVAILABLE TOOLS:
- create_session: Create new game session
- list_sessions / get_session: Inspect sessions
- game_state: Map, position, open doors and the pending question
- move: Choose a door (north/south/east/west); returns its question
- answer: Answer the pending question
- hint: Narrow a multiple choice question to two choices (limited)
- new_game: Start over with a fresh maze
- move_history: Past answers
- describe_room: Doors of one room
- list_configs: Available configurations
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with a map of the maze",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Choose a door to walk through. You do not move yet: the door's question is returned and must be answered with the answer tool.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Door to try",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of why you chose this door (helps you reason about the route)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "answer",
		Description: "Answer the pending question. Correct moves you through the door; wrong seals it forever.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "true/false, the choice label (A, B, ...), or the free text answer",
				},
			},
			Required: []string{"session_id", "answer"},
		},
	}, c.handleAnswer)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hint",
		Description: "Spend a hint to remove all but one wrong choice from the pending multiple choice question",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleHint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game in this session with a freshly built maze",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the answered questions of a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_room",
		Description: "List the doors of one room and whether each is open or sealed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the room (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the room (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall sends a request to the REST API and decodes the JSON response into result
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(request mcp.CallToolRequest, suffix string) (string, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return "", err
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		if s.GameState != nil {
			status = string(s.GameState.Phase)
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall("GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall("GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	direction, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// intent is for the caller's own reasoning; the server does not use it

	var result service.MoveResult
	if err := c.apiCall("POST", path, map[string]string{"direction": direction}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/answer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	answer, err := request.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.AnswerResult
	if err := c.apiCall("POST", path, map[string]string{"answer": answer}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAnswerResult(&result)), nil
}

func (c *Client) handleHint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/hint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.HintResult
	if err := c.apiCall("POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("%s\nHints remaining: %s\n\n%s",
		result.Message, formatHints(result.HintsRemaining), formatQuestion(result.Question))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/new-game")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall("POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall("GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(request, "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	x, errX := request.RequireInt("x")
	y, errY := request.RequireInt("y")
	if errX != nil || errY != nil {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	var state engine.GameState
	if err := c.apiCall("GET", path, nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if x < 0 || x >= state.GridSize || y < 0 || y >= state.GridSize {
		return mcp.NewToolResultError(fmt.Sprintf("Room (%d,%d) is outside the %dx%d maze (0-%d for both x and y)",
			x, y, state.GridSize, state.GridSize, state.GridSize-1)), nil
	}

	return mcp.NewToolResultText(describeRoom(&state, engine.Position{X: x, Y: y})), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall("GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Maze: %dx%d, Hints: %s, Questions: %s\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.GridSize, cfg.GridSize, formatHints(cfg.Hints), cfg.QuestionBank)
	}
	return mcp.NewToolResultText(b.String()), nil
}

const instructions = `Trivia Maze - Complete Instructions

GAME OBJECTIVE:
Escape the maze. You start in the top-left room (0,0); the exit is the
bottom-right room. x is the column, y is the row; north is up (y-1).

HOW A MOVE WORKS:
1. move with a direction. Nothing moves yet: the question guarding that
   door is returned.
2. answer the question.
   • Correct: you walk through into the next room.
   • Wrong: the door is sealed from both sides, forever. You stay put.
3. Repeat until you reach the exit.

QUESTION TYPES:
• True/false: answer "true" or "false" (1/0 also work)
• Multiple choice: answer with the choice label, e.g. "B"
• Free text: type the answer; surrounding spaces are ignored, case matters

HINTS:
The hint tool removes all but one wrong choice from a pending multiple
choice question. Each configuration has a hint budget; a question already
down to two choices costs nothing.

WINNING AND LOSING:
• Victory: enter the exit room.
• Defeat: every path from your room to the exit is sealed.
Each door has its own question, and a sealed door never reopens.

READING THE MAP:
  @  you          E  exit          .  room
  -  open door (east-west)         |  open door (north-south)
  x  sealed door

STRATEGY:
• Keep more than one route to the exit open; a single sealed door on your
  only path ends the game.
• Use hints on multiple choice questions you are unsure about.
• Check game_state after each answer: possible moves and distance to the
  exit are listed.

SESSION MANAGEMENT:
• Multiple sessions can run at once, each with its own maze.
• Session IDs are 4 characters; new_game rebuilds the maze in place.

Good luck finding your way out!`

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatHints(n int) string {
	if n < 0 {
		return "unlimited"
	}
	return fmt.Sprint(n)
}

func formatDirections(dirs []engine.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	distance := "unreachable"
	if state.DistanceToExit >= 0 {
		distance = fmt.Sprintf("%d doors", state.DistanceToExit)
	}
	fmt.Fprintf(&result, "Position: (%d,%d) | Exit: (%d,%d) | Distance: %s | Moves: %d\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.Exit.X, state.Exit.Y, distance, state.TotalMoves)
	fmt.Fprintf(&result, "Correct: %d | Wrong: %d | Hints left: %s\n\n",
		state.Stats.Correct, state.Stats.Wrong, formatHints(state.HintsRemaining))

	if m := RenderMap(state); m != "" {
		result.WriteString(m)
		result.WriteString("\n")
	}

	if state.PendingQuestion != nil {
		dir := "?"
		if state.PendingDirection != nil {
			dir = state.PendingDirection.String()
		}
		fmt.Fprintf(&result, "Pending question for the %s door:\n%s\n", dir, formatQuestion(state.PendingQuestion))
	} else if !state.GameOver {
		fmt.Fprintf(&result, "Possible moves: %s\n", formatDirections(state.PossibleMoves))
	}

	if state.GameOver {
		if state.Victory {
			result.WriteString("\n🎉 VICTORY!")
		} else {
			result.WriteString("\n💀 GAME OVER")
		}
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

// RenderMap draws the maze one row of rooms at a time, with a row of
// north-south doors between them
func RenderMap(state *engine.GameState) string {
	if state.GridSize == 0 || len(state.Rooms) == 0 {
		return ""
	}

	open := make(map[engine.Position]map[engine.Direction]bool, len(state.Rooms))
	for _, room := range state.Rooms {
		doors := make(map[engine.Direction]bool, len(room.Doors))
		for _, d := range room.Doors {
			doors[d.Direction] = d.Open
		}
		open[engine.Position{X: room.X, Y: room.Y}] = doors
	}

	door := func(p engine.Position, d engine.Direction, openChar string) string {
		isOpen, ok := open[p][d]
		switch {
		case !ok:
			return " "
		case isOpen:
			return openChar
		default:
			return "x"
		}
	}

	var b strings.Builder
	n := state.GridSize
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			p := engine.Position{X: x, Y: y}
			switch p {
			case state.PlayerPos:
				b.WriteString("@")
			case state.Exit:
				b.WriteString("E")
			default:
				b.WriteString(".")
			}
			if x < n-1 {
				b.WriteString(" " + door(p, engine.East, "-") + " ")
			}
		}
		b.WriteString("\n")
		if y < n-1 {
			for x := 0; x < n; x++ {
				b.WriteString(door(engine.Position{X: x, Y: y}, engine.South, "|"))
				if x < n-1 {
					b.WriteString("   ")
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// formatQuestion renders a question for the player to answer
func formatQuestion(q *engine.QuestionView) string {
	if q == nil {
		return "No question pending"
	}

	var b strings.Builder
	b.WriteString(q.Prompt)
	b.WriteString("\n")

	switch q.Kind {
	case engine.KindTrueFalse:
		b.WriteString("Answer with: true or false")
	case engine.KindMultipleChoice:
		labels := make([]string, 0, len(q.Choices))
		for label := range q.Choices {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			fmt.Fprintf(&b, "  %s) %s\n", label, q.Choices[label])
		}
		fmt.Fprintf(&b, "Answer with: %s", strings.Join(labels, ", "))
	case engine.KindFreeText:
		b.WriteString("Answer with: free text")
	default:
		fmt.Fprintf(&b, "Unknown question kind %q", q.Kind)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Door chosen\n")
	} else {
		b.WriteString("✗ Move failed\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if result.Question != nil {
		b.WriteString("\n" + formatQuestion(result.Question) + "\n")
	}
	writeEvents(&b, result.Events)
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatAnswerResult(result *service.AnswerResult) string {
	var b strings.Builder
	switch {
	case result.Correct:
		fmt.Fprintf(&b, "✓ Correct: moved (%d,%d) → (%d,%d)\n", result.From.X, result.From.Y, result.To.X, result.To.Y)
	case result.DoorClosed:
		b.WriteString("✗ Wrong: the door is sealed\n")
	default:
		b.WriteString("✗ Wrong\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}
	if !result.GameOver && !result.ExitReachable {
		b.WriteString("⚠️ The exit is no longer reachable\n")
	}
	writeEvents(&b, result.Events)
	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func writeEvents(b *strings.Builder, events []service.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- %s: %s\n", event.Type, event.Message)
	}
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✗ sealed"
		if move.Correct {
			status = "✓ passed"
		}
		fmt.Fprintf(&b, "%d. %s from (%d,%d) → (%d,%d) answer=%q %s\n",
			move.MoveNumber, move.Direction,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y,
			move.Answer, status)
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\n(More moves available - use page=%d)", history.Page+1)
	}
	return b.String()
}

func describeRoom(state *engine.GameState, p engine.Position) string {
	var room *engine.RoomView
	for i := range state.Rooms {
		if state.Rooms[i].X == p.X && state.Rooms[i].Y == p.Y {
			room = &state.Rooms[i]
			break
		}
	}
	if room == nil {
		return fmt.Sprintf("Room (%d,%d) not found", p.X, p.Y)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Room (%d,%d)", p.X, p.Y)
	switch p {
	case state.PlayerPos:
		b.WriteString(" - you are here")
	case state.Exit:
		b.WriteString(" - the exit")
	}
	if room.Answered {
		b.WriteString(" - entered before")
	}
	b.WriteString("\n")

	for _, d := range room.Doors {
		status := "sealed"
		if d.Open {
			status = "open"
		}
		next := p.Step(d.Direction)
		fmt.Fprintf(&b, "- %s door to (%d,%d): %s\n", d.Direction, next.X, next.Y, status)
	}
	return b.String()
}
