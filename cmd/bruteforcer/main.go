// Command bruteforcer plays a trivia maze session over the REST API until it
// escapes or runs out of attempts.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/game/questions"
	"github.com/wricardo/trivia-maze/game/service"
)

const sessionFile = ".session"

// Client talks to the game server for a single session
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// do sends body as JSON (when non-nil) and decodes the response into out.
// Non-2xx responses come back as errors carrying the server's message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// APIError is a non-2xx reply from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

func (c *Client) CreateSession(ctx context.Context, configID string) (*engine.GameState, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Move(ctx context.Context, d engine.Direction) (*service.MoveResult, error) {
	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), map[string]string{"direction": d.String()}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Answer(ctx context.Context, answer string) (*service.AnswerResult, error) {
	var result service.AnswerResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/answer"), map[string]string{"answer": answer}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Hint(ctx context.Context) (*service.HintResult, error) {
	var result service.HintResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/hint"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) NewGame(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/new-game"), nil, &resp); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return resp.State, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

// Bot drives one session with a route strategy and an answerer
type Bot struct {
	client      *Client
	strategy    RouteStrategy
	answerer    *Answerer
	maxMoves    int
	maxAttempts int
	delay       time.Duration
	verbose     bool
}

// Result summarizes a bot run
type Result struct {
	Attempts int
	Moves    int
	Victory  bool
	State    *engine.GameState
}

// Run plays from state, starting a new game after each loss
func (b *Bot) Run(ctx context.Context, state *engine.GameState) (*Result, error) {
	result := &Result{}
	for result.Attempts < b.maxAttempts {
		result.Attempts++

		if result.Attempts > 1 || state.GameOver {
			next, err := b.client.NewGame(ctx)
			if err != nil {
				return result, err
			}
			state = next
		}

		log.Printf("=== Attempt %d/%d ===", result.Attempts, b.maxAttempts)

		moves := 0
		for !state.GameOver && moves < b.maxMoves {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			next, err := b.step(ctx, state)
			if err != nil {
				return result, err
			}
			state = next
			moves++

			if b.delay > 0 {
				time.Sleep(b.delay)
			}
		}

		result.Moves = moves
		result.State = state
		log.Printf("Attempt %d: moves=%d correct=%d wrong=%d",
			result.Attempts, moves, state.Stats.Correct, state.Stats.Wrong)

		if state.Victory {
			result.Victory = true
			return result, nil
		}
	}
	return result, nil
}

// step crosses one door: it resolves a pending question left over from a
// previous run, or picks the next door and answers its question.
func (b *Bot) step(ctx context.Context, state *engine.GameState) (*engine.GameState, error) {
	q := state.PendingQuestion
	if q == nil {
		d, ok := b.strategy.NextMove(state)
		if !ok {
			return nil, errors.New("no open route to the exit")
		}
		move, err := b.client.Move(ctx, d)
		if err != nil {
			return nil, err
		}
		q = move.Question
		if b.verbose {
			log.Printf("(%d,%d) %s: %s", state.PlayerPos.X, state.PlayerPos.Y, d, q.Prompt)
		}
		state = move.GameState
	}

	if b.answerer.WantsHint(q, state.HintsRemaining) {
		hint, err := b.client.Hint(ctx)
		var apiErr *APIError
		switch {
		case err == nil:
			q = hint.Question
		case errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict:
		default:
			return nil, err
		}
	}

	answer, err := b.client.Answer(ctx, b.answerer.Answer(q))
	if err != nil {
		return nil, err
	}
	if b.verbose {
		log.Printf("  %s", answer.Message)
	}
	return answer.GameState, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "play a trivia maze session until it is won",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Game configuration name"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "bank", Usage: "Question bank file used as an answer key"},
			&cli.Int64Flag{Name: "max-moves", Value: 500, Usage: "Maximum doors per attempt"},
			&cli.Int64Flag{Name: "max-attempts", Value: 100, Usage: "Maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	var bank *questions.Bank
	if path := cmd.String("bank"); path != "" {
		file, err := questions.LoadBankFile(path)
		if err != nil {
			return err
		}
		if bank, err = file.Bank(engine.NewRandomSource(0)); err != nil {
			return err
		}
		log.Printf("Loaded answer key %s (%d questions)", bank.Name(), bank.Len())
	}

	state, err := openSession(ctx, client, cmd.String("continue"), cmd.String("config"))
	if err != nil {
		return err
	}

	bot := &Bot{
		client:      client,
		answerer:    NewAnswerer(bank),
		maxMoves:    int(cmd.Int64("max-moves")),
		maxAttempts: int(cmd.Int64("max-attempts")),
		delay:       cmd.Duration("delay"),
		verbose:     cmd.Bool("v"),
	}
	result, err := bot.Run(ctx, state)
	if err != nil {
		return err
	}

	log.Printf("Session: %s", client.sessionID)
	if !result.Victory {
		return fmt.Errorf("failed to win after %d attempts", result.Attempts)
	}
	log.Printf("🎉 VICTORY! Escaped in attempt %d with %d doors", result.Attempts, result.Moves)
	return nil
}

// openSession resumes the given or saved session, falling back to a new one
func openSession(ctx context.Context, client *Client, resume, configID string) (*engine.GameState, error) {
	if resume == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			resume = string(bytes.TrimSpace(data))
		}
	}

	if resume != "" {
		client.sessionID = resume
		state, err := client.GetState(ctx)
		if err == nil {
			log.Printf("🔄 Resumed session %s (%dx%d)", resume, state.GridSize, state.GridSize)
			return state, nil
		}
		log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
	}

	state, err := client.CreateSession(ctx, configID)
	if err != nil {
		return nil, err
	}
	log.Printf("✨ Session created: %s (%dx%d)", client.sessionID, state.GridSize, state.GridSize)
	if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
		log.Printf("Warning: Failed to save session ID: %v", err)
	}
	return state, nil
}
