package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/trivia-maze/game/config"
	"github.com/wricardo/trivia-maze/game/engine"
	"github.com/wricardo/trivia-maze/transport/mcp"
)

const playHelp = `Commands:
  north, south, east, west (or n/s/e/w, up/down/left/right)  choose a door
  hint   narrow a multiple choice question to two choices
  map    show the maze
  help   show this help
  quit   leave the game
While a question is pending, anything else you type is your answer.`

func runPlayCommand(ctx context.Context, cmd *cli.Command) error {
	configs, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}

	cfg := configs.GetDefault()
	if name := cmd.Args().First(); name != "" {
		if cfg, err = configs.LoadConfig(name); err != nil {
			return err
		}
	}

	rng := engine.NewRandomSource(cfg.Seed)
	bank, err := configs.Bank(cfg, rng)
	if err != nil {
		return err
	}

	var sink engine.EventSink
	if cmd.Bool("debug") {
		sink = engine.EventSinkFunc(func(event engine.Event) {
			log.Printf("[EVENT] %s at (%d,%d)", event.Type, event.Position.X, event.Position.Y)
		})
	}

	game, err := engine.NewGame(cfg.GridSize, bank, engine.Options{Random: rng, Sink: sink, Hints: cfg.Hints})
	if err != nil {
		return err
	}
	return runPlay(os.Stdin, os.Stdout, game, cfg)
}

// runPlay reads commands from in until the game ends, in is exhausted, or
// the player quits
func runPlay(in io.Reader, out io.Writer, game *engine.GameEngine, cfg *engine.GameConfig) error {
	fmt.Fprintf(out, "%s\n%s\n\n", cfg.Name, cfg.Messages.Welcome)
	fmt.Fprint(out, mcp.RenderMap(game.State()))
	fmt.Fprintln(out, "Type help for commands.")

	scanner := bufio.NewScanner(in)
	for !game.IsGameOver() {
		if game.Phase() == engine.QuestionPending {
			fmt.Fprint(out, "answer> ")
		} else {
			fmt.Fprint(out, "move> ")
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			fmt.Fprintln(out, "Bye!")
			return nil
		case "help", "?":
			fmt.Fprintln(out, playHelp)
			continue
		case "map":
			printStatus(out, game)
			continue
		case "hint":
			playHint(out, game)
			continue
		}

		if game.Phase() == engine.QuestionPending {
			playAnswer(out, game, cfg, line)
		} else {
			playMove(out, game, cfg, line)
		}
	}

	if game.IsVictory() {
		fmt.Fprintln(out, fmt.Sprintf(cfg.Messages.Victory, game.Stats().Correct))
	} else {
		fmt.Fprintln(out, cfg.Messages.Defeat)
	}
	return nil
}

func playMove(out io.Writer, game *engine.GameEngine, cfg *engine.GameConfig, input string) {
	d, err := engine.ParseDirection(input)
	if err != nil {
		fmt.Fprintf(out, "Unknown command %q. Type help for commands.\n", input)
		return
	}
	q, err := game.AttemptMove(d)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidMove) {
			fmt.Fprintln(out, cfg.Messages.Blocked)
			return
		}
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(out, fmt.Sprintf(cfg.Messages.Question, d))
	fmt.Fprintln(out, renderQuestion(q))
}

func playAnswer(out io.Writer, game *engine.GameEngine, cfg *engine.GameConfig, answer string) {
	correct, err := game.SubmitAnswer(answer)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	if correct {
		pos := game.Position()
		fmt.Fprintln(out, fmt.Sprintf(cfg.Messages.Correct, pos.X, pos.Y))
	} else {
		fmt.Fprintln(out, cfg.Messages.Wrong)
	}
	if !game.IsGameOver() {
		printStatus(out, game)
	}
}

func playHint(out io.Writer, game *engine.GameEngine) {
	q, err := game.NarrowChoices()
	switch {
	case errors.Is(err, engine.ErrNoHints):
		fmt.Fprintln(out, "No hints remaining.")
	case err != nil:
		fmt.Fprintln(out, "Hints only work on a pending multiple choice question.")
	default:
		fmt.Fprintln(out, renderQuestion(q))
	}
}

func printStatus(out io.Writer, game *engine.GameEngine) {
	state := game.State()
	fmt.Fprint(out, mcp.RenderMap(state))
	hints := "unlimited"
	if state.HintsRemaining >= 0 {
		hints = fmt.Sprint(state.HintsRemaining)
	}
	fmt.Fprintf(out, "Position (%d,%d), correct %d, wrong %d, hints %s\n",
		state.PlayerPos.X, state.PlayerPos.Y, state.Stats.Correct, state.Stats.Wrong, hints)
}

// renderQuestion formats a question with its answer instructions
func renderQuestion(q engine.Question) string {
	switch q := q.(type) {
	case *engine.TrueFalse:
		return fmt.Sprintf("%s\n(true/false)", q.Prompt())
	case *engine.FreeText:
		return fmt.Sprintf("%s\n(type your answer)", q.Prompt())
	case *engine.MultipleChoice:
		var b strings.Builder
		b.WriteString(q.Prompt())
		choices := q.Choices()
		for _, label := range q.Labels() {
			fmt.Fprintf(&b, "\n  %s) %s", label, choices[label])
		}
		return b.String()
	default:
		return q.Prompt()
	}
}
