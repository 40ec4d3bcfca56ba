package engine

import (
	"fmt"
	"strings"
	"time"
)

// CanMove reports whether a neighbor exists in direction d and the door to it
// is open. It has no side effects.
func (e *GameEngine) CanMove(d Direction) bool {
	door := e.maze.Room(e.pos).DoorTo(d)
	return door != nil && door.IsOpen()
}

// PossibleMoves returns the directions that can be attempted right now
func (e *GameEngine) PossibleMoves() []Direction {
	if e.phase != AwaitingMove {
		return nil
	}
	var possible []Direction
	for _, d := range AllDirections {
		if e.CanMove(d) {
			possible = append(possible, d)
		}
	}
	return possible
}

// AttemptMove chooses a passage and presents its question. The player does
// not move until the question is answered correctly.
func (e *GameEngine) AttemptMove(d Direction) (Question, error) {
	switch e.phase {
	case Won, Lost:
		return nil, fmt.Errorf("%w: game is over (%s)", ErrIllegalState, e.phase)
	case QuestionPending:
		return nil, fmt.Errorf("%w: a question is already pending", ErrIllegalState)
	}

	if !d.Valid() {
		return nil, fmt.Errorf("%w: unknown direction %d", ErrInvalidMove, int(d))
	}
	passage, ok := e.maze.Room(e.pos).Passage(d)
	if !ok {
		return nil, fmt.Errorf("%w: no room %s of (%d,%d)", ErrInvalidMove, d, e.pos.X, e.pos.Y)
	}
	if !passage.Door.IsOpen() {
		return nil, fmt.Errorf("%w: the %s door of (%d,%d) is sealed", ErrInvalidMove, d, e.pos.X, e.pos.Y)
	}

	e.phase = QuestionPending
	e.pendingDir = &d
	e.pendingQuestion = passage.Question
	e.touch()

	view := ViewQuestion(passage.Question)
	e.emit(Event{Type: EventQuestionPresented, Position: e.pos, Direction: &d, Question: &view})

	return passage.Question, nil
}

// SubmitAnswer resolves the pending question. A correct answer moves the
// player through the door; a wrong one seals the door from both sides.
// It reports whether the answer was correct.
func (e *GameEngine) SubmitAnswer(candidate string) (bool, error) {
	if e.phase != QuestionPending {
		return false, fmt.Errorf("%w: no question is pending", ErrIllegalState)
	}

	d := *e.pendingDir
	question := e.pendingQuestion
	passage, _ := e.maze.Room(e.pos).Passage(d)
	from := e.pos

	correct := question.IsMatch(candidate)

	e.phase = AwaitingMove
	e.pendingDir = nil
	e.pendingQuestion = nil
	e.touch()

	if correct {
		e.stats.Correct++
		e.pos = from.Step(d)
		e.maze.Room(e.pos).markAnswered()
		e.record(d, from, e.pos, question.ID(), candidate, true)

		e.emit(Event{Type: EventCorrectAnswer, Position: e.pos, Direction: &d, Answer: candidate})
		e.emit(Event{Type: EventMoved, Position: e.pos, Direction: &d})

		if e.pos == e.maze.Exit() {
			e.phase = Won
			e.emit(Event{Type: EventWon, Position: e.pos})
		}
		return true, nil
	}

	e.stats.Wrong++
	closed := passage.Door.Close()
	e.record(d, from, from, question.ID(), candidate, false)
	e.emit(Event{Type: EventWrongAnswer, Position: from, Direction: &d, Answer: candidate, DoorClosed: closed})

	if !e.IsExitReachable() {
		e.phase = Lost
		e.emit(Event{Type: EventLost, Position: from})
	}
	return false, nil
}

// NarrowChoices removes all but one wrong choice from a pending multiple
// choice question, spending one hint.
func (e *GameEngine) NarrowChoices() (*MultipleChoice, error) {
	if e.phase != QuestionPending {
		return nil, fmt.Errorf("%w: no question is pending", ErrIllegalState)
	}
	mc, ok := e.pendingQuestion.(*MultipleChoice)
	if !ok {
		return nil, fmt.Errorf("%w: pending question is %s, not multiple choice", ErrIllegalState, e.pendingQuestion.Kind())
	}
	if len(mc.choices) <= 2 {
		return mc, nil
	}
	if e.hintsRemaining == 0 {
		return nil, fmt.Errorf("%w: %w", ErrIllegalState, ErrNoHints)
	}

	narrowed := mc.Narrow(e.rng)
	e.pendingQuestion = narrowed
	if e.hintsRemaining > 0 {
		e.hintsRemaining--
	}
	e.stats.HintsUsed++
	e.touch()

	d := *e.pendingDir
	view := ViewQuestion(narrowed)
	e.emit(Event{Type: EventChoicesNarrowed, Position: e.pos, Direction: &d, Question: &view})

	return narrowed, nil
}

// record appends a resolved attempt to the history, dropping the oldest
// entries beyond MaxHistory
func (e *GameEngine) record(d Direction, from, to Position, questionID, answer string, correct bool) {
	e.totalMoves++
	e.history = append(e.history, MoveHistoryEntry{
		Direction:    d,
		FromPosition: from,
		ToPosition:   to,
		QuestionID:   questionID,
		Answer:       strings.TrimSpace(answer),
		Correct:      correct,
		Timestamp:    time.Now().Unix(),
		MoveNumber:   e.totalMoves,
	})
	if len(e.history) > MaxHistory {
		e.history = e.history[len(e.history)-MaxHistory:]
	}
}
