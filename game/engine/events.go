package engine

// EventType names a game notification
type EventType string

const (
	EventQuestionPresented EventType = "question_presented"
	EventMoved             EventType = "moved"
	EventCorrectAnswer     EventType = "correct_answer"
	EventWrongAnswer       EventType = "wrong_answer"
	EventWon               EventType = "won"
	EventLost              EventType = "lost"
	EventChoicesNarrowed   EventType = "choices_narrowed"
)

// Event is delivered to the engine's sink in the order it happens.
// Position is the room the event concerns: the room entered for moved and
// correct_answer, the room the player stayed in otherwise.
type Event struct {
	Type       EventType     `json:"type"`
	Position   Position      `json:"position"`
	Direction  *Direction    `json:"direction,omitempty"`
	Question   *QuestionView `json:"question,omitempty"`
	Answer     string        `json:"answer,omitempty"`
	DoorClosed bool          `json:"door_closed,omitempty"`
}

// EventSink receives engine notifications
type EventSink interface {
	Notify(event Event)
}

// EventSinkFunc adapts a function to EventSink
type EventSinkFunc func(event Event)

// Notify calls f(event)
func (f EventSinkFunc) Notify(event Event) {
	f(event)
}

// EventLog records events until they are drained. It is not safe for
// concurrent use; the owning session serializes access.
type EventLog struct {
	events []Event
}

// Notify appends the event
func (l *EventLog) Notify(event Event) {
	l.events = append(l.events, event)
}

// Events returns a copy of the recorded events
func (l *EventLog) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Drain returns the recorded events and clears the log
func (l *EventLog) Drain() []Event {
	out := l.events
	l.events = nil
	return out
}

// Len returns how many events are waiting
func (l *EventLog) Len() int {
	return len(l.events)
}

var discardSink = EventSinkFunc(func(Event) {})
