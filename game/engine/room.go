package engine

// Passage pairs a door with the question that gates it, as seen from one room
type Passage struct {
	Door     *Door
	Question Question
}

// Room is one cell of the maze
type Room struct {
	pos      Position
	passages [4]*Passage
	answered bool
}

// Position returns the room's coordinates
func (r *Room) Position() Position {
	return r.pos
}

// Passage returns the passage in direction d, if the room has a neighbor there
func (r *Room) Passage(d Direction) (Passage, bool) {
	if !d.Valid() || r.passages[d] == nil {
		return Passage{}, false
	}
	return *r.passages[d], true
}

// DoorTo returns the shared door in direction d, or nil at the grid boundary
func (r *Room) DoorTo(d Direction) *Door {
	if p, ok := r.Passage(d); ok {
		return p.Door
	}
	return nil
}

// QuestionTo returns the question gating direction d, or nil at the grid boundary
func (r *Room) QuestionTo(d Direction) Question {
	if p, ok := r.Passage(d); ok {
		return p.Question
	}
	return nil
}

// Neighbor returns the adjacent position in direction d and whether a passage leads there
func (r *Room) Neighbor(d Direction) (Position, bool) {
	if _, ok := r.Passage(d); !ok {
		return Position{}, false
	}
	return r.pos.Step(d), true
}

// Directions lists the directions that have a passage, in AllDirections order
func (r *Room) Directions() []Direction {
	var dirs []Direction
	for _, d := range AllDirections {
		if r.passages[d] != nil {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Answered is set once the player enters the room through a correctly
// answered passage. It is display state only.
func (r *Room) Answered() bool {
	return r.answered
}

func (r *Room) markAnswered() {
	r.answered = true
}

func (r *Room) view() RoomView {
	rv := RoomView{X: r.pos.X, Y: r.pos.Y, Answered: r.answered}
	for _, d := range r.Directions() {
		p := r.passages[d]
		rv.Doors = append(rv.Doors, DoorView{
			Direction:  d,
			Open:       p.Door.IsOpen(),
			QuestionID: p.Question.ID(),
		})
	}
	return rv
}
