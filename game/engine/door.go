package engine

// Door is the single gate shared by two adjacent rooms. Both rooms hold the
// same *Door, so closing it from either side is seen from the other.
type Door struct {
	id    int
	rooms [2]Position
	open  bool
}

func newDoor(id int, a, b Position) *Door {
	return &Door{id: id, rooms: [2]Position{a, b}, open: true}
}

// ID is the door's index in its maze
func (d *Door) ID() int {
	return d.id
}

// Rooms returns the two positions the door separates
func (d *Door) Rooms() (Position, Position) {
	return d.rooms[0], d.rooms[1]
}

// IsOpen reports whether the passage can be used
func (d *Door) IsOpen() bool {
	return d.open
}

// Close seals the door. It reports whether the state changed, so closing an
// already closed door is a no-op.
func (d *Door) Close() bool {
	if !d.open {
		return false
	}
	d.open = false
	return true
}

// Open reopens the door. Normal play never calls it; it exists for maze
// construction and snapshot restore.
func (d *Door) Open() {
	d.open = true
}
