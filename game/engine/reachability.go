package engine

import "github.com/zyedidia/generic/mapset"

// ReachableSet returns every room reachable from start through open doors
func (m *Maze) ReachableSet(start Position) mapset.Set[Position] {
	reachable := mapset.New[Position]()
	if !m.InBounds(start) {
		return reachable
	}
	queue := []Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if reachable.Has(current) {
			continue
		}
		reachable.Put(current)

		room := m.Room(current)
		for _, d := range AllDirections {
			door := room.DoorTo(d)
			if door == nil || !door.IsOpen() {
				continue
			}
			if next := current.Step(d); !reachable.Has(next) {
				queue = append(queue, next)
			}
		}
	}

	return reachable
}

// Reachable reports whether a path of open doors connects from and to
func (m *Maze) Reachable(from, to Position) bool {
	if !m.InBounds(from) || !m.InBounds(to) {
		return false
	}
	return m.ReachableSet(from).Has(to)
}

// ShortestPath returns the directions of a shortest open path from one room
// to another. The path is empty when from == to.
func (m *Maze) ShortestPath(from, to Position) ([]Direction, bool) {
	if !m.InBounds(from) || !m.InBounds(to) {
		return nil, false
	}

	type step struct {
		prev Position
		dir  Direction
	}
	visited := mapset.New[Position]()
	parent := make(map[Position]step)
	queue := []Position{from}
	visited.Put(from)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == to {
			var path []Direction
			for p := to; p != from; p = parent[p].prev {
				path = append(path, parent[p].dir)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}

		room := m.Room(current)
		for _, d := range AllDirections {
			door := room.DoorTo(d)
			if door == nil || !door.IsOpen() {
				continue
			}
			next := current.Step(d)
			if visited.Has(next) {
				continue
			}
			visited.Put(next)
			parent[next] = step{prev: current, dir: d}
			queue = append(queue, next)
		}
	}

	return nil, false
}
