package snake

import "strings"

// Cell is a grid coordinate (column, row).
type Cell struct {
	X, Y int
}

// Add returns the cell offset by one step in direction d.
func (c Cell) Add(d Direction) Cell {
	switch d {
	case DirUp:
		return Cell{X: c.X, Y: c.Y - 1}
	case DirDown:
		return Cell{X: c.X, Y: c.Y + 1}
	case DirLeft:
		return Cell{X: c.X - 1, Y: c.Y}
	case DirRight:
		return Cell{X: c.X + 1, Y: c.Y}
	}
	return c
}

// In reports whether the cell lies on a size x size grid.
func (c Cell) In(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Direction represents the snake's movement direction.
// Values go clockwise so that opposites are two steps apart.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirRight && d <= DirUp
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a direction name or movement key to a Direction.
// Arrow key names and WASD are accepted, case-insensitively.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "up", "w", "arrowup":
		return DirUp, true
	case "down", "s", "arrowdown":
		return DirDown, true
	case "left", "a", "arrowleft":
		return DirLeft, true
	case "right", "d", "arrowright":
		return DirRight, true
	}
	return 0, false
}

// Status is the lifecycle state of a game.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusOver
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusOver:
		return "over"
	default:
		return "unknown"
	}
}
