package snake

// Snapshot captures the game state for determinism testing and replay checks.
type Snapshot struct {
	Tick     uint64
	Score    int
	SnakeLen int
	HeadX    int
	HeadY    int
	Dir      Direction
	FoodX    int
	FoodY    int
	HasFood  bool
	Status   Status
}

// Snapshot returns the current game snapshot.
func (e *Engine) Snapshot() Snapshot {
	headX, headY := 0, 0
	if len(e.snake) > 0 {
		headX = e.snake[0].X
		headY = e.snake[0].Y
	}

	return Snapshot{
		Tick:     e.tick,
		Score:    e.score,
		SnakeLen: len(e.snake),
		HeadX:    headX,
		HeadY:    headY,
		Dir:      e.direction,
		FoodX:    e.food.X,
		FoodY:    e.food.Y,
		HasFood:  e.hasFood,
		Status:   e.status,
	}
}
