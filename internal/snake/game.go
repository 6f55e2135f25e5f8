// Package snake implements the grid snake engine: lifecycle, direction
// buffering, tick rules and rendering onto a canvas.Surface.
// It has no terminal dependencies; the platform layer supplies the
// surface, the presenter and the tick scheduler.
package snake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-snake/internal/canvas"
	"github.com/vovakirdan/tui-snake/internal/config"
)

// Options wires an engine to its collaborators. Nil fields get no-op defaults.
type Options struct {
	Seed      int64 // 0 means seed from the clock
	Surface   canvas.Surface
	Presenter Presenter
	Scheduler Scheduler
}

// Engine owns all state of a single game.
// It is not safe for concurrent use.
type Engine struct {
	gridSize      int
	initialLength int
	foodReward    int
	period        time.Duration
	theme         Theme
	rng           *rand.Rand

	// Snake state
	snake     []Cell    // Head at index 0
	direction Direction // Applied on the last tick
	nextDir   Direction // Requested for the next tick
	food      Cell
	hasFood   bool

	score  int
	status Status
	tick   uint64

	surface   canvas.Surface
	presenter Presenter
	scheduler Scheduler
}

// New creates an idle engine and draws the empty board once.
func New(cfg config.Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	theme, err := NewTheme(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("snake: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		gridSize:      cfg.Board.GridSize,
		initialLength: cfg.Rules.InitialLength,
		foodReward:    cfg.Rules.FoodReward,
		period:        cfg.TickPeriod(),
		theme:         theme,
		rng:           rand.New(rand.NewSource(seed)),
		direction:     DirRight,
		nextDir:       DirRight,
		status:        StatusIdle,
		surface:       opts.Surface,
		presenter:     opts.Presenter,
		scheduler:     opts.Scheduler,
	}
	if e.presenter == nil {
		e.presenter = NopPresenter{}
	}
	if e.scheduler == nil {
		e.scheduler = nopScheduler{}
	}

	e.draw()
	return e, nil
}

// Start begins a new game. It only acts from idle or over.
func (e *Engine) Start() {
	if e.status != StatusIdle && e.status != StatusOver {
		return
	}
	e.begin()
}

// Restart resets and resumes regardless of the current status.
func (e *Engine) Restart() {
	e.begin()
}

// TogglePause flips between running and paused. Other statuses are left alone.
func (e *Engine) TogglePause() {
	switch e.status {
	case StatusRunning:
		e.setStatus(StatusPaused)
	case StatusPaused:
		e.setStatus(StatusRunning)
	}
}

// RequestDirection buffers a direction for the next tick.
// Invalid directions, requests outside a running game and reversals of the
// applied direction are ignored. The last accepted request wins.
func (e *Engine) RequestDirection(d Direction) {
	if e.status != StatusRunning || !d.Valid() {
		return
	}
	if d == e.direction.Opposite() {
		return
	}
	e.nextDir = d
}

// Tick advances one step and redraws. Ticks outside a running game are no-ops.
func (e *Engine) Tick() {
	if e.status != StatusRunning {
		return
	}
	e.tick++
	e.step()
	e.draw()
}

// begin stops any loop, resets the board and starts ticking again.
func (e *Engine) begin() {
	e.scheduler.Stop()
	e.reset()
	e.setStatus(StatusRunning)
	e.scheduler.Start(e.period)
}

// reset reinitializes score, snake, direction and food, then redraws.
func (e *Engine) reset() {
	e.tick = 0
	e.score = 0
	e.presenter.ScoreChanged(0)
	e.direction = DirRight
	e.nextDir = DirRight

	e.initSnake()
	e.spawnFood()
	e.draw()
}

// initSnake lays the snake horizontally with its head at the grid center.
func (e *Engine) initSnake() {
	center := e.gridSize / 2
	e.snake = make([]Cell, 0, e.initialLength)
	for i := range e.initialLength {
		e.snake = append(e.snake, Cell{X: center - i, Y: center})
	}
}

// spawnFood draws random cells until one is free of the snake.
func (e *Engine) spawnFood() {
	if len(e.snake) >= e.gridSize*e.gridSize {
		// Board is full; nothing left to eat.
		e.hasFood = false
		return
	}
	for {
		c := Cell{X: e.rng.Intn(e.gridSize), Y: e.rng.Intn(e.gridSize)}
		if !e.isSnakeAt(c) {
			e.food = c
			e.hasFood = true
			return
		}
	}
}

// isSnakeAt checks if the snake occupies the given cell.
func (e *Engine) isSnakeAt(c Cell) bool {
	for _, seg := range e.snake {
		if seg == c {
			return true
		}
	}
	return false
}

// step applies the pending direction and moves the snake one cell.
func (e *Engine) step() {
	if len(e.snake) == 0 {
		return
	}

	e.direction = e.nextDir
	head := e.snake[0].Add(e.direction)

	// Wall first, then body. The tail still counts: it has not moved yet.
	if !head.In(e.gridSize) || e.isSnakeAt(head) {
		e.gameOver()
		return
	}

	e.snake = append([]Cell{head}, e.snake...)

	if e.hasFood && head == e.food {
		e.score += e.foodReward
		e.presenter.ScoreChanged(e.score)
		e.spawnFood()
		return
	}

	e.snake = e.snake[:len(e.snake)-1]
}

// gameOver stops ticking and freezes the final state.
func (e *Engine) gameOver() {
	e.scheduler.Stop()
	e.setStatus(StatusOver)
	e.presenter.GameOver(e.score)
}

func (e *Engine) setStatus(s Status) {
	if e.status == s {
		return
	}
	e.status = s
	e.presenter.StatusChanged(s)
}

func (e *Engine) draw() {
	if e.surface == nil {
		return
	}
	Render(e.surface, e.State(), e.theme)
}

// State returns a copy of the current game state.
func (e *Engine) State() State {
	snake := make([]Cell, len(e.snake))
	copy(snake, e.snake)
	return State{
		GridSize:  e.gridSize,
		Snake:     snake,
		Food:      e.food,
		HasFood:   e.hasFood,
		Direction: e.direction,
		Score:     e.score,
		Status:    e.status,
	}
}

// Status returns the lifecycle status.
func (e *Engine) Status() Status {
	return e.status
}

// Score returns the current (or final) score.
func (e *Engine) Score() int {
	return e.score
}

// SetSurface swaps the drawing target and redraws the current state onto it.
func (e *Engine) SetSurface(s canvas.Surface) {
	e.surface = s
	e.draw()
}

// State is an immutable view of a game used for rendering.
type State struct {
	GridSize  int
	Snake     []Cell // Head at index 0
	Food      Cell
	HasFood   bool
	Direction Direction
	Score     int
	Status    Status
}
