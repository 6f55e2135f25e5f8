// Package config provides YAML-based configuration loading for the snake game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned (wrapped) by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains all configuration for the snake game.
type Config struct {
	Board   Board   `yaml:"board"`
	Timing  Timing  `yaml:"timing"`
	Rules   Rules   `yaml:"rules"`
	Theme   Theme   `yaml:"theme"`
	Consent Consent `yaml:"consent"`
}

// Board defines the grid and the logical canvas it is drawn on.
type Board struct {
	GridSize   int     `yaml:"grid_size"`
	CanvasSize float64 `yaml:"canvas_size"`
}

// Timing defines the fixed simulation period.
type Timing struct {
	TickMS int `yaml:"tick_ms"`
}

// Rules defines gameplay constants.
type Rules struct {
	InitialLength int `yaml:"initial_length"`
	FoodReward    int `yaml:"food_reward"`
}

// Theme defines board colors as "#rrggbb" strings.
type Theme struct {
	Background string `yaml:"background"`
	GridLine   string `yaml:"grid_line"`
	SnakeHead  string `yaml:"snake_head"`
	SnakeBody  string `yaml:"snake_body"`
	Eye        string `yaml:"eye"`
	Food       string `yaml:"food"`
	Stem       string `yaml:"stem"`
}

// Consent defines how long consent and sponsor choices are remembered.
type Consent struct {
	ConsentDays       int `yaml:"consent_days"`
	SponsorClosedDays int `yaml:"sponsor_closed_days"`
	SponsorDelayMS    int `yaml:"sponsor_delay_ms"`
}

// TickPeriod returns the simulation period.
func (c Config) TickPeriod() time.Duration {
	return time.Duration(c.Timing.TickMS) * time.Millisecond
}

// ConsentTTL returns how long a consent decision is kept.
func (c Config) ConsentTTL() time.Duration {
	return time.Duration(c.Consent.ConsentDays) * 24 * time.Hour
}

// SponsorClosedTTL returns how long a closed sponsor banner stays hidden.
func (c Config) SponsorClosedTTL() time.Duration {
	return time.Duration(c.Consent.SponsorClosedDays) * 24 * time.Hour
}

// SponsorDelay returns the delay before the sponsor banner appears.
func (c Config) SponsorDelay() time.Duration {
	return time.Duration(c.Consent.SponsorDelayMS) * time.Millisecond
}

// Validate checks that every value is usable.
// Colors are parsed by the renderer, not here.
func (c Config) Validate() error {
	switch {
	case c.Board.GridSize < 2:
		return fmt.Errorf("%w: board.grid_size must be at least 2, got %d", ErrInvalidConfig, c.Board.GridSize)
	case c.Board.CanvasSize <= 0:
		return fmt.Errorf("%w: board.canvas_size must be positive, got %v", ErrInvalidConfig, c.Board.CanvasSize)
	case c.Timing.TickMS <= 0:
		return fmt.Errorf("%w: timing.tick_ms must be positive, got %d", ErrInvalidConfig, c.Timing.TickMS)
	case c.Rules.InitialLength < 1:
		return fmt.Errorf("%w: rules.initial_length must be at least 1, got %d", ErrInvalidConfig, c.Rules.InitialLength)
	case c.Rules.InitialLength > c.Board.GridSize/2+1:
		// The snake starts at the center and extends left.
		return fmt.Errorf("%w: rules.initial_length %d does not fit a %d grid", ErrInvalidConfig, c.Rules.InitialLength, c.Board.GridSize)
	case c.Rules.FoodReward <= 0:
		return fmt.Errorf("%w: rules.food_reward must be positive, got %d", ErrInvalidConfig, c.Rules.FoodReward)
	case c.Consent.ConsentDays < 0 || c.Consent.SponsorClosedDays < 0 || c.Consent.SponsorDelayMS < 0:
		return fmt.Errorf("%w: consent durations must not be negative", ErrInvalidConfig)
	}
	return nil
}
