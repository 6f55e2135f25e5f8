package snake

import "time"

// Presenter receives structured notifications from the engine.
// Calls are synchronous and happen on the goroutine driving the engine.
type Presenter interface {
	// ScoreChanged is called on reset and after every food consumption.
	ScoreChanged(score int)

	// StatusChanged is called whenever the lifecycle status changes.
	StatusChanged(status Status)

	// GameOver is called once when a collision ends the game.
	GameOver(finalScore int)
}

// Scheduler drives Engine.Tick at a fixed period.
// Start replaces any previously scheduled timer; Stop cancels it.
type Scheduler interface {
	Start(period time.Duration)
	Stop()
}

// NopPresenter ignores every notification.
type NopPresenter struct{}

func (NopPresenter) ScoreChanged(int)     {}
func (NopPresenter) StatusChanged(Status) {}
func (NopPresenter) GameOver(int)         {}

type nopScheduler struct{}

func (nopScheduler) Start(time.Duration) {}
func (nopScheduler) Stop()               {}
