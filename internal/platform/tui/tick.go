// Package tui provides the Bubble Tea frontend for the snake game.
// It handles the terminal UI loop, input mapping and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
// ID identifies the loop generation that scheduled it.
type TickMsg struct {
	ID   int
	Time time.Time
}

// tickLoop drives engine ticks with tea.Tick. It implements snake.Scheduler.
//
// Bubble Tea commands cannot be cancelled, so every Start and Stop bumps the
// generation and ticks carrying an older ID are dropped. At most one tick of
// the current generation is ever in flight.
type tickLoop struct {
	id      int
	period  time.Duration
	running bool
	pending tea.Cmd
}

// Start begins a new generation and queues its first tick.
func (l *tickLoop) Start(period time.Duration) {
	l.id++
	l.period = period
	l.running = true
	l.pending = l.schedule()
}

// Stop invalidates any tick in flight.
func (l *tickLoop) Stop() {
	l.id++
	l.running = false
	l.pending = nil
}

// Accept reports whether msg belongs to the current generation.
// Accepted ticks queue the next one.
func (l *tickLoop) Accept(msg TickMsg) bool {
	if !l.running || msg.ID != l.id {
		return false
	}
	l.pending = l.schedule()
	return true
}

// Cmd returns the queued tick command, if any, and clears it.
func (l *tickLoop) Cmd() tea.Cmd {
	cmd := l.pending
	l.pending = nil
	return cmd
}

// Running reports whether a generation is active.
func (l *tickLoop) Running() bool {
	return l.running
}

func (l *tickLoop) schedule() tea.Cmd {
	id := l.id
	return tea.Tick(l.period, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}
