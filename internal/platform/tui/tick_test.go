package tui

import (
	"testing"
	"time"
)

func TestTickLoopStart(t *testing.T) {
	var l tickLoop

	if l.Running() {
		t.Error("new loop should not be running")
	}
	if l.Cmd() != nil {
		t.Error("new loop should have nothing queued")
	}

	l.Start(time.Millisecond)
	if !l.Running() {
		t.Error("loop should run after Start")
	}

	cmd := l.Cmd()
	if cmd == nil {
		t.Fatal("Start should queue a tick")
	}
	if l.Cmd() != nil {
		t.Error("Cmd should clear the queued tick")
	}

	msg, ok := cmd().(TickMsg)
	if !ok {
		t.Fatalf("tick command produced %T, expected TickMsg", cmd())
	}
	if msg.ID != l.id {
		t.Errorf("tick ID = %d, expected current generation %d", msg.ID, l.id)
	}
}

func TestTickLoopAcceptQueuesNext(t *testing.T) {
	var l tickLoop
	l.Start(time.Millisecond)
	l.Cmd()

	if !l.Accept(TickMsg{ID: l.id}) {
		t.Fatal("current tick should be accepted")
	}
	if l.Cmd() == nil {
		t.Error("accepted tick should queue the next one")
	}
}

func TestTickLoopDropsStaleTicks(t *testing.T) {
	var l tickLoop
	l.Start(time.Millisecond)
	old := l.id

	// Restart without waiting for the first tick
	l.Stop()
	l.Start(time.Millisecond)

	if l.Accept(TickMsg{ID: old}) {
		t.Error("tick from a previous generation should be dropped")
	}
	if !l.Accept(TickMsg{ID: l.id}) {
		t.Error("tick from the current generation should be accepted")
	}
}

func TestTickLoopStop(t *testing.T) {
	var l tickLoop
	l.Start(time.Millisecond)
	id := l.id

	l.Stop()

	if l.Running() {
		t.Error("loop should not run after Stop")
	}
	if l.Cmd() != nil {
		t.Error("Stop should discard the queued tick")
	}
	if l.Accept(TickMsg{ID: id}) {
		t.Error("ticks in flight should be dropped after Stop")
	}
	if l.Cmd() != nil {
		t.Error("dropped tick should not queue another")
	}
}
