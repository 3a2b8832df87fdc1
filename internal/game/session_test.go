package game

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestReadLineTrimsLineEndings(t *testing.T) {
	s := newTestSession("LOOK\r\nGO N\nWHO")
	for i, want := range []string{"LOOK", "GO N", "WHO"} {
		got, err := s.ReadLine()
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("line %d = %q, want %q", i, got, want)
		}
	}
	if _, err := s.ReadLine(); err != io.EOF {
		t.Fatalf("error = %v, want EOF", err)
	}
}

func TestReadLineRejectsOversizedInput(t *testing.T) {
	s := newTestSession(strings.Repeat("x", maxLineBytes+100) + "\n")
	if _, err := s.ReadLine(); err == nil {
		t.Fatal("oversized line should fail")
	}
}

func TestThrottleDoesNotReArm(t *testing.T) {
	s := newTestSession("")
	base := time.Now()

	if !s.Throttle(base, 100*time.Millisecond) {
		t.Fatal("first command should pass")
	}
	if s.Throttle(base.Add(50*time.Millisecond), 100*time.Millisecond) {
		t.Fatal("command inside the window should be rejected")
	}
	if !s.Throttle(base.Add(110*time.Millisecond), 100*time.Millisecond) {
		t.Fatal("command after the original window should pass")
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	s := newTestSession("")
	for i := 0; i < outputBuffer; i++ {
		if !s.Queue("line") {
			t.Fatalf("queue %d should accept", i)
		}
	}
	if s.Queue("overflow") {
		t.Fatal("full queue should report a dropped line")
	}
}

func TestQueueAfterClose(t *testing.T) {
	s := newTestSession("")
	s.Close()
	if s.Queue("late") {
		t.Fatal("closed session should not accept output")
	}
	if !s.Closed() {
		t.Fatal("Closed should report true")
	}
	s.Close() // idempotent
}

func TestBindPlayerAuthenticates(t *testing.T) {
	s := newTestSession("")
	if s.Authenticated() {
		t.Fatal("fresh session should be unauthenticated")
	}
	p := NewPlayer("alice", "dock")
	s.BindPlayer(p)
	if !s.Authenticated() || s.Player() != p {
		t.Fatal("bind did not take")
	}
}
