package game

import (
	"errors"
	"testing"
)

func TestLoginRejectsDuplicateName(t *testing.T) {
	registry := NewRegistry(10)
	addTestPlayer(t, registry, "alice", "dock")

	clone := NewPlayer("alice", "dock")
	if err := registry.Login(clone); !errors.Is(err, ErrAlreadyOnline) {
		t.Fatalf("second login error = %v, want ErrAlreadyOnline", err)
	}
	if registry.Count() != 1 {
		t.Fatalf("count = %d, want 1", registry.Count())
	}
}

func TestLoginEnforcesCeiling(t *testing.T) {
	registry := NewRegistry(1)
	addTestPlayer(t, registry, "alice", "dock")

	bob := NewPlayer("bob", "dock")
	if err := registry.Login(bob); !errors.Is(err, ErrServerFull) {
		t.Fatalf("login error = %v, want ErrServerFull", err)
	}
}

func TestMoveKeepsOccupancyConsistent(t *testing.T) {
	registry := NewRegistry(10)
	alice := addTestPlayer(t, registry, "alice", "dock")
	addTestPlayer(t, registry, "bob", "dock")

	if err := registry.Move(alice, "market"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := registry.RoomOf(alice); got != "market" {
		t.Fatalf("room = %q, want market", got)
	}
	if occ := registry.Occupants("dock", nil); len(occ) != 1 || occ[0].Name != "bob" {
		t.Fatalf("dock occupants = %v", names(occ))
	}
	if occ := registry.Occupants("market", nil); len(occ) != 1 || occ[0].Name != "alice" {
		t.Fatalf("market occupants = %v", names(occ))
	}
}

func TestLogoutClearsPresence(t *testing.T) {
	registry := NewRegistry(10)
	alice := addTestPlayer(t, registry, "alice", "dock")

	if _, ok := registry.Logout("alice"); !ok {
		t.Fatal("logout reported player missing")
	}
	if _, ok := registry.Player("alice"); ok {
		t.Fatal("player still registered after logout")
	}
	if occ := registry.Occupants("dock", nil); len(occ) != 0 {
		t.Fatalf("dock occupants after logout = %v", names(occ))
	}
	if _, ok := registry.Logout("alice"); ok {
		t.Fatal("second logout should report absence")
	}

	// the name frees up immediately
	if err := registry.Login(alice); err != nil {
		t.Fatalf("relogin: %v", err)
	}
}

func names(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
