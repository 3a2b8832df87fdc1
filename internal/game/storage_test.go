package game

import (
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, keep int) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "players"), filepath.Join(dir, "backups"), keep)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t, 3)

	p := NewPlayer("alice", "dock")
	p.AddItem("bread", 2)
	p.GainExp(150) // one level-up at 100
	if err := store.SavePlayer(p.Snapshot("market")); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := store.LoadPlayer("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Name != "alice" || snap.Room != "market" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Level != 2 || snap.Exp != 50 {
		t.Fatalf("level/exp = %d/%d, want 2/50", snap.Level, snap.Exp)
	}
	if snap.Inventory["bread"] != 2 {
		t.Fatalf("inventory = %v", snap.Inventory)
	}

	restored := RestorePlayer(*snap)
	if restored.Level() != 2 || !restored.HasItem("bread", 2) {
		t.Fatal("restore lost state")
	}
}

func TestLoadMissingPlayer(t *testing.T) {
	store := newTestStore(t, 3)
	if _, err := store.LoadPlayer("nobody"); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("error = %v, want ErrNoSnapshot", err)
	}
}

func TestBackupRotation(t *testing.T) {
	store := newTestStore(t, 2)
	p := NewPlayer("alice", "dock")

	for i := 0; i < 5; i++ {
		if err := store.SavePlayer(p.Snapshot("dock")); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(store.backupDir, "alice-*.bak"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) > 2 {
		t.Fatalf("kept %d backups, want at most 2", len(matches))
	}
}

func TestNameCaseFoldsOnDisk(t *testing.T) {
	store := newTestStore(t, 3)
	p := NewPlayer("Alice", "dock")
	if err := store.SavePlayer(p.Snapshot("dock")); err != nil {
		t.Fatalf("save: %v", err)
	}
	snap, err := store.LoadPlayer("alice")
	if err != nil {
		t.Fatalf("load with lowered name: %v", err)
	}
	if snap.Name != "Alice" {
		t.Fatalf("name = %q, want Alice", snap.Name)
	}
}
