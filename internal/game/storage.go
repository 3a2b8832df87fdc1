package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoSnapshot reports a load for a player that has never been saved.
var ErrNoSnapshot = errors.New("no saved snapshot")

// Store persists player snapshots as one JSON file per player. Writes go
// through a temp file and an atomic rename so a crash mid-save never leaves a
// truncated snapshot. Before each overwrite the previous file is copied into
// the backup directory with a timestamp, and old backups are pruned.
type Store struct {
	dir       string
	backupDir string
	keep      int
}

// NewStore prepares the snapshot and backup directories.
func NewStore(dir, backupDir string, keep int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	return &Store{dir: dir, backupDir: backupDir, keep: keep}, nil
}

func (s *Store) playerPath(name string) string {
	return filepath.Join(s.dir, strings.ToLower(name)+".json")
}

// SavePlayer writes the snapshot atomically, rotating the previous file into
// the backup directory first.
func (s *Store) SavePlayer(snap PlayerSnapshot) error {
	target := s.playerPath(snap.Name)
	if err := s.backup(snap.Name, target); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot for %s: %w", snap.Name, err)
	}
	tmp, err := os.CreateTemp(s.dir, "player-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot for %s: %w", snap.Name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot for %s: %w", snap.Name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot for %s: %w", snap.Name, err)
	}
	return nil
}

// LoadPlayer reads a saved snapshot. A missing file is ErrNoSnapshot so
// callers can treat first login as a normal case.
func (s *Store) LoadPlayer(name string) (*PlayerSnapshot, error) {
	data, err := os.ReadFile(s.playerPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNoSnapshot)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot for %s: %w", name, err)
	}
	var snap PlayerSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot for %s: %w", name, err)
	}
	if snap.Name == "" {
		snap.Name = name
	}
	return &snap, nil
}

func (s *Store) backup(name, target string) error {
	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read previous snapshot for %s: %w", name, err)
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	backupName := fmt.Sprintf("%s-%s.bak", strings.ToLower(name), stamp)
	if err := os.WriteFile(filepath.Join(s.backupDir, backupName), data, 0o644); err != nil {
		return fmt.Errorf("write backup for %s: %w", name, err)
	}
	return s.prune(strings.ToLower(name))
}

// prune keeps only the newest backups for a player. Timestamped names sort
// chronologically, so lexical order is age order.
func (s *Store) prune(lowerName string) error {
	pattern := filepath.Join(s.backupDir, lowerName+"-*.bak")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("list backups for %s: %w", lowerName, err)
	}
	if len(matches) <= s.keep {
		return nil
	}
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-s.keep] {
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune backup %s: %w", filepath.Base(stale), err)
		}
	}
	return nil
}
