package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BoardPost is one entry on a public bulletin board.
type BoardPost struct {
	ID        string    `json:"id"`
	Board     string    `json:"board"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardSystem manages persistent public bulletin boards. Posts survive
// restarts; an empty path keeps the system purely in memory for tests.
type BoardSystem struct {
	mu     sync.RWMutex
	path   string
	boards map[string][]BoardPost
}

// NewBoardSystem constructs a board system backed by the provided file path.
func NewBoardSystem(path string) (*BoardSystem, error) {
	bs := &BoardSystem{
		path:   path,
		boards: make(map[string][]BoardPost),
	}
	if strings.TrimSpace(path) == "" {
		return bs, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return bs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read board file: %w", err)
	}
	if len(data) == 0 {
		return bs, nil
	}
	var record struct {
		Boards map[string][]BoardPost `json:"boards"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode board file: %w", err)
	}
	for name, posts := range record.Boards {
		board := normalizeBoardName(name)
		if board == "" {
			continue
		}
		copied := make([]BoardPost, 0, len(posts))
		for _, post := range posts {
			post.Board = board
			post.Body = strings.TrimSpace(post.Body)
			if post.Body == "" {
				continue
			}
			if post.ID == "" {
				post.ID = uuid.NewString()
			}
			if post.CreatedAt.IsZero() {
				post.CreatedAt = time.Now().UTC()
			}
			copied = append(copied, post)
		}
		bs.boards[board] = copied
	}
	return bs, nil
}

func normalizeBoardName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// Post appends a message to a board and persists the change.
func (b *BoardSystem) Post(board, author, body string) (BoardPost, error) {
	board = normalizeBoardName(board)
	if board == "" {
		return BoardPost{}, errors.New("board name required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return BoardPost{}, errors.New("post body required")
	}
	post := BoardPost{
		ID:        uuid.NewString(),
		Board:     board,
		Author:    author,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	b.mu.Lock()
	b.boards[board] = append(b.boards[board], post)
	err := b.saveLocked()
	b.mu.Unlock()
	if err != nil {
		return BoardPost{}, err
	}
	return post, nil
}

// Posts returns a board's entries, newest last.
func (b *BoardSystem) Posts(board string) []BoardPost {
	board = normalizeBoardName(board)
	b.mu.RLock()
	defer b.mu.RUnlock()
	posts := b.boards[board]
	out := make([]BoardPost, len(posts))
	copy(out, posts)
	return out
}

// Boards lists every board that has at least one post, sorted.
func (b *BoardSystem) Boards() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.boards))
	for name, posts := range b.boards {
		if len(posts) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (b *BoardSystem) saveLocked() error {
	if strings.TrimSpace(b.path) == "" {
		return nil
	}
	record := struct {
		Boards map[string][]BoardPost `json:"boards"`
	}{Boards: b.boards}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board file: %w", err)
	}
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create board dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "board-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp board file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close board file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace board file: %w", err)
	}
	return nil
}
