package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MailMessage is one piece of offline mail between players.
type MailMessage struct {
	ID     string    `json:"id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
	Read   bool      `json:"read"`
}

// MailSystem stores per-player mailboxes so players can message peers who are
// offline. Mail persists across restarts; an empty path keeps the system in
// memory for tests.
type MailSystem struct {
	mu    sync.RWMutex
	path  string
	boxes map[string][]MailMessage // lowercased recipient name
}

// NewMailSystem constructs a mail system backed by the provided file path.
func NewMailSystem(path string) (*MailSystem, error) {
	ms := &MailSystem{
		path:  path,
		boxes: make(map[string][]MailMessage),
	}
	if strings.TrimSpace(path) == "" {
		return ms, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ms, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read mail file: %w", err)
	}
	if len(data) == 0 {
		return ms, nil
	}
	var record struct {
		Boxes map[string][]MailMessage `json:"boxes"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode mail file: %w", err)
	}
	for name, box := range record.Boxes {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		copied := make([]MailMessage, 0, len(box))
		for _, msg := range box {
			if msg.ID == "" {
				msg.ID = uuid.NewString()
			}
			if msg.SentAt.IsZero() {
				msg.SentAt = time.Now().UTC()
			}
			copied = append(copied, msg)
		}
		ms.boxes[key] = copied
	}
	return ms, nil
}

// Send appends a message to the recipient's mailbox and persists it. The
// recipient does not have to be online, or even to exist yet.
func (m *MailSystem) Send(from, to, body string) (MailMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return MailMessage{}, errors.New("mail body required")
	}
	if err := ValidateName(to); err != nil {
		return MailMessage{}, fmt.Errorf("recipient: %w", err)
	}
	msg := MailMessage{
		ID:     uuid.NewString(),
		From:   from,
		To:     to,
		Body:   body,
		SentAt: time.Now().UTC(),
	}
	key := strings.ToLower(to)
	m.mu.Lock()
	m.boxes[key] = append(m.boxes[key], msg)
	err := m.saveLocked()
	m.mu.Unlock()
	if err != nil {
		return MailMessage{}, err
	}
	return msg, nil
}

// Inbox snapshots the player's mailbox, oldest first.
func (m *MailSystem) Inbox(name string) []MailMessage {
	key := strings.ToLower(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	box := m.boxes[key]
	out := make([]MailMessage, len(box))
	copy(out, box)
	return out
}

// Unread returns the player's unread mail and marks it read, used to deliver
// pending mail at login.
func (m *MailSystem) Unread(name string) ([]MailMessage, error) {
	key := strings.ToLower(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	var unread []MailMessage
	box := m.boxes[key]
	for i := range box {
		if !box[i].Read {
			unread = append(unread, box[i])
			box[i].Read = true
		}
	}
	if len(unread) == 0 {
		return nil, nil
	}
	if err := m.saveLocked(); err != nil {
		return nil, err
	}
	return unread, nil
}

// Clear empties the player's mailbox.
func (m *MailSystem) Clear(name string) error {
	key := strings.ToLower(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boxes[key]; !ok {
		return nil
	}
	delete(m.boxes, key)
	return m.saveLocked()
}

func (m *MailSystem) saveLocked() error {
	if strings.TrimSpace(m.path) == "" {
		return nil
	}
	record := struct {
		Boxes map[string][]MailMessage `json:"boxes"`
	}{Boxes: m.boxes}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mail file: %w", err)
	}
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create mail dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "mail-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp mail file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write mail file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close mail file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace mail file: %w", err)
	}
	return nil
}
