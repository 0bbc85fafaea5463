package message

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

var ErrNotFound = errors.New("message not found")

type fileState struct {
	Messages map[string]model.Message `json:"messages"`
}

// FileRepo is a JSON-file-backed store for internal staff messages.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "messages.json"),
		s:    fileState{Messages: map[string]model.Message{}},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Messages == nil {
		loaded.Messages = map[string]model.Message{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func (r *FileRepo) Create(m model.Message) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = "msg_" + uuid.NewString()
	m.CreatedAt = time.Now()

	r.s.Messages[m.ID] = m
	if err := r.saveLocked(); err != nil {
		return model.Message{}, err
	}
	return m, nil
}

// MarkRead records that a user opened the message. Already-read is a
// no-op.
func (r *FileRepo) MarkRead(id, userID string) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.s.Messages[id]
	if !ok {
		return model.Message{}, ErrNotFound
	}
	if !m.HasRead(userID) {
		m.ReadBy = append(m.ReadBy, userID)
		r.s.Messages[id] = m
		if err := r.saveLocked(); err != nil {
			return model.Message{}, err
		}
	}
	return m, nil
}

func (r *FileRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.Messages[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.Messages, id)
	return r.saveLocked()
}

// List returns messages newest first.
func (r *FileRepo) List() ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Message, 0, len(r.s.Messages))
	for _, m := range r.s.Messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
