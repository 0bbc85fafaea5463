package report

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

var ErrNotFound = errors.New("report not found")

type fileState struct {
	Reports map[string]model.Report `json:"reports"`
}

// FileRepo is a JSON-file-backed activity report store.
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
		path: filepath.Join(dataDir, "reports.json"),
		s:    fileState{Reports: map[string]model.Report{}},
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
	if loaded.Reports == nil {
		loaded.Reports = map[string]model.Report{}
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

func (r *FileRepo) Create(rep model.Report) (model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	rep.ID = "rep_" + uuid.NewString()
	rep.CreatedAt = now
	rep.UpdatedAt = now

	r.s.Reports[rep.ID] = rep
	if err := r.saveLocked(); err != nil {
		return model.Report{}, err
	}
	return rep, nil
}

func (r *FileRepo) Get(id string) (model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.s.Reports[id]
	if !ok {
		return model.Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *FileRepo) Update(id string, title, body string) (model.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.s.Reports[id]
	if !ok {
		return model.Report{}, ErrNotFound
	}
	if title != "" {
		rep.Title = title
	}
	if body != "" {
		rep.Body = body
	}
	rep.UpdatedAt = time.Now()

	r.s.Reports[id] = rep
	if err := r.saveLocked(); err != nil {
		return model.Report{}, err
	}
	return rep, nil
}

func (r *FileRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.s.Reports[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.Reports, id)
	return r.saveLocked()
}

// List returns reports newest first, optionally restricted to one
// resident.
func (r *FileRepo) List(residentID string) ([]model.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Report, 0, len(r.s.Reports))
	for _, rep := range r.s.Reports {
		if residentID != "" && rep.ResidentID != residentID {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
