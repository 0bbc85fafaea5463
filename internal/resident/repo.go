package resident

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

var ErrNotFound = errors.New("resident not found")

type fileState struct {
	Residents map[string]model.Resident `json:"residents"`
}

// FileRepo is a JSON-file-backed resident store.
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
		path: filepath.Join(dataDir, "residents.json"),
		s:    fileState{Residents: map[string]model.Resident{}},
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
	if loaded.Residents == nil {
		loaded.Residents = map[string]model.Resident{}
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

func (r *FileRepo) Create(res model.Resident) (model.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	res.ID = "res_" + uuid.NewString()
	res.CreatedAt = now
	res.UpdatedAt = now

	r.s.Residents[res.ID] = res
	if err := r.saveLocked(); err != nil {
		return model.Resident{}, err
	}
	return res, nil
}

func (r *FileRepo) Get(id string) (model.Resident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.s.Residents[id]
	if !ok {
		return model.Resident{}, ErrNotFound
	}
	return res, nil
}

func (r *FileRepo) Update(id string, mutate func(*model.Resident)) (model.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.s.Residents[id]
	if !ok {
		return model.Resident{}, ErrNotFound
	}
	mutate(&res)
	res.ID = id
	res.UpdatedAt = time.Now()

	r.s.Residents[id] = res
	if err := r.saveLocked(); err != nil {
		return model.Resident{}, err
	}
	return res, nil
}

// List returns residents sorted by last then first name. Archived ones
// are included only when asked for.
func (r *FileRepo) List(includeArchived bool) ([]model.Resident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Resident, 0, len(r.s.Residents))
	for _, res := range r.s.Residents {
		if res.Archived && !includeArchived {
			continue
		}
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		li := strings.ToLower(out[i].LastName)
		lj := strings.ToLower(out[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(out[i].FirstName) < strings.ToLower(out[j].FirstName)
	})
	return out, nil
}

// Names returns the id -> full-name map the task views join against.
func (r *FileRepo) Names() (map[string]string, error) {
	all, err := r.List(true)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(all))
	for _, res := range all {
		names[res.ID] = res.FullName()
	}
	return names, nil
}
