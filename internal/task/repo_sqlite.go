package task

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// SQLiteRepo is the durable task store. Rows keep the full task document
// as JSON next to the columns the store queries on, so schema changes in
// the document don't require migrations.
type SQLiteRepo struct {
	db *sql.DB
}

func OpenSQLiteRepo(dbPath string) (*SQLiteRepo, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &SQLiteRepo{db: db}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepo) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepo) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	due TEXT NOT NULL,
	status TEXT NOT NULL,
	deleted INTEGER NOT NULL DEFAULT 0,
	doc TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due);`
	_, err := r.db.Exec(ddl)
	return err
}

func (r *SQLiteRepo) put(t model.Task) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return err
	}
	deleted := 0
	if t.Deleted {
		deleted = 1
	}
	_, err = r.db.Exec(`
INSERT INTO tasks (id, due, status, deleted, doc, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	due = excluded.due,
	status = excluded.status,
	deleted = excluded.deleted,
	doc = excluded.doc,
	updated_at = excluded.updated_at;`,
		string(t.ID),
		t.DueDate.Format(time.RFC3339Nano),
		string(t.Status),
		deleted,
		string(doc),
		t.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (r *SQLiteRepo) Create(t model.Task) (model.Task, error) {
	now := time.Now()
	if t.ID == "" {
		t.ID = newID()
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	if err := r.put(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) Get(id model.TaskID) (model.Task, error) {
	var doc string
	err := r.db.QueryRow(`SELECT doc FROM tasks WHERE id = ?;`, string(id)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	var t model.Task
	if err := json.Unmarshal([]byte(doc), &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) Update(id model.TaskID, p Patch) (model.Task, error) {
	t, err := r.Get(id)
	if err != nil {
		return model.Task{}, err
	}
	applyPatch(&t, p)
	t.UpdatedAt = time.Now()
	if err := r.put(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) List() ([]model.Task, error) {
	rows, err := r.db.Query(`SELECT doc FROM tasks ORDER BY due;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal([]byte(doc), &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
