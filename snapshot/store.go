package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chazu/multimethod/dispatch"
)

// ErrSnapshotNotFound indicates the requested snapshot doesn't exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Entry summarizes a stored snapshot without decoding it.
type Entry struct {
	Name      string
	EngineID  string
	TakenAt   time.Time
	Instances int
	Size      int
}

// Store keeps named snapshots in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		engine_id TEXT NOT NULL,
		taken_at INTEGER NOT NULL,
		instances INTEGER NOT NULL,
		data BLOB NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database path.
func (st *Store) Path() string {
	return st.path
}

// Close closes the database connection.
func (st *Store) Close() error {
	if st.db != nil {
		return st.db.Close()
	}
	return nil
}

// Save stores s under name, replacing any snapshot with the same name.
func (st *Store) Save(name string, s *dispatch.Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	_, err = st.db.Exec(`INSERT INTO snapshots (name, engine_id, taken_at, instances, data)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			engine_id = excluded.engine_id,
			taken_at = excluded.taken_at,
			instances = excluded.instances,
			data = excluded.data`,
		name, s.EngineID, s.TakenAt.Unix(), len(s.Instances), data)
	if err != nil {
		return fmt.Errorf("saving snapshot %s: %w", name, err)
	}
	return nil
}

// Load retrieves the snapshot stored under name.
func (st *Store) Load(name string) (*dispatch.Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var data []byte
	err := st.db.QueryRow("SELECT data FROM snapshots WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", name, err)
	}
	return Unmarshal(data)
}

// Delete removes the snapshot stored under name.
func (st *Store) Delete(name string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	res, err := st.db.Exec("DELETE FROM snapshots WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, name)
	}
	return nil
}

// List returns every stored snapshot ordered by name.
func (st *Store) List() ([]Entry, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	rows, err := st.db.Query(`SELECT name, engine_id, taken_at, instances, length(data)
		FROM snapshots ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var takenAt int64
		if err := rows.Scan(&e.Name, &e.EngineID, &takenAt, &e.Instances, &e.Size); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		e.TakenAt = time.Unix(takenAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
