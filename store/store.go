// Package store persists simulation runs in a local BoltDB archive so
// results survive the engine process that produced them.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/spicelab/spice-runtime/vector"
)

var bucketRuns = []byte("runs")

// Column is one named data column in stored order.
type Column struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// RunRecord is one archived simulation result set.
type RunRecord struct {
	Plot    string    `json:"plot"`
	SavedAt time.Time `json:"saved_at"`
	Columns []Column  `json:"columns"`
}

// RecordFromTable captures a table as an archivable record. Column
// order is preserved.
func RecordFromTable(plot string, t *vector.Table) RunRecord {
	rec := RunRecord{Plot: plot}
	for _, name := range t.Columns() {
		data, _ := t.Column(name)
		rec.Columns = append(rec.Columns, Column{Name: name, Data: data})
	}
	return rec
}

// Table rebuilds the record's columns as a table.
func (r RunRecord) Table() *vector.Table {
	t := vector.NewTable()
	for _, col := range r.Columns {
		t.SetColumn(col.Name, col.Data)
	}
	return t
}

// Archive stores run records in a BoltDB file, one record per run name.
type Archive struct {
	db *bolt.DB
}

// Open opens or creates the archive at path, creating parent
// directories as needed.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive dir: %w", err)
		}
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs bucket: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SaveRun stores a record under name, replacing any previous run with
// that name. A zero SavedAt is stamped with the current time.
func (a *Archive) SaveRun(name string, rec RunRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode run %q: %w", name, err)
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(name), data)
	})
}

// GetRun loads the record stored under name.
func (a *Archive) GetRun(name string) (RunRecord, bool) {
	var data []byte
	a.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketRuns).Get([]byte(name)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return RunRecord{}, false
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return RunRecord{}, false
	}
	return rec, true
}

// ListRuns returns every stored run name in key order.
func (a *Archive) ListRuns() ([]string, error) {
	var names []string
	err := a.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return names, nil
}

// DeleteRun removes the record stored under name, if present.
func (a *Archive) DeleteRun(name string) error {
	return a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Delete([]byte(name))
	})
}
