package sitemkore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// A Store keeps the build state, i.e. the [Record] of the last successful
// run per [Key]. Get returns nil without error for a key that has no record
// yet. Set replaces a key's record as a whole; the new record must never be
// observable half-written.
type Store interface {
	Get(Key) (*Record, error)
	Set(Key, *Record) error
}

// MemStore is an in-memory [Store]. Builds against a MemStore start from
// scratch with every process.
type MemStore struct {
	mu   sync.RWMutex
	recs map[Key]*Record
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{recs: make(map[Key]*Record)}
}

func (s *MemStore) Get(k Key) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recs[k], nil
}

func (s *MemStore) Set(k Key, r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[k] = r
	return nil
}

// Len returns the number of keys with a record.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// DirStore persists build state in a directory, one JSON file per key. The
// file name is the hex hash of the key so that keys do not have to be legal
// file names. Each Set writes the record of this one key immediately, i.e.
// after a crash the store holds the records of all tasks that completed
// before the crash.
type DirStore struct {
	dir string
}

var _ Store = (*DirStore)(nil)

func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, &StoreError{Op: "init", Err: err}
	}
	return &DirStore{dir: dir}, nil
}

func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) Get(k Key) (*Record, error) {
	data, err := os.ReadFile(s.file(k))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, &StoreError{Op: "get", Key: k, Err: err}
	}
	rec := new(Record)
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, &StoreError{Op: "get", Key: k, Err: err}
	}
	return rec, nil
}

func (s *DirStore) Set(k Key, r *Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return &StoreError{Op: "set", Key: k, Err: err}
	}
	// write to a temp file first so Get never sees a torn record
	tmp, err := os.CreateTemp(s.dir, "rec-*")
	if err != nil {
		return &StoreError{Op: "set", Key: k, Err: err}
	}
	if _, err = tmp.Write(data); err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "set", Key: k, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.file(k)); err != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "set", Key: k, Err: err}
	}
	return nil
}

func (s *DirStore) file(k Key) string {
	h := sha256.Sum256([]byte(k))
	return filepath.Join(s.dir, hex.EncodeToString(h[:])+".json")
}
