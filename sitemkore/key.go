package sitemkore

import (
	"crypto/sha256"
	"encoding/hex"
)

type BuildID = uint64

// A Key names one buildable artefact. Keys are opaque to the engine, they
// only have to be unique within one [Engine]. For site builds they usually
// are slash separated output paths.
type Key string

func (k Key) String() string { return string(k) }

// A Value is the computed content associated with a [Key]. The engine treats
// values as opaque bytes.
type Value []byte

// ValueHash returns the hex encoded content hash of v. Hashes of dependency
// values are what the engine compares to decide staleness, so the function
// must stay stable across builds and across processes.
func ValueHash(v Value) string {
	s := sha256.Sum256(v)
	return hex.EncodeToString(s[:])
}

// A Record is the persisted outcome of one successful [Task] run: the value,
// its hash and the hashes of all dependency values the task observed. Deps
// keeps the keys in the order the task fetched them. A record is replaced as
// a whole, it is never updated partially.
type Record struct {
	Hash   string         `json:"hash"`
	Value  Value          `json:"value"`
	Deps   []Key          `json:"deps,omitempty"`
	Inputs map[Key]string `json:"inputs,omitempty"`
}

// Fresh reports whether the recorded input hashes are the same as the hashes
// in cur for every recorded dependency.
func (r *Record) Fresh(cur map[Key]string) bool {
	for _, dep := range r.Deps {
		if r.Inputs[dep] != cur[dep] {
			return false
		}
	}
	return true
}
