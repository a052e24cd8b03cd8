package sitemkore

import "io/fs"

// Fetch resolves the current value of a dependency key. The engine makes
// sure the dependency is built and up to date before Fetch returns, so a
// task may decide on the result which key to fetch next. Every fetched key
// becomes a recorded dependency of the calling task.
type Fetch func(Key) (Value, error)

// A Task computes the value of one key. Whether a task knows its
// dependencies up front or discovers them while running makes no difference
// to the engine, both just call fetch.
//
// A task must be deterministic with respect to the values it fetches:
// identical dependency values have to produce an identical result. The
// engine cannot enforce this, but staleness detection relies on it. Side
// effects, e.g. writing the result to a file, are allowed but must be
// idempotent.
type Task interface {
	// Key returns the key of the value the task produces. It must not change
	// over the lifetime of the task.
	Key() Key

	// Run computes the task's value, fetching dependency values as needed.
	Run(tr *Trace, fetch Fetch) (Value, error)
}

// A Source delivers the current values of input keys, i.e. keys that no
// registered task produces. Load returns an error wrapping [fs.ErrNotExist]
// when the source has no value for the key. Input values are reloaded and
// rehashed once per build, which is how external changes enter the
// dependency graph.
type Source interface {
	Load(Key) (Value, error)
}

// SourceFunc makes a plain function a [Source].
type SourceFunc func(Key) (Value, error)

func (f SourceFunc) Load(k Key) (Value, error) { return f(k) }

// MapSource is an in-memory [Source], mostly useful for tests.
type MapSource map[Key]Value

func (s MapSource) Load(k Key) (Value, error) {
	if v, ok := s[k]; ok {
		return v, nil
	}
	return nil, fs.ErrNotExist
}
