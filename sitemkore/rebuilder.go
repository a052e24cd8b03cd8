package sitemkore

// A Rebuilder decides whether a task has to run again and whether its new
// record is worth persisting. inputsFresh tells NeedsRun if the hashes of
// all recorded dependency values still match the current values.
type Rebuilder interface {
	NeedsRun(key Key, rec *Record, inputsFresh bool) bool
	Persist(key Key, old, rec *Record) bool
}

// DirtyRebuilder is the default strategy: rerun iff there is no record yet
// or a recorded input hash differs from the current dependency value. Note
// that a task without dependencies runs exactly once and is considered fresh
// forever after. Change can only enter through input keys.
type DirtyRebuilder struct{}

var _ Rebuilder = DirtyRebuilder{}

func (DirtyRebuilder) NeedsRun(_ Key, rec *Record, inputsFresh bool) bool {
	return rec == nil || !inputsFresh
}

func (DirtyRebuilder) Persist(Key, *Record, *Record) bool { return true }

// VerifyRebuilder always reruns tasks but skips rewriting the store when the
// recomputed value hashes the same as the recorded one. Useful when values
// are cheap to compute and store writes are the expensive part.
type VerifyRebuilder struct{}

var _ Rebuilder = VerifyRebuilder{}

func (VerifyRebuilder) NeedsRun(Key, *Record, bool) bool { return true }

func (VerifyRebuilder) Persist(_ Key, old, rec *Record) bool {
	return old == nil || old.Hash != rec.Hash
}
