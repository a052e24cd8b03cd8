package sitemkore

import (
	"sync/atomic"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
)

func TestDirtyRebuilder(t *testing.T) {
	var reb DirtyRebuilder
	if !reb.NeedsRun("k", nil, false) {
		t.Error("no record must rerun")
	}
	rec := &Record{Hash: "h"}
	if reb.NeedsRun("k", rec, true) {
		t.Error("fresh inputs must not rerun")
	}
	if !reb.NeedsRun("k", rec, false) {
		t.Error("stale inputs must rerun")
	}
	if !reb.Persist("k", rec, rec) {
		t.Error("dirty rebuilder must always persist")
	}
}

func TestVerifyRebuilder(t *testing.T) {
	var reb VerifyRebuilder
	rec := &Record{Hash: "h"}
	if !reb.NeedsRun("k", rec, true) {
		t.Error("verifying rebuilder must always rerun")
	}
	if reb.Persist("k", rec, &Record{Hash: "h"}) {
		t.Error("unchanged output hash must not be rewritten")
	}
	if !reb.Persist("k", rec, &Record{Hash: "h2"}) {
		t.Error("changed output hash must be persisted")
	}
	if !reb.Persist("k", nil, rec) {
		t.Error("first output must be persisted")
	}
}

// setCounter counts the writes going to a store.
type setCounter struct {
	Store
	sets atomic.Int32
}

func (s *setCounter) Set(k Key, r *Record) error {
	s.sets.Add(1)
	return s.Store.Set(k, r)
}

func TestEngine_verifyingSkipsStoreWrites(t *testing.T) {
	store := &setCounter{Store: NewMemStore()}
	src := MapSource{"x.src": Value("1")}
	eng := New(store, WithSource(src), WithRebuilder(VerifyRebuilder{}))
	a := intTask("A", "x.src", 0)
	testerr.Shall(eng.Require(a)).BeNil(t)

	tr, _ := newTestTrace()
	testerr.Shall(eng.Generate(tr)).BeNil(t)
	if a.runs.Load() != 1 || store.sets.Load() != 1 {
		t.Fatalf("first build: %d runs, %d store writes", a.runs.Load(), store.sets.Load())
	}

	// reruns, but the identical output is not written again
	tr, rec := newTestTrace()
	testerr.Shall(eng.Generate(tr)).BeNil(t)
	if a.runs.Load() != 2 {
		t.Errorf("verifying build did not rerun, %d runs", a.runs.Load())
	}
	if store.sets.Load() != 1 {
		t.Errorf("unchanged output rewritten, %d store writes", store.sets.Load())
	}
	if !rec.has("cached:A") {
		t.Error("kept record not traced as cached")
	}

	src["x.src"] = Value("2")
	tr, _ = newTestTrace()
	testerr.Shall(eng.Generate(tr)).BeNil(t)
	if store.sets.Load() != 2 {
		t.Errorf("changed output not written, %d store writes", store.sets.Load())
	}
}
