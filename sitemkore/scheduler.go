package sitemkore

import (
	"errors"
	"io/fs"
	"slices"
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"
)

// scheduler drives one build pass. Dependencies are resolved depth first:
// fetching a key suspends the fetching task until the key's own task has
// completely finished. Per build every key is computed at most once; the
// first requester claims the key's cell, later requesters await the settled
// result.
type scheduler struct {
	eng *Engine
	bid BuildID

	mu    sync.Mutex
	cells map[Key]*cell
	// waiting maps a key in flight to the key its fetch chain is currently
	// blocked on, for cells claimed by another chain
	waiting map[Key]Key

	// registered keys that ran resp. were found up to date in this pass
	ran   *bitset.BitSet
	fresh *bitset.BitSet
}

// cell is the awaitable result of one key in the current build.
type cell struct {
	done chan struct{}
	val  Value
	hash string
	err  error
}

func newScheduler(e *Engine, bid BuildID) *scheduler {
	n := uint(len(e.keys))
	return &scheduler{
		eng:     e,
		bid:     bid,
		cells:   make(map[Key]*cell),
		waiting: make(map[Key]Key),
		ran:     bitset.New(n),
		fresh:   bitset.New(n),
	}
}

func (s *scheduler) run(tr *Trace, targets []Key) error {
	if s.eng.jobs < 2 || len(targets) < 2 {
		for _, t := range targets {
			if _, _, err := s.build(tr, t, nil); err != nil {
				return err
			}
		}
		return nil
	}
	var (
		wg    sync.WaitGroup
		sem   = make(chan struct{}, s.eng.jobs)
		mu    sync.Mutex
		first error
	)
	for _, t := range targets {
		mu.Lock()
		failed := first != nil
		mu.Unlock()
		if failed {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(t Key) {
			defer func() { <-sem; wg.Done() }()
			if _, _, err := s.build(tr, t, nil); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		}(t)
	}
	wg.Wait()
	return first
}

// build brings key up to date and returns its value and value hash. path
// holds the keys currently being computed further up the same fetch chain,
// which is what cycle detection works on.
func (s *scheduler) build(tr *Trace, key Key, path []Key) (Value, string, error) {
	if i := slices.Index(path, key); i >= 0 {
		return nil, "", Cycle(append(slices.Clone(path[i:]), key))
	}
	s.mu.Lock()
	c := s.cells[key]
	if c != nil {
		// claimed by another chain: make the wait visible and refuse waits
		// that would close a loop of chains blocked on each other
		if err := s.waitFor(key, path); err != nil {
			s.mu.Unlock()
			return nil, "", err
		}
		s.mu.Unlock()
		<-c.done
		s.unwait(path)
		return c.val, c.hash, c.err
	}
	c = &cell{done: make(chan struct{})}
	s.cells[key] = c
	s.mu.Unlock()
	c.val, c.hash, c.err = s.compute(tr, key, path)
	close(c.done)
	return c.val, c.hash, c.err
}

func (s *scheduler) compute(tr *Trace, key Key, path []Key) (Value, string, error) {
	task := s.eng.tasks[key]
	if task == nil {
		return s.input(tr, key)
	}
	tr = tr.pushKey(key)
	tr.checkKey(key)
	path = append(slices.Clone(path), key)

	rec, err := s.eng.store.Get(key)
	if err != nil {
		return nil, "", passErr(key, err)
	}
	inputsFresh := rec != nil
	if rec != nil {
		cur := make(map[Key]string, len(rec.Deps))
		for _, dep := range rec.Deps {
			_, h, err := s.build(tr, dep, path)
			if err != nil {
				return nil, "", err
			}
			cur[dep] = h
		}
		inputsFresh = rec.Fresh(cur)
	}
	if !s.eng.reb.NeedsRun(key, rec, inputsFresh) {
		tr.keyUpToDate(key)
		s.mark(s.fresh, key)
		return rec.Value, rec.Hash, nil
	}

	tr.runTask(key)
	start := time.Now()
	var (
		depMu  sync.Mutex
		deps   []Key
		inputs = make(map[Key]string)
	)
	fetch := func(dep Key) (Value, error) {
		v, h, err := s.build(tr, dep, path)
		if err != nil {
			return nil, err
		}
		depMu.Lock()
		if _, ok := inputs[dep]; !ok {
			deps = append(deps, dep)
			inputs[dep] = h
		}
		depMu.Unlock()
		return v, nil
	}
	val, err := task.Run(tr, fetch)
	if err != nil {
		return nil, "", passErr(key, err)
	}
	s.mark(s.ran, key)
	newRec := &Record{
		Hash:   ValueHash(val),
		Value:  val,
		Deps:   deps,
		Inputs: inputs,
	}
	if s.eng.reb.Persist(key, rec, newRec) {
		if err := s.eng.store.Set(key, newRec); err != nil {
			return nil, "", passErr(key, err)
		}
	} else {
		tr.taskCached(key)
	}
	tr.taskDone(key, time.Since(start))
	return val, newRec.Hash, nil
}

// input loads the current value of a key that has no task. The cell map
// makes sure this happens once per build even if many tasks fetch the key.
func (s *scheduler) input(tr *Trace, key Key) (Value, string, error) {
	if s.eng.src == nil {
		return nil, "", NoProducer(key)
	}
	v, err := s.eng.src.Load(key)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", NoProducer(key)
	case err != nil:
		return nil, "", &TaskError{Key: key, Err: err}
	}
	tr.loadInput(key)
	return v, ValueHash(v), nil
}

// waitFor records that every key on path is now blocked on key. Before the
// wait edges go in it follows the edges already registered: reaching a key
// of path again means the blocked chains form a loop that no task run can
// ever resolve, so the wait must fail with the [Cycle] instead of blocking.
// Call with s.mu held; edges leave via unwait when the awaited cell settles.
func (s *scheduler) waitFor(key Key, path []Key) error {
	walk := []Key{key}
	for k := key; ; {
		if i := slices.Index(path, k); i >= 0 {
			return Cycle(append(slices.Clone(path[i:]), walk...))
		}
		next, ok := s.waiting[k]
		if !ok {
			break
		}
		k = next
		walk = append(walk, k)
	}
	for _, p := range path {
		s.waiting[p] = key
	}
	return nil
}

func (s *scheduler) unwait(path []Key) {
	if len(path) == 0 {
		return
	}
	s.mu.Lock()
	for _, p := range path {
		delete(s.waiting, p)
	}
	s.mu.Unlock()
}

func (s *scheduler) mark(set *bitset.BitSet, key Key) {
	if i, ok := s.eng.idx[key]; ok {
		s.mu.Lock()
		set.Set(i)
		s.mu.Unlock()
	}
}
