package sitemkore

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

// An Engine owns the task registry and the build state [Store] for one
// buildable artefact set. Tasks are added with [Engine.Require], then
// [Engine.Generate] brings all registered keys up to date.
//
// The engine never rolls anything back: records committed by tasks that
// succeeded stay committed when a later task fails. A failed build leaves
// the successful prefix behind and reports the first fatal error.
type Engine struct {
	// Name only shows up in diagnostics.
	Name string

	sync.Mutex

	store Store
	reb   Rebuilder
	src   Source
	jobs  int

	tasks map[Key]Task
	keys  []Key
	idx   map[Key]uint

	lastBuild BuildID
}

type Option func(*Engine)

// WithRebuilder replaces the default [DirtyRebuilder].
func WithRebuilder(r Rebuilder) Option { return func(e *Engine) { e.reb = r } }

// WithSource sets the loader for input keys, i.e. keys without a task.
// Without a source every fetch of an unregistered key fails.
func WithSource(s Source) Option { return func(e *Engine) { e.src = s } }

// Jobs lets a build work on up to n requested target keys concurrently. Each
// single key is still computed at most once per build, concurrent requests
// for a key in flight await its result. n < 2 keeps builds strictly
// sequential.
func Jobs(n int) Option { return func(e *Engine) { e.jobs = n } }

func New(store Store, opts ...Option) *Engine {
	if store == nil {
		store = NewMemStore()
	}
	e := &Engine{
		store: store,
		reb:   DirtyRebuilder{},
		tasks: make(map[Key]Task),
		idx:   make(map[Key]uint),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Store() Store { return e.store }

// Require registers task as the producer of its key. A key can have at most
// one producer; a second registration fails with [DuplicateProducer] and
// leaves the first one intact.
func (e *Engine) Require(task Task) error {
	key := task.Key()
	if key == "" {
		return fmt.Errorf("task %T without key", task)
	}
	e.Lock()
	defer e.Unlock()
	if _, ok := e.tasks[key]; ok {
		return DuplicateProducer(key)
	}
	e.idx[key] = uint(len(e.keys))
	e.tasks[key] = task
	e.keys = append(e.keys, key)
	return nil
}

// Task returns the registered producer of key, nil for input keys.
func (e *Engine) Task(key Key) Task {
	e.Lock()
	defer e.Unlock()
	return e.tasks[key]
}

// Keys returns all registered keys in registration order.
func (e *Engine) Keys() []Key {
	e.Lock()
	defer e.Unlock()
	return slices.Clone(e.keys)
}

func (e *Engine) Build() BuildID { return e.lastBuild }

// LockBuild locks e for one build run and returns the new build ID.
func (e *Engine) LockBuild() BuildID {
	e.Lock()
	e.lastBuild++
	return e.lastBuild
}

// Generate builds every registered key in registration order.
func (e *Engine) Generate(tr *Trace) error {
	return e.Targets(tr, e.Keys()...)
}

// Targets builds the requested keys and everything they transitively depend
// on. It returns the first fatal error; records already committed by
// successful tasks are kept.
func (e *Engine) Targets(tr *Trace, targets ...Key) error {
	if len(targets) == 0 {
		return nil
	}
	bid := e.LockBuild()
	defer e.Unlock()
	start := time.Now()
	tr = tr.pushBuild(e)
	tr.startBuild(e, targets)
	sch := newScheduler(e, bid)
	err := sch.run(tr, targets)
	tr.doneBuild(e, sch.ran.Count(), sch.fresh.Count(), time.Since(start))
	return err
}

func escDotID(id string) string {
	return strings.ReplaceAll(id, "\"", "\\\"")
}

// WriteDot writes the dependency graph as far as it is known from the build
// state to w in Graphviz dot format. Input keys show up dashed, keys that
// never ran have no incoming edges yet.
func (e *Engine) WriteDot(w io.Writer) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			default:
				panic(p)
			}
		}
	}()
	akku := func(p int, err error) {
		n += p
		if err != nil {
			panic(err)
		}
	}
	e.Lock()
	defer e.Unlock()
	name := e.Name
	if name == "" {
		name = "sitemk"
	}
	akku(fmt.Fprintf(w, "digraph \"%s\" {\n\trankdir=\"LR\"\n", escDotID(name)))
	inputs := make(map[Key]bool)
	for _, key := range e.keys {
		akku(fmt.Fprintf(w, "\t\"%s\" [shape=box];\n", escDotID(string(key))))
		rec, err := e.store.Get(key)
		if err != nil || rec == nil {
			continue
		}
		for _, dep := range rec.Deps {
			if _, ok := e.tasks[dep]; !ok {
				inputs[dep] = true
			}
			akku(fmt.Fprintf(w, "\t\"%s\" -> \"%s\";\n",
				escDotID(string(dep)),
				escDotID(string(key)),
			))
		}
	}
	for key := range inputs {
		akku(fmt.Fprintf(w, "\t\"%s\" [style=dashed];\n", escDotID(string(key))))
	}
	akku(fmt.Fprintln(w, "}"))
	return
}
