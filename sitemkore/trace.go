package sitemkore

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer receives the diagnostic events of build runs. Implementations
// decide what to log and where; see the sitemk package for tracers writing
// to an io.Writer or a testing.T.
type Tracer interface {
	Debug(t *Trace, msg string, args ...any)
	Info(t *Trace, msg string, args ...any)
	Warn(t *Trace, msg string, args ...any)

	StartBuild(t *Trace, e *Engine, targets []Key)
	DoneBuild(t *Trace, e *Engine, ran, fresh uint, dt time.Duration)

	CheckKey(t *Trace, key Key)
	KeyUpToDate(t *Trace, key Key)
	RunTask(t *Trace, key Key)
	TaskDone(t *Trace, key Key, dt time.Duration)
	TaskCached(t *Trace, key Key)
	LoadInput(t *Trace, key Key)
}

type TraceLog int

var DefaultTraceLog TraceLog = TraceWarn

const (
	TraceWarn TraceLog = (1 << iota)
	TraceInfo
	TraceDebug
)

// A Trace identifies one position in the tree of nested build steps. Traces
// are passed along with the work so that tracer output can show where in the
// build an event happened.
type Trace struct {
	root *traceRoot
	up   *Trace
	obj  any
	id   uint64
}

func NewTrace(ctx context.Context, t Tracer) *Trace {
	root := &traceRoot{ctx: ctx, tr: t}
	return &Trace{root: root}
}

func (t *Trace) Ctx() context.Context { return t.root.ctx }

func (t *Trace) Debug(msg string, args ...any) { t.root.tr.Debug(t, msg, args...) }
func (t *Trace) Info(msg string, args ...any)  { t.root.tr.Info(t, msg, args...) }
func (t *Trace) Warn(msg string, args ...any)  { t.root.tr.Warn(t, msg, args...) }

func (t *Trace) startBuild(e *Engine, targets []Key) {
	t.root.eng = e
	t.root.tr.StartBuild(t, e, targets)
}

func (t *Trace) doneBuild(e *Engine, ran, fresh uint, dt time.Duration) {
	t.root.tr.DoneBuild(t, e, ran, fresh, dt)
	t.root.eng = nil
}

func (t *Trace) checkKey(key Key)    { t.root.tr.CheckKey(t, key) }
func (t *Trace) keyUpToDate(key Key) { t.root.tr.KeyUpToDate(t, key) }
func (t *Trace) runTask(key Key)     { t.root.tr.RunTask(t, key) }
func (t *Trace) taskCached(key Key)  { t.root.tr.TaskCached(t, key) }
func (t *Trace) loadInput(key Key)   { t.root.tr.LoadInput(t, key) }

func (t *Trace) taskDone(key Key, dt time.Duration) {
	t.root.tr.TaskDone(t, key, dt)
}

func (t *Trace) Build() BuildID {
	if t.root == nil || t.root.eng == nil {
		return 0
	}
	return t.root.eng.Build()
}

func (t *Trace) TopID() uint64 { return t.id }

func (t *Trace) TopTag() string {
	switch t.obj.(type) {
	case Key:
		return fmt.Sprintf("[%d]", t.id)
	case *Engine:
		return fmt.Sprintf("{%d}", t.id)
	case nil:
		return ""
	}
	return fmt.Sprintf("!%T!", t.obj)
}

func (t *Trace) Path() string {
	var sb strings.Builder
	sb.WriteByte('<')
	for ; t != nil; t = t.up {
		sb.WriteString(t.TopTag())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (t *Trace) String() string {
	if t.root.eng == nil {
		return t.Path()
	}
	return fmt.Sprintf("%d@%s", t.root.eng.Build(), t.Path())
}

func (t *Trace) pushBuild(e *Engine) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		obj:  e,
		id:   t.root.idSeq.Add(1),
	}
}

func (t *Trace) pushKey(key Key) *Trace {
	return &Trace{
		root: t.root,
		up:   t,
		obj:  key,
		id:   t.root.idSeq.Add(1),
	}
}

type traceRoot struct {
	ctx   context.Context
	tr    Tracer
	eng   *Engine
	idSeq atomic.Uint64
}
