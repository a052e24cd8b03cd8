package sitemk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
	"git.fractalqb.de/fractalqb/sllm/v3"
)

type WriteTracer struct {
	W   io.Writer
	Log sitemkore.TraceLog
}

func DefaultTracer() sitemkore.Tracer {
	return &WriteTracer{W: os.Stderr, Log: sitemkore.TraceWarn}
}

func (tr *WriteTracer) ParseLogFlag(f string) error {
	switch f {
	case "":
		return nil
	case "off":
		tr.Log = 0
	case "warn", "w":
		tr.Log = sitemkore.TraceWarn
	case "info", "i":
		tr.Log = sitemkore.TraceWarn | sitemkore.TraceInfo
	case "debug", "d":
		tr.Log = sitemkore.TraceWarn | sitemkore.TraceInfo | sitemkore.TraceDebug
	default:
		return fmt.Errorf("write tracer: illegal log flag '%s'", f)
	}
	return nil
}

func (tr WriteTracer) Debug(t *sitemkore.Trace, msg string, args ...any) {
	if tr.Log&sitemkore.TraceDebug == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  DEBUG ", t.Build(), t.TopTag())
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr WriteTracer) Info(t *sitemkore.Trace, msg string, args ...any) {
	if tr.Log&(sitemkore.TraceInfo|sitemkore.TraceDebug) == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  INFO  ", t.Build(), t.TopTag())
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr WriteTracer) Warn(t *sitemkore.Trace, msg string, args ...any) {
	if tr.Log&(sitemkore.TraceWarn|sitemkore.TraceInfo|sitemkore.TraceDebug) == 0 {
		return
	}
	fmt.Fprintf(tr.W, "%d@%s\t  WARN  ", t.Build(), t.TopTag())
	sllm.Fprint(tr.W, msg, sllmArgs(args).append)
	fmt.Fprintln(tr.W)
}

func (tr WriteTracer) StartBuild(t *sitemkore.Trace, e *sitemkore.Engine, targets []Key) {
	fmt.Fprintf(tr.W, "%d@%s\t{ building %d of %d keys\n",
		t.Build(),
		t.TopTag(),
		len(targets),
		len(e.Keys()),
	)
}

func (tr WriteTracer) DoneBuild(t *sitemkore.Trace, _ *sitemkore.Engine, ran, fresh uint, dt time.Duration) {
	fmt.Fprintf(tr.W, "%d@%s\t} build ran %d tasks, %d up to date, took %s\n",
		t.Build(),
		t.TopTag(),
		ran,
		fresh,
		dt,
	)
}

func (tr WriteTracer) logKeys() bool {
	return tr.Log&(sitemkore.TraceWarn|sitemkore.TraceInfo|sitemkore.TraceDebug) != 0
}

func (tr WriteTracer) logTasks() bool {
	return tr.Log&(sitemkore.TraceInfo|sitemkore.TraceDebug) != 0
}

func (tr WriteTracer) CheckKey(t *sitemkore.Trace, key Key) {
	if tr.Log&sitemkore.TraceDebug != 0 {
		fmt.Fprintf(tr.W, "%d@%s\t  check key '%s'\n", t.Build(), t.TopTag(), key)
	}
}

func (tr WriteTracer) KeyUpToDate(t *sitemkore.Trace, key Key) {
	if tr.logKeys() {
		fmt.Fprintf(tr.W, "%d@%s\t  key '%s' up to date\n", t.Build(), t.TopTag(), key)
	}
}

func (tr WriteTracer) RunTask(t *sitemkore.Trace, key Key) {
	if tr.logTasks() {
		fmt.Fprintf(tr.W, "%d@%s\t  run task '%s'\n", t.Build(), t.TopTag(), key)
	}
}

func (tr WriteTracer) TaskDone(t *sitemkore.Trace, key Key, dt time.Duration) {
	if tr.logTasks() {
		fmt.Fprintf(tr.W, "%d@%s\t  task '%s' took %s\n", t.Build(), t.TopTag(), key, dt)
	}
}

func (tr WriteTracer) TaskCached(t *sitemkore.Trace, key Key) {
	if tr.logTasks() {
		fmt.Fprintf(tr.W, "%d@%s\t  task '%s' output unchanged, store kept\n",
			t.Build(),
			t.TopTag(),
			key,
		)
	}
}

func (tr WriteTracer) LoadInput(t *sitemkore.Trace, key Key) {
	if tr.Log&sitemkore.TraceDebug != 0 {
		fmt.Fprintf(tr.W, "%d@%s\t  load input '%s'\n", t.Build(), t.TopTag(), key)
	}
}

type sllmArgs []any

func (as sllmArgs) append(buf []byte, _ int, n string) ([]byte, error) {
	for len(as) > 0 {
		switch k := as[0].(type) {
		case string:
			if len(as) == 1 {
				return buf, fmt.Errorf("no value for key '%s'", n)
			}
			if k == n {
				return sllm.AppendArg(buf, as[1]), nil
			}
			as = as[2:]
		case slog.Attr:
			if k.Key == n {
				return sllm.AppendArg(buf, k.Value), nil
			}
			as = as[1:]
		default:
			return buf, fmt.Errorf("illegal key type %T", k)
		}
	}
	return buf, fmt.Errorf("no key '%s", n)
}
