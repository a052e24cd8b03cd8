package sitemk

import (
	"testing"
	"time"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

type TestTracer struct{ T *testing.T }

var _ sitemkore.Tracer = TestTracer{}

func (tr TestTracer) Debug(t *sitemkore.Trace, msg string, args ...any) {
	tr.T.Logf("sitemk-DEBUG: "+msg, args...)
}

func (tr TestTracer) Info(t *sitemkore.Trace, msg string, args ...any) {
	tr.T.Logf("sitemk-INFO: "+msg, args...)
}

func (tr TestTracer) Warn(t *sitemkore.Trace, msg string, args ...any) {
	tr.T.Logf("sitemk-WARN: "+msg, args...)
}

func (tr TestTracer) StartBuild(t *sitemkore.Trace, e *sitemkore.Engine, targets []Key) {
	tr.T.Logf("sitemk-StartBuild: %d targets", len(targets))
}

func (tr TestTracer) DoneBuild(t *sitemkore.Trace, e *sitemkore.Engine, ran, fresh uint, dt time.Duration) {
	tr.T.Logf("sitemk-DoneBuild: ran %d, fresh %d, %s", ran, fresh, dt)
}

func (tr TestTracer) CheckKey(t *sitemkore.Trace, key Key) {
	tr.T.Logf("sitemk-CheckKey: %s", key)
}

func (tr TestTracer) KeyUpToDate(t *sitemkore.Trace, key Key) {
	tr.T.Logf("sitemk-KeyUpToDate: %s", key)
}

func (tr TestTracer) RunTask(t *sitemkore.Trace, key Key) {
	tr.T.Logf("sitemk-RunTask: %s", key)
}

func (tr TestTracer) TaskDone(t *sitemkore.Trace, key Key, dt time.Duration) {
	tr.T.Logf("sitemk-TaskDone: %s %s", key, dt)
}

func (tr TestTracer) TaskCached(t *sitemkore.Trace, key Key) {
	tr.T.Logf("sitemk-TaskCached: %s", key)
}

func (tr TestTracer) LoadInput(t *sitemkore.Trace, key Key) {
	tr.T.Logf("sitemk-LoadInput: %s", key)
}
