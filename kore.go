package sitemk

import (
	"context"
	"errors"
	"fmt"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

type (
	Key    = sitemkore.Key
	Value  = sitemkore.Value
	Record = sitemkore.Record
	Fetch  = sitemkore.Fetch
	Task   = sitemkore.Task
	Source = sitemkore.Source
	Store  = sitemkore.Store
	Engine = sitemkore.Engine
	Trace  = sitemkore.Trace
	Option = sitemkore.Option
)

func New(store Store, opts ...Option) *Engine { return sitemkore.New(store, opts...) }

func NewTrace(ctx context.Context, t sitemkore.Tracer) *Trace {
	return sitemkore.NewTrace(ctx, t)
}

// Plan calls do with a wrapper of the engine that allows easy registration
// of tasks. Plan recovers from any panic and returns it as an error, so the
// idiomatic error handling within do can be skipped.
func Plan(eng *Engine, do func(PlanEd)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			switch p := p.(type) {
			case error:
				err = p
			case string:
				err = errors.New(p)
			default:
				err = fmt.Errorf("panic: %+v", p)
			}
		}
	}()
	do(PlanEd{eng})
	return
}

func mustEd(err error) {
	if err != nil {
		panic(err)
	}
}
