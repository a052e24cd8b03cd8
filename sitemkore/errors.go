package sitemkore

import (
	"fmt"
	"strings"
)

// DuplicateProducer is returned by [Engine.Require] when a task for the key
// is already registered. The first registration stays intact.
type DuplicateProducer Key

func (e DuplicateProducer) Error() string {
	return fmt.Sprintf("duplicate producer for key '%s'", string(e))
}

func (DuplicateProducer) Is(target error) bool {
	_, ok := target.(DuplicateProducer)
	return ok
}

// NoProducer is returned when a key is fetched that neither has a registered
// task nor can be loaded from the engine's [Source].
type NoProducer Key

func (e NoProducer) Error() string {
	return fmt.Sprintf("no producer for key '%s'", string(e))
}

func (NoProducer) Is(target error) bool {
	_, ok := target.(NoProducer)
	return ok
}

// Cycle is the path of keys on which the scheduler detected a dependency
// cycle. The first and last element are the same key. No value of a key on
// the path is committed to the store.
type Cycle []Key

func (e Cycle) Error() string {
	var sb strings.Builder
	sb.WriteString("dependency cycle: ")
	for i, k := range e {
		if i > 0 {
			sb.WriteString(" -> ")
		}
		sb.WriteString(string(k))
	}
	return sb.String()
}

func (Cycle) Is(target error) bool {
	_, ok := target.(Cycle)
	return ok
}

// TaskError wraps the failure of a single task run with the key it was
// producing.
type TaskError struct {
	Key Key
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task '%s': %s", e.Key, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// StoreError wraps a failure of the build state store. Store failures are
// fatal to the current build pass.
type StoreError struct {
	Op  string
	Key Key
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s '%s': %s", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// passErr keeps errors that already describe a build failure as they are and
// wraps anything else a task returned into a [TaskError].
func passErr(key Key, err error) error {
	switch err.(type) {
	case Cycle, DuplicateProducer, NoProducer, *TaskError, *StoreError:
		return err
	}
	return &TaskError{Key: key, Err: err}
}
