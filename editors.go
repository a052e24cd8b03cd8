package sitemk

// PlanEd is used with [Plan].
type PlanEd struct{ e *Engine }

func (ed PlanEd) Engine() *Engine { return ed.e }

// Task registers task and panics on a registration error, notably when the
// task's key already has a producer.
func (ed PlanEd) Task(task Task) PlanEd {
	mustEd(ed.e.Require(task))
	return ed
}

// Func registers a fully dynamic task under key, see [TaskFunc].
func (ed PlanEd) Func(key Key, f func(*Trace, Fetch) (Value, error)) PlanEd {
	return ed.Task(TaskFunc(key, f))
}

// Static registers a task with an up-front dependency list, see
// [StaticTask].
func (ed PlanEd) Static(key Key, deps []Key, f func(*Trace, map[Key]Value) (Value, error)) PlanEd {
	return ed.Task(StaticTask(key, deps, f))
}
