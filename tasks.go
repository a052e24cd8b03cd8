package sitemk

// TaskFunc makes f the producer of key. f discovers its dependencies while
// running, simply by what it fetches.
func TaskFunc(key Key, f func(*Trace, Fetch) (Value, error)) Task {
	return funcTask{key: key, f: f}
}

type funcTask struct {
	key Key
	f   func(*Trace, Fetch) (Value, error)
}

func (t funcTask) Key() Key { return t.key }

func (t funcTask) Run(tr *Trace, fetch Fetch) (Value, error) {
	return t.f(tr, fetch)
}

// StaticTask makes f the producer of key with a dependency list known up
// front. All deps are fetched before f runs and handed to it by key.
func StaticTask(key Key, deps []Key, f func(*Trace, map[Key]Value) (Value, error)) Task {
	return staticTask{key: key, deps: deps, f: f}
}

type staticTask struct {
	key  Key
	deps []Key
	f    func(*Trace, map[Key]Value) (Value, error)
}

func (t staticTask) Key() Key { return t.key }

func (t staticTask) Run(tr *Trace, fetch Fetch) (Value, error) {
	vals := make(map[Key]Value, len(t.deps))
	for _, dep := range t.deps {
		v, err := fetch(dep)
		if err != nil {
			return nil, err
		}
		vals[dep] = v
	}
	return t.f(tr, vals)
}
