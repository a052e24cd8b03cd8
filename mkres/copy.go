package mkres

import (
	"io/fs"
	"path/filepath"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

// Copy is a task that copies one source key into the output tree. Its key is
// the destination path To, relative to OutDir. The copied content is also
// the task's value, so dependents can post-process it. Rewriting the same
// content is idempotent by construction.
type Copy struct {
	From, To string
	// OutDir is the output root, "" for the working directory.
	OutDir    string
	MkDirMode fs.FileMode
}

var _ sitemkore.Task = Copy{}

func (c Copy) Key() sitemkore.Key { return sitemkore.Key(c.To) }

func (c Copy) Run(tr *sitemkore.Trace, fetch sitemkore.Fetch) (sitemkore.Value, error) {
	v, err := fetch(sitemkore.Key(c.From))
	if err != nil {
		return nil, err
	}
	dst := filepath.Join(c.OutDir, filepath.FromSlash(c.To))
	tr.Debug("copy `src` -> `dst`", `src`, c.From, `dst`, dst)
	if err := writeFile(dst, v, c.MkDirMode); err != nil {
		return nil, err
	}
	return v, nil
}
