package mkres

import (
	"io/fs"
	"path/filepath"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

// Virtual is a task that writes literal content to a file in the output
// tree. It has no dependencies, so it runs once and is fresh forever after.
// Change the build script or drop the build state to regenerate.
type Virtual struct {
	To      string
	Content []byte
	// OutDir is the output root, "" for the working directory.
	OutDir    string
	MkDirMode fs.FileMode
}

var _ sitemkore.Task = Virtual{}

func (f Virtual) Key() sitemkore.Key { return sitemkore.Key(f.To) }

func (f Virtual) Run(tr *sitemkore.Trace, _ sitemkore.Fetch) (sitemkore.Value, error) {
	dst := filepath.Join(f.OutDir, filepath.FromSlash(f.To))
	tr.Debug("write virtual file `dst`", `dst`, dst)
	if err := writeFile(dst, f.Content, f.MkDirMode); err != nil {
		return nil, err
	}
	return sitemkore.Value(f.Content), nil
}
