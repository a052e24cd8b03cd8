package mkres

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

// DirSource loads input keys as files below a root directory. Keys are slash
// separated paths relative to the root; a key that would escape the root is
// rejected.
type DirSource struct {
	Root string
}

var _ sitemkore.Source = DirSource{}

func (s DirSource) Load(key sitemkore.Key) (sitemkore.Value, error) {
	p := path.Clean(string(key))
	if p == ".." || len(p) > 2 && p[:3] == "../" || path.IsAbs(p) {
		return nil, fmt.Errorf("source key '%s' escapes root '%s'", key, s.Root)
	}
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(p)))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// writeFile creates the parent directories of name as needed and then
// replaces name's content.
func writeFile(name string, data []byte, dirMode fs.FileMode) error {
	if dirMode == 0 {
		dirMode = 0777
	}
	if err := os.MkdirAll(filepath.Dir(name), dirMode); err != nil {
		return err
	}
	return os.WriteFile(name, data, 0666)
}
