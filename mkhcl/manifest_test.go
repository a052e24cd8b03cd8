package mkhcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.fractalqb.de/fractalqb/sitemk/mkres"
	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

const manifest = `out = var.out

copy "index.html" { from = "index.html" }

copy "css/site.css" { from = "style.css" }

file "robots.txt" { content = "User-agent: *\n" }
`

func TestLoadBytes(t *testing.T) {
	m, err := LoadBytes("site.mk.hcl", []byte(manifest), map[string]string{"out": "public"})
	require.NoError(t, err)
	assert.Equal(t, "public", m.Out)
	require.Len(t, m.Copies, 2)
	assert.Equal(t, "index.html", m.Copies[0].To)
	assert.Equal(t, "index.html", m.Copies[0].From)
	assert.Equal(t, "css/site.css", m.Copies[1].To)
	assert.Equal(t, "style.css", m.Copies[1].From)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "robots.txt", m.Files[0].To)
}

func TestLoadBytes_badSyntax(t *testing.T) {
	_, err := LoadBytes("bad.mk.hcl", []byte(`copy { }`), nil)
	assert.Error(t, err)
}

func TestLoad_file(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.mk.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`file "a" { content = "x" }`), 0666))
	m, err := Load(path, nil)
	require.NoError(t, err)
	require.Len(t, m.Files, 1)
	assert.Equal(t, "a", m.Files[0].To)
}

type nopTracer struct{}

func (nopTracer) Debug(*sitemkore.Trace, string, ...any) {}
func (nopTracer) Info(*sitemkore.Trace, string, ...any)  {}
func (nopTracer) Warn(*sitemkore.Trace, string, ...any)  {}

func (nopTracer) StartBuild(*sitemkore.Trace, *sitemkore.Engine, []sitemkore.Key) {}
func (nopTracer) DoneBuild(*sitemkore.Trace, *sitemkore.Engine, uint, uint, time.Duration) {
}
func (nopTracer) CheckKey(*sitemkore.Trace, sitemkore.Key)                {}
func (nopTracer) KeyUpToDate(*sitemkore.Trace, sitemkore.Key)             {}
func (nopTracer) RunTask(*sitemkore.Trace, sitemkore.Key)                 {}
func (nopTracer) TaskDone(*sitemkore.Trace, sitemkore.Key, time.Duration) {}
func (nopTracer) TaskCached(*sitemkore.Trace, sitemkore.Key)              {}
func (nopTracer) LoadInput(*sitemkore.Trace, sitemkore.Key)               {}

func TestRegister_generate(t *testing.T) {
	srcDir, outDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "index.html"), []byte("<html/>"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "style.css"), []byte("body{}"), 0666))

	m, err := LoadBytes("site.mk.hcl", []byte(manifest), map[string]string{"out": outDir})
	require.NoError(t, err)

	eng := sitemkore.New(nil, sitemkore.WithSource(mkres.DirSource{Root: srcDir}))
	require.NoError(t, m.Register(eng))
	require.NoError(t, eng.Generate(sitemkore.NewTrace(context.Background(), nopTracer{})))

	for file, want := range map[string]string{
		"index.html":   "<html/>",
		"css/site.css": "body{}",
		"robots.txt":   "User-agent: *\n",
	} {
		got, err := os.ReadFile(filepath.Join(outDir, file))
		require.NoError(t, err, file)
		assert.Equal(t, want, string(got), file)
	}
}

func TestRegister_duplicateOutput(t *testing.T) {
	m := &Manifest{
		Copies: []CopyBlock{{To: "a", From: "x"}},
		Files:  []FileBlock{{To: "a", Content: "y"}},
	}
	eng := sitemkore.New(nil)
	err := m.Register(eng)
	assert.ErrorIs(t, err, sitemkore.DuplicateProducer("a"))
}
