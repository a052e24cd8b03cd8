// Package mkhcl reads declarative site manifests in HCL and registers the
// declared resources with a sitemkore engine. A manifest describes the
// output tree of a site:
//
//	out = "public"
//
//	copy "index.html" { from = "index.html" }
//
//	file "robots.txt" { content = "User-agent: *\nAllow: /\n" }
//
// Manifest expressions can refer to caller provided variables as var.<name>.
package mkhcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"git.fractalqb.de/fractalqb/sitemk/mkres"
	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

// Manifest is the decoded form of one site manifest file.
type Manifest struct {
	// Out is the output root all declared resources are written below.
	Out    string      `hcl:"out,optional"`
	Copies []CopyBlock `hcl:"copy,block"`
	Files  []FileBlock `hcl:"file,block"`
}

// CopyBlock declares a file copied from the source tree into the output.
type CopyBlock struct {
	To   string `hcl:"to,label"`
	From string `hcl:"from"`
}

// FileBlock declares a file with literal content in the output.
type FileBlock struct {
	To      string `hcl:"to,label"`
	Content string `hcl:"content"`
}

// Load reads and decodes the manifest file at path. vars become available to
// manifest expressions as var.<name>.
func Load(path string, vars map[string]string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse manifest %s: %w", path, diags)
	}
	return decode(path, file, vars)
}

// LoadBytes decodes a manifest from src, with name only used in diagnostics.
func LoadBytes(name string, src []byte, vars map[string]string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse manifest %s: %w", name, diags)
	}
	return decode(name, file, vars)
}

func decode(name string, file *hcl.File, vars map[string]string) (*Manifest, error) {
	ctx := &hcl.EvalContext{}
	if len(vars) > 0 {
		vs := make(map[string]cty.Value, len(vars))
		for k, v := range vars {
			vs[k] = cty.StringVal(v)
		}
		ctx.Variables = map[string]cty.Value{"var": cty.ObjectVal(vs)}
	}
	m := new(Manifest)
	if diags := gohcl.DecodeBody(file.Body, ctx, m); diags.HasErrors() {
		return nil, fmt.Errorf("decode manifest %s: %w", name, diags)
	}
	return m, nil
}

// Register adds a task per declared resource to eng. Declaring the same
// output path twice fails with the engine's duplicate producer error.
func (m *Manifest) Register(eng *sitemkore.Engine) error {
	for _, c := range m.Copies {
		t := mkres.Copy{From: c.From, To: c.To, OutDir: m.Out}
		if err := eng.Require(t); err != nil {
			return err
		}
	}
	for _, f := range m.Files {
		t := mkres.Virtual{To: f.To, Content: []byte(f.Content), OutDir: m.Out}
		if err := eng.Require(t); err != nil {
			return err
		}
	}
	return nil
}
