// This is an example sitemk build script that offers you a practical
// approach. It builds a small site from a declarative manifest plus one
// generated file and keeps its build state in .sitemk so that rerunning it
// only rewrites what changed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"git.fractalqb.de/fractalqb/sitemk"
	"git.fractalqb.de/fractalqb/sitemk/mkhcl"
	"git.fractalqb.de/fractalqb/sitemk/mkres"
	"git.fractalqb.de/fractalqb/sitemk/sitemkore"
)

var (
	tracer = &sitemk.WriteTracer{W: os.Stderr, Log: sitemkore.DefaultTraceLog}

	srcDir   = "src"
	outDir   = "public"
	stateDir = ".sitemk"
	manifest = "site.mk.hcl"
	writeDot bool
)

func flags() {
	flag.StringVar(&srcDir, "src", srcDir, "Source directory")
	flag.StringVar(&outDir, "out", outDir, "Output directory")
	flag.StringVar(&stateDir, "state", stateDir, "Build state directory")
	flag.StringVar(&manifest, "f", manifest, "Site manifest file")
	flag.BoolVar(&writeDot, "dot", writeDot, "Write graphviz file to stdout and exit")
	fTrace := flag.String("trace", "", "Set trace level")
	flag.Parse()

	if err := tracer.ParseLogFlag(*fTrace); err != nil {
		log.Fatal(err)
	}
}

func main() {
	flags()

	store, err := sitemkore.NewDirStore(stateDir)
	if err != nil {
		log.Fatal(err)
	}
	eng := sitemk.New(store, sitemkore.WithSource(mkres.DirSource{Root: srcDir}))
	eng.Name = "example-site"

	m, err := mkhcl.Load(manifest, map[string]string{"out": outDir})
	if err != nil {
		log.Fatal(err)
	}
	if err := m.Register(eng); err != nil {
		log.Fatal(err)
	}

	// a task with a dynamic dependency on everything the manifest copies
	err = sitemk.Plan(eng, func(prj sitemk.PlanEd) {
		prj.Func("sitemap.txt", func(tr *sitemk.Trace, fetch sitemk.Fetch) (sitemk.Value, error) {
			var sm []byte
			for _, c := range m.Copies {
				if _, err := fetch(sitemk.Key(c.To)); err != nil {
					return nil, err
				}
				sm = append(sm, c.To...)
				sm = append(sm, '\n')
			}
			return sm, os.WriteFile(outDir+"/sitemap.txt", sm, 0666)
		})
	})
	if err != nil {
		log.Fatal("planning site:", err)
	}

	if writeDot {
		if _, err := eng.WriteDot(os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	tr := sitemk.NewTrace(context.Background(), tracer)
	if flag.NArg() == 0 {
		err = eng.Generate(tr)
	} else {
		var targets []sitemk.Key
		for _, a := range flag.Args() {
			targets = append(targets, sitemk.Key(a))
		}
		err = eng.Targets(tr, targets...)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
