// Package sitemk helps to write incremental site builds in Go. Instead of a
// restricted configuration language, a build is a Go program that registers
// tasks with an engine and then generates all registered keys. The engine
// keeps a persistent build state so that a second run only recomputes what
// the changed inputs actually affect. sitemk is built around the core
// concepts of [Task], [Key] and the build-state [Store].
//
// sitemk is just a Go library. It can be used in any context of reasonable
// programming with Go. Nevertheless, a few conventions can be helpful. A
// build script is a Go executable:
//
//	"mk.go" is the recommended file name for a build script
//
// The build script of a site must not collide with the rest of the code:
//
//	site/
//	├── src
//	│   ├── index.html
//	│   └── style.css
//	├── go.mod
//	└── mk
//	    └── mk.go
//
// Build with
//
//	site$ go run mk/mk.go
//
// The strict core of the engine lives in [sitemkore]; this package adds the
// ergonomic wrappers, concrete site resources live in the mkres package and
// mkhcl reads declarative site manifests.
//
// [sitemkore]: https://pkg.go.dev/git.fractalqb.de/fractalqb/sitemk/sitemkore
package sitemk
