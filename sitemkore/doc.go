// Package sitemkore implements the core model of sitemk: an incremental
// build-task engine for generating sites from opaque content. It uses
// idiomatic Go error handling, which can make writing build scripts a bit
// cumbersome. However, this package serves as a solid foundation for
// implementing build strategies, such as recomputing values only when the
// inputs they were derived from changed. The core concepts are [Engine],
// [Task] and [Store]. An easy-to-use wrapper for everyday use in build
// scripts is provided by the [sitemk] package.
//
// [sitemk]: https://pkg.go.dev/git.fractalqb.de/fractalqb/sitemk
package sitemkore
