// Package mkres provides concrete site resources on top of the sitemkore
// engine: copying source files into the output tree, writing literal file
// content and loading input keys from a source directory.
package mkres
