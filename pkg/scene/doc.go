/*
Package scene builds documents from small JavaScript scene scripts.

A scene script describes a box tree declaratively:

	viewport(800, 600);
	scene({background: "white"},
	    box("header", {w: 800, h: 100, background: "steelblue", zIndex: 1},
	        box("title", {x: 10, y: 10, w: 200, h: 30, background: "white"})),
	    box("body", {y: 100, w: 800, h: 500, background: "#eee"}));

Scripts run on an embedded goja runtime with three globals: viewport sets
the document size, box creates a node, and scene installs the top-level
nodes (optionally with properties for the document root as its first
argument). Loading happens in two phases, the script first builds a plain
node tree, then the loader materializes it into a document.Document, which
is where style values are validated.
*/
package scene

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'lamina.scene'.
func tracer() tracing.Trace {
	return tracing.Select("lamina.scene")
}
