/*
Package render provides Box, a styled render-tree node that plugs into the
layer engine.

A Box carries resolved style values (position, z-index, opacity, transform,
overflow, colors) and its global geometry. The box tree is the document
structure; boxes that establish stacking contexts or otherwise need their
own compositing treatment own a layer.Layer, and the package keeps the
layer tree in step with box mutations: appending or removing boxes attaches
and detaches layers, restyling a box rebuilds the layers of its subtree
when the change can move layers around.
*/
package render

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lamina.render'.
func tracer() tracing.Trace {
	return tracing.Select("lamina.render")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("lamina.render: "+msg, msgargs...)
		panic(msg)
	}
}
