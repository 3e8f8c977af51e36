/*
Package document assembles the pieces into a drivable document: a root
render box, the layer tree hanging off it, and the frame loop glue.

The Document is the layer tree's host. Mutations anywhere in the box tree
schedule work on it, and UpdateFrame runs whatever is pending: settling
surface ownership first, then the paint traversal. Between mutations
UpdateFrame is a no-op, so callers can drive it from a render loop at
whatever cadence they like.
*/
package document

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lamina.document'.
func tracer() tracing.Trace {
	return tracing.Select("lamina.document")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("lamina.document: "+msg, msgargs...)
		panic(msg)
	}
}
