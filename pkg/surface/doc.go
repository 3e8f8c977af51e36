/*
Package surface provides the graphics-surface backends the layer tree
paints onto.

Bitmap is the production backend: every surface owns a raster context,
transparency groups render to scratch contexts and composite back with a
uniform alpha, and Flatten folds a surface tree bottom-up into one image,
applying each surface's transform on the way.

Recorder is the observing backend: it implements the same contract but
logs every call into a shared OpLog instead of rasterizing. Tests and the
dump tooling use it to assert call order across a whole frame.
*/
package surface

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lamina.surface'.
func tracer() tracing.Trace {
	return tracing.Select("lamina.surface")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("lamina.surface: "+msg, msgargs...)
		panic(msg)
	}
}
