package surface

import (
	"fmt"
	"strings"

	"lamina/pkg/css"
	"lamina/pkg/layer"
)

// OpLog is the shared call record of a recorder surface tree. All
// recorders of one frame append to the same log, so the log reads as the
// global operation order.
type OpLog struct {
	Ops []string
}

func NewOpLog() *OpLog {
	return &OpLog{}
}

func (g *OpLog) Add(format string, args ...interface{}) {
	g.Ops = append(g.Ops, fmt.Sprintf(format, args...))
}

func (g *OpLog) Reset() {
	g.Ops = nil
}

// IndexOf returns the position of the first op starting with prefix, -1
// if absent.
func (g *OpLog) IndexOf(prefix string) int {
	for i, op := range g.Ops {
		if strings.HasPrefix(op, prefix) {
			return i
		}
	}
	return -1
}

// Count returns how many ops start with prefix.
func (g *OpLog) Count(prefix string) int {
	n := 0
	for _, op := range g.Ops {
		if strings.HasPrefix(op, prefix) {
			n++
		}
	}
	return n
}

// Recorder is a Surface that records calls instead of painting. It also
// implements layer.Canvas, so render nodes can paint against it and the
// fill/stroke calls land in the log too.
type Recorder struct {
	Name     string
	Log      *OpLog
	Width    int
	Height   int
	Matrix   css.Matrix
	Disposed bool

	children []*Recorder
	depth    int
}

var _ layer.Surface = (*Recorder)(nil)
var _ layer.Canvas = (*Recorder)(nil)

func NewRecorder(log *OpLog, name string) *Recorder {
	return &Recorder{Name: name, Log: log, Matrix: css.Identity()}
}

// Factory returns a surface factory handing out recorders named r1, r2, …
// in allocation order, all appending to the same log.
func Factory(log *OpLog) func() layer.Surface {
	n := 0
	return func() layer.Surface {
		n++
		return NewRecorder(log, fmt.Sprintf("r%d", n))
	}
}

func (r *Recorder) InitBitmapData(w, h int) {
	r.Width, r.Height = w, h
	r.Log.Add("init %s %dx%d", r.Name, w, h)
}

func (r *Recorder) Clear() {
	r.Log.Add("clear %s", r.Name)
}

func (r *Recorder) BeginTransparency(alpha float64) {
	r.depth++
	r.Log.Add("begin-alpha %.2f %s", alpha, r.Name)
}

func (r *Recorder) EndTransparency() {
	assertThat(r.depth > 0, "unbalanced transparency group on %s", r.Name)
	r.depth--
	r.Log.Add("end-alpha %s", r.Name)
}

func (r *Recorder) Transform(m css.Matrix) {
	r.Matrix = m
	r.Log.Add("transform %s", r.Name)
}

func (r *Recorder) AppendChild(child layer.Surface) {
	c, ok := child.(*Recorder)
	assertThat(ok, "recorder surfaces cannot contain %T children", child)
	r.children = append(r.children, c)
	r.Log.Add("append %s<-%s", r.Name, c.Name)
}

func (r *Recorder) RemoveChild(child layer.Surface) {
	c, ok := child.(*Recorder)
	assertThat(ok, "recorder surfaces cannot contain %T children", child)
	for i, cc := range r.children {
		if cc == c {
			r.children = append(r.children[:i], r.children[i+1:]...)
			break
		}
	}
	r.Log.Add("remove %s<-%s", r.Name, c.Name)
}

func (r *Recorder) Dispose() {
	r.Disposed = true
	r.children = nil
	r.Log.Add("dispose %s", r.Name)
}

func (r *Recorder) FillRect(rect css.Rect, c css.Color) {
	r.Log.Add("fill %s %s #%02x%02x%02x*%.2f", r.Name, rect, c.R, c.G, c.B, c.A)
}

func (r *Recorder) StrokeRect(rect css.Rect, c css.Color, lineWidth float64) {
	r.Log.Add("stroke %s %s w=%g", r.Name, rect, lineWidth)
}

// Children returns the current child surfaces in compositing order.
func (r *Recorder) Children() []*Recorder {
	return r.children
}
