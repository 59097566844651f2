// Package render draws the auxiliary artifacts of a simulation: a
// ball-and-stick molecule image and an energy-vs-distance plot.  Both are SVG
// documents returned base64 encoded, ready for a data: URL.
package render

import (
	"bytes"
	"encoding/base64"

	svg "github.com/ajstarks/svgo"
)

// Renderer produces base64 encoded SVG artifacts.  It is stateless and safe
// for concurrent use.
type Renderer struct {
	imageSize int
	plotW     int
	plotH     int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithImageSize sets the square molecule image edge in pixels (default 400).
func WithImageSize(px int) Option {
	return func(r *Renderer) {
		if px > 0 {
			r.imageSize = px
		}
	}
}

// WithPlotSize sets the energy plot dimensions (default 600x400).
func WithPlotSize(w, h int) Option {
	return func(r *Renderer) {
		if w > 0 && h > 0 {
			r.plotW, r.plotH = w, h
		}
	}
}

// NewRenderer returns a Renderer with default sizes.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{imageSize: 400, plotW: 600, plotH: 400}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// draw runs fn against a fresh canvas and returns the base64 document.
func draw(width, height int, fn func(canvas *svg.SVG)) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	fn(canvas)
	canvas.End()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

//Personal.AI order the ending
