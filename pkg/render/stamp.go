package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// Point is a position in PDF user space.
type Point struct {
	X, Y float64
}

// Stamp is one watermark instance on a page. X and Y locate its center;
// Width and Height are its size before rotation. All values are points.
type Stamp struct {
	X, Y          float64
	Width, Height float64
}

// Left returns the left edge of the unrotated stamp.
func (s Stamp) Left() float64 { return s.X - s.Width/2 }

// Right returns the right edge of the unrotated stamp.
func (s Stamp) Right() float64 { return s.X + s.Width/2 }

// Bottom returns the bottom edge of the unrotated stamp.
func (s Stamp) Bottom() float64 { return s.Y - s.Height/2 }

// Top returns the top edge of the unrotated stamp.
func (s Stamp) Top() float64 { return s.Y + s.Height/2 }

// Style is how every stamp of an overlay is drawn in vector mode.
type Style struct {
	Kind watermark.Kind

	// Text stamps.
	Text     string
	Font     string // name known to the PDF backend
	FontSize int
	Color    color.RGBA

	// Image stamps.
	ImagePath string
	Scale     float64

	Opacity float64
	Angle   float64
}

// Overlay is the watermark layer for a single page.
type Overlay struct {
	Width, Height float64
	Stamps        []Stamp
	Style         Style

	// DPI is the raster resolution, set only in raster mode. A raster
	// overlay is drawn by Rasterize as one image covering the page, which
	// replaces the individual stamps.
	DPI int

	rasterize func(*Overlay) (image.Image, error)
}

// Raster reports whether the overlay is drawn as a single image.
func (o *Overlay) Raster() bool {
	return o.DPI > 0 && o.rasterize != nil
}

// Rasterize draws the layer onto a new transparent page-sized canvas. A
// canvas at print resolution is large, so callers keep the image only
// until it is encoded.
func (o *Overlay) Rasterize() (image.Image, error) {
	if !o.Raster() {
		return nil, errors.New(errors.ErrCodeCompositing, "overlay has no raster layer")
	}
	return o.rasterize(o)
}
