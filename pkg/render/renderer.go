package render

import (
	"fmt"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/fonts"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// FontResolver looks up fonts by name. [*fonts.Registry] implements it.
type FontResolver interface {
	Resolve(name string) (*fonts.Font, error)
}

// Renderer produces page overlays for one drawing and placement. It is
// read-only after New and safe for concurrent use.
type Renderer struct {
	drawing   watermark.Drawing
	placement watermark.Placement

	font  *fonts.Font // text content only
	style Style

	// Unrotated stamp size in points.
	stampWidth, stampHeight float64
}

// New validates the drawing and placement, resolves the text font or
// decodes the image, and measures the stamp.
func New(resolver FontResolver, drawing watermark.Drawing, placement watermark.Placement) (*Renderer, error) {
	if placement == nil {
		return nil, errors.New(errors.ErrCodeInvalidOption, "placement is required")
	}
	if err := drawing.Validate(); err != nil {
		return nil, err
	}
	if err := placement.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		drawing:   drawing,
		placement: placement,
		style: Style{
			Kind:    drawing.Content.Kind(),
			Opacity: drawing.Opacity,
			Angle:   drawing.Angle,
		},
	}

	switch drawing.Content.Kind() {
	case watermark.KindText:
		if err := r.initText(resolver); err != nil {
			return nil, err
		}
	case watermark.KindImage:
		if err := r.initImage(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown content kind %v", drawing.Content.Kind())
	}
	return r, nil
}

func (r *Renderer) initText(resolver FontResolver) error {
	text, _ := r.drawing.Content.Text()
	if resolver == nil {
		return errors.New(errors.ErrCodeFontResolution, "no font registry for %q", text.Font)
	}
	f, err := resolver.Resolve(text.Font)
	if err != nil {
		return err
	}
	raster := r.drawing.Raster()
	if c, ok := f.Missing(text.Value, raster); ok {
		return errors.New(errors.ErrCodeFontResolution,
			"font %q cannot draw %q (U+%04X), choose a font that covers the text", f.Name, c, c).WithPath(f.Path)
	}
	r.font = f
	if raster {
		r.stampWidth, r.stampHeight = f.MeasureRaster(text.Value, text.Size)
	} else {
		r.stampWidth, r.stampHeight = f.Measure(text.Value, text.Size)
	}

	r.style.Text = text.Value
	r.style.FontSize = text.Size
	r.style.Color = text.Color
	if !raster {
		name, err := f.PDFName()
		if err != nil {
			return err
		}
		r.style.Font = name
	}
	return nil
}

func (r *Renderer) initImage() error {
	im, _ := r.drawing.Content.Image()
	w, h, err := im.Size()
	if err != nil {
		return err
	}
	r.stampWidth = float64(w) * r.drawing.ImageScale
	r.stampHeight = float64(h) * r.drawing.ImageScale

	r.style.ImagePath = im.Path
	r.style.Scale = r.drawing.ImageScale
	return nil
}

// StampSize returns the unrotated stamp size in points.
func (r *Renderer) StampSize() (width, height float64) {
	return r.stampWidth, r.stampHeight
}

// Raster reports whether overlays carry a raster layer.
func (r *Renderer) Raster() bool {
	return r.drawing.Raster()
}

// Render returns the overlay for a width × height page (points). Raster
// overlays are drawn later, by [Overlay.Rasterize].
func (r *Renderer) Render(width, height float64) (*Overlay, error) {
	if !(width > 0 && height > 0) {
		return nil, errors.New(errors.ErrCodeInvalidOption, "page size must be positive, got %gx%g", width, height)
	}

	var centers []Point
	switch p := r.placement.(type) {
	case watermark.Grid:
		centers = GridCenters(p, width, height)
	case *watermark.Grid:
		centers = GridCenters(*p, width, height)
	case watermark.Insert:
		centers = []Point{InsertCenter(p, width, height, r.stampWidth)}
	case *watermark.Insert:
		centers = []Point{InsertCenter(*p, width, height, r.stampWidth)}
	default:
		return nil, fmt.Errorf("unsupported placement %T", r.placement)
	}

	o := &Overlay{
		Width:  width,
		Height: height,
		Stamps: make([]Stamp, len(centers)),
		Style:  r.style,
	}
	for i, c := range centers {
		o.Stamps[i] = Stamp{X: c.X, Y: c.Y, Width: r.stampWidth, Height: r.stampHeight}
	}

	if r.drawing.Raster() {
		o.DPI = r.drawing.DPI
		o.rasterize = r.rasterize
	}
	return o, nil
}
