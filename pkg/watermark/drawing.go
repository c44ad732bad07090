package watermark

import (
	"math"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Drawing describes how a watermark is drawn, independent of where it is
// placed.
type Drawing struct {
	Content Content

	// Opacity is the stamp alpha in (0, 1].
	Opacity float64
	// Angle is the counter-clockwise rotation in degrees, applied about
	// each stamp's own center.
	Angle float64
	// Unselectable draws the stamps as a raster image so that watermark
	// text cannot be selected or extracted.
	Unselectable bool
	// ImageScale converts image pixels to points.
	ImageScale float64
	// Rasterize requests raster output of the watermark layer at DPI.
	Rasterize bool
	// DPI is the raster resolution, used only in raster mode.
	DPI int
}

// SetDefaults fills zero numeric fields with their defaults.
// Angle is left alone since zero is a valid rotation.
func (d *Drawing) SetDefaults() {
	if d.ImageScale == 0 {
		d.ImageScale = DefaultImageScale
	}
	if d.DPI == 0 {
		d.DPI = DefaultDPI
	}
	if d.Opacity == 0 {
		d.Opacity = DefaultOpacity
	}
}

// Validate checks the numeric ranges.
func (d *Drawing) Validate() error {
	if !(d.Opacity > 0 && d.Opacity <= 1) {
		return errors.New(errors.ErrCodeInvalidOption, "opacity must be in (0, 1], got %g", d.Opacity)
	}
	if math.IsNaN(d.Angle) || math.IsInf(d.Angle, 0) {
		return errors.New(errors.ErrCodeInvalidOption, "angle must be a finite number, got %g", d.Angle)
	}
	if !(d.ImageScale > 0) || math.IsInf(d.ImageScale, 1) {
		return errors.New(errors.ErrCodeInvalidOption, "image scale must be a positive finite number, got %g", d.ImageScale)
	}
	if d.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "dpi must be positive, got %d", d.DPI)
	}
	if t, ok := d.Content.Text(); ok {
		if t.Value == "" {
			return errors.New(errors.ErrCodeInvalidOption, "watermark text cannot be empty")
		}
		if t.Size <= 0 {
			return errors.New(errors.ErrCodeInvalidOption, "text size must be positive, got %d", t.Size)
		}
	}
	return nil
}

// Raster reports whether the watermark layer is rendered to pixels.
func (d *Drawing) Raster() bool {
	return d.Unselectable || d.Rasterize
}
