package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// CanvasSize returns the pixel size of a width × height page at dpi.
func CanvasSize(width, height float64, dpi int) (int, int) {
	k := float64(dpi) / 72
	return max(1, int(math.Round(width*k))), max(1, int(math.Round(height*k)))
}

// rasterize draws the stamps of o onto a transparent canvas. Page
// coordinates are flipped so that the canvas origin is the top-left
// corner; rotation stays counter-clockwise as seen on the page.
func (r *Renderer) rasterize(o *Overlay) (image.Image, error) {
	dpi := r.drawing.DPI
	k := float64(dpi) / 72
	pw, ph := CanvasSize(o.Width, o.Height, dpi)
	dc := gg.NewContext(pw, ph)

	var draw func()
	switch {
	case r.font != nil:
		face := r.font.Face(float64(r.style.FontSize), float64(dpi))
		defer face.Close()
		dc.SetFontFace(face)
		c := r.style.Color
		dc.SetColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha(r.style.Opacity)})
		draw = func() { dc.DrawStringAnchored(r.style.Text, 0, 0, 0.5, 0.5) }

	default:
		stamp, err := r.rasterImage(k)
		if err != nil {
			return nil, err
		}
		draw = func() { dc.DrawImageAnchored(stamp, 0, 0, 0.5, 0.5) }
	}

	for _, s := range o.Stamps {
		dc.Push()
		dc.Translate(s.X*k, (o.Height-s.Y)*k)
		dc.Rotate(-gg.Radians(r.style.Angle))
		draw()
		dc.Pop()
	}
	return dc.Image(), nil
}

// rasterImage returns the image stamp resized to its on-page pixel size
// with the opacity applied to every pixel.
func (r *Renderer) rasterImage(k float64) (image.Image, error) {
	im, _ := r.drawing.Content.Image()
	src, err := im.Decode()
	if err != nil {
		return nil, err
	}
	w := max(1, int(math.Round(r.stampWidth*k)))
	h := max(1, int(math.Round(r.stampHeight*k)))
	resized := imaging.Resize(src, w, h, imaging.Lanczos)

	opacity := r.style.Opacity
	return imaging.AdjustFunc(resized, func(c color.NRGBA) color.NRGBA {
		c.A = uint8(math.Round(float64(c.A) * opacity))
		return c
	}), nil
}

func alpha(opacity float64) uint8 {
	return uint8(math.Round(opacity * 255))
}
