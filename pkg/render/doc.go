// Package render computes watermark overlays for PDF pages.
//
// # Overview
//
// A [Renderer] is built once per batch from a validated
// [watermark.Drawing] and [watermark.Placement]. For every page it is
// given the page size in points and returns an [Overlay]: the list of
// stamps to draw, each described by its center and unrotated size in PDF
// user space (origin bottom-left, y up).
//
//	r, err := render.New(registry, drawing, watermark.Grid{HorizontalBoxes: 2, VerticalBoxes: 2})
//	overlay, err := r.Render(612, 792)
//	// overlay.Stamps[0] is centered at (153, 198)
//
// # Placement
//
// [GridCenters] tiles the page into equal cells and returns one center per
// cell. With a margin, a half-cell border is kept free on every side.
// [InsertCenter] turns an anchor given as page fractions into a center,
// shifting it by half the stamp width for left and right alignment.
//
// # Raster Mode
//
// When the drawing asks for unselectable or rasterized output, the stamps
// are also drawn with gg onto a transparent page-sized canvas at the
// configured DPI. The canvas is drawn on demand by [Overlay.Rasterize], so
// the backend holds at most one canvas at a time. It then places that
// single image over the whole page instead of individual text or image
// stamps.
package render
