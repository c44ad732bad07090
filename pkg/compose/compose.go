// Package compose stamps rendered watermark overlays onto PDF documents.
//
// A [Compositor] asks its [Backend] for the page sizes of a document,
// renders one overlay per distinct page size and hands the overlays of all
// pages, in document order, back to the backend. The backend draws them on
// top of the existing page content and writes the new document. Pages are never added, removed or
// reordered.
//
// [PDFCPU] is the production backend. Tests substitute fakes.
package compose

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/render"
)

// PageSize is a page's width and height in points.
type PageSize struct {
	Width, Height float64
}

// Backend reads and writes PDF documents.
type Backend interface {
	// PageSizes returns the size of every page of the document, in order.
	PageSizes(ctx context.Context, src io.ReadSeeker) ([]PageSize, error)

	// Stamp draws overlays[i] on top of page i+1 and writes the resulting
	// document to w. len(overlays) equals the page count; pages of the
	// same size share one overlay.
	Stamp(ctx context.Context, src io.ReadSeeker, overlays []*render.Overlay, w io.Writer) error
}

// PageRenderer produces the overlay for a page of the given size.
// [*render.Renderer] implements it.
type PageRenderer interface {
	Render(width, height float64) (*render.Overlay, error)
}

// Compositor applies a watermark to whole documents.
// It holds no per-document state and is safe for concurrent use.
type Compositor struct {
	Backend  Backend
	Renderer PageRenderer
	Logger   *log.Logger
}

// New creates a compositor. If logger is nil, log.Default() is used.
func New(backend Backend, renderer PageRenderer, logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.Default()
	}
	return &Compositor{Backend: backend, Renderer: renderer, Logger: logger}
}

// Apply watermarks every page of the PDF in src and writes the result to
// w. It returns the number of pages written.
//
// Backend failures are reported as COMPOSITING errors; renderer failures
// keep their own codes. A document without pages is rejected.
func (c *Compositor) Apply(ctx context.Context, src []byte, w io.Writer) (int, error) {
	sizes, err := c.Backend.PageSizes(ctx, bytes.NewReader(src))
	if err != nil {
		return 0, compositing(err, "read page sizes")
	}
	if len(sizes) == 0 {
		return 0, errors.New(errors.ErrCodeCompositing, "document has no pages")
	}

	// Pages of the same size get the same overlay.
	overlays := make([]*render.Overlay, len(sizes))
	bySize := make(map[PageSize]*render.Overlay)
	for i, size := range sizes {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeCanceled, err, "canceled")
		}
		o, ok := bySize[size]
		if !ok {
			o, err = c.Renderer.Render(size.Width, size.Height)
			if err != nil {
				return 0, err
			}
			bySize[size] = o
		}
		overlays[i] = o
	}
	c.Logger.Debug("rendered overlays", "pages", len(overlays), "sizes", len(bySize))

	if err := c.Backend.Stamp(ctx, bytes.NewReader(src), overlays, w); err != nil {
		return 0, compositing(err, "stamp pages")
	}
	return len(sizes), nil
}

// compositing wraps err as a COMPOSITING error unless it already carries a
// code of its own.
func compositing(err error, msg string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeCompositing, err, "%s", msg)
}
