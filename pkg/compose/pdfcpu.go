package compose

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/render"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// PDFCPU is a [Backend] built on pdfcpu. Every stamp becomes a pdfcpu
// watermark centered on the page and shifted so that its center lands on
// the stamp center. All stamps of a document are added in one pass, after
// which the document is optimized so that repeated images are stored
// once.
type PDFCPU struct {
	// TempDir holds raster overlays while a document is stamped.
	// Empty means os.TempDir().
	TempDir string
}

// NewPDFCPU returns a pdfcpu backend using the system temp directory.
func NewPDFCPU() *PDFCPU {
	return &PDFCPU{}
}

// configuration returns a fresh pdfcpu configuration. pdfcpu records the
// running command in its configuration, so one is never shared between
// calls.
func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageSizes implements Backend.
func (b *PDFCPU) PageSizes(ctx context.Context, src io.ReadSeeker) ([]PageSize, error) {
	dims, err := api.PageDims(src, configuration())
	if err != nil {
		return nil, err
	}
	sizes := make([]PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Stamp implements Backend.
func (b *PDFCPU) Stamp(ctx context.Context, src io.ReadSeeker, overlays []*render.Overlay, w io.Writer) error {
	scratch, err := b.scratchDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	rasters := newRasterFiles(scratch)
	m := make(map[int][]*model.Watermark, len(overlays))
	for i, o := range overlays {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.ErrCodeCanceled, err, "canceled")
		}
		var (
			wms []*model.Watermark
			err error
		)
		if o.Raster() {
			wms, err = rasterWatermarks(o, rasters)
		} else {
			wms, err = vectorWatermarks(o)
		}
		if err != nil {
			return fmt.Errorf("page %d: %w", i+1, err)
		}
		m[i+1] = wms
	}

	// pdfcpu embeds the image of every image watermark separately.
	var stamped bytes.Buffer
	if err := api.AddWatermarksSliceMap(src, &stamped, m, configuration()); err != nil {
		return err
	}
	return api.Optimize(bytes.NewReader(stamped.Bytes()), w, configuration())
}

// scratchDir creates a private directory for this call's raster files.
func (b *PDFCPU) scratchDir() (string, error) {
	base := b.TempDir
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "pdfwatermark-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create temp dir").WithPath(dir)
	}
	return dir, nil
}

func vectorWatermarks(o *render.Overlay) ([]*model.Watermark, error) {
	s := o.Style
	wms := make([]*model.Watermark, 0, len(o.Stamps))
	for _, st := range o.Stamps {
		var (
			wm  *model.Watermark
			err error
		)
		switch s.Kind {
		case watermark.KindText:
			desc := fmt.Sprintf("font:%s, points:%d, fillc:#%02x%02x%02x, rot:%g, op:%g, scale:1 abs, pos:c",
				s.Font, s.FontSize, s.Color.R, s.Color.G, s.Color.B, s.Angle, s.Opacity)
			wm, err = api.TextWatermark(s.Text, desc, true, false, types.POINTS)
		case watermark.KindImage:
			desc := fmt.Sprintf("rot:%g, op:%g, scale:%g abs, pos:c", s.Angle, s.Opacity, s.Scale)
			wm, err = pdfcpu.ParseImageWatermarkDetails(s.ImagePath, desc, true, types.POINTS)
		}
		if err != nil {
			return nil, err
		}
		place(wm, o, st)
		wms = append(wms, wm)
	}
	return wms, nil
}

func rasterWatermarks(o *render.Overlay, rasters *rasterFiles) ([]*model.Watermark, error) {
	path, err := rasters.get(o)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("rot:0, op:1, scale:%g abs, pos:c", 72/float64(o.DPI))
	wm, err := pdfcpu.ParseImageWatermarkDetails(path, desc, true, types.POINTS)
	if err != nil {
		return nil, err
	}
	return []*model.Watermark{wm}, nil
}

// place shifts a centered watermark so its center lands on st.
func place(wm *model.Watermark, o *render.Overlay, st render.Stamp) {
	wm.Dx = st.X - o.Width/2
	wm.Dy = st.Y - o.Height/2
}

// rasterFiles writes raster overlays to PNG files. Overlays of pages with
// the same size are identical, so each size is drawn and encoded once and
// only the file is kept.
type rasterFiles struct {
	dir    string
	bySize map[render.Point]string
}

func newRasterFiles(dir string) *rasterFiles {
	return &rasterFiles{dir: dir, bySize: make(map[render.Point]string)}
}

func (r *rasterFiles) get(o *render.Overlay) (string, error) {
	key := render.Point{X: o.Width, Y: o.Height}
	if path, ok := r.bySize[key]; ok {
		return path, nil
	}

	path := filepath.Join(r.dir, uuid.NewString()+".png")
	img, err := o.Rasterize()
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "create raster overlay").WithPath(path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodeIO, err, "encode raster overlay").WithPath(path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "write raster overlay").WithPath(path)
	}
	r.bySize[key] = path
	return path, nil
}
