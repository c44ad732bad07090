package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/fonts"
	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func testRegistry(t *testing.T) *fonts.Registry {
	t.Helper()
	reg, err := fonts.NewRegistry("", log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func textDrawing(text string) watermark.Drawing {
	d := watermark.Drawing{
		Content: watermark.TextContent(watermark.Text{
			Value: text,
			Font:  watermark.DefaultTextFont,
			Size:  watermark.DefaultTextSize,
			Color: color.RGBA{A: 255},
		}),
		Angle: watermark.DefaultAngle,
	}
	d.SetDefaults()
	return d
}

func solidPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "mark.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGridCenters(t *testing.T) {
	tests := []struct {
		name string
		grid watermark.Grid
		want []Point
	}{
		{
			name: "2x2 letter",
			grid: watermark.Grid{HorizontalBoxes: 2, VerticalBoxes: 2},
			want: []Point{{153, 198}, {459, 198}, {153, 594}, {459, 594}},
		},
		{
			name: "2x2 letter with margin",
			grid: watermark.Grid{HorizontalBoxes: 2, VerticalBoxes: 2, Margin: true},
			want: []Point{{204, 264}, {408, 264}, {204, 528}, {408, 528}},
		},
		{
			name: "single cell",
			grid: watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1},
			want: []Point{{306, 396}},
		},
		{
			name: "single cell with margin",
			grid: watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1, Margin: true},
			want: []Point{{306, 396}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridCenters(tt.grid, 612, 792)
			if len(got) != len(tt.want) {
				t.Fatalf("GridCenters() returned %d centers, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !near(got[i].X, tt.want[i].X) || !near(got[i].Y, tt.want[i].Y) {
					t.Errorf("center[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGridCentersCount(t *testing.T) {
	got := GridCenters(watermark.Grid{HorizontalBoxes: 3, VerticalBoxes: 6}, 595, 842)
	if len(got) != 18 {
		t.Fatalf("GridCenters() returned %d centers, want 18", len(got))
	}
	for _, p := range got {
		if p.X <= 0 || p.X >= 595 || p.Y <= 0 || p.Y >= 842 {
			t.Errorf("center %v outside page", p)
		}
	}
}

func TestInsertCenter(t *testing.T) {
	tests := []struct {
		align watermark.Alignment
		wantX float64
	}{
		{watermark.AlignCenter, 306},
		{watermark.AlignLeft, 356},
		{watermark.AlignRight, 256},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			in := watermark.Insert{X: 0.5, Y: 0.25, Alignment: tt.align}
			got := InsertCenter(in, 612, 792, 100)
			if !near(got.X, tt.wantX) || !near(got.Y, 198) {
				t.Errorf("InsertCenter() = %v, want (%g, 198)", got, tt.wantX)
			}
		})
	}
}

func TestStampEdges(t *testing.T) {
	s := Stamp{X: 100, Y: 50, Width: 40, Height: 10}
	if s.Left() != 80 || s.Right() != 120 || s.Bottom() != 45 || s.Top() != 55 {
		t.Errorf("edges = %g %g %g %g", s.Left(), s.Right(), s.Bottom(), s.Top())
	}
}

func TestRenderGridText(t *testing.T) {
	r, err := New(testRegistry(t), textDrawing("CONFIDENTIAL"), watermark.Grid{HorizontalBoxes: 2, VerticalBoxes: 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	o, err := r.Render(612, 792)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if len(o.Stamps) != 4 {
		t.Fatalf("got %d stamps, want 4", len(o.Stamps))
	}
	if o.Stamps[0].X != 153 || o.Stamps[0].Y != 198 {
		t.Errorf("first stamp at (%g, %g), want (153, 198)", o.Stamps[0].X, o.Stamps[0].Y)
	}
	w, h := r.StampSize()
	if w <= 0 || h <= 0 {
		t.Errorf("StampSize() = %g x %g", w, h)
	}
	if o.Stamps[3].Width != w || o.Stamps[3].Height != h {
		t.Errorf("stamp size = %g x %g, want %g x %g", o.Stamps[3].Width, o.Stamps[3].Height, w, h)
	}
	if o.Raster() {
		t.Error("vector drawing should not produce a raster layer")
	}
	if _, err := o.Rasterize(); err == nil {
		t.Error("Rasterize() should fail for a vector overlay")
	}
	if o.Style.Font != "Helvetica" || o.Style.Text != "CONFIDENTIAL" || o.Style.FontSize != 12 {
		t.Errorf("Style = %+v", o.Style)
	}
	if o.Style.Opacity != watermark.DefaultOpacity || o.Style.Angle != watermark.DefaultAngle {
		t.Errorf("Style opacity/angle = %g/%g", o.Style.Opacity, o.Style.Angle)
	}
}

func TestRenderPerPageSize(t *testing.T) {
	r, err := New(testRegistry(t), textDrawing("x"), watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.Render(612, 792)
	b, _ := r.Render(842, 595)
	if a.Stamps[0].X != 306 || b.Stamps[0].X != 421 {
		t.Errorf("centers = %g, %g; want 306, 421", a.Stamps[0].X, b.Stamps[0].X)
	}
}

func TestRenderInsertLeftAligned(t *testing.T) {
	in := watermark.Insert{X: 0, Y: 0.5, Alignment: watermark.AlignLeft}
	r, err := New(testRegistry(t), textDrawing("DRAFT"), in)
	if err != nil {
		t.Fatal(err)
	}
	o, err := r.Render(612, 792)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Stamps) != 1 {
		t.Fatalf("got %d stamps, want 1", len(o.Stamps))
	}
	s := o.Stamps[0]
	if !near(s.Left(), 0) || !near(s.Y, 396) {
		t.Errorf("stamp left edge %g at y %g, want 0 at 396", s.Left(), s.Y)
	}
}

func TestRenderImageStamp(t *testing.T) {
	path := solidPNG(t, 20, 10)
	d := watermark.Drawing{Content: watermark.ImageContent(path), Opacity: 0.5, ImageScale: 2, DPI: 72}
	r, err := New(nil, d, watermark.Insert{X: 0.5, Y: 0.5, Alignment: watermark.AlignRight})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if w, h := r.StampSize(); w != 40 || h != 20 {
		t.Errorf("StampSize() = %g x %g, want 40 x 20", w, h)
	}
	o, err := r.Render(200, 100)
	if err != nil {
		t.Fatal(err)
	}
	s := o.Stamps[0]
	if s.Right() != 100 || s.Y != 50 {
		t.Errorf("stamp right edge %g at y %g, want 100 at 50", s.Right(), s.Y)
	}
	if o.Style.ImagePath != path || o.Style.Scale != 2 || o.Style.Kind != watermark.KindImage {
		t.Errorf("Style = %+v", o.Style)
	}
}

func TestRenderRasterImage(t *testing.T) {
	path := solidPNG(t, 20, 10)
	d := watermark.Drawing{Content: watermark.ImageContent(path), Opacity: 0.5, ImageScale: 1, DPI: 144, Unselectable: true}
	r, err := New(nil, d, watermark.Insert{X: 0.5, Y: 0.5, Alignment: watermark.AlignCenter})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Raster() {
		t.Fatal("Raster() = false for unselectable drawing")
	}
	o, err := r.Render(200, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Raster() {
		t.Fatal("raster drawing should produce a raster layer")
	}
	if o.DPI != 144 {
		t.Errorf("DPI = %d, want 144", o.DPI)
	}
	img, err := o.Rasterize()
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("raster size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}

	_, _, _, a := img.At(200, 100).RGBA()
	if got := a >> 8; got < 125 || got > 131 {
		t.Errorf("center alpha = %d, want about 128", got)
	}
	if _, _, _, a := img.At(5, 5).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want transparent", a)
	}
}

func TestRenderRasterText(t *testing.T) {
	d := textDrawing("WATERMARK")
	d.Rasterize = true
	d.DPI = 72
	r, err := New(testRegistry(t), d, watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1})
	if err != nil {
		t.Fatal(err)
	}
	o, err := r.Render(300, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Raster() {
		t.Fatal("missing raster layer")
	}
	img, err := o.Rasterize()
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("raster size = %dx%d, want 300x200", b.Dx(), b.Dy())
	}

	painted := false
	for y := 0; y < 200 && !painted; y++ {
		for x := 0; x < 300; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				painted = true
				break
			}
		}
	}
	if !painted {
		t.Error("raster layer is fully transparent")
	}
}

func TestRenderRasterInsertMeasuresDrawnFont(t *testing.T) {
	reg := testRegistry(t)
	f, err := reg.Resolve(watermark.DefaultTextFont)
	if err != nil {
		t.Fatal(err)
	}
	in := watermark.Insert{X: 1, Y: 0.5, Alignment: watermark.AlignRight}

	tests := []struct {
		name    string
		raster  bool
		measure func(string, int) (float64, float64)
	}{
		{"vector", false, f.Measure},
		{"raster", true, f.MeasureRaster},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := textDrawing("WWWW wide")
			d.Unselectable = tt.raster
			d.DPI = 72
			r, err := New(reg, d, in)
			if err != nil {
				t.Fatal(err)
			}
			wantW, _ := tt.measure("WWWW wide", watermark.DefaultTextSize)
			if w, _ := r.StampSize(); !near(w, wantW) {
				t.Errorf("StampSize() width = %g, want %g", w, wantW)
			}
			o, err := r.Render(612, 792)
			if err != nil {
				t.Fatal(err)
			}
			if s := o.Stamps[0]; !near(s.Right(), 612) {
				t.Errorf("stamp right edge = %g, want 612", s.Right())
			}
		})
	}
}

func TestRenderRejectsUndrawableText(t *testing.T) {
	reg := testRegistry(t)
	grid := watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1}

	tests := []struct {
		name    string
		text    string
		raster  bool
		wantErr bool
	}{
		{"latin-1 vector", "Entwurf für Müller", false, false},
		{"latin-1 raster", "Entwurf für Müller", true, false},
		{"cjk vector", "你好", false, true},
		{"cjk raster", "你好", true, true},
		{"mixed vector", "DRAFT 草稿", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := textDrawing(tt.text)
			d.Rasterize = tt.raster
			_, err := New(reg, d, grid)
			if tt.wantErr && !errors.Is(err, errors.ErrCodeFontResolution) {
				t.Errorf("New() error = %v, want FONT_RESOLUTION", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("New() error: %v", err)
			}
		})
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		w, h   float64
		dpi    int
		wx, wy int
	}{
		{612, 792, 72, 612, 792},
		{612, 792, 300, 2550, 3300},
		{595.28, 841.89, 150, 1240, 1754},
	}
	for _, tt := range tests {
		x, y := CanvasSize(tt.w, tt.h, tt.dpi)
		if x != tt.wx || y != tt.wy {
			t.Errorf("CanvasSize(%g, %g, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.dpi, x, y, tt.wx, tt.wy)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	reg := testRegistry(t)
	grid := watermark.Grid{HorizontalBoxes: 1, VerticalBoxes: 1}

	r, err := New(reg, textDrawing("x"), grid)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Render(0, 792); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("Render(0, 792) error = %v, want INVALID_OPTION", err)
	}

	d := textDrawing("x")
	d.Opacity = 2
	if _, err := New(reg, d, grid); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("New() with bad opacity error = %v, want INVALID_OPTION", err)
	}

	if _, err := New(reg, textDrawing("x"), watermark.Grid{}); !errors.Is(err, errors.ErrCodeInvalidOption) {
		t.Errorf("New() with empty grid error = %v, want INVALID_OPTION", err)
	}

	if _, err := New(nil, textDrawing("x"), grid); !errors.Is(err, errors.ErrCodeFontResolution) {
		t.Errorf("New() without registry error = %v, want FONT_RESOLUTION", err)
	}

	broken := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(broken, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	img := watermark.Drawing{Content: watermark.ImageContent(broken), Opacity: 0.5, ImageScale: 1, DPI: 72}
	if _, err := New(nil, img, grid); !errors.Is(err, errors.ErrCodeImageDecode) {
		t.Errorf("New() with broken image error = %v, want IMAGE_DECODE", err)
	}
}
