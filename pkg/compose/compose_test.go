package compose

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
	"github.com/matzehuels/pdfwatermark/pkg/render"
)

type fakeBackend struct {
	sizes    []PageSize
	sizesErr error
	stampErr error

	stamped []*render.Overlay
}

func (f *fakeBackend) PageSizes(ctx context.Context, src io.ReadSeeker) ([]PageSize, error) {
	return f.sizes, f.sizesErr
}

func (f *fakeBackend) Stamp(ctx context.Context, src io.ReadSeeker, overlays []*render.Overlay, w io.Writer) error {
	if f.stampErr != nil {
		return f.stampErr
	}
	f.stamped = overlays
	_, err := io.Copy(w, src)
	return err
}

type fakeRenderer struct {
	err   error
	calls []PageSize
}

func (f *fakeRenderer) Render(width, height float64) (*render.Overlay, error) {
	f.calls = append(f.calls, PageSize{width, height})
	if f.err != nil {
		return nil, f.err
	}
	return &render.Overlay{
		Width:  width,
		Height: height,
		Stamps: []render.Stamp{{X: width / 2, Y: height / 2, Width: 10, Height: 5}},
	}, nil
}

func quiet() *log.Logger { return log.New(io.Discard) }

func TestApplyRendersEveryPageInOrder(t *testing.T) {
	backend := &fakeBackend{sizes: []PageSize{{612, 792}, {842, 595}, {100, 200}}}
	renderer := &fakeRenderer{}
	c := New(backend, renderer, quiet())

	var out bytes.Buffer
	pages, err := c.Apply(context.Background(), []byte("%PDF"), &out)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
	if len(backend.stamped) != 3 {
		t.Fatalf("stamped %d overlays, want 3", len(backend.stamped))
	}
	for i, size := range backend.sizes {
		if renderer.calls[i] != size {
			t.Errorf("render call %d = %v, want %v", i, renderer.calls[i], size)
		}
		o := backend.stamped[i]
		if o.Width != size.Width || o.Height != size.Height {
			t.Errorf("overlay %d size = %gx%g, want %gx%g", i, o.Width, o.Height, size.Width, size.Height)
		}
	}
	if out.String() != "%PDF" {
		t.Errorf("output = %q", out.String())
	}
}

func TestApplyRendersEachPageSizeOnce(t *testing.T) {
	letter, landscape := PageSize{612, 792}, PageSize{792, 612}
	backend := &fakeBackend{sizes: []PageSize{letter, letter, landscape, letter, landscape}}
	renderer := &fakeRenderer{}
	c := New(backend, renderer, quiet())

	pages, err := c.Apply(context.Background(), []byte("%PDF"), io.Discard)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if pages != 5 {
		t.Errorf("pages = %d, want 5", pages)
	}
	if len(renderer.calls) != 2 || renderer.calls[0] != letter || renderer.calls[1] != landscape {
		t.Errorf("render calls = %v, want [%v %v]", renderer.calls, letter, landscape)
	}

	got := backend.stamped
	if len(got) != 5 {
		t.Fatalf("stamped %d overlays, want 5", len(got))
	}
	if got[0] != got[1] || got[0] != got[3] || got[2] != got[4] {
		t.Error("pages of the same size should share one overlay")
	}
	if got[0] == got[2] {
		t.Error("pages of different sizes should not share an overlay")
	}
}

func TestApplyRejectsEmptyDocument(t *testing.T) {
	c := New(&fakeBackend{}, &fakeRenderer{}, quiet())
	_, err := c.Apply(context.Background(), nil, io.Discard)
	if !errors.Is(err, errors.ErrCodeCompositing) {
		t.Errorf("Apply() error = %v, want COMPOSITING", err)
	}
}

func TestApplyErrors(t *testing.T) {
	boom := stderrors.New("boom")
	tests := []struct {
		name     string
		backend  *fakeBackend
		renderer *fakeRenderer
		want     errors.Code
	}{
		{
			name:     "unreadable document",
			backend:  &fakeBackend{sizesErr: boom},
			renderer: &fakeRenderer{},
			want:     errors.ErrCodeCompositing,
		},
		{
			name:     "stamp failure",
			backend:  &fakeBackend{sizes: []PageSize{{1, 1}}, stampErr: boom},
			renderer: &fakeRenderer{},
			want:     errors.ErrCodeCompositing,
		},
		{
			name:     "coded backend failure keeps its code",
			backend:  &fakeBackend{sizes: []PageSize{{1, 1}}, stampErr: errors.New(errors.ErrCodeIO, "disk full")},
			renderer: &fakeRenderer{},
			want:     errors.ErrCodeIO,
		},
		{
			name:     "renderer failure keeps its code",
			backend:  &fakeBackend{sizes: []PageSize{{1, 1}}},
			renderer: &fakeRenderer{err: errors.New(errors.ErrCodeFontResolution, "no font")},
			want:     errors.ErrCodeFontResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.backend, tt.renderer, quiet())
			_, err := c.Apply(context.Background(), []byte("x"), io.Discard)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Apply() error code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestApplyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := &fakeRenderer{}
	c := New(&fakeBackend{sizes: []PageSize{{1, 1}, {1, 1}}}, renderer, quiet())
	_, err := c.Apply(ctx, []byte("x"), io.Discard)
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("Apply() error = %v, want CANCELED", err)
	}
	if len(renderer.calls) != 0 {
		t.Errorf("renderer called %d times after cancellation", len(renderer.calls))
	}
}
