// Package fonts resolves watermark font names to loaded fonts.
//
// Three sources are consulted, in order:
//
//   - the 14 standard PDF core fonts (Helvetica, Times-Roman, Courier, ...),
//     drawn natively by the PDF backend and rasterized with a bundled Go
//     font of similar shape
//   - TrueType files in an optional custom fonts folder
//   - fonts installed on the system, located with go-findfont
//
// A [Registry] is safe for concurrent use and caches every font it has
// resolved, so a batch parses each font file at most once.
package fonts

import (
	"strings"
	"sync"
	"unicode"

	"github.com/golang/freetype/truetype"
	pdffont "github.com/pdfcpu/pdfcpu/pkg/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Source tells where a font was found.
type Source int

const (
	SourceCore Source = iota
	SourceCustom
	SourceSystem
)

func (s Source) String() string {
	switch s {
	case SourceCustom:
		return "custom"
	case SourceSystem:
		return "system"
	default:
		return "core"
	}
}

// goFonts are the bundled Go fonts, keyed by style.
var goFonts = map[string][]byte{
	"regular":        goregular.TTF,
	"bold":           gobold.TTF,
	"italic":         goitalic.TTF,
	"bolditalic":     gobolditalic.TTF,
	"mono":           gomono.TTF,
	"monobold":       gomonobold.TTF,
	"monoitalic":     gomonoitalic.TTF,
	"monobolditalic": gomonobolditalic.TTF,
}

// coreFonts maps each PDF core font to the Go font used to draw it in
// raster mode.
var coreFonts = map[string]string{
	"Helvetica":             "regular",
	"Helvetica-Bold":        "bold",
	"Helvetica-Oblique":     "italic",
	"Helvetica-BoldOblique": "bolditalic",
	"Times-Roman":           "regular",
	"Times-Bold":            "bold",
	"Times-Italic":          "italic",
	"Times-BoldItalic":      "bolditalic",
	"Courier":               "mono",
	"Courier-Bold":          "monobold",
	"Courier-Oblique":       "monoitalic",
	"Courier-BoldOblique":   "monobolditalic",
	"Symbol":                "regular",
	"ZapfDingbats":          "regular",
}

// CoreFontNames returns the core font names in sorted order.
func CoreFontNames() []string {
	return sortedKeys(coreFonts)
}

// IsCoreFont reports whether name is one of the 14 PDF core fonts.
func IsCoreFont(name string) bool {
	_, ok := coreFonts[name]
	return ok
}

// Parsed Go fonts (computed once per style on first access).
var (
	goFontsMu     sync.Mutex
	goFontsParsed = map[string]*truetype.Font{}
)

func goFont(style string) (*truetype.Font, error) {
	goFontsMu.Lock()
	defer goFontsMu.Unlock()
	if f, ok := goFontsParsed[style]; ok {
		return f, nil
	}
	f, err := truetype.Parse(goFonts[style])
	if err != nil {
		return nil, err
	}
	goFontsParsed[style] = f
	return f, nil
}

// Font is a resolved font. It is immutable apart from the one-time
// installation into the PDF backend.
type Font struct {
	// Name is the name the font was resolved under.
	Name   string
	Source Source
	// Path is the font file, empty for core fonts.
	Path string

	ttf *truetype.Font

	installOnce sync.Once
	pdfName     string
	installErr  error
}

// Face returns a face drawing the font at size points for a device of the
// given resolution. Callers close the face when done.
func (f *Font) Face(size, dpi float64) font.Face {
	return truetype.NewFace(f.ttf, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
}

// Measure returns the advance width and the ascent+descent height of text
// set at size points, in points, as the PDF backend draws it.
func (f *Font) Measure(text string, size int) (width, height float64) {
	width, height = f.MeasureRaster(text, size)
	if f.Source == SourceCore {
		width = pdffont.TextWidth(text, f.Name, size)
	}
	return width, height
}

// MeasureRaster is like Measure for text drawn with [Font.Face]. Core
// fonts are rasterized with a substitute, so their raster width differs
// from Measure.
func (f *Font) MeasureRaster(text string, size int) (width, height float64) {
	face := f.Face(float64(size), 72)
	defer face.Close()

	m := face.Metrics()
	return fixedToFloat(font.MeasureString(face, text)), fixedToFloat(m.Ascent + m.Descent)
}

// Missing returns the first rune of text the font cannot draw. Core fonts
// drawn by the PDF backend are limited to single-byte encodings; every
// other font must have a glyph for the rune.
func (f *Font) Missing(text string, raster bool) (rune, bool) {
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if f.Source == SourceCore && !raster {
			if r > 0xFF {
				return r, true
			}
			continue
		}
		if f.ttf.Index(r) == 0 {
			return r, true
		}
	}
	return 0, false
}

// PDFName returns the name the PDF backend knows the font by. Custom and
// system fonts are installed into pdfcpu's user font directory on first
// call.
func (f *Font) PDFName() (string, error) {
	if f.Source == SourceCore {
		return f.Name, nil
	}
	f.installOnce.Do(func() {
		f.pdfName, f.installErr = install(f)
	})
	return f.pdfName, f.installErr
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// normalize folds a font name for case-insensitive lookups.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
