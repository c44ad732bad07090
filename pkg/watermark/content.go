package watermark

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Kind tells which variant a [Content] holds.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	if k == KindImage {
		return "image"
	}
	return "text"
}

// imageExtensions are the file extensions recognized as image watermarks.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Text is a text watermark.
type Text struct {
	Value string
	Font  string
	Size  int
	Color color.RGBA
}

// Image is an image watermark. The file is decoded on first use and the
// decoded raster is shared by all callers.
type Image struct {
	Path string

	once sync.Once
	img  image.Image
	err  error
}

// Decode returns the decoded image. Decoding happens once; later calls
// return the cached result, including a cached failure.
func (im *Image) Decode() (image.Image, error) {
	im.once.Do(func() {
		img, err := imaging.Open(im.Path, imaging.AutoOrientation(true))
		if err != nil {
			im.err = errors.Wrap(errors.ErrCodeImageDecode, err, "decode image %s", im.Path)
			return
		}
		im.img = img
	})
	return im.img, im.err
}

// Size returns the native pixel size of the image.
func (im *Image) Size() (width, height int, err error) {
	img, err := im.Decode()
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Content is the watermark payload: either [Text] or [Image].
// The zero value is an empty text watermark.
type Content struct {
	kind  Kind
	text  Text
	image *Image
}

// TextContent returns text content.
func TextContent(t Text) Content {
	return Content{kind: KindText, text: t}
}

// ImageContent returns image content read from path.
func ImageContent(path string) Content {
	return Content{kind: KindImage, image: &Image{Path: path}}
}

// Kind reports which variant c holds.
func (c Content) Kind() Kind { return c.kind }

// Text returns the text variant. ok is false for image content.
func (c Content) Text() (t Text, ok bool) {
	return c.text, c.kind == KindText
}

// Image returns the image variant. ok is false for text content.
func (c Content) Image() (im *Image, ok bool) {
	return c.image, c.kind == KindImage
}

// String returns the text or the image path.
func (c Content) String() string {
	if c.kind == KindImage {
		return c.image.Path
	}
	return c.text.Value
}

// TextStyle carries the raw text appearance options.
type TextStyle struct {
	Font  string
	Size  int
	Color string
}

// ResolveContent decides once whether raw is an image or text watermark.
// raw is an image when it names an existing file, relative to the working
// directory, with a .png, .jpg or .jpeg extension. Anything else is text
// drawn with style.
func ResolveContent(raw string, style TextStyle) (Content, error) {
	if isImagePath(raw) {
		return ImageContent(raw), nil
	}

	if raw == "" {
		return Content{}, errors.New(errors.ErrCodeInvalidOption, "watermark text cannot be empty")
	}
	c, err := ParseColor(style.Color)
	if err != nil {
		return Content{}, err
	}
	if style.Font == "" {
		style.Font = DefaultTextFont
	}
	return TextContent(Text{
		Value: raw,
		Font:  style.Font,
		Size:  style.Size,
		Color: c,
	}), nil
}

func isImagePath(raw string) bool {
	if !imageExtensions[strings.ToLower(filepath.Ext(raw))] {
		return false
	}
	info, err := os.Stat(raw)
	return err == nil && info.Mode().IsRegular()
}

// ParseColor parses a hex color in "#rrggbb", "#rgb" or "0xrrggbb" form.
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		s = DefaultTextColor
	}
	hex := s
	if strings.HasPrefix(strings.ToLower(hex), "0x") {
		hex = "#" + hex[2:]
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
