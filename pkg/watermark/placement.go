package watermark

import (
	"strings"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Placement decides where stamps go on a page. It is implemented by
// [Grid] and [Insert].
type Placement interface {
	// Mode returns ModeGrid or ModeInsert.
	Mode() string
	// Validate checks the placement parameters.
	Validate() error
}

// Grid tiles the page with HorizontalBoxes × VerticalBoxes cells and puts
// one stamp in the center of every cell.
type Grid struct {
	HorizontalBoxes int
	VerticalBoxes   int
	// Margin reserves a half-cell border on every side of the page.
	Margin bool
}

// Mode implements Placement.
func (Grid) Mode() string { return ModeGrid }

// Validate implements Placement.
func (g Grid) Validate() error {
	if g.HorizontalBoxes < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "horizontal boxes must be at least 1, got %d", g.HorizontalBoxes)
	}
	if g.VerticalBoxes < 1 {
		return errors.New(errors.ErrCodeInvalidOption, "vertical boxes must be at least 1, got %d", g.VerticalBoxes)
	}
	return nil
}

// Alignment is the horizontal alignment of an inserted stamp relative to
// its anchor point.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignRight  Alignment = "right"
	AlignCenter Alignment = "center"
)

// ParseAlignment parses "left", "right" or "center" (case-insensitive).
func ParseAlignment(s string) (Alignment, error) {
	a := Alignment(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case AlignLeft, AlignRight, AlignCenter:
		return a, nil
	}
	return "", errors.New(errors.ErrCodeInvalidOption,
		"horizontal alignment must be either left, right or center, got %q", s)
}

// Insert places a single stamp. X and Y are fractions of the page width
// and height locating the anchor point.
type Insert struct {
	X, Y      float64
	Alignment Alignment
}

// Mode implements Placement.
func (Insert) Mode() string { return ModeInsert }

// Validate implements Placement.
func (in Insert) Validate() error {
	if !(in.X >= 0 && in.X <= 1) {
		return errors.New(errors.ErrCodeInvalidOption, "x must be in [0, 1], got %g", in.X)
	}
	if !(in.Y >= 0 && in.Y <= 1) {
		return errors.New(errors.ErrCodeInvalidOption, "y must be in [0, 1], got %g", in.Y)
	}
	if _, err := ParseAlignment(string(in.Alignment)); err != nil {
		return err
	}
	return nil
}
