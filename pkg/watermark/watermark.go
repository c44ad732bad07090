// Package watermark holds the validated, immutable configuration that
// describes what a watermark looks like and where it goes on a page.
//
// # Overview
//
// A watermark is described by three values:
//
//   - [Content]: what is stamped, either text or an image, decided once
//     from the raw watermark argument by [ResolveContent]
//   - [Drawing]: how it is drawn (opacity, rotation, raster options)
//   - [Placement]: where it goes, either a tiled [Grid] or a single
//     [Insert]
//
// All three are built and validated once before any file is processed and
// are only read afterwards, so they can be shared by every worker of a
// batch without synchronization.
//
// # Usage
//
//	content, err := watermark.ResolveContent("DRAFT", watermark.TextStyle{
//	    Font:  watermark.DefaultTextFont,
//	    Size:  watermark.DefaultTextSize,
//	    Color: watermark.DefaultTextColor,
//	})
//	drawing := watermark.Drawing{Content: content}
//	drawing.SetDefaults()
//	if err := drawing.Validate(); err != nil {
//	    return err
//	}
//	grid := watermark.Grid{HorizontalBoxes: 2, VerticalBoxes: 2}
package watermark

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultOpacity         = 0.1
	DefaultAngle           = 45.0
	DefaultTextColor       = "#000000"
	DefaultTextFont        = "Helvetica"
	DefaultTextSize        = 12
	DefaultImageScale      = 1.0
	DefaultDPI             = 300
	DefaultWorkers         = 1
	DefaultHorizontalBoxes = 3
	DefaultVerticalBoxes   = 6
	DefaultX               = 0.5
	DefaultY               = 0.5
	DefaultAlignment       = AlignCenter
)

// Mode names for the two placement strategies.
const (
	ModeGrid   = "grid"
	ModeInsert = "insert"
)
