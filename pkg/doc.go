// Package pkg provides the libraries behind the pdfwatermark command.
//
// # Overview
//
// pdfwatermark stamps a text or image watermark onto every page of one PDF
// or of every PDF below a directory. The pkg directory is organized by
// stage:
//
//  1. [watermark] - Validated options: content, drawing and placement
//  2. [fonts] - Font resolution for text watermarks
//  3. [render] - Stamp geometry and raster overlays per page size
//  4. [compose] - Merging overlays into documents (pdfcpu backend)
//  5. [files] - Input discovery and output mapping
//  6. [pipeline] - The bounded, concurrent batch runner
//
// Supporting packages are [errors] (coded errors), [observability]
// (progress hooks) and [buildinfo].
//
// # Architecture
//
// The data flow for one batch:
//
//	watermark argument + flags
//	         ↓
//	    [watermark] Content, Drawing, Placement (validated once)
//	         ↓
//	    [render] Renderer (font resolved, image decoded, stamp measured)
//	         ↓
//	    [files] Plan (input → output per PDF)
//	         ↓
//	    [pipeline] Runner ─→ [compose] Compositor per file, Workers at a time
//	         ↓
//	    watermarked PDFs + per-file outcomes
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/pdfwatermark/pkg/compose"
//	    "github.com/matzehuels/pdfwatermark/pkg/files"
//	    "github.com/matzehuels/pdfwatermark/pkg/fonts"
//	    "github.com/matzehuels/pdfwatermark/pkg/pipeline"
//	    "github.com/matzehuels/pdfwatermark/pkg/render"
//	    "github.com/matzehuels/pdfwatermark/pkg/watermark"
//	)
//
//	content, _ := watermark.ResolveContent("CONFIDENTIAL", watermark.TextStyle{Size: 48})
//	drawing := watermark.Drawing{Content: content}
//	drawing.SetDefaults()
//
//	registry, _ := fonts.NewRegistry("", logger)
//	renderer, _ := render.New(registry, drawing, watermark.Grid{HorizontalBoxes: 3, VerticalBoxes: 6})
//	plan, _ := files.Resolve("reports/", "stamped/")
//
//	runner := pipeline.NewRunner(compose.New(compose.NewPDFCPU(), renderer, logger), logger)
//	outcomes, err := runner.Run(ctx, pipeline.Options{Tasks: plan.Tasks, Dirs: plan.Dirs, Workers: 4})
//
// [watermark]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/watermark
// [fonts]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/render
// [compose]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/compose
// [files]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/files
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pdfwatermark/pkg/buildinfo
package pkg
