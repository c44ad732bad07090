package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pdfwatermark/pkg/watermark"
)

// =============================================================================
// Shared Flags
// =============================================================================

// commonOpts holds the flags shared by the grid and insert commands.
type commonOpts struct {
	opacity      float64 // stamp alpha in (0, 1]
	angle        float64 // counter-clockwise rotation in degrees
	textColor    string  // #rrggbb
	textFont     string  // core, custom or system font name
	textSize     int     // points
	unselectable bool    // rasterize so text cannot be selected
	imageScale   float64 // image pixels to points
	saveAsImage  bool    // rasterize the watermark layer
	dpi          int     // raster resolution
	customFonts  string  // folder of extra .ttf/.otf files

	save     string // output file or directory; empty means in place
	dryRun   bool   // compose in memory, write nothing
	workers  int    // files processed at once
	config   string // TOML defaults file
	progress bool   // live progress view
}

func defaultCommonOpts() commonOpts {
	return commonOpts{
		opacity:    watermark.DefaultOpacity,
		angle:      watermark.DefaultAngle,
		textColor:  watermark.DefaultTextColor,
		textFont:   watermark.DefaultTextFont,
		textSize:   watermark.DefaultTextSize,
		imageScale: watermark.DefaultImageScale,
		dpi:        watermark.DefaultDPI,
		workers:    watermark.DefaultWorkers,
	}
}

func (o *commonOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&o.opacity, "opacity", o.opacity, "watermark opacity in (0, 1]")
	f.Float64Var(&o.angle, "angle", o.angle, "rotation in degrees, counter-clockwise")
	f.StringVar(&o.textColor, "text-color", o.textColor, "text color as #rrggbb")
	f.StringVar(&o.textFont, "text-font", o.textFont, "text font: a PDF core font, a custom font or a system font")
	f.IntVar(&o.textSize, "text-size", o.textSize, "text size in points")
	f.BoolVar(&o.unselectable, "unselectable", false, "draw the watermark as an image so its text cannot be selected")
	f.Float64Var(&o.imageScale, "image-scale", o.imageScale, "image watermark scale, 1 means one pixel per point")
	f.BoolVar(&o.saveAsImage, "save-as-image", false, "rasterize the watermark layer")
	f.IntVar(&o.dpi, "dpi", o.dpi, "resolution of rasterized watermarks")
	f.StringVar(&o.customFonts, "custom-fonts-folder", "", "folder with additional .ttf/.otf fonts")
	f.StringVarP(&o.save, "save", "s", "", "output file or directory (default: overwrite the input)")
	f.BoolVar(&o.dryRun, "dry-run", false, "watermark in memory without writing any file")
	f.IntVar(&o.workers, "workers", o.workers, "number of files processed in parallel")
	f.StringVar(&o.config, "config", "", "TOML file with default option values")
	f.BoolVar(&o.progress, "progress", false, "show a live progress view")

	_ = cmd.MarkFlagFilename("save")
	_ = cmd.MarkFlagFilename("config", "toml")
	_ = cmd.MarkFlagDirname("custom-fonts-folder")
}

// loadConfig reads the explicit --config file, or the default one if it
// exists. It returns nil when there is nothing to load.
func (o *commonOpts) loadConfig() (*watermark.Config, error) {
	path := o.config
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return nil, nil
	}
	return watermark.LoadConfig(path)
}

// applyConfig copies the values set in cfg into every option whose flag
// was not given on the command line.
func (o *commonOpts) applyConfig(cfg *watermark.Config, changed func(string) bool) {
	d := cfg.Drawing
	merge(changed, "opacity", &o.opacity, d.Opacity)
	merge(changed, "angle", &o.angle, d.Angle)
	merge(changed, "text-color", &o.textColor, d.TextColor)
	merge(changed, "text-font", &o.textFont, d.TextFont)
	merge(changed, "text-size", &o.textSize, d.TextSize)
	merge(changed, "unselectable", &o.unselectable, d.Unselectable)
	merge(changed, "image-scale", &o.imageScale, d.ImageScale)
	merge(changed, "save-as-image", &o.saveAsImage, d.SaveAsImage)
	merge(changed, "dpi", &o.dpi, d.DPI)
	merge(changed, "custom-fonts-folder", &o.customFonts, d.CustomFontsFolder)
	merge(changed, "workers", &o.workers, cfg.Files.Workers)
	merge(changed, "dry-run", &o.dryRun, cfg.Files.DryRun)
}

// merge sets *dst to *src when src is set and the flag was not changed.
func merge[T any](changed func(string) bool, flag string, dst *T, src *T) {
	if src != nil && !changed(flag) {
		*dst = *src
	}
}

// drawing resolves the watermark argument and builds the drawing options.
func (o *commonOpts) drawing(raw string) (watermark.Drawing, error) {
	content, err := watermark.ResolveContent(raw, watermark.TextStyle{
		Font:  o.textFont,
		Size:  o.textSize,
		Color: o.textColor,
	})
	if err != nil {
		return watermark.Drawing{}, err
	}
	d := watermark.Drawing{
		Content:      content,
		Opacity:      o.opacity,
		Angle:        o.angle,
		Unselectable: o.unselectable,
		ImageScale:   o.imageScale,
		Rasterize:    o.saveAsImage,
		DPI:          o.dpi,
	}
	if err := d.Validate(); err != nil {
		return watermark.Drawing{}, err
	}
	return d, nil
}

// =============================================================================
// Placement Flags
// =============================================================================

type gridOpts struct {
	horizontalBoxes int
	verticalBoxes   int
	margin          bool
}

func (g *gridOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	// No shorthand: -h is help.
	f.IntVar(&g.horizontalBoxes, "horizontal-boxes", watermark.DefaultHorizontalBoxes, "number of columns")
	f.IntVar(&g.verticalBoxes, "vertical-boxes", watermark.DefaultVerticalBoxes, "number of rows")
	f.BoolVar(&g.margin, "margin", false, "keep a half-cell margin around the grid")
}

func (g *gridOpts) applyConfig(cfg *watermark.Config, changed func(string) bool) {
	merge(changed, "horizontal-boxes", &g.horizontalBoxes, cfg.Grid.HorizontalBoxes)
	merge(changed, "vertical-boxes", &g.verticalBoxes, cfg.Grid.VerticalBoxes)
	merge(changed, "margin", &g.margin, cfg.Grid.Margin)
}

func (g *gridOpts) placement() (watermark.Placement, error) {
	p := watermark.Grid{
		HorizontalBoxes: g.horizontalBoxes,
		VerticalBoxes:   g.verticalBoxes,
		Margin:          g.margin,
	}
	return p, p.Validate()
}

type insertOpts struct {
	x, y      float64
	alignment string
}

func (in *insertOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&in.x, "x", watermark.DefaultX, "horizontal anchor as a fraction of the page width")
	f.Float64Var(&in.y, "y", watermark.DefaultY, "vertical anchor as a fraction of the page height, from the bottom")
	f.StringVar(&in.alignment, "horizontal-alignment", string(watermark.DefaultAlignment), "alignment to the anchor: left, right or center")

	_ = cmd.RegisterFlagCompletionFunc("horizontal-alignment", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(watermark.AlignLeft),
			string(watermark.AlignRight),
			string(watermark.AlignCenter),
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

func (in *insertOpts) applyConfig(cfg *watermark.Config, changed func(string) bool) {
	merge(changed, "x", &in.x, cfg.Insert.X)
	merge(changed, "y", &in.y, cfg.Insert.Y)
	merge(changed, "horizontal-alignment", &in.alignment, cfg.Insert.HorizontalAlignment)
}

func (in *insertOpts) placement() (watermark.Placement, error) {
	a, err := watermark.ParseAlignment(in.alignment)
	if err != nil {
		return nil, err
	}
	p := watermark.Insert{X: in.x, Y: in.y, Alignment: a}
	return p, p.Validate()
}

