package watermark

import (
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// Config is the on-disk defaults file. Every field is optional; a nil
// pointer means "not set in the file". Keys use the command-line flag
// names with dashes replaced by underscores.
//
//	[drawing]
//	opacity = 0.2
//	text_font = "Courier"
//
//	[grid]
//	horizontal_boxes = 4
//
//	[files]
//	workers = 8
type Config struct {
	Drawing DrawingConfig `toml:"drawing"`
	Grid    GridConfig    `toml:"grid"`
	Insert  InsertConfig  `toml:"insert"`
	Files   FilesConfig   `toml:"files"`
}

// DrawingConfig holds defaults shared by both placement modes.
type DrawingConfig struct {
	Opacity           *float64 `toml:"opacity"`
	Angle             *float64 `toml:"angle"`
	TextColor         *string  `toml:"text_color"`
	TextFont          *string  `toml:"text_font"`
	TextSize          *int     `toml:"text_size"`
	Unselectable      *bool    `toml:"unselectable"`
	ImageScale        *float64 `toml:"image_scale"`
	SaveAsImage       *bool    `toml:"save_as_image"`
	DPI               *int     `toml:"dpi"`
	CustomFontsFolder *string  `toml:"custom_fonts_folder"`
}

// GridConfig holds grid placement defaults.
type GridConfig struct {
	HorizontalBoxes *int  `toml:"horizontal_boxes"`
	VerticalBoxes   *int  `toml:"vertical_boxes"`
	Margin          *bool `toml:"margin"`
}

// InsertConfig holds insert placement defaults.
type InsertConfig struct {
	X                   *float64 `toml:"x"`
	Y                   *float64 `toml:"y"`
	HorizontalAlignment *string  `toml:"horizontal_alignment"`
}

// FilesConfig holds batch defaults.
type FilesConfig struct {
	Workers *int  `toml:"workers"`
	DryRun  *bool `toml:"dry_run"`
}

// LoadConfig reads a TOML defaults file. Unknown keys are rejected so that
// typos do not silently fall back to built-in defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidOption, "unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}
