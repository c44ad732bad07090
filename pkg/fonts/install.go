package fonts

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	pdffont "github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// installMu serializes changes to pdfcpu's global user font table.
var installMu sync.Mutex

var (
	fontDirOnce sync.Once
	fontDir     string
	fontDirErr  error
)

// userFontDir returns the directory pdfcpu loads user fonts from, setting
// it up on first use. pdfcpu's own font directory is used when its
// configuration directory is enabled; otherwise fonts go to
// $XDG_CACHE_HOME/pdfwatermark/fonts.
func userFontDir() (string, error) {
	fontDirOnce.Do(func() {
		// Settles pdfcpu's one-time configuration so that it cannot
		// replace the font directory later.
		_ = model.NewDefaultConfiguration()
		if pdffont.UserFontDir != "" {
			fontDir = pdffont.UserFontDir
			fontDirErr = os.MkdirAll(fontDir, 0o755)
			return
		}

		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		fontDir = filepath.Join(base, "pdfwatermark", "fonts")
		if fontDirErr = os.MkdirAll(fontDir, 0o755); fontDirErr == nil {
			pdffont.UserFontDir = fontDir
		}
	})
	return fontDir, fontDirErr
}

// install makes the TrueType file at path available to pdfcpu and
// returns the PostScript name pdfcpu registered it under.
func install(f *Font) (string, error) {
	dir, err := userFontDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFontResolution, err, "prepare font directory").WithPath(dir)
	}

	installMu.Lock()
	defer installMu.Unlock()

	if err := pdffont.InstallTrueTypeFont(dir, f.Path); err != nil {
		return "", errors.Wrap(errors.ErrCodeFontResolution, err, "install font %q", f.Name).WithPath(f.Path)
	}
	if err := pdffont.LoadUserFonts(); err != nil {
		return "", errors.Wrap(errors.ErrCodeFontResolution, err, "load font %q", f.Name).WithPath(f.Path)
	}

	name := f.ttf.Name(truetype.NameIDPostscriptName)
	if !pdffont.IsUserFont(name) {
		return "", errors.New(errors.ErrCodeFontResolution, "font %q was not registered as %q", f.Name, name).WithPath(f.Path)
	}
	return name, nil
}
