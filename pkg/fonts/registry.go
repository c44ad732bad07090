package fonts

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"

	"github.com/matzehuels/pdfwatermark/pkg/errors"
)

// fontExtensions are the font file extensions picked up from the custom
// fonts folder and the system font directories.
var fontExtensions = map[string]bool{
	".ttf": true,
	".otf": true,
}

// cidFonts maps the CJK CID font names used by other PDF tools to system
// TrueType fonts covering the same script, most specific first.
var cidFonts = map[string][]string{
	"stsong-light": {"STSong", "SimSun", "DroidSansFallbackFull", "DroidSansFallback", "Arial Unicode"},
	"msung-light":  {"MingLiU", "PMingLiU", "DroidSansFallbackFull", "DroidSansFallback", "Arial Unicode"},
}

// Registry resolves font names. The zero value is not usable; create one
// with [NewRegistry].
type Registry struct {
	logger *log.Logger

	// custom maps a normalized file stem to its path in the custom folder.
	custom map[string]string

	mu    sync.RWMutex
	cache map[string]*Font

	// findSystem and listSystem locate system fonts.
	findSystem func(name string) (string, error)
	listSystem func() []string
}

// NewRegistry creates a registry. customDir, if non-empty, must be a
// readable directory; its .ttf and .otf files are resolvable by file name
// without extension, case-insensitively.
// If logger is nil, log.Default() is used.
func NewRegistry(customDir string, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.Default()
	}
	r := &Registry{
		logger:     logger,
		custom:     make(map[string]string),
		cache:      make(map[string]*Font),
		findSystem: findfont.Find,
		listSystem: findfont.List,
	}
	if customDir != "" {
		if err := r.scanCustom(customDir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) scanCustom(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "read custom fonts folder").WithPath(dir)
	}
	for _, e := range entries {
		if e.IsDir() || !fontExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		r.custom[normalize(stem)] = filepath.Join(dir, e.Name())
	}
	r.logger.Debug("scanned custom fonts", "dir", dir, "fonts", len(r.custom))
	return nil
}

// Resolve returns the font registered under name. Core fonts win over
// custom fonts, which win over system fonts. Lookups are
// case-insensitive.
func (r *Registry) Resolve(name string) (*Font, error) {
	key := normalize(name)
	if key == "" {
		return nil, errors.New(errors.ErrCodeFontResolution, "font name is empty")
	}

	r.mu.RLock()
	f, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	f, err := r.load(name, key)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.cache[key]; ok {
		return existing, nil
	}
	r.cache[key] = f
	r.logger.Debug("resolved font", "name", f.Name, "source", f.Source, "path", f.Path)
	return f, nil
}

func (r *Registry) load(name, key string) (*Font, error) {
	for core, style := range coreFonts {
		if normalize(core) == key {
			ttf, err := goFont(style)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeFontResolution, err, "load fallback for %s", core)
			}
			return &Font{Name: core, Source: SourceCore, ttf: ttf}, nil
		}
	}

	if path, ok := r.custom[key]; ok {
		return loadFile(name, SourceCustom, path)
	}

	if candidates, ok := cidFonts[key]; ok {
		return r.loadCID(name, candidates)
	}

	path, err := r.findSystem(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontResolution, err, "font %q not found", name)
	}
	return loadFile(name, SourceSystem, path)
}

// loadCID loads the first installed TrueType font among candidates.
// Collections and CFF-based fonts fail to parse and are skipped.
func (r *Registry) loadCID(name string, candidates []string) (*Font, error) {
	for _, c := range candidates {
		path, err := r.findSystem(c)
		if err != nil {
			continue
		}
		f, err := loadFile(name, SourceSystem, path)
		if err != nil {
			r.logger.Debug("skipping font", "name", c, "path", path, "err", err)
			continue
		}
		return f, nil
	}
	return nil, errors.New(errors.ErrCodeFontResolution,
		"font %q needs one of these TrueType fonts installed: %s", name, strings.Join(candidates, ", "))
}

func loadFile(name string, src Source, path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontResolution, err, "read font %q", name).WithPath(path)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontResolution, err, "parse font %q", name).WithPath(path)
	}
	return &Font{Name: name, Source: src, Path: path, ttf: ttf}, nil
}

// Entry describes a font the registry can resolve.
type Entry struct {
	Name   string
	Source Source
	Path   string
}

// List returns the resolvable fonts: core fonts, then custom fonts, then,
// if system is set, the fonts found in the system font directories. Each
// group is sorted by name.
func (r *Registry) List(system bool) []Entry {
	var out []Entry
	for _, name := range CoreFontNames() {
		out = append(out, Entry{Name: name, Source: SourceCore})
	}

	for _, key := range sortedKeys(r.custom) {
		path := r.custom[key]
		out = append(out, Entry{Name: stem(path), Source: SourceCustom, Path: path})
	}

	if system {
		var sys []Entry
		for _, path := range r.listSystem() {
			if fontExtensions[strings.ToLower(filepath.Ext(path))] {
				sys = append(sys, Entry{Name: stem(path), Source: SourceSystem, Path: path})
			}
		}
		slices.SortFunc(sys, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
		out = append(out, sys...)
	}
	return out
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
