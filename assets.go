package pax

import (
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/image/font"
)

// AssetLoader is a pull-model asset store: a component asks "is this image
// loaded yet?" (ImageLoaded) rather than the loader pushing a ready event,
// matching the engine's otherwise synchronous tick phases. Grounded on
// willow's atlas.go, generalized from a sprite-atlas-specific cache into a
// general path-keyed asset registry covering both images and font metadata.
type AssetLoader struct {
	baseDir string

	mu      sync.Mutex
	loaded  map[string]bool
	fonts   map[string]font.Face
	pending map[string]bool
}

// NewAssetLoader creates a loader rooted at baseDir.
func NewAssetLoader(baseDir string) *AssetLoader {
	return &AssetLoader{
		baseDir: baseDir,
		loaded:  make(map[string]bool),
		fonts:   make(map[string]font.Face),
		pending: make(map[string]bool),
	}
}

// Resolve joins a cartridge-relative asset path against the loader's base
// directory.
func (a *AssetLoader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.baseDir, path)
}

// ImageLoaded reports whether path has finished loading.
func (a *AssetLoader) ImageLoaded(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loaded[path]
}

// RequestImage marks path as pending if it isn't already loaded or
// in-flight. It loads nothing itself: ImageLoaded stays false for path until
// MarkLoaded is called.
func (a *AssetLoader) RequestImage(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded[path] || a.pending[path] {
		return
	}
	a.pending[path] = true
}

// MarkLoaded records that path finished loading successfully.
func (a *AssetLoader) MarkLoaded(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loaded[path] = true
	delete(a.pending, path)
}

// RegisterFont associates family with a parsed font face, which MeasureText
// uses to answer text-measurement queries without decoding the font file on
// every call.
func (a *AssetLoader) RegisterFont(family string, face font.Face) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fonts[family] = face
}

// Font returns the registered face for family, or an error if none has
// been loaded yet.
func (a *AssetLoader) Font(family string) (font.Face, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.fonts[family]
	if !ok {
		return nil, fmt.Errorf("pax: font %q not loaded", family)
	}
	return f, nil
}

// MeasureText returns the advance width in pixels of text set in family at
// the face's configured size, using golang.org/x/image/font's advance
// metrics rather than a hand-rolled glyph-width table.
func (a *AssetLoader) MeasureText(family, text string) (float64, error) {
	f, err := a.Font(family)
	if err != nil {
		return 0, err
	}
	adv := font.MeasureString(f, text)
	return float64(adv) / 64, nil
}
