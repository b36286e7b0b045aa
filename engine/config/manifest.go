package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-hover/common"
	"gopkg.in/yaml.v3"
)

// ErrNoSlides is returned when a manifest lists no slides.
var ErrNoSlides = errors.New("config: manifest has no slides")

// ManifestError reports a manifest that could not be read or parsed.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// Window is the optional window section of a manifest.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// DefaultWindow returns the window used when a manifest leaves it unset.
func DefaultWindow() Window {
	return Window{Title: "oxy-hover", Width: 1280, Height: 720}
}

// Slide is one image plane. X, Y, Width and Height place the plane in window pixels; a slide
// without a size is laid out by the gallery.
type Slide struct {
	Image         string            `yaml:"image"`
	X             float64           `yaml:"x"`
	Y             float64           `yaml:"y"`
	Width         float64           `yaml:"width"`
	Height        float64           `yaml:"height"`
	TextureWidth  float64           `yaml:"texture-width"`
	TextureHeight float64           `yaml:"texture-height"`
	Attributes    map[string]string `yaml:"attributes"`
}

// Manifest describes a gallery: document-level attributes, the window and the slides.
type Manifest struct {
	Window Window            `yaml:"window"`
	Config map[string]string `yaml:"config"`
	Slides []Slide           `yaml:"slides"`

	// Dir is the directory relative image paths are resolved against.
	Dir string `yaml:"-"`
}

// LoadManifest reads and parses the manifest at path. Relative image paths are resolved against
// the manifest's directory.
//
// Parameters:
//   - path: the YAML file to read
//
// Returns:
//   - *Manifest: the parsed manifest
//   - error: a *ManifestError if the file cannot be read or parsed, wrapping ErrNoSlides when empty
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// ParseManifest parses manifest YAML.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *Manifest: the parsed manifest with an empty Dir
//   - error: the parse error, or ErrNoSlides
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if len(m.Slides) == 0 {
		return nil, ErrNoSlides
	}
	for i, s := range m.Slides {
		if s.Image == "" {
			return nil, fmt.Errorf("slide %d: missing image", i)
		}
	}
	return &m, nil
}

// Document returns the document-level configuration: the defaults with the config section merged over them.
func (m *Manifest) Document() Config {
	return FromAttributes(Default(), m.Config)
}

// SlideConfig returns the configuration of slide i: its attributes merged over doc.
//
// Parameters:
//   - doc: the document-level configuration
//   - i: the slide index
//
// Returns:
//   - Config: the merged configuration
func (m *Manifest) SlideConfig(doc Config, i int) Config {
	return FromAttributes(doc, m.Slides[i].Attributes)
}

// WindowSettings returns the window section with unset fields filled from DefaultWindow.
func (m *Manifest) WindowSettings() Window {
	d := DefaultWindow()
	return Window{
		Title:  common.Coalesce(m.Window.Title, d.Title),
		Width:  common.Coalesce(max(m.Window.Width, 0), d.Width),
		Height: common.Coalesce(max(m.Window.Height, 0), d.Height),
	}
}

// ImagePath returns the slide image path resolved against the manifest directory.
//
// Parameters:
//   - i: the slide index
//
// Returns:
//   - string: the image path
func (m *Manifest) ImagePath(i int) string {
	p := m.Slides[i].Image
	if filepath.IsAbs(p) || m.Dir == "" {
		return p
	}
	return filepath.Join(m.Dir, p)
}

// HasRect reports whether the slide places itself.
func (s Slide) HasRect() bool {
	return s.Width > 0 && s.Height > 0
}

// PlaneSize returns the plane dimensions used for the cover scale, defaulting each side to 1.
func (s Slide) PlaneSize() (float64, float64) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// TextureSize returns the texture dimensions used for the cover scale. Explicit values win, then
// the decoded image size, then the plane size.
//
// Parameters:
//   - decodedW, decodedH: the decoded image size, zero if unknown
//
// Returns:
//   - float64, float64: the texture width and height
func (s Slide) TextureSize(decodedW, decodedH float64) (float64, float64) {
	pw, ph := s.PlaneSize()
	w := firstPositive(s.TextureWidth, decodedW, pw)
	h := firstPositive(s.TextureHeight, decodedH, ph)
	return w, h
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 1
}
