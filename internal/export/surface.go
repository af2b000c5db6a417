package export

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
)

// Surface is the off-screen staging area of one export: a private
// directory for intermediate files plus the mounted print view and its
// loaded assets. Close removes it.
type Surface struct {
	dir    string
	view   PrintView
	scale  float64
	assets map[string]image.Image
	closed bool
}

// OpenSurface creates a staging directory under parent and mounts view
func OpenSurface(parent string, view PrintView, scale float64) (*Surface, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0700); err != nil {
			return nil, fmt.Errorf("failed to create staging parent: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, ".cotiza-export-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	if scale <= 0 {
		scale = 1
	}
	return &Surface{dir: dir, view: view, scale: scale}, nil
}

// View returns the mounted print view
func (s *Surface) View() PrintView { return s.view }

// Scale is the raster scale factor relative to the view width
func (s *Surface) Scale() float64 { return s.scale }

// Dir returns the staging directory
func (s *Surface) Dir() string { return s.dir }

// Path joins name onto the staging directory
func (s *Surface) Path(name string) string { return filepath.Join(s.dir, name) }

// Asset returns a loaded image by reference
func (s *Surface) Asset(ref string) (image.Image, bool) {
	img, ok := s.assets[ref]
	return img, ok
}

func (s *Surface) mount(assets map[string]image.Image) {
	s.assets = assets
}

// Close tears the surface down. Safe to call more than once.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.assets = nil
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return nil
}
