package canvas

import (
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// WritePNG encodes the surface's pixels as PNG.
func (s *ImageSurface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("canvas: cannot encode png: %w", err)
	}
	return nil
}

// SavePNG writes the surface to path, creating parent directories.
func (s *ImageSurface) SavePNG(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("canvas: cannot create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("canvas: cannot create %s: %w", path, err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
