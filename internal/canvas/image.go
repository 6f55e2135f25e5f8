package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// kappa is the cubic Bezier control distance for a quarter circle.
const kappa = 0.5522847498

// ImageSurface rasterizes logical drawing commands onto an RGBA image.
// Shapes are anti-aliased by the x/image vector rasterizer.
type ImageSurface struct {
	logical float64
	scale   float64
	img     *image.RGBA
	z       *vector.Rasterizer
}

// NewImageSurface creates a surface of logicalSize units backed by a
// pixels x pixels image.
func NewImageSurface(logicalSize float64, pixels int) *ImageSurface {
	if pixels < 1 {
		pixels = 1
	}
	if logicalSize <= 0 {
		logicalSize = float64(pixels)
	}
	return &ImageSurface{
		logical: logicalSize,
		scale:   float64(pixels) / logicalSize,
		img:     image.NewRGBA(image.Rect(0, 0, pixels, pixels)),
		z:       vector.NewRasterizer(pixels, pixels),
	}
}

// Size returns the logical size.
func (s *ImageSurface) Size() (float64, float64) {
	return s.logical, s.logical
}

// Image returns the backing image. It is overwritten by later draws.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

// Pixels returns the side length of the backing image.
func (s *ImageSurface) Pixels() int {
	return s.img.Bounds().Dx()
}

// At returns the pixel at (x, y), or transparent when out of range.
func (s *ImageSurface) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(s.img.Bounds())) {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// Clear resets every pixel to transparent.
func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// FillRect fills a rectangle given in logical units.
func (s *ImageSurface) FillRect(x, y, w, h float64, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	s.begin()
	s.moveTo(x, y)
	s.lineTo(x+w, y)
	s.lineTo(x+w, y+h)
	s.lineTo(x, y+h)
	s.fill(c)
}

// FillCircle fills a circle given in logical units.
func (s *ImageSurface) FillCircle(cx, cy, r float64, c color.RGBA) {
	if r <= 0 {
		return
	}
	k := r * kappa
	s.begin()
	s.moveTo(cx+r, cy)
	s.cubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	s.cubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	s.cubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	s.cubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	s.fill(c)
}

// StrokeLine draws a segment as a quad of the given width.
func (s *ImageSurface) StrokeLine(x1, y1, x2, y2, width float64, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 || width <= 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	s.begin()
	s.moveTo(x1+nx, y1+ny)
	s.lineTo(x2+nx, y2+ny)
	s.lineTo(x2-nx, y2-ny)
	s.lineTo(x1-nx, y1-ny)
	s.fill(c)
}

func (s *ImageSurface) begin() {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
}

func (s *ImageSurface) moveTo(x, y float64) {
	s.z.MoveTo(float32(x*s.scale), float32(y*s.scale))
}

func (s *ImageSurface) lineTo(x, y float64) {
	s.z.LineTo(float32(x*s.scale), float32(y*s.scale))
}

func (s *ImageSurface) cubeTo(bx, by, cx, cy, dx, dy float64) {
	f := func(v float64) float32 { return float32(v * s.scale) }
	s.z.CubeTo(f(bx), f(by), f(cx), f(cy), f(dx), f(dy))
}

func (s *ImageSurface) fill(c color.RGBA) {
	s.z.ClosePath()
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
}
