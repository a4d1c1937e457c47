// Package raster implements a small software rasteriser: lines, rects,
// scanline polygon fill, and bitmap/vector text. Pixel storage is always
// routed through a pluggable Sink rather than owned directly, so the same
// drawing code works whether the backing store is an in-memory array
// buffer, a host callback, or a real LCD controller.
package raster

import "fmt"

// Sink is the pluggable pixel-storage backend every drawing primitive
// ultimately calls through. Concrete sinks (heap-backed array buffer,
// host callback) live in the sibling pixelsink package.
type Sink interface {
	SetPixel(x, y int, color uint32)
	GetPixel(x, y int) uint32
	FillRect(x1, y1, x2, y2 int, color uint32)
}

// Interrupter lets a long-running scan (polygon fill, in particular)
// cooperatively check whether the host wants to abort. Pixel writes made
// before the abort stay committed; drawing never mutates heap structure,
// so an abort cannot corrupt anything.
type Interrupter interface {
	Interrupted() bool
}

// noInterrupt is the zero-value Interrupter: drawing never aborts.
type noInterrupt struct{}

func (noInterrupt) Interrupted() bool { return false }

// Surface is the rasteriser's state: target dimensions, bit depth, current
// foreground/background colors, and the Sink pixels are read from and
// written to.
type Surface struct {
	Width, Height int
	BPP           int // bits per pixel; color values are masked to this width
	FGColor       uint32
	BGColor       uint32

	Sink        Sink
	Interrupter Interrupter
}

// NewSurface creates a Surface of the given dimensions backed by sink. bpp
// must be between 1 and 32.
func NewSurface(width, height, bpp int, sink Sink) (*Surface, error) {
	if bpp < 1 || bpp > 32 {
		return nil, fmt.Errorf("raster: NewSurface: invalid bpp %d", bpp)
	}
	return &Surface{
		Width:       width,
		Height:      height,
		BPP:         bpp,
		Sink:        sink,
		Interrupter: noInterrupt{},
	}, nil
}

func (s *Surface) colorMask(c uint32) uint32 {
	if s.BPP >= 32 {
		return c
	}
	return c & ((1 << uint(s.BPP)) - 1)
}

func (s *Surface) interrupted() bool {
	return s.Interrupter != nil && s.Interrupter.Interrupted()
}

// SetPixel writes color at (x, y), silently doing nothing if the
// coordinate is out of bounds.
func (s *Surface) SetPixel(x, y int, color uint32) {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return
	}
	s.Sink.SetPixel(x, y, s.colorMask(color))
}

// GetPixel reads the pixel at (x, y).
func (s *Surface) GetPixel(x, y int) uint32 {
	return s.Sink.GetPixel(x, y)
}

// FillRect fills the (inclusive) rectangle between (x1,y1) and (x2,y2)
// with color, normalizing reversed corners first.
func (s *Surface) FillRect(x1, y1, x2, y2 int, color uint32) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	s.Sink.FillRect(x1, y1, x2, y2, s.colorMask(color))
}

// Clear fills the whole surface with the background color.
func (s *Surface) Clear() {
	fg := s.FGColor
	s.FGColor = s.BGColor
	s.FillRect(0, 0, s.Width-1, s.Height-1, s.FGColor)
	s.FGColor = fg
}

// DrawRect draws the unfilled outline of the rectangle using four
// zero-thickness FillRect calls; a fill is cheaper than four DrawLines.
func (s *Surface) DrawRect(x1, y1, x2, y2 int) {
	s.FillRect(x1, y1, x2, y1, s.FGColor)
	s.FillRect(x2, y1, x2, y2, s.FGColor)
	s.FillRect(x1, y2, x2, y2, s.FGColor)
	s.FillRect(x1, y2, x1, y1, s.FGColor)
}

// DrawLine draws a line from (x1,y1) to (x2,y2) with a fixed-point 8.8
// Bresenham-style scan: the longer axis is walked one pixel at a time
// while the shorter axis position accumulates in a 24.8 fixed-point
// accumulator, the +128 bias rounding to nearest.
func (s *Surface) DrawLine(x1, y1, x2, y2 int) {
	xl := x2 - x1
	yl := y2 - y1
	if xl < 0 {
		xl = -xl
	} else if xl == 0 {
		xl = 1
	}
	if yl < 0 {
		yl = -yl
	} else if yl == 0 {
		yl = 1
	}

	if xl > yl {
		if x1 > x2 {
			x1, x2 = x2, x1
			y1, y2 = y2, y1
		}
		pos := (y1 << 8) + 128
		step := ((y2 - y1) << 8) / xl
		for x := x1; x <= x2; x++ {
			s.SetPixel(x, pos>>8, s.FGColor)
			pos += step
		}
	} else {
		if y1 > y2 {
			x1, x2 = x2, x1
			y1, y2 = y2, y1
		}
		pos := (x1 << 8) + 128
		step := ((x2 - x1) << 8) / yl
		for y := y1; y <= y2; y++ {
			s.SetPixel(pos>>8, y, s.FGColor)
			pos += step
		}
	}
}

// Point is a single polygon vertex.
type Point struct{ X, Y int }

// createVertScanLines updates the per-column [miny, maxy] envelope for one
// polygon edge with the same 24.8-fixed-point stepping DrawLine uses.
func createVertScanLines(width int, miny, maxy []int, x1, y1, x2, y2 int) {
	if x2 < x1 {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}
	yh := y1 * 256
	xl := x2 - x1
	if xl == 0 {
		xl = 1
	}
	stepy := (y2 - y1) * 256 / xl
	for x := x1; x <= x2; x++ {
		y := yh >> 8
		// Crossings are signed 16-bit quantities; the fixed-point step can
		// run past that range on degenerate edges, so clamp.
		if y < -32768 {
			y = -32768
		}
		if y > 32767 {
			y = 32767
		}
		if x >= 0 && x < width {
			if y < miny[x] {
				miny[x] = y
			}
			if y > maxy[x] {
				maxy[x] = y
			}
		}
		yh += stepy
	}
}

// FillPoly fills the polygon described by verts using a vertical scanline
// algorithm: build a per-column [miny, maxy] envelope from every edge,
// then sweep columns left to right, coalescing adjacent columns with an
// identical envelope into a single FillRect call. The surface's
// Interrupter is polled between coalesced spans.
func (s *Surface) FillPoly(verts []Point) {
	if len(verts) < 3 {
		return
	}
	minx, maxx := s.Width-1, 0
	for _, v := range verts {
		if v.X < minx {
			minx = v.X
		}
		if v.X > maxx {
			maxx = v.X
		}
	}
	if minx < 0 {
		minx = 0
	}
	if maxx >= s.Width {
		maxx = s.Width - 1
	}
	if minx > maxx {
		return
	}

	miny := make([]int, s.Width)
	maxy := make([]int, s.Width)
	for x := minx; x <= maxx; x++ {
		miny[x] = s.Height - 1
		maxy[x] = 0
	}

	j := len(verts) - 1
	for i := range verts {
		createVertScanLines(s.Width, miny, maxy, verts[j].X, verts[j].Y, verts[i].X, verts[i].Y)
		j = i
	}

	for x := minx; x <= maxx; x++ {
		if maxy[x] < miny[x] {
			continue
		}
		lo, hi := miny[x], maxy[x]
		if lo < 0 {
			lo = 0
		}
		if hi >= s.Height {
			hi = s.Height - 1
		}
		oldx := x
		for x < maxx && miny[x+1] == miny[oldx] && maxy[x+1] == maxy[oldx] {
			x++
		}
		s.FillRect(oldx, lo, x, hi, s.FGColor)
		if s.interrupted() {
			break
		}
	}
}

// Bitmap1Bit blits a 1-bit-per-pixel bitmap of the given width/height at
// (x1, y1): set bits draw FGColor, clear bits draw BGColor. Data is
// row-major, LSB first.
func (s *Surface) Bitmap1Bit(x1, y1, width, height int, data []byte) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bitOffset := x + y*width
			bit := (data[bitOffset>>3] >> uint(bitOffset&7)) & 1
			color := s.BGColor
			if bit != 0 {
				color = s.FGColor
			}
			s.SetPixel(x1+x, y1+y, color)
		}
	}
}

// DrawChar draws a single character from the built-in 4x6 bitmap font at
// (x, y).
func (s *Surface) DrawChar(x, y int, ch byte) {
	glyph, ok := font4x6Glyph(ch)
	if !ok {
		return
	}
	for row := 0; row < 6; row++ {
		bits := glyph[row]
		for col := 0; col < 4; col++ {
			if bits&(1<<uint(3-col)) != 0 {
				s.SetPixel(x+col, y+row, s.FGColor)
			}
		}
	}
}

// DrawString draws str starting at (x1, y1) using the 4x6 bitmap font,
// advancing 4 pixels per character.
func (s *Surface) DrawString(x1, y1 int, str string) {
	for i := 0; i < len(str); i++ {
		s.DrawChar(x1, y1, str[i])
		x1 += 4
	}
}

// FillVectorChar draws character ch from the built-in scalable vector
// font, scaled to size, with its top-left at (x1, y1), and returns the
// character's advance width in pixels. Each sub-polygon ends at a point
// whose y byte carries the separator high bit.
func (s *Surface) FillVectorChar(x1, y1, size int, ch byte) int {
	if size < 0 {
		return 0
	}
	glyph, ok := vectorFontGlyph(ch)
	if !ok {
		return 0
	}
	var verts []Point
	for _, pt := range glyph.points {
		px := x1 + (int(pt.x&0x7f)*size+vectorFontPolySize/2)/vectorFontPolySize
		py := y1 + (int(pt.y&0x7f)*size+vectorFontPolySize/2)/vectorFontPolySize
		verts = append(verts, Point{px, py})
		if pt.y&vectorFontPolySeparator != 0 {
			s.FillPoly(verts)
			if s.interrupted() {
				return glyph.advance(size)
			}
			verts = verts[:0]
		}
	}
	return glyph.advance(size)
}

// VectorCharWidth returns the advance width of ch at the given size
// without drawing it.
func (s *Surface) VectorCharWidth(size int, ch byte) int {
	if size < 0 {
		return 0
	}
	glyph, ok := vectorFontGlyph(ch)
	if !ok {
		return 0
	}
	return glyph.advance(size)
}

// Splash draws a small identifying banner, a minimal smoke test of the
// string drawing path on real hardware.
func (s *Surface) Splash(title string) {
	s.DrawString(0, 0, title)
	s.DrawString(0, 6, "  embedded heap demo")
}
