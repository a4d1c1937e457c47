// Package pixelsink provides concrete raster.Sink implementations. The
// raster package itself never touches pixel storage directly, only ever
// through the Sink one of these adapters installs.
package pixelsink

import (
	"fmt"

	"github.com/embedjs/vheap/heap"
)

// ArrayBuffer is a raster.Sink backed directly by a heap array-buffer
// view: pixel reads and writes become ABGet/ABSet calls against a typed
// view whose
// backing bytes live in the same cell pool as every other runtime value,
// so a framebuffer can be passed around, named as an object property, and
// garbage collected exactly like any other heap value.
type ArrayBuffer struct {
	pool         *heap.Pool
	buffer       *heap.Var // locked for the sink's lifetime
	width        int
	bpp          int
	bytesPerPix  int
	littleEndian bool
}

// NewArrayBuffer creates a sink over a freshly allocated array buffer sized
// width*height*bpp bits, matching the element type to bpp (up to 8 bpp
// maps to ABUint8, up to 16 to ABUint16, anything wider to ABUint32; the
// caller is responsible for sub-byte packing in 1-bit and 4-bit modes).
func NewArrayBuffer(pool *heap.Pool, width, height, bpp int) (*ArrayBuffer, error) {
	viewType, bytesPerPix := viewTypeForBPP(bpp)
	length := width * height
	if bpp < 8 {
		length = (width*height*bpp + 7) / 8
	}
	buf, err := pool.NewArrayBuffer(viewType, length)
	if err != nil {
		return nil, fmt.Errorf("pixelsink: NewArrayBuffer: %w", err)
	}
	return &ArrayBuffer{
		pool:         pool,
		buffer:       buf,
		width:        width,
		bpp:          bpp,
		bytesPerPix:  bytesPerPix,
		littleEndian: true,
	}, nil
}

func viewTypeForBPP(bpp int) (heap.ABViewType, int) {
	switch {
	case bpp <= 8:
		return heap.ABUint8, 1
	case bpp <= 16:
		return heap.ABUint16, 2
	default:
		return heap.ABUint32, 4
	}
}

// Buffer returns the locked backing array-buffer Var, e.g. to expose as an
// object property so script-visible code can read the framebuffer too.
func (a *ArrayBuffer) Buffer() *heap.Var { return a.buffer }

// Close releases the sink's lock on its backing buffer.
func (a *ArrayBuffer) Close() { a.buffer.Unlock() }

func (a *ArrayBuffer) index(x, y int) int {
	if a.bpp >= 8 {
		return y*a.width + x
	}
	return (y*a.width + x) * a.bpp / 8
}

// SetPixel implements raster.Sink.
func (a *ArrayBuffer) SetPixel(x, y int, color uint32) {
	n, err := a.pool.NewInt(int64(color))
	if err != nil {
		return
	}
	defer n.Unlock()
	_ = a.pool.ABSet(a.buffer, a.index(x, y), n)
}

// GetPixel implements raster.Sink.
func (a *ArrayBuffer) GetPixel(x, y int) uint32 {
	v, err := a.pool.ABGet(a.buffer, a.index(x, y))
	if err != nil {
		return 0
	}
	defer v.Unlock()
	return uint32(v.GetInteger())
}

// FillRect implements raster.Sink with a straightforward per-pixel loop;
// the array-buffer view has no run-length fill primitive of its own, so
// there is no faster path to take the way a real LCD driver's block-fill
// command would allow.
func (a *ArrayBuffer) FillRect(x1, y1, x2, y2 int, color uint32) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			a.SetPixel(x, y, color)
		}
	}
}
