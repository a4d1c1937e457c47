package raster

// FallbackSink adapts a backend that only knows how to set and get single
// pixels into a full Sink, synthesizing FillRect as a row/column SetPixel
// scan for display drivers without their own block-fill primitive.
// SetPixelFunc must be supplied; GetPixelFunc may be nil, in which case
// every read returns 0.
type FallbackSink struct {
	SetPixelFunc func(x, y int, color uint32)
	GetPixelFunc func(x, y int) uint32
}

// SetPixel implements Sink.
func (f *FallbackSink) SetPixel(x, y int, color uint32) {
	f.SetPixelFunc(x, y, color)
}

// GetPixel implements Sink, returning 0 if GetPixelFunc is unset.
func (f *FallbackSink) GetPixel(x, y int) uint32 {
	if f.GetPixelFunc == nil {
		return 0
	}
	return f.GetPixelFunc(x, y)
}

// FillRect implements Sink as an unconditional per-pixel scan; backends
// with a faster block fill belong in the pixelsink package's dedicated
// sinks instead.
func (f *FallbackSink) FillRect(x1, y1, x2, y2 int, color uint32) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			f.SetPixel(x, y, color)
		}
	}
}
