package pixelsink

// Callback is a raster.Sink that forwards every pixel operation to
// host-supplied functions, so the embedder (or a test harness) can
// observe drawing calls without this package knowing anything about the
// display technology underneath. The "host" is simply whatever Go
// closures the embedder supplies; script-value marshaling belongs to the
// embedding interpreter, not here.
type Callback struct {
	SetPixelFunc func(x, y int, color uint32)
	GetPixelFunc func(x, y int) uint32
	FillRectFunc func(x1, y1, x2, y2 int, color uint32)
}

// SetPixel implements raster.Sink, forwarding to SetPixelFunc if set.
func (c *Callback) SetPixel(x, y int, color uint32) {
	if c.SetPixelFunc != nil {
		c.SetPixelFunc(x, y, color)
	}
}

// GetPixel implements raster.Sink, forwarding to GetPixelFunc if set, or
// returning 0 otherwise.
func (c *Callback) GetPixel(x, y int) uint32 {
	if c.GetPixelFunc != nil {
		return c.GetPixelFunc(x, y)
	}
	return 0
}

// FillRect implements raster.Sink. If FillRectFunc is unset it falls back
// to a per-pixel SetPixel scan, the default for a backend with no
// dedicated block-fill command.
func (c *Callback) FillRect(x1, y1, x2, y2 int, color uint32) {
	if c.FillRectFunc != nil {
		c.FillRectFunc(x1, y1, x2, y2, color)
		return
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.SetPixel(x, y, color)
		}
	}
}
