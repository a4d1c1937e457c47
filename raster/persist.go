package raster

import (
	"fmt"

	"github.com/embedjs/vheap/heap"
	"github.com/embedjs/vheap/internal/buf"
)

// hiddenGfxKey is the child name a surface's persisted state lives under.
// It begins with 0xFF, the marker Var.IsNameInternal checks for, keeping
// it out of any script-visible for-in enumeration of the owning object.
var hiddenGfxKey = []byte{0xFF, 'g', 'f', 'x'}

// gfxStateSize is the byte length of a persisted Surface: width, height,
// bpp, fgColor, bgColor, each a little-endian uint32.
const gfxStateSize = 4 * 5

// SaveToVar persists s's dimensions and colors (but not its Sink, which has
// no heap representation of its own) as a hidden string-valued child of
// parent, creating the child the first time and overwriting its value in
// place on subsequent calls.
func SaveToVar(p *heap.Pool, parent *heap.Var, s *Surface) error {
	raw := make([]byte, gfxStateSize)
	buf.PutU32LE(raw[0:], uint32(s.Width))
	buf.PutU32LE(raw[4:], uint32(s.Height))
	buf.PutU32LE(raw[8:], uint32(s.BPP))
	buf.PutU32LE(raw[12:], s.FGColor)
	buf.PutU32LE(raw[16:], s.BGColor)

	name, err := p.FindChildFromString(parent, hiddenGfxKey)
	if err != nil {
		return fmt.Errorf("raster: SaveToVar: %w", err)
	}
	if name == nil {
		str, err := p.NewString(raw)
		if err != nil {
			return fmt.Errorf("raster: SaveToVar: %w", err)
		}
		name, err = p.AddNamedChildValue(parent, hiddenGfxKey, str)
		str.Unlock()
		if err != nil {
			return fmt.Errorf("raster: SaveToVar: %w", err)
		}
		name.Unlock()
		return nil
	}
	defer name.Unlock()
	val, err := name.GetValueOfName()
	if err != nil {
		return fmt.Errorf("raster: SaveToVar: %w", err)
	}
	defer val.Unlock()
	return val.SetString(raw)
}

// LoadFromVar reads back a Surface previously persisted with SaveToVar,
// attaching sink as its pixel backend; the Sink itself is never part of
// the persisted state and is always re-dispatched on load. It reports
// ok=false if parent carries no saved state yet.
func LoadFromVar(p *heap.Pool, parent *heap.Var, sink Sink) (s *Surface, ok bool, err error) {
	name, err := p.FindChildFromString(parent, hiddenGfxKey)
	if err != nil {
		return nil, false, fmt.Errorf("raster: LoadFromVar: %w", err)
	}
	if name == nil {
		return nil, false, nil
	}
	defer name.Unlock()
	val, err := name.GetValueOfName()
	if err != nil {
		return nil, false, fmt.Errorf("raster: LoadFromVar: %w", err)
	}
	defer val.Unlock()
	raw, err := val.GetString(gfxStateSize)
	if err != nil {
		return nil, false, fmt.Errorf("raster: LoadFromVar: %w", err)
	}
	if len(raw) < gfxStateSize {
		return nil, false, fmt.Errorf("raster: LoadFromVar: saved state too short (%d bytes)", len(raw))
	}
	s = &Surface{
		Width:       int(buf.U32LE(raw[0:])),
		Height:      int(buf.U32LE(raw[4:])),
		BPP:         int(buf.U32LE(raw[8:])),
		FGColor:     buf.U32LE(raw[12:]),
		BGColor:     buf.U32LE(raw[16:]),
		Sink:        sink,
		Interrupter: noInterrupt{},
	}
	return s, true, nil
}
