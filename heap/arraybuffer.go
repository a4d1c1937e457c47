package heap

import (
	"fmt"

	"github.com/embedjs/vheap/internal/buf"
	"github.com/embedjs/vheap/internal/cellfmt"
)

// NewArrayBuffer allocates a typed view of length elements of type
// viewType over a freshly allocated string-chain backing store of
// length*viewType.Size() zero bytes.
func (p *Pool) NewArrayBuffer(viewType ABViewType, length int) (*Var, error) {
	backing, err := p.NewStringOfLength(length * viewType.Size())
	if err != nil {
		return nil, err
	}
	// The view's reference keeps the backing alive; the construction lock
	// is released either way.
	defer backing.Unlock()
	return p.newArrayBufferView(backing, 0, length, viewType)
}

// NewArrayBufferView creates a typed view of length elements of viewType
// over an existing backing string, starting at byteOffset, without copying
// the backing bytes. Takes a reference on backing.
func (p *Pool) NewArrayBufferView(backing *Var, byteOffset, length int, viewType ABViewType) (*Var, error) {
	if !backing.IsString() {
		return nil, fmt.Errorf("heap: NewArrayBufferView: %w", ErrTypeMismatch)
	}
	if byteOffset < 0 || byteOffset+length*viewType.Size() > backing.Length() {
		return nil, fmt.Errorf("heap: NewArrayBufferView: view exceeds backing store: %w", ErrIndexOutOfRange)
	}
	return p.newArrayBufferView(backing, byteOffset, length, viewType)
}

func (p *Pool) newArrayBufferView(backing *Var, byteOffset, length int, viewType ABViewType) (*Var, error) {
	r, err := p.Alloc(cellfmt.TagArrayBuffer)
	if err != nil {
		return nil, err
	}
	v := p.wrap(r)
	c := v.cell()
	c.data.ab = abDescriptor{
		byteOffset: uint32(byteOffset),
		length:     uint32(length),
		viewType:   viewType,
	}
	c.firstChild = backing.r
	p.reff(backing.r)
	return v, nil
}

// ABLength returns the number of elements (not bytes) in the view.
func (v *Var) ABLength() int {
	if !v.IsArrayBuffer() {
		return 0
	}
	return int(v.cell().data.ab.length)
}

// ABViewKind returns the view's element type.
func (v *Var) ABViewKind() ABViewType {
	return v.cell().data.ab.viewType
}

// backingBytes locks the backing string and returns its full contents.
func (v *Var) backingBytes() ([]byte, error) {
	c := v.cell()
	backing, err := v.p.Lock(c.firstChild)
	if err != nil {
		return nil, err
	}
	defer backing.Unlock()
	return backing.GetString(backing.Length())
}

// ABGet decodes and returns element i as a new locked numeric Var.
func (p *Pool) ABGet(ab *Var, i int) (*Var, error) {
	if !ab.IsArrayBuffer() {
		return nil, fmt.Errorf("heap: ABGet: %w", ErrTypeMismatch)
	}
	d := ab.cell().data.ab
	if i < 0 || i >= int(d.length) {
		return nil, fmt.Errorf("heap: ABGet: index %d: %w", i, ErrIndexOutOfRange)
	}
	bytes, err := ab.backingBytes()
	if err != nil {
		return nil, err
	}
	off := int(d.byteOffset) + i*d.viewType.Size()
	window, ok := buf.Slice(bytes, off, d.viewType.Size())
	if !ok {
		return nil, fmt.Errorf("heap: ABGet: backing store too short: %w", ErrIndexOutOfRange)
	}
	switch d.viewType {
	case ABUint8:
		return p.NewInt(int64(buf.U8(window)))
	case ABInt8:
		return p.NewInt(int64(buf.I8(window)))
	case ABUint16:
		return p.NewInt(int64(buf.U16LE(window)))
	case ABInt16:
		return p.NewInt(int64(buf.I16LE(window)))
	case ABUint32:
		return p.NewInt(int64(buf.U32LE(window)))
	case ABInt32:
		return p.NewInt(int64(buf.I32LE(window)))
	case ABFloat32:
		return p.NewFloat(float64(buf.F32LE(window)))
	case ABFloat64:
		return p.NewFloat(buf.F64LE(window))
	default:
		return nil, fmt.Errorf("heap: ABGet: unknown view type %d: %w", d.viewType, ErrTypeMismatch)
	}
}

// ABSet coerces value and writes it into element i of the view.
func (p *Pool) ABSet(ab *Var, i int, value *Var) error {
	if !ab.IsArrayBuffer() {
		return fmt.Errorf("heap: ABSet: %w", ErrTypeMismatch)
	}
	d := ab.cell().data.ab
	if i < 0 || i >= int(d.length) {
		return fmt.Errorf("heap: ABSet: index %d: %w", i, ErrIndexOutOfRange)
	}
	backing, err := p.Lock(ab.cell().firstChild)
	if err != nil {
		return err
	}
	defer backing.Unlock()

	full, err := backing.GetString(backing.Length())
	if err != nil {
		return err
	}
	off := int(d.byteOffset) + i*d.viewType.Size()
	window, ok := buf.Slice(full, off, d.viewType.Size())
	if !ok {
		return fmt.Errorf("heap: ABSet: backing store too short: %w", ErrIndexOutOfRange)
	}

	switch d.viewType {
	case ABUint8, ABInt8:
		buf.PutU8(window, uint8(value.GetInteger()))
	case ABUint16, ABInt16:
		buf.PutU16LE(window, uint16(value.GetInteger()))
	case ABUint32, ABInt32:
		buf.PutU32LE(window, uint32(value.GetInteger()))
	case ABFloat32:
		buf.PutF32LE(window, float32(value.GetFloat()))
	case ABFloat64:
		buf.PutF64LE(window, value.GetFloat())
	default:
		return fmt.Errorf("heap: ABSet: unknown view type %d: %w", d.viewType, ErrTypeMismatch)
	}
	return backing.SetString(full)
}
