package heap

import "github.com/embedjs/vheap/internal/cellfmt"

// ref is a small integer index into a Pool's cell array. ref 0 is the null
// reference. Unlike a pointer, a ref survives a pool grow (SetTotal) because
// it names a slot, not an address — see Pool.Alloc.
type ref uint32

const nullRef ref = 0

// ABViewType enumerates the element types of an array-buffer view. It is
// declared here, not in cellfmt, because it is part of the public Var surface.
type ABViewType uint8

const (
	ABUint8 ABViewType = iota
	ABInt8
	ABUint16
	ABInt16
	ABUint32
	ABInt32
	ABFloat32
	ABFloat64
)

// Size returns the number of bytes one element of this view occupies.
func (t ABViewType) Size() int {
	switch t {
	case ABUint8, ABInt8:
		return 1
	case ABUint16, ABInt16:
		return 2
	case ABUint32, ABInt32, ABFloat32:
		return 4
	case ABFloat64:
		return 8
	default:
		return 0
	}
}

// abDescriptor is the array-buffer-specific payload of a cell: a byte
// range within the backing string chain (referenced via cell.firstChild)
// plus the element type used to decode it.
type abDescriptor struct {
	byteOffset uint32
	length     uint32
	viewType   ABViewType
}

// nativeFn is the callback payload of a native-tagged cell. The pool and
// ref argument let a native function walk the heap it was invoked from;
// the bytecode/ABI layer in the embedding host supplies the actual
// behavior.
type nativeFn func(p *Pool, self ref, args []ref) (ref, error)

// cellData is a union-substitute: a small tagged struct where only the
// field matching the cell's current tag is meaningful. This trades a few
// bytes of padding for defined behavior instead of aliased pointer fields.
type cellData struct {
	str   [cellfmt.InlineStrExtLen]byte // inline string bytes (head uses InlineStrLen of these)
	i     int64
	f     float64
	b     bool
	nat   nativeFn
	ab    abDescriptor
}

// cell is the single allocation unit backing every runtime value.
//
//   - flags carries the variant tag, the is-name/native/fn-param bits, and
//     a saturating lock count.
//   - data holds the variant's payload (see cellData).
//   - nextSibling/prevSibling form a name's doubly linked position in its
//     parent's child list. On a string-extension cell these two fields
//     carry no meaning; cellData.str is sized to InlineStrExtLen so the
//     extra bytes live in a real field instead of an aliased pointer.
//   - refs is the logical reference count. On a string-extension cell it
//     holds the single reference from the previous link of its chain.
//   - firstChild/lastChild are polymorphic by tag: next string-extension /
//     first-or-last child name / name's value / array-buffer backing.
type cell struct {
	flags uint32
	data  cellData

	nextSibling ref
	prevSibling ref
	refs        uint32

	firstChild ref
	lastChild  ref
}

func (c *cell) tag() cellfmt.Tag {
	return cellfmt.Tag(c.flags & ((1 << cellfmt.FlagTagBits) - 1))
}

func (c *cell) setTag(t cellfmt.Tag) {
	c.flags = (c.flags &^ ((1 << cellfmt.FlagTagBits) - 1)) | uint32(t)
}

func (c *cell) isNameFlag() bool   { return c.flags&cellfmt.FlagNameBit != 0 }
func (c *cell) setNameFlag()       { c.flags |= cellfmt.FlagNameBit }
func (c *cell) isNative() bool     { return c.flags&cellfmt.FlagNativeBit != 0 }
func (c *cell) setNative()         { c.flags |= cellfmt.FlagNativeBit }
func (c *cell) isFnParam() bool    { return c.flags&cellfmt.FlagParamBit != 0 }
func (c *cell) setFnParam()        { c.flags |= cellfmt.FlagParamBit }

// isBuiltinName/setBuiltinName mark an object/array/function cell as
// carrying its own key inline in data.str, rather than being reached only
// through a separate name cell in a parent's child list — see
// Var.SetBuiltinName.
func (c *cell) isBuiltinName() bool { return c.flags&cellfmt.FlagBuiltinNameBit != 0 }
func (c *cell) setBuiltinName()     { c.flags |= cellfmt.FlagBuiltinNameBit }

func (c *cell) locks() uint32 {
	return (c.flags >> cellfmt.FlagLockShift) & ((1 << cellfmt.FlagLockBits) - 1)
}

func (c *cell) setLocks(n uint32) {
	const mask = uint32(((1 << cellfmt.FlagLockBits) - 1) << cellfmt.FlagLockShift)
	c.flags = (c.flags &^ mask) | ((n << cellfmt.FlagLockShift) & mask)
}

// isStringTag reports whether tag t is any string-head variant.
func isStringTag(t cellfmt.Tag) bool {
	return t >= cellfmt.TagString0 && t <= cellfmt.TagStringMax
}

func isStringExtTag(t cellfmt.Tag) bool {
	return t >= cellfmt.TagStringExt0 && t <= cellfmt.TagStringExtMax
}

func isNameStringTag(t cellfmt.Tag) bool {
	return t >= cellfmt.TagNameString0 && t <= cellfmt.TagNameStringMax
}

// inlineStrLen returns the character count encoded directly in a
// string-head or inline-named-key tag.
func inlineStrLen(t cellfmt.Tag) int {
	switch {
	case isStringTag(t):
		return int(t - cellfmt.TagString0)
	case isNameStringTag(t):
		return int(t - cellfmt.TagNameString0)
	default:
		return 0
	}
}

func inlineStrExtLen(t cellfmt.Tag) int {
	if isStringExtTag(t) {
		return int(t - cellfmt.TagStringExt0)
	}
	return 0
}

// tagStringN returns the string-head tag encoding n inline bytes;
// tagStringExtN and tagNameStringN do the same for extension and name cells.
func tagStringN(n int) cellfmt.Tag      { return cellfmt.TagString0 + cellfmt.Tag(n) }
func tagStringExtN(n int) cellfmt.Tag   { return cellfmt.TagStringExt0 + cellfmt.Tag(n) }
func tagNameStringN(n int) cellfmt.Tag  { return cellfmt.TagNameString0 + cellfmt.Tag(n) }

// isComposite reports whether the tag uses firstChild/lastChild as a child
// list of names (object/array/function), as opposed to a single pointee.
func isCompositeTag(t cellfmt.Tag) bool {
	return t == cellfmt.TagArray || t == cellfmt.TagObject || t == cellfmt.TagFunction
}
