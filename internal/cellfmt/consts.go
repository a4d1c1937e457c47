// Package cellfmt houses the low-level constants describing how a heap cell's
// flags word is laid out: the variant tag range, the lock-count bit range,
// and the inline string capacities for head and extension cells. The goal is
// to keep these decisions in one place, independent of the public heap API,
// so the pool and the variable model agree on byte-for-byte layout without
// duplicating magic numbers.
package cellfmt

// Tag identifies the variant a cell currently holds. It occupies the low
// FlagTagBits bits of a cell's flags word.
type Tag uint8

// InlineStrLen is the number of string bytes a string-head cell can store
// before spilling into an extension chain.
const InlineStrLen = 8

// InlineStrExtLen is the number of string bytes a string-extension cell can
// store. It is larger than InlineStrLen because an extension cell never
// needs nextSibling/prevSibling (only head cells are named/chained that way),
// so six more bytes of character storage are sized into cellData.str — see
// cell.go's cellData for how this is modeled without unsafe aliasing. An
// extension cell's refs field stays in use: it counts the chain link's
// single reference.
const InlineStrExtLen = InlineStrLen + 6

const (
	TagUnused Tag = iota
	TagRoot
	TagNull
	TagUndefined
	TagBoolean
	TagInteger
	TagFloat
	TagPin
	TagArray
	TagObject
	TagFunction
	TagArrayBuffer
	TagNameInt
	TagArrayBufferName

	// TagString0 is the first of a contiguous run of string-head tags; the
	// inline character count is encoded directly in the tag value, i.e.
	// TagString0+n means "string head holding n inline bytes, with overflow
	// chained through firstChild". The run spans InlineStrLen+1 values
	// (n = 0..InlineStrLen inclusive).
	TagString0
)

// TagStringMax is the last tag in the string-head run.
const TagStringMax = TagString0 + InlineStrLen

// TagStringExt0 is the first of a contiguous run of string-extension tags,
// analogous to TagString0 but for extension cells.
const TagStringExt0 = TagStringMax + 1

// TagStringExtMax is the last tag in the string-extension run.
const TagStringExtMax = TagStringExt0 + InlineStrExtLen

// TagNameString0 is the first of a contiguous run of "this cell is a name
// whose key is stored inline" tags, same encoding as TagString0.
const TagNameString0 = TagStringExtMax + 1

// TagNameStringMax is the last tag in the inline-named-key run.
const TagNameStringMax = TagNameString0 + InlineStrLen

// flags word layout: [0:FlagTagBits) tag, then single-bit flags, then a
// saturating lock count in the high bits.
const (
	FlagTagBits   = 8 // low 8 bits hold Tag
	FlagNameBit        = 1 << 8
	FlagNativeBit      = 1 << 9
	FlagParamBit       = 1 << 10
	FlagBuiltinNameBit = 1 << 11
	FlagLockShift      = 12
	FlagLockBits       = 6

	// LockMax is the saturating maximum lock count a cell can carry.
	LockMax = (1 << FlagLockBits) - 1
)
