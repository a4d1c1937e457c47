package heap

import (
	"fmt"
	"math"
	"strconv"

	"github.com/embedjs/vheap/internal/cellfmt"
)

// NewNull allocates a locked null value.
func (p *Pool) NewNull() (*Var, error) { return p.allocSimple(cellfmt.TagNull) }

// NewUndefined allocates a locked undefined value.
func (p *Pool) NewUndefined() (*Var, error) { return p.allocSimple(cellfmt.TagUndefined) }

func (p *Pool) allocSimple(t cellfmt.Tag) (*Var, error) {
	r, err := p.Alloc(t)
	if err != nil {
		return nil, err
	}
	return p.wrap(r), nil
}

// NewBool allocates a locked boolean value.
func (p *Pool) NewBool(b bool) (*Var, error) {
	v, err := p.allocSimple(cellfmt.TagBoolean)
	if err != nil {
		return nil, err
	}
	v.cell().data.b = b
	return v, nil
}

// NewInt allocates a locked integer value.
func (p *Pool) NewInt(n int64) (*Var, error) {
	v, err := p.allocSimple(cellfmt.TagInteger)
	if err != nil {
		return nil, err
	}
	v.cell().data.i = n
	return v, nil
}

// NewFloat allocates a locked floating-point value.
func (p *Pool) NewFloat(f float64) (*Var, error) {
	v, err := p.allocSimple(cellfmt.TagFloat)
	if err != nil {
		return nil, err
	}
	v.cell().data.f = f
	return v, nil
}

// NewArray allocates a locked, empty array.
func (p *Pool) NewArray() (*Var, error) { return p.allocSimple(cellfmt.TagArray) }

// NewObject allocates a locked, empty object.
func (p *Pool) NewObject() (*Var, error) { return p.allocSimple(cellfmt.TagObject) }

// NewFunction allocates a locked, empty function value. If nat is non-nil
// the function is native: nat is stored on the cell and IsNativeFunction
// reports true. This package has no call mechanism; invoking nat, or any
// bytecode, is left to the embedding host.
func (p *Pool) NewFunction(nat nativeFn) (*Var, error) {
	v, err := p.allocSimple(cellfmt.TagFunction)
	if err != nil {
		return nil, err
	}
	if nat != nil {
		v.cell().data.nat = nat
		v.cell().setNative()
	}
	return v, nil
}

// NewFromPin wraps a host-supplied pin/IO number as a pin value. The
// pin/IO layer itself lives in the embedding host; this package only
// stores the number.
func (p *Pool) NewFromPin(pin int) (*Var, error) {
	v, err := p.allocSimple(cellfmt.TagPin)
	if err != nil {
		return nil, err
	}
	v.cell().data.i = int64(pin)
	return v, nil
}

// MakeIntoName converts this (normally freshly allocated, unattached) cell
// into a name carrying key inline, ready to be linked into a parent's child
// list by AddNamedChild. The name does not yet own a value; SetValueOfName
// installs one.
//
// Unlike a string head, a name cell's firstChild already holds the value it
// points to, so a key cannot spill into an extension chain the way a
// string's overflow does. Keys are capped at cellfmt.InlineStrLen bytes:
// a longer key is rejected with ErrIndexOutOfRange, here and in AddName,
// which calls this. Keys are never chained into extension cells.
func (v *Var) MakeIntoName(key []byte) error {
	if len(key) > cellfmt.InlineStrLen {
		return fmt.Errorf("heap: MakeIntoName: key of %d bytes exceeds %d-byte limit: %w", len(key), cellfmt.InlineStrLen, ErrIndexOutOfRange)
	}
	c := v.cell()
	c.setNameFlag()
	copy(c.data.str[:], key)
	c.setTag(tagNameStringN(len(key)))
	return nil
}

// --- Type predicates ------------------------------------------------------
//
// Each predicate is a tag-range check; no cell state beyond flags is read.

func (v *Var) IsInt() bool       { return v.tag() == cellfmt.TagInteger }
func (v *Var) IsFloat() bool     { return v.tag() == cellfmt.TagFloat }
func (v *Var) IsBoolean() bool   { return v.tag() == cellfmt.TagBoolean }
func (v *Var) IsNull() bool      { return v.tag() == cellfmt.TagNull }
func (v *Var) IsUndefined() bool { return v.tag() == cellfmt.TagUndefined }
func (v *Var) IsPin() bool       { return v.tag() == cellfmt.TagPin }
func (v *Var) IsArray() bool     { return v.tag() == cellfmt.TagArray }
func (v *Var) IsObject() bool    { return v.tag() == cellfmt.TagObject }
func (v *Var) IsFunction() bool  { return v.tag() == cellfmt.TagFunction }
func (v *Var) IsArrayBuffer() bool {
	return v.tag() == cellfmt.TagArrayBuffer || v.tag() == cellfmt.TagArrayBufferName
}

func (v *Var) IsString() bool {
	t := v.tag()
	return isStringTag(t) || isStringExtTag(t)
}

func (v *Var) IsName() bool { return v.cell().isNameFlag() }

// IsNameInternal reports whether this name's key begins with the 0xFF
// marker byte reserved for hidden properties.
func (v *Var) IsNameInternal() bool {
	key := v.NameKey()
	return len(key) > 0 && key[0] == 0xFF
}

func (v *Var) IsNumeric() bool { return v.IsInt() || v.IsFloat() || v.IsBoolean() }

func (v *Var) IsIterable() bool {
	return v.IsArray() || v.IsObject() || v.IsFunction() || v.IsString() || v.IsArrayBuffer()
}

func (v *Var) IsNativeFunction() bool { return v.IsFunction() && v.cell().isNative() }
func (v *Var) IsFunctionParameter() bool { return v.cell().isFnParam() }

// --- Coercions --------------------------------------------------------------

// GetInteger returns the value coerced to an int64, truncating floats and
// converting booleans to 0/1. Strings are parsed as base-10 integers;
// any other value, or a string that does not parse, coerces to 0.
func (v *Var) GetInteger() int64 {
	switch {
	case v.IsInt():
		return v.cell().data.i
	case v.IsFloat():
		return int64(v.cell().data.f)
	case v.IsBoolean():
		if v.cell().data.b {
			return 1
		}
		return 0
	case v.IsString():
		full, err := v.GetString(v.Length())
		if err != nil {
			return 0
		}
		n, err := strconv.ParseInt(string(full), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// GetFloat returns the value coerced to a float64; NaN for non-numeric,
// non-string values.
func (v *Var) GetFloat() float64 {
	switch {
	case v.IsFloat():
		return v.cell().data.f
	case v.IsInt():
		return float64(v.cell().data.i)
	case v.IsBoolean():
		if v.cell().data.b {
			return 1
		}
		return 0
	case v.IsString():
		full, err := v.GetString(v.Length())
		if err != nil {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(string(full), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// GetBool coerces the value to a boolean using script truthiness rules:
// 0, NaN, empty string, null, and undefined are false.
func (v *Var) GetBool() bool {
	switch {
	case v.IsBoolean():
		return v.cell().data.b
	case v.IsInt():
		return v.cell().data.i != 0
	case v.IsFloat():
		f := v.cell().data.f
		return f != 0 && !math.IsNaN(f)
	case v.IsString():
		return v.Length() > 0
	case v.IsNull(), v.IsUndefined():
		return false
	default:
		return true
	}
}

// AsNumber returns a new locked numeric Var (int or float) representing
// this value's numeric coercion.
func (v *Var) AsNumber() (*Var, error) {
	if v.IsInt() {
		return v.p.NewInt(v.cell().data.i)
	}
	return v.p.NewFloat(v.GetFloat())
}

// AsString returns a new locked string Var holding this value's string
// representation. If unlockSource is true, v is unlocked before returning,
// an ownership-transfer convenience for call chains.
func (v *Var) AsString(unlockSource bool) (*Var, error) {
	var s string
	switch {
	case v.IsString():
		full, err := v.GetString(v.Length())
		if err != nil {
			return nil, err
		}
		s = string(full)
	case v.IsInt():
		s = strconv.FormatInt(v.cell().data.i, 10)
	case v.IsFloat():
		s = formatFloat(v.cell().data.f)
	case v.IsBoolean():
		s = strconv.FormatBool(v.cell().data.b)
	case v.IsNull():
		s = "null"
	case v.IsUndefined():
		s = "undefined"
	case v.IsArray(), v.IsObject():
		s = "[object]"
	case v.IsFunction():
		s = "function"
	default:
		s = ""
	}
	if unlockSource {
		v.Unlock()
	}
	return v.p.NewString([]byte(s))
}

func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// GetConstString returns a static string for the fixed singletons — true,
// false, null, undefined — without allocating. As a convenience it also
// hands back the inline bytes of a short (no extension chain) string head.
// Everything else reports ok=false so the caller falls back to
// AsString/GetString.
func (v *Var) GetConstString() (s string, ok bool) {
	c := v.cell()
	switch c.tag() {
	case cellfmt.TagBoolean:
		if c.data.b {
			return "true", true
		}
		return "false", true
	case cellfmt.TagNull:
		return "null", true
	case cellfmt.TagUndefined:
		return "undefined", true
	}
	if !isStringTag(c.tag()) || c.firstChild != nullRef {
		return "", false
	}
	n := inlineStrLen(c.tag())
	return string(c.data.str[:n]), true
}

// Op identifies a binary (or unary, via b == nil) operator for MathsOp.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEqual
	OpNotEqual
	OpStrictEqual
	OpStrictNotEqual
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpUShr
	OpLogicalAnd
	OpLogicalOr
	OpNot
	OpNeg
)

// MathsOp implements the operator set over two numeric/string operands
// with script coercion rules: + is concatenation if either side is a
// string, arithmetic otherwise is done in floating point unless both
// sides are plain integers.
func (p *Pool) MathsOp(a, b *Var, op Op) (*Var, error) {
	if op == OpNot {
		return p.NewBool(!a.GetBool())
	}
	if op == OpNeg {
		if a.IsInt() {
			return p.NewInt(-a.cell().data.i)
		}
		return p.NewFloat(-a.GetFloat())
	}
	if b == nil {
		return nil, fmt.Errorf("heap: MathsOp: binary op %d requires two operands: %w", op, ErrTypeMismatch)
	}

	if op == OpAdd && (a.IsString() || b.IsString()) {
		as, err := a.AsString(false)
		if err != nil {
			return nil, err
		}
		defer as.Unlock()
		bs, err := b.AsString(false)
		if err != nil {
			return nil, err
		}
		defer bs.Unlock()
		abytes, _ := as.GetString(as.Length())
		bbytes, _ := bs.GetString(bs.Length())
		return p.NewString(append(append([]byte{}, abytes...), bbytes...))
	}

	switch op {
	case OpEqual, OpNotEqual:
		// Loose equality: a number against a string compares numerically.
		eq := BasicEqual(a, b)
		if (a.IsNumeric() && b.IsString()) || (a.IsString() && b.IsNumeric()) {
			eq = a.GetFloat() == b.GetFloat()
		}
		return p.NewBool(eq == (op == OpEqual))
	case OpStrictEqual:
		return p.NewBool(sameType(a, b) && BasicEqual(a, b))
	case OpStrictNotEqual:
		return p.NewBool(!(sameType(a, b) && BasicEqual(a, b)))
	case OpLogicalAnd:
		if !a.GetBool() {
			return p.Lock(a.r)
		}
		return p.Lock(b.r)
	case OpLogicalOr:
		if a.GetBool() {
			return p.Lock(a.r)
		}
		return p.Lock(b.r)
	}

	if a.IsInt() && b.IsInt() {
		ai, bi := a.cell().data.i, b.cell().data.i
		switch op {
		case OpAdd:
			return p.NewInt(ai + bi)
		case OpSub:
			return p.NewInt(ai - bi)
		case OpMul:
			return p.NewInt(ai * bi)
		case OpDiv:
			if bi == 0 {
				// 0/0 is NaN, anything else over zero is +-Infinity.
				return p.NewFloat(float64(ai) / float64(bi))
			}
			if ai%bi == 0 {
				return p.NewInt(ai / bi)
			}
			return p.NewFloat(float64(ai) / float64(bi))
		case OpMod:
			if bi == 0 {
				return p.NewFloat(math.NaN())
			}
			return p.NewInt(ai % bi)
		case OpLess:
			return p.NewBool(ai < bi)
		case OpLessEq:
			return p.NewBool(ai <= bi)
		case OpGreater:
			return p.NewBool(ai > bi)
		case OpGreaterEq:
			return p.NewBool(ai >= bi)
		case OpAnd:
			return p.NewInt(ai & bi)
		case OpOr:
			return p.NewInt(ai | bi)
		case OpXor:
			return p.NewInt(ai ^ bi)
		case OpShl:
			return p.NewInt(int64(int32(ai) << (uint32(bi) & 31)))
		case OpShr:
			return p.NewInt(int64(int32(ai) >> (uint32(bi) & 31)))
		case OpUShr:
			return p.NewInt(int64(uint32(ai) >> (uint32(bi) & 31)))
		}
	}

	af, bf := a.GetFloat(), b.GetFloat()
	switch op {
	case OpAdd:
		return p.NewFloat(af + bf)
	case OpSub:
		return p.NewFloat(af - bf)
	case OpMul:
		return p.NewFloat(af * bf)
	case OpDiv:
		return p.NewFloat(af / bf)
	case OpMod:
		return p.NewFloat(math.Mod(af, bf))
	case OpLess:
		return p.NewBool(af < bf)
	case OpLessEq:
		return p.NewBool(af <= bf)
	case OpGreater:
		return p.NewBool(af > bf)
	case OpGreaterEq:
		return p.NewBool(af >= bf)
	case OpAnd:
		return p.NewInt(int64(af) & int64(bf))
	case OpOr:
		return p.NewInt(int64(af) | int64(bf))
	case OpXor:
		return p.NewInt(int64(af) ^ int64(bf))
	case OpShl:
		return p.NewInt(int64(int32(af) << (uint32(int64(bf)) & 31)))
	case OpShr:
		return p.NewInt(int64(int32(af) >> (uint32(int64(bf)) & 31)))
	case OpUShr:
		return p.NewInt(int64(uint32(int64(af)) >> (uint32(int64(bf)) & 31)))
	}
	return nil, fmt.Errorf("heap: MathsOp: unsupported op %d: %w", op, ErrTypeMismatch)
}

// sameType reports whether a and b carry the same coarse runtime type for
// strict-equality purposes (=== distinguishes "1" from 1, unlike ==).
func sameType(a, b *Var) bool {
	switch {
	case a.IsInt() && b.IsInt():
		return true
	case a.IsFloat() && b.IsFloat():
		return true
	case (a.IsInt() || a.IsFloat()) && (b.IsInt() || b.IsFloat()):
		return false
	case a.IsString() && b.IsString():
		return true
	case a.IsBoolean() && b.IsBoolean():
		return true
	case a.IsNull() && b.IsNull():
		return true
	case a.IsUndefined() && b.IsUndefined():
		return true
	default:
		return a.tag() == b.tag()
	}
}

// MathsOpSkipNames behaves like MathsOp but first follows a or b through
// its name wrapper (if it is one) to reach the underlying value, for
// callers whose operands may or may not be name cells.
func (p *Pool) MathsOpSkipNames(a, b *Var, op Op) (*Var, error) {
	av, err := p.skipName(a)
	if err != nil {
		return nil, err
	}
	if av != a {
		defer av.Unlock()
	}
	var bv *Var
	if b != nil {
		bv, err = p.skipName(b)
		if err != nil {
			return nil, err
		}
		if bv != b {
			defer bv.Unlock()
		}
	}
	return p.MathsOp(av, bv, op)
}

// skipName returns a value, following a name cell to its pointee if v is a
// name. The returned Var is a newly acquired lock when it differs from v;
// callers must not unlock v in that case.
func (p *Pool) skipName(v *Var) (*Var, error) {
	if v == nil || !v.IsName() {
		return v, nil
	}
	target := v.cell().firstChild
	if target == nullRef {
		return p.NewUndefined()
	}
	return p.Lock(target)
}
