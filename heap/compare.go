package heap

// CompareInteger compares two integer Vars the way bytes.Compare compares
// slices: -1, 0, or 1.
func CompareInteger(a, b *Var) int {
	ai, bi := a.GetInteger(), b.GetInteger()
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

// CompareString compares two string Vars byte-for-byte with no special
// handling of embedded NUL bytes: this heap's strings are length-carrying
// chains, not NUL-terminated C strings.
func CompareString(a, b *Var) int {
	ab, _ := a.GetString(a.Length())
	bb, _ := b.GetString(b.Length())
	la, lb := len(ab), len(bb)
	for i := 0; i < la && i < lb; i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// CompareStringAt compares a from offset aStart against b from offset
// bStart. With equalAtEnd set, exhausting either string counts as a match
// (a prefix/suffix probe); otherwise the shorter remainder orders first,
// like CompareString.
func CompareStringAt(a, b *Var, aStart, bStart int, equalAtEnd bool) int {
	ab, _ := a.GetString(a.Length())
	bb, _ := b.GetString(b.Length())
	if aStart > len(ab) {
		aStart = len(ab)
	}
	if bStart > len(bb) {
		bStart = len(bb)
	}
	ab, bb = ab[aStart:], bb[bStart:]
	for i := 0; i < len(ab) && i < len(bb); i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	if len(ab) == len(bb) || equalAtEnd {
		return 0
	}
	if len(ab) < len(bb) {
		return -1
	}
	return 1
}

// BasicEqual reports whether a and b are equal without recursing into
// object/array structure: numbers compare by value, strings by content,
// everything else (including object/array/function) by reference identity
// (same ref).
func BasicEqual(a, b *Var) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsNullHandle() || b.IsNullHandle() {
		return a.IsNullHandle() == b.IsNullHandle()
	}
	if a.r == b.r && a.p == b.p {
		return true
	}
	switch {
	case a.IsNumeric() && b.IsNumeric():
		return a.GetFloat() == b.GetFloat()
	case a.IsString() && b.IsString():
		return CompareString(a, b) == 0
	case a.IsNull() && b.IsNull():
		return true
	case a.IsUndefined() && b.IsUndefined():
		return true
	default:
		return false
	}
}

// DeepEqual recursively compares object/array structure: two composites are
// equal if they have the same set of names, each mapping to a DeepEqual
// value, regardless of order. Functions are opaque: they never compare
// deep-equal to anything but themselves (reference identity).
func DeepEqual(a, b *Var) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.r == b.r && a.p == b.p {
		return true
	}
	if a.IsFunction() || b.IsFunction() {
		return false
	}
	if a.IsArray() && b.IsArray() {
		return deepEqualChildren(a, b, true)
	}
	if a.IsObject() && b.IsObject() {
		return deepEqualChildren(a, b, false)
	}
	return BasicEqual(a, b)
}

func deepEqualChildren(a, b *Var, ordered bool) bool {
	p := a.p
	alen, aErr := p.ArrayLength(a)
	blen, bErr := p.ArrayLength(b)
	if ordered && aErr == nil && bErr == nil && alen != blen {
		return false
	}

	achildren, err := p.GetChildren(a)
	if err != nil {
		return false
	}
	bchildren, err := p.GetChildren(b)
	if err != nil {
		return false
	}
	defer unlockAll(achildren)
	defer unlockAll(bchildren)
	if len(achildren) != len(bchildren) {
		return false
	}

	for _, aname := range achildren {
		bname := findNameByKey(bchildren, aname.NameKey())
		if bname == nil {
			return false
		}
		av, err := p.nameValue(aname)
		if err != nil {
			return false
		}
		bv, err := p.nameValue(bname)
		if err != nil {
			av.Unlock()
			return false
		}
		eq := DeepEqual(av, bv)
		av.Unlock()
		bv.Unlock()
		if !eq {
			return false
		}
	}
	return true
}

func findNameByKey(names []*Var, key []byte) *Var {
	for _, n := range names {
		if string(n.NameKey()) == string(key) {
			return n
		}
	}
	return nil
}

func unlockAll(vs []*Var) {
	for _, v := range vs {
		v.Unlock()
	}
}
