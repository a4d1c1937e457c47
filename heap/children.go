package heap

import (
	"fmt"

	"github.com/embedjs/vheap/internal/cellfmt"
)

// AddName allocates a fresh, unlinked name cell carrying key and returns a
// locked handle to it. Use AddNamedChild to link it under a parent, and
// SetValueOfName to point it at a value.
func (p *Pool) AddName(key []byte) (*Var, error) {
	r, err := p.Alloc(tagNameStringN(0))
	if err != nil {
		return nil, err
	}
	v := p.wrap(r)
	if err := v.MakeIntoName(key); err != nil {
		v.Unlock()
		return nil, err
	}
	return v, nil
}

// SetValueOfName points name at value, taking a reference on value. Any
// value the name previously pointed at loses a reference first.
func (v *Var) SetValueOfName(value *Var) error {
	c := v.cell()
	if !c.isNameFlag() {
		return fmt.Errorf("heap: SetValueOfName: %w", ErrTypeMismatch)
	}
	if c.firstChild != nullRef {
		v.p.unref(c.firstChild)
	}
	if value.IsNullHandle() {
		c.firstChild = nullRef
		return nil
	}
	c.firstChild = value.r
	v.p.reff(value.r)
	return nil
}

// nameValue locks and returns the value a name points to, or a locked
// undefined if the name currently points nowhere.
func (p *Pool) nameValue(name *Var) (*Var, error) {
	target := name.cell().firstChild
	if target == nullRef {
		return p.NewUndefined()
	}
	return p.Lock(target)
}

// GetValueOfName is the exported counterpart to nameValue.
func (v *Var) GetValueOfName() (*Var, error) { return v.p.nameValue(v) }

// NameKey returns the inline key bytes of a name cell. It is the
// name-cell counterpart to GetConstString (which deliberately declines to
// handle names, since a name's firstChild is its value pointer, not an
// extension-chain link — see MakeIntoName).
func (v *Var) NameKey() []byte {
	c := v.cell()
	if !c.isNameFlag() {
		return nil
	}
	n := inlineStrLen(c.tag())
	out := make([]byte, n)
	copy(out, c.data.str[:n])
	return out
}

// SetBuiltinName stamps an object, array, or function cell with its own key
// inline: a handful of fixed names (like "Math" or "JSON") known at
// startup need no separate name cell threaded through a parent's child
// list. Any composite cell whose key fits in InlineStrLen bytes can carry it the same
// way, letting BuiltinName read it back with no child-list walk at all.
func (v *Var) SetBuiltinName(name []byte) error {
	c := v.cell()
	if !isCompositeTag(c.tag()) {
		return fmt.Errorf("heap: SetBuiltinName: %w", ErrTypeMismatch)
	}
	if len(name) > cellfmt.InlineStrLen {
		return fmt.Errorf("heap: SetBuiltinName: name of %d bytes exceeds %d-byte limit: %w", len(name), cellfmt.InlineStrLen, ErrIndexOutOfRange)
	}
	c.data.str = [cellfmt.InlineStrExtLen]byte{}
	copy(c.data.str[:], name)
	c.setBuiltinName()
	return nil
}

// BuiltinName returns the inline key set by SetBuiltinName, or ok=false if
// this cell carries none. The key is read directly off the cell, with no
// separate name cell or child-list walk involved.
func (v *Var) BuiltinName() (name string, ok bool) {
	c := v.cell()
	if !c.isBuiltinName() {
		return "", false
	}
	n := 0
	for n < cellfmt.InlineStrLen && c.data.str[n] != 0 {
		n++
	}
	return string(c.data.str[:n]), true
}

// AddNamedChild appends name to the end of parent's child list. parent must
// be an object, array, or function; name must not already be linked
// elsewhere. Takes a reference on name.
func (p *Pool) AddNamedChild(parent, name *Var) error {
	pc := parent.cell()
	if !isCompositeTag(pc.tag()) {
		return fmt.Errorf("heap: AddNamedChild: %w", ErrTypeMismatch)
	}
	nc := name.cell()
	nc.prevSibling = pc.lastChild
	nc.nextSibling = nullRef
	if pc.lastChild != nullRef {
		p.at(pc.lastChild).nextSibling = name.r
	} else {
		pc.firstChild = name.r
	}
	pc.lastChild = name.r
	p.reff(name.r)
	return nil
}

// AddNamedChildValue is a convenience that allocates a name for key, points
// it at value, and links it into parent in one step, returning the locked
// name.
func (p *Pool) AddNamedChildValue(parent *Var, key []byte, value *Var) (*Var, error) {
	n, err := p.AddName(key)
	if err != nil {
		return nil, err
	}
	if err := n.SetValueOfName(value); err != nil {
		n.Unlock()
		return nil, err
	}
	if err := p.AddNamedChild(parent, n); err != nil {
		n.Unlock()
		return nil, err
	}
	return n, nil
}

// SetNamedChild finds key under parent and overwrites its value, or creates
// a new name/value pair if key is not present yet. Returns the locked name.
func (p *Pool) SetNamedChild(parent *Var, key []byte, value *Var) (*Var, error) {
	existing, err := p.FindChildFromString(parent, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := existing.SetValueOfName(value); err != nil {
			existing.Unlock()
			return nil, err
		}
		return existing, nil
	}
	return p.AddNamedChildValue(parent, key, value)
}

// FindChildFromString returns the locked name cell under parent whose key
// equals key, or (nil, nil) if none matches.
func (p *Pool) FindChildFromString(parent *Var, key []byte) (*Var, error) {
	pc := parent.cell()
	for ch := pc.firstChild; ch != nullRef; {
		cc := p.at(ch)
		n := p.wrap(ch)
		if string(n.NameKey()) == string(key) {
			return p.Lock(ch)
		}
		ch = cc.nextSibling
	}
	return nil, nil
}

// FindChildFromVar returns the locked name cell under parent whose value is
// value (reference identity), or (nil, nil) if none matches. This is how
// array element removal-by-value and for-in loops locate a name from its
// pointee.
func (p *Pool) FindChildFromVar(parent, value *Var) (*Var, error) {
	pc := parent.cell()
	for ch := pc.firstChild; ch != nullRef; {
		cc := p.at(ch)
		if cc.firstChild == value.r {
			return p.Lock(ch)
		}
		ch = cc.nextSibling
	}
	return nil, nil
}

// RemoveChild unlinks name from parent's child list. The name cell itself
// loses the reference the list held on it; if that was its last owner it is
// freed (along with the value it pointed to, if that value has no other
// owners).
func (p *Pool) RemoveChild(parent, name *Var) error {
	pc := parent.cell()
	nc := name.cell()
	if nc.prevSibling != nullRef {
		p.at(nc.prevSibling).nextSibling = nc.nextSibling
	} else {
		pc.firstChild = nc.nextSibling
	}
	if nc.nextSibling != nullRef {
		p.at(nc.nextSibling).prevSibling = nc.prevSibling
	} else {
		pc.lastChild = nc.prevSibling
	}
	nc.prevSibling = nullRef
	nc.nextSibling = nullRef
	p.unref(name.r)
	return nil
}

// RemoveAllChildren detaches and releases every name under parent, leaving
// it an empty composite.
func (p *Pool) RemoveAllChildren(parent *Var) error {
	pc := parent.cell()
	for ch := pc.firstChild; ch != nullRef; {
		next := p.at(ch).nextSibling
		p.at(ch).prevSibling = nullRef
		p.at(ch).nextSibling = nullRef
		p.unref(ch)
		ch = next
	}
	pc.firstChild = nullRef
	pc.lastChild = nullRef
	return nil
}

// GetChildren returns locked handles to every name cell directly under
// parent, in list order. Callers must Unlock each one.
func (p *Pool) GetChildren(parent *Var) ([]*Var, error) {
	pc := parent.cell()
	if !isCompositeTag(pc.tag()) {
		return nil, fmt.Errorf("heap: GetChildren: %w", ErrTypeMismatch)
	}
	var out []*Var
	for ch := pc.firstChild; ch != nullRef; {
		cc := p.at(ch)
		locked, err := p.Lock(ch)
		if err != nil {
			unlockAll(out)
			return nil, err
		}
		out = append(out, locked)
		ch = cc.nextSibling
	}
	return out, nil
}

// IsChild reports whether name is currently linked under parent (as
// opposed to detached, or linked under a different parent — checked purely
// by list membership, not by pointer comparison to a stored parent field,
// since cells don't carry a parent backlink).
func (p *Pool) IsChild(parent, name *Var) bool {
	pc := parent.cell()
	for ch := pc.firstChild; ch != nullRef; {
		if ch == name.r {
			return true
		}
		ch = p.at(ch).nextSibling
	}
	return false
}
