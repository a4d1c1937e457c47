package heap

import (
	"fmt"

	"github.com/embedjs/vheap/internal/cellfmt"
)

// Var is a locked handle to a cell: a thin, zero-cost view pairing a Pool
// with a ref. Every constructor and every API that
// returns a cell returns it wrapped in a Var that already holds one lock;
// the caller releases it with Unlock.
type Var struct {
	p *Pool
	r ref
}

// Ref exposes the underlying small-integer reference, e.g. to store in a
// host-side table that must survive a soft_kill/soft_init cycle.
func (v *Var) Ref() ref { return v.r }

// IsNullHandle reports whether this handle refers to the reserved null ref
// (ref 0), as opposed to a cell tagged TagNull — see IsNull for the latter.
func (v *Var) IsNullHandle() bool { return v == nil || v.r == nullRef }

func (v *Var) cell() *cell { return v.p.at(v.r) }

func (v *Var) tag() cellfmt.Tag { return v.cell().tag() }

// wrap produces a Var for r without taking an additional lock. Used
// internally when a lock has already been accounted for (e.g. right after
// Pool.Alloc, or inside Lock itself).
func (p *Pool) wrap(r ref) *Var { return &Var{p: p, r: r} }

// Lock increments r's lock count and returns a handle through which the
// caller may safely dereference the cell until Unlock is called. Returns
// ErrLockSaturated if the cell is already at cellfmt.LockMax locks, rather
// than silently clamping the count.
func (p *Pool) Lock(r ref) (*Var, error) {
	if r == nullRef {
		return nil, fmt.Errorf("heap: lock: %w", ErrNullRef)
	}
	c := p.at(r)
	if c.locks() >= cellfmt.LockMax {
		return nil, fmt.Errorf("heap: lock ref=%d: %w", r, ErrLockSaturated)
	}
	c.setLocks(c.locks() + 1)
	return p.wrap(r), nil
}

// Unlock releases this handle's lock. It is always safe to call, including
// on a Var obtained from the null ref. If both counters reach zero the
// cell is freed.
func (v *Var) Unlock() {
	if v.IsNullHandle() {
		return
	}
	p, r := v.p, v.r
	c := p.at(r)
	if c.tag() == cellfmt.TagUnused {
		return
	}
	if c.locks() > 0 {
		c.setLocks(c.locks() - 1)
	}
	if c.locks() == 0 && c.refs == 0 {
		p.free(r)
	}
}

// reff increments r's logical reference count — called whenever a cell is
// installed as a name's value or as a composite's child.
func (p *Pool) reff(r ref) {
	if r == nullRef {
		return
	}
	p.at(r).refs++
}

// unref decrements r's logical reference count and frees the cell if both
// counters have reached zero.
func (p *Pool) unref(r ref) {
	if r == nullRef {
		return
	}
	c := p.at(r)
	if c.tag() == cellfmt.TagUnused {
		return
	}
	if c.refs > 0 {
		c.refs--
	}
	if c.refs == 0 && c.locks() == 0 {
		p.free(r)
	}
}

// teardown is invoked by Pool.free on a snapshot of the cell just removed
// from its slot. It recursively releases whatever the cell logically owned:
//
//   - a name's value (firstChild) loses one ref;
//   - a composite's children are detached from its list and each loses one
//     ref;
//   - a string head's extension chain is walked and every extension cell
//     is unreffed in turn.
//
// The caller has already reset the slot itself, so unrefs that cycle back
// to the freed ref see TagUnused and stop.
func (p *Pool) teardown(c *cell) {
	t := c.tag()

	switch {
	case c.isNameFlag():
		// A name's firstChild is the value it points to.
		p.unref(c.firstChild)
	case isCompositeTag(t):
		for ch := c.firstChild; ch != nullRef; {
			next := p.at(ch).nextSibling
			p.at(ch).prevSibling = nullRef
			p.at(ch).nextSibling = nullRef
			p.unref(ch)
			ch = next
		}
	case isStringTag(t):
		// firstChild chains head -> first extension -> next extension ...,
		// terminating at nullRef. lastChild on the head is only a cached
		// fast-append pointer to the tail extension and owns no reference
		// of its own. Each extension holds exactly the one reference its
		// chain link took, so one unref per cell releases the whole chain.
		for ext := c.firstChild; ext != nullRef; {
			next := p.at(ext).firstChild
			p.unref(ext)
			ext = next
		}
	case t == cellfmt.TagArrayBuffer:
		p.unref(c.firstChild)
	}
}
