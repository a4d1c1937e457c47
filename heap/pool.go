package heap

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/embedjs/vheap/internal/cellfmt"
)

// PoolOption configures a Pool at construction time.
type PoolOption func(*Pool)

// WithGrowable makes the pool's capacity resizable via SetTotal. Off by
// default: most embedders size the pool once at boot and never grow it.
func WithGrowable() PoolOption {
	return func(p *Pool) { p.growable = true }
}

// Pool is the fixed-capacity cell arena. It assumes exclusive,
// single-threaded access; there is no internal locking.
//
// Cells are addressed by ref, a small integer index, rather than by
// pointer: this is what lets SetTotal grow the backing array in place
// without invalidating any ref a caller is holding, and what makes refs
// safe to embed in other cells or persist across a soft restart.
type Pool struct {
	cells    []cell
	freeHead ref // singly linked free list threaded through cell.nextSibling
	used     int
	capacity int
	growable bool

	root ref // the singleton ROOT cell, created in NewPool and never freed before Kill
}

// NewPool allocates a pool with room for capacity cells (slot 0 is reserved
// as the permanent null ref, so the pool holds capacity+1 cells). It then
// creates and locks the singleton ROOT cell, which stays live for the
// pool's whole lifetime.
func NewPool(capacity int, opts ...PoolOption) *Pool {
	p := &Pool{
		cells:    make([]cell, capacity+1),
		capacity: capacity,
	}
	for _, o := range opts {
		o(p)
	}
	p.initFreeList(1, len(p.cells))

	r, err := p.Alloc(cellfmt.TagRoot)
	if err != nil {
		// capacity 0 or less is a programmer error, not a recoverable
		// runtime condition
		panic(fmt.Sprintf("heap: cannot reserve root cell: %v", err))
	}
	p.root = r
	p.cells[r].setLocks(1) // root stays locked for the pool's lifetime
	return p
}

// initFreeList threads every slot in [lo, hi) onto the free list via
// nextSibling, in index order.
func (p *Pool) initFreeList(lo, hi int) {
	for i := lo; i < hi; i++ {
		if i+1 < hi {
			p.cells[i].nextSibling = ref(i + 1)
		} else {
			p.cells[i].nextSibling = nullRef
		}
	}
	if hi > lo {
		p.freeHead = ref(lo)
	}
}

// Root returns the ref of the singleton root object. It is always live and
// always carries at least one lock.
func (p *Pool) Root() ref { return p.root }

func (p *Pool) at(r ref) *cell {
	return &p.cells[r]
}

// Alloc draws a cell from the free list, tags it, and returns it with
// locks=1, refs=0. Returns ErrOutOfMemory if the pool is exhausted.
func (p *Pool) Alloc(tag cellfmt.Tag) (ref, error) {
	if p.freeHead == nullRef {
		return nullRef, fmt.Errorf("heap: alloc tag=%d: %w", tag, ErrOutOfMemory)
	}
	r := p.freeHead
	c := p.at(r)
	p.freeHead = c.nextSibling

	*c = cell{}
	c.setTag(tag)
	c.setLocks(1)
	p.used++
	return r, nil
}

// free returns a cell to the free list after its refs and locks have both
// reached zero. It is the pool-internal half of the ref/lock protocol
// described in reflock.go; callers never call this directly.
func (p *Pool) free(r ref) {
	if r == nullRef {
		return
	}
	c := p.at(r)
	if c.tag() == cellfmt.TagUnused {
		return // already freed; defensive against double-free bugs
	}
	// Snapshot and clear the slot before releasing what it owned: inside a
	// reference cycle, teardown's unrefs can arrive back at this same ref,
	// and the TagUnused check above is what stops that recursion.
	saved := *c
	*c = cell{}
	c.nextSibling = p.freeHead
	p.freeHead = r
	p.used--
	p.teardown(&saved)
}

// MemUsed returns the number of cells currently allocated (not counting the
// reserved null slot).
func (p *Pool) MemUsed() int { return p.used }

// MemTotal returns the pool's current capacity in cells.
func (p *Pool) MemTotal() int { return p.capacity }

// SetTotal grows the pool to hold n cells, if the pool was constructed with
// WithGrowable. Existing refs remain valid because cells are indices into
// the (possibly reallocated) backing slice, not pointers into it.
func (p *Pool) SetTotal(n int) error {
	if !p.growable {
		return fmt.Errorf("heap: pool is not growable")
	}
	if n <= p.capacity {
		return nil
	}
	old := len(p.cells)
	preGrowFreeHead := p.freeHead // saved before initFreeList overwrites it
	grown := make([]cell, n+1)
	copy(grown, p.cells)
	p.cells = grown
	p.capacity = n
	p.initFreeList(old, len(p.cells))
	// initFreeList just built a fresh free chain over the newly added slots
	// and pointed freeHead at it; splice the pre-growth free list onto the
	// tail of that chain so cells already free before the grow aren't lost.
	if preGrowFreeHead != nullRef {
		tail := p.freeHead
		for p.cells[tail].nextSibling != nullRef {
			tail = p.cells[tail].nextSibling
		}
		p.cells[tail].nextSibling = preGrowFreeHead
	}
	return nil
}

// Kill tears the pool down at interpreter shutdown: every slot, the root
// included, is reset and rethreaded onto the free list. The pool must not
// be used again afterward; start over with NewPool.
func (p *Pool) Kill() {
	for i := range p.cells {
		p.cells[i] = cell{}
	}
	p.used = 0
	p.root = nullRef
	p.initFreeList(1, len(p.cells))
}

// SoftKill prepares the heap for persistence: the root's lifetime lock is
// dropped, but the cell graph itself is left fully intact — refs are plain
// indices, so a host can serialize the pool and rebuild it later. Pair
// with SoftInit after restoring.
func (p *Pool) SoftKill() {
	if p.root != nullRef {
		c := p.at(p.root)
		if c.locks() > 0 {
			c.setLocks(c.locks() - 1)
		}
	}
}

// SoftInit re-establishes the running invariants after a restore: the root
// regains its lifetime lock. The host re-registers any native callbacks
// itself, since function pointers cannot be persisted.
func (p *Pool) SoftInit() {
	if p.root != nullRef {
		c := p.at(p.root)
		c.setLocks(c.locks() + 1)
	}
}

// Stats returns a short human-readable diagnostic line, e.g. for logging
// during development. Byte counts are an estimate (cells are fixed-size Go
// structs, not packed bytes) formatted with humanize for readability.
func (p *Pool) Stats() string {
	const approxCellBytes = 64
	return fmt.Sprintf("cells %d/%d used (~%s / ~%s)",
		p.used, p.capacity,
		humanize.Bytes(uint64(p.used*approxCellBytes)),
		humanize.Bytes(uint64(p.capacity*approxCellBytes)))
}
