package policy

import "fmt"

// VAddr is a virtual peer address: a dense non-negative integer, unique
// and stable within the lifetime of a single Context.
type VAddr int

// Context is an immutable membership set (spec §3). Contexts form a tree
// rooted at the global context; SplitContext produces a child with a
// fresh, contiguous VAddr space. Equality is by ID.
//
// It lives in this package, rather than one per substrate, because every
// CommunicationPolicy implementation must hand the rest of the core the
// same concrete currency — Context is data, not a pluggable contract.
type Context struct {
	id    int
	size  int
	valid bool
	self  VAddr
}

// NewContext builds a valid context of the given size with the given
// local VAddr. id must be unique within the owning process.
func NewContext(id, size int, self VAddr) Context {
	return Context{id: id, size: size, valid: true, self: self}
}

// InvalidContext returns a context for a peer that isn't a member; its
// methods other than ID and Valid are meaningless.
func InvalidContext(id int) Context {
	return Context{id: id, valid: false}
}

// ID returns the context's ID, unique within the owning process.
func (c Context) ID() int { return c.id }

// Size returns the number of members.
func (c Context) Size() int { return c.size }

// Valid reports whether the local process is a member of this context.
func (c Context) Valid() bool { return c.valid }

// VAddr returns the local VAddr; only meaningful when Valid.
func (c Context) VAddr() VAddr { return c.self }

// Addrs returns the full 0..Size()-1 membership, in order.
func (c Context) Addrs() []VAddr {
	addrs := make([]VAddr, c.size)
	for i := range addrs {
		addrs[i] = VAddr(i)
	}
	return addrs
}

// Equal compares contexts by ID.
func (c Context) Equal(other Context) bool { return c.id == other.id }

func (c Context) String() string {
	if !c.valid {
		return fmt.Sprintf("Context(%d, invalid)", c.id)
	}
	return fmt.Sprintf("Context(%d, size=%d, self=%d)", c.id, c.size, c.self)
}
