// Package policy defines the Communication Policy contract (spec §4.1):
// the narrow set of peer-level primitives any substrate must supply, plus
// the concrete Context, VAddr, Event and Buffer currency every substrate
// and the rest of the core share. Implementations live in policy/inproc
// (goroutine/channel, for tests and single-process simulation) and
// policy/zmq (ZeroMQ DEALER/ROUTER, for real multi-process deployments).
package policy

import (
	"github.com/graybat-go/graybat/config"
)

// Buffer is a contiguous region of a homogeneous element type: a
// pointer-equivalent to element zero and an element count. Heterogeneous
// payloads must be serialized to bytes by the caller (spec §6).
type Buffer interface {
	// Len returns the element count.
	Len() int
	// Bytes returns the buffer's backing bytes, len(Bytes()) ==
	// Len()*ElemSize().
	Bytes() []byte
	// ElemSize returns the size in bytes of one element.
	ElemSize() int
}

// Op is a pure, associative, commutative binary reducer over a Buffer
// pair: Apply(dst, src) folds src into dst element-wise.
type Op interface {
	Name() string
	Apply(dst, src Buffer)
}

// CommunicationPolicy is the contract every substrate must supply (spec
// §4.1). All collectives are barriers among their context's participants;
// variadic collectives must tolerate differing per-peer element counts.
type CommunicationPolicy interface {
	// GetConfig returns the policy's own resolved configuration.
	GetConfig() config.Config

	// GetGlobalContext returns the context containing every peer.
	GetGlobalContext() Context

	// SplitContext is a collective over oldContext: peers passing
	// isMember=true form the new context with a fresh, contiguous VAddr
	// space; peers passing false get an invalid context.
	SplitContext(isMember bool, oldContext Context) (Context, error)

	Send(dst VAddr, tag int, ctx Context, buf Buffer) error
	Recv(src VAddr, tag int, ctx Context, buf Buffer) error
	AsyncSend(dst VAddr, tag int, ctx Context, buf Buffer) (*Event, error)
	AsyncRecv(src VAddr, tag int, ctx Context, buf Buffer) (*Event, error)

	// RecvAny blocks for a message from any source and any tag; the
	// returned Event carries the actual source and tag once Wait
	// completes, and buf is filled in place.
	RecvAny(ctx Context, buf Buffer) (*Event, error)

	Gather(root VAddr, ctx Context, send, recv Buffer) error
	GatherVar(root VAddr, ctx Context, send Buffer, recv Buffer, counts []int) error
	AllGather(ctx Context, send, recv Buffer) error
	AllGatherVar(ctx Context, send Buffer, recv Buffer, counts []int) error
	Scatter(root VAddr, ctx Context, send, recv Buffer) error
	AllToAll(ctx Context, send, recv Buffer) error
	Reduce(root VAddr, ctx Context, op Op, send, recv Buffer) error
	AllReduce(ctx Context, op Op, send, recv Buffer) error
	Broadcast(root VAddr, ctx Context, buf Buffer) error
	Synchronize(ctx Context) error
}
