package policy

import (
	"encoding/binary"
	"math"
)

// ElemKind identifies the element type backing a TypedBuffer.
type ElemKind int

// Supported element kinds. Spec §4.1 requires reducers to support at
// least addition, multiplication, min and max; TypedBuffer and the Sum,
// Product, Min and Max Ops (ops.go) cover the integer and floating kinds a
// graph-scoped collective is likely to reduce (vertex IDs, weights).
const (
	Int32 ElemKind = iota
	Int64
	Float64
)

func (k ElemKind) size() int {
	switch k {
	case Int32:
		return 4
	case Int64, Float64:
		return 8
	default:
		return 0
	}
}

// TypedBuffer is the concrete Buffer implementation used throughout the
// core: a byte slice interpreted as Count elements of Kind, grounded on
// the teacher's convention of a raw []byte frame plus a typed reading on
// top (msg.Hello.Marshal/Unmarshal), generalized from a wire message to a
// collective payload.
type TypedBuffer struct {
	Data  []byte
	Count int
	Kind  ElemKind
}

// NewBuffer allocates a zeroed TypedBuffer of count elements.
func NewBuffer(count int, kind ElemKind) *TypedBuffer {
	return &TypedBuffer{Data: make([]byte, count*kind.size()), Count: count, Kind: kind}
}

// NewInt32Buffer builds a TypedBuffer directly from int32 values.
func NewInt32Buffer(values []int32) *TypedBuffer {
	b := NewBuffer(len(values), Int32)
	for i, v := range values {
		binary.BigEndian.PutUint32(b.Data[i*4:], uint32(v))
	}
	return b
}

// NewInt64Buffer builds a TypedBuffer directly from int64 values.
func NewInt64Buffer(values []int64) *TypedBuffer {
	b := NewBuffer(len(values), Int64)
	for i, v := range values {
		binary.BigEndian.PutUint64(b.Data[i*8:], uint64(v))
	}
	return b
}

func (b *TypedBuffer) Len() int       { return b.Count }
func (b *TypedBuffer) Bytes() []byte  { return b.Data }
func (b *TypedBuffer) ElemSize() int  { return b.Kind.size() }

// Int32At returns the i'th element interpreted as int32.
func (b *TypedBuffer) Int32At(i int) int32 {
	return int32(binary.BigEndian.Uint32(b.Data[i*4:]))
}

// SetInt32At writes the i'th element as int32.
func (b *TypedBuffer) SetInt32At(i int, v int32) {
	binary.BigEndian.PutUint32(b.Data[i*4:], uint32(v))
}

// Int64At returns the i'th element interpreted as int64.
func (b *TypedBuffer) Int64At(i int) int64 {
	return int64(binary.BigEndian.Uint64(b.Data[i*8:]))
}

// SetInt64At writes the i'th element as int64.
func (b *TypedBuffer) SetInt64At(i int, v int64) {
	binary.BigEndian.PutUint64(b.Data[i*8:], uint64(v))
}

// Float64At returns the i'th element interpreted as float64.
func (b *TypedBuffer) Float64At(i int) float64 {
	return math.Float64frombits(binary.BigEndian.Uint64(b.Data[i*8:]))
}

// SetFloat64At writes the i'th element as float64.
func (b *TypedBuffer) SetFloat64At(i int, v float64) {
	binary.BigEndian.PutUint64(b.Data[i*8:], math.Float64bits(v))
}

// CopyFrom overwrites the receiver's contents with src's, growing if
// needed.
func (b *TypedBuffer) CopyFrom(src *TypedBuffer) {
	b.Kind = src.Kind
	b.Count = src.Count
	b.Data = append(b.Data[:0], src.Data...)
}
