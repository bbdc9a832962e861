// Package msg is the zmq substrate's wire codec: a single Frame type
// carrying either a direct point-to-point payload or a collective
// contribution/result, serialized the way the teacher's msg package
// serializes Hello/Whisper — a fixed signature and message-kind header
// written with encoding/binary into a bytes.Buffer, followed by the
// message's own fields.
package msg

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Signature tags every frame this substrate sends, distinguishing it on
// the wire from any other protocol that might share a socket.
const Signature uint16 = 0xCAB0 | 1

// Kind identifies what a Frame carries.
type Kind uint8

const (
	// KindData is a direct point-to-point send/recv payload.
	KindData Kind = 1
	// KindCollectiveContribute carries one peer's contribution to a
	// collective round, addressed to the context's sequencer.
	KindCollectiveContribute Kind = 2
	// KindCollectiveResult carries the sequencer's computed result for
	// one peer, addressed back to that peer.
	KindCollectiveResult Kind = 3
)

// Frame is the one wire message this substrate exchanges. Context/Src/Tag
// mirror policy.Context.ID/VAddr and the point-to-point tag; Round
// disambiguates successive collective calls over the same context, since
// every participant enters collectives in the same relative order (spec
// §5 O3) and so agrees on round numbers without further coordination.
type Frame struct {
	Kind     Kind
	Context  int32
	Src      int32
	Tag      int32
	Round    int32
	ElemKind byte
	Count    int32
	Payload  []byte
}

// Marshal serializes f.
func (f *Frame) Marshal() ([]byte, error) {
	size := 2 + 1 + 4 + 4 + 4 + 4 + 1 + 4 + 4 + len(f.Payload)
	buf := bytes.NewBuffer(make([]byte, 0, size))
	binary.Write(buf, binary.BigEndian, Signature)
	binary.Write(buf, binary.BigEndian, uint8(f.Kind))
	binary.Write(buf, binary.BigEndian, f.Context)
	binary.Write(buf, binary.BigEndian, f.Src)
	binary.Write(buf, binary.BigEndian, f.Tag)
	binary.Write(buf, binary.BigEndian, f.Round)
	binary.Write(buf, binary.BigEndian, f.ElemKind)
	binary.Write(buf, binary.BigEndian, f.Count)
	binary.Write(buf, binary.BigEndian, int32(len(f.Payload)))
	buf.Write(f.Payload)
	return buf.Bytes(), nil
}

// Unmarshal decodes a Frame from raw.
func Unmarshal(raw []byte) (*Frame, error) {
	buf := bytes.NewBuffer(raw)

	var signature uint16
	binary.Read(buf, binary.BigEndian, &signature)
	if signature != Signature {
		return nil, errors.New("zmq/msg: invalid frame signature")
	}

	f := &Frame{}
	var kind uint8
	binary.Read(buf, binary.BigEndian, &kind)
	f.Kind = Kind(kind)
	binary.Read(buf, binary.BigEndian, &f.Context)
	binary.Read(buf, binary.BigEndian, &f.Src)
	binary.Read(buf, binary.BigEndian, &f.Tag)
	binary.Read(buf, binary.BigEndian, &f.Round)
	binary.Read(buf, binary.BigEndian, &f.ElemKind)
	binary.Read(buf, binary.BigEndian, &f.Count)
	var n int32
	binary.Read(buf, binary.BigEndian, &n)
	f.Payload = make([]byte, n)
	if _, err := buf.Read(f.Payload); err != nil && n > 0 {
		return nil, err
	}
	return f, nil
}
