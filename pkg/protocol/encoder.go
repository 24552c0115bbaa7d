package protocol

import "encoding/binary"

// Encoder appends protocol values to a growable buffer. Writes cannot fail.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with room for a small frame.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Reset empties the encoder and keeps its buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the encoded bytes, valid until the next write or Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of encoded bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// WriteByte appends b.
func (e *Encoder) WriteByte(b byte) { e.buf = append(e.buf, b) }

// WriteBytes appends b unframed.
func (e *Encoder) WriteBytes(b []byte) { e.buf = append(e.buf, b...) }

// WriteUvarint appends v as an unsigned LEB128 varint.
func (e *Encoder) WriteUvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }

// WriteString appends s prefixed with its byte length.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteBool appends 0x01 or 0x00.
func (e *Encoder) WriteBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, v)
}

// WriteUint16 appends v big-endian.
func (e *Encoder) WriteUint16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }

// WriteUint32 appends v big-endian.
func (e *Encoder) WriteUint32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }

// WritePath appends a node path: its depth, then each child index.
func (e *Encoder) WritePath(path []int) {
	e.WriteUvarint(uint64(len(path)))
	for _, i := range path {
		e.WriteUvarint(uint64(i))
	}
}
