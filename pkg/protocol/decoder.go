package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// Limits applied while decoding, so a hostile length prefix cannot force a
// large allocation.
const (
	// DefaultMaxAllocation bounds one string (4MB).
	DefaultMaxAllocation = 4 * 1024 * 1024

	// MaxCollectionCount bounds the number of patches in a frame.
	MaxCollectionCount = 100_000

	// MaxPathDepth bounds the length of a node path.
	MaxPathDepth = 256
)

// Decoding errors.
var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrInvalidBool        = errors.New("protocol: invalid boolean value")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("protocol: collection count exceeds limit")
	ErrPathTooDeep        = errors.New("protocol: path exceeds maximum depth")
)

// Decoder reads protocol values from a byte slice. Short input yields
// io.ErrUnexpectedEOF.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a decoder over buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// EOF reports whether every byte has been read.
func (d *Decoder) EOF() bool { return d.pos >= len(d.buf) }

// ReadByte reads one byte.
func (d *Decoder) ReadByte() (byte, error) {
	if d.EOF() {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadBytes reads n bytes. The result aliases the decoder's buffer.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadUvarint reads an unsigned LEB128 varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.pos += n
	return v, nil
}

// ReadString reads a length-prefixed string of at most
// DefaultMaxAllocation bytes.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > DefaultMaxAllocation {
		return "", ErrAllocationTooLarge
	}
	b, err := d.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBool reads a byte that must be 0x00 or 0x01.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, ErrInvalidBool
	}
	return b == 1, nil
}

// ReadUint16 reads a big-endian uint16.
func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a big-endian uint32.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadCollectionCount reads a count of at most MaxCollectionCount.
func (d *Decoder) ReadCollectionCount() (int, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return 0, err
	}
	if n > MaxCollectionCount {
		return 0, ErrCollectionTooLarge
	}
	return int(n), nil
}

// ReadPath reads a node path written by Encoder.WritePath.
func (d *Decoder) ReadPath() ([]int, error) {
	depth, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if depth > MaxPathDepth {
		return nil, ErrPathTooDeep
	}
	path := make([]int, depth)
	for i := range path {
		idx, err := d.ReadUvarint()
		if err != nil {
			return nil, err
		}
		path[i] = int(idx)
	}
	return path, nil
}
