package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6

	// MaxPayloadSize is the largest payload a frame may carry (16MB).
	MaxPayloadSize = 16 * 1024 * 1024
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHTML    FrameType = 0x01 // Server → Client initial snapshot
	FramePatches FrameType = 0x02 // Server → Client patches
	FrameError   FrameType = 0x05 // Error message
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHTML:
		return "HTML"
	case FramePatches:
		return "Patches"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	FlagFinal FrameFlags = 0x04 // Last frame the server will send
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame represents a protocol frame with header and payload.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame creates a frame.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode encodes the frame to bytes including the header.
func (f *Frame) Encode() []byte {
	e := &Encoder{buf: make([]byte, 0, FrameHeaderSize+len(f.Payload))}
	f.EncodeTo(e)
	return e.Bytes()
}

// EncodeTo encodes the frame using the provided encoder.
func (f *Frame) EncodeTo(e *Encoder) {
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
}

// DecodeFrame decodes a frame from bytes.
func DecodeFrame(data []byte) (*Frame, error) {
	d := NewDecoder(data)
	ft, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	length, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	if length > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}

	frame := &Frame{Type: FrameType(ft), Flags: FrameFlags(flags)}
	switch frame.Type {
	case FrameHTML, FramePatches, FrameError:
	default:
		return nil, ErrInvalidFrameType
	}
	payload, err := d.ReadBytes(int(length))
	if err != nil {
		return nil, io.ErrUnexpectedEOF
	}
	frame.Payload = append([]byte(nil), payload...)
	return frame, nil
}
