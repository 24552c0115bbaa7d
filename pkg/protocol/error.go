package protocol

import "fmt"

// ErrorCode classifies a FrameError. It is sent as a big-endian uint16.
type ErrorCode uint16

// Codes below 0x100 are the client's fault or the page's; codes from 0x100
// are the server's.
const (
	ErrUnknown        ErrorCode = 0x0000
	ErrInvalidFrame   ErrorCode = 0x0001
	ErrRenderFailed   ErrorCode = 0x0002
	ErrSessionExpired ErrorCode = 0x0005
	ErrServerError    ErrorCode = 0x0100
	ErrNotFound       ErrorCode = 0x0102
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidFrame:   "InvalidFrame",
	ErrRenderFailed:   "RenderFailed",
	ErrSessionExpired: "SessionExpired",
	ErrServerError:    "ServerError",
	ErrNotFound:       "NotFound",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ErrorMessage is the payload of a FrameError: code, then message, then a
// fatal flag. A fatal error is followed by the server closing the socket.
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

// NewError returns a non-fatal error message.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

// NewFatalError returns an error message after which the session ends.
func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

// Error implements error, so a decoded message can be returned as one.
func (em *ErrorMessage) Error() string {
	s := fmt.Sprintf("%s: %s", em.Code, em.Message)
	if em.Fatal {
		return "fatal: " + s
	}
	return s
}

// IsFatal reports whether the session ends after this message.
func (em *ErrorMessage) IsFatal() bool { return em.Fatal }

// EncodeErrorMessage returns the FrameError payload for em.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	EncodeErrorMessageTo(e, em)
	return e.Bytes()
}

// EncodeErrorMessageTo appends em to e.
func EncodeErrorMessageTo(e *Encoder, em *ErrorMessage) {
	e.WriteUint16(uint16(em.Code))
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
}

// DecodeErrorMessage parses a FrameError payload.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	return DecodeErrorMessageFrom(NewDecoder(data))
}

// DecodeErrorMessageFrom reads an error message from d.
func DecodeErrorMessageFrom(d *Decoder) (*ErrorMessage, error) {
	code, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	em := &ErrorMessage{Code: ErrorCode(code)}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}
