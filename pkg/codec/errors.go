package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOpcode is returned for an opcode byte no kind is registered for.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncated is returned when the stream ends inside a value or tree.
	ErrTruncated = errors.New("truncated stream")
	// ErrMalformedConstant is returned for a bad type tag or payload.
	ErrMalformedConstant = errors.New("malformed constant")
	// ErrMalformedNode is returned when a decoded node breaks the arity or
	// slot rules of its kind.
	ErrMalformedNode = errors.New("malformed node")
	// ErrMalformedSignature is returned for bad signature flags or types.
	ErrMalformedSignature = errors.New("malformed signature")
	// ErrNulInString is returned when encoding a string that contains NUL.
	ErrNulInString = errors.New("string contains NUL byte")
)

// DecodeError reports where decoding failed. Decoders never return a
// partial tree alongside it.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrTrailingData is returned by UnmarshalModel when bytes follow the model.
var ErrTrailingData = errors.New("trailing data after model")
