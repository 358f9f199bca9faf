package codec

import "github.com/pkg/errors"

// Error kinds surfaced by the encoder and decoder. Call errors.Cause on a
// returned error to classify it; transport errors other than EOF pass through
// verbatim.
var (
	// ErrUnexpectedEOF means the input ended before an item's declared
	// length was satisfied.
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrReserved means a reserved instruction byte, misc code or
	// name-length byte was encountered.
	ErrReserved = errors.New("reserved instruction")

	// ErrLengthOverflow means an announced length exceeds what this
	// platform can index, or a configured size limit.
	ErrLengthOverflow = errors.New("announced length too large")

	// ErrTypeMismatch means the wire kind does not satisfy the requested
	// kind, or a value does not fit the requested width.
	ErrTypeMismatch = errors.New("wire type mismatch")

	// ErrInvalidUTF8 means text was requested from a byte string whose
	// octets are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrDepthExceeded means nesting went past the decoder's depth limit.
	ErrDepthExceeded = errors.New("nesting depth exceeded")

	// ErrCountMismatch means an encode finished with an open container
	// scope still owed elements.
	ErrCountMismatch = errors.New("container element count mismatch")

	// ErrUnsupported is the kind reserved for encoders that omit optional
	// wire features. This implementation encodes every feature, named
	// variants included, so it never returns it; the sentinel exists so
	// callers can classify the full error surface of the format.
	ErrUnsupported = errors.New("unsupported encoding")

	// ErrTrailingBytes means a one-shot decode left input behind.
	ErrTrailingBytes = errors.New("trailing bytes after value")
)
