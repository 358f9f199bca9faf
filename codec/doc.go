/*
Package codec implements the DBOR binary serialization format.

DBOR encodes typed, self-describing trees of values. Every item starts with a
single instruction byte whose high three bits select the kind (uint, int,
misc, variant, seq, bytes, map) and whose low five bits carry either the value
itself, a width selector for a little-endian follow value, or a length
selector for container contents. Containers are length-prefixed, so a stream
decodes in a single forward pass with no terminators and no backtracking.

Fundamental encodings:

	- uint: values 0-23 inline in the instruction byte; wider values as a
	  little-endian u8/u16/u32/u64 follow value, always in the narrowest
	  class that fits.
	- int: 0-15 and -8..-1 inline; otherwise the narrowest little-endian
	  two's-complement i8/i16/i32/i64.
	- misc: false, true, unit and none as single bytes; float32/float64 as
	  little-endian IEEE-754.
	- variant: a numeric id (inline or u8/u16/u32) or a UTF-8 name, followed
	  by exactly one payload item.
	- seq, map: an element count followed by the elements (maps hold
	  alternating keys and values).
	- bytes: a length followed by raw octets. UTF-8 strings use this kind.

The easiest way to use this package is the EncodeFields/DecodeFields family,
which maps native Go values onto the wire through a type switch with a
reflective fallback. To encode values into a Writer:

	value1 := "this is my value"
	value2 := uint64(2)
	err := codec.EncodeFields(w, value1, value2)

To decode values from a Reader:

	var value1 string
	var value2 uint64
	err := codec.DecodeFields(r, &value1, &value2)

Values passed to DecodeField/DecodeFields MUST be pointers.

Types can take over their own encoding by implementing Marshaler and
Unmarshaler:

	type Foo struct {
		Value string
	}

	func (f *Foo) MarshalDBOR(e *codec.Encoder) error {
		return e.Encode(f.Value)
	}

	func (f *Foo) UnmarshalDBOR(d *codec.Decoder) error {
		return d.Decode(&f.Value)
	}

For wire-shaped access the Encoder exposes per-kind emit methods and the
Decoder drives a Visitor, delivering each decoded item to host code without
the codec knowing the host's data layout. The Value tree in this package is
the default Visitor implementation and models arbitrary DBOR items.
*/
package codec
