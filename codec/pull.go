package codec

import (
	"unicode/utf8"

	"dbor/wire"

	"github.com/pkg/errors"
)

// Typed pull surface. Each method validates the next item's wire kind before
// consuming it, so a mismatch leaves the cursor on the offending instruction
// byte. Cross-kind coercion is never performed; within a kind the value must
// fit the requested width.

func (d *Decoder) peekInstruction() (wire.Type, byte, error) {
	b, err := d.r.PeekByte()
	if err != nil {
		return 0, 0, err
	}
	t, p := wire.Split(b)
	return t, p, nil
}

func (d *Decoder) expect(want wire.Type) (byte, error) {
	t, p, err := d.peekInstruction()
	if err != nil {
		return 0, err
	}
	if t != want {
		return 0, errors.Wrapf(ErrTypeMismatch, "want %s, got %s", want, t)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return 0, err
	}
	return p, nil
}

// Uint reads the next item as an unsigned integer.
func (d *Decoder) Uint() (uint64, error) {
	p, err := d.expect(wire.TypeUint)
	if err != nil {
		return 0, err
	}
	return d.readParam(wire.TypeUint, p)
}

// Int reads the next item as a signed integer.
func (d *Decoder) Int() (int64, error) {
	p, err := d.expect(wire.TypeInt)
	if err != nil {
		return 0, err
	}
	return d.readIntParam(p)
}

func (d *Decoder) miscValue(want ...byte) (byte, error) {
	t, p, err := d.peekInstruction()
	if err != nil {
		return 0, err
	}
	if t != wire.TypeMisc {
		return 0, errors.Wrapf(ErrTypeMismatch, "want misc, got %s", t)
	}
	for _, w := range want {
		if p == w {
			_, err := d.r.ReadByte()
			return p, err
		}
	}
	if p > wire.MiscFloat64 {
		return 0, errors.Wrapf(ErrReserved, "misc code %d", p)
	}
	return 0, errors.Wrapf(ErrTypeMismatch, "unexpected misc code %d", p)
}

// Bool reads the next item as a boolean.
func (d *Decoder) Bool() (bool, error) {
	p, err := d.miscValue(wire.MiscFalse, wire.MiscTrue)
	if err != nil {
		return false, err
	}
	return p == wire.MiscTrue, nil
}

// Unit reads the next item as the unit value.
func (d *Decoder) Unit() error {
	_, err := d.miscValue(wire.MiscUnit)
	return err
}

// IsNone consumes a none item if one is next and reports whether it did.
func (d *Decoder) IsNone() (bool, error) {
	t, p, err := d.peekInstruction()
	if err != nil {
		return false, err
	}
	if t != wire.TypeMisc || p != wire.MiscNone {
		return false, nil
	}
	_, err = d.r.ReadByte()
	return true, err
}

// Float32 reads the next item as a single. Doubles are not downcast.
func (d *Decoder) Float32() (float32, error) {
	_, err := d.miscValue(wire.MiscFloat32)
	if err != nil {
		return 0, err
	}
	return d.readFloat32()
}

// Float64 reads the next item as a double, widening a wire single if that is
// what is present.
func (d *Decoder) Float64() (float64, error) {
	p, err := d.miscValue(wire.MiscFloat32, wire.MiscFloat64)
	if err != nil {
		return 0, err
	}
	if p == wire.MiscFloat32 {
		f, err := d.readFloat32()
		return float64(f), err
	}
	return d.readFloat64()
}

// Bytes reads the next item as a byte string.
func (d *Decoder) Bytes() ([]byte, error) {
	p, err := d.expect(wire.TypeBytes)
	if err != nil {
		return nil, err
	}
	n, err := d.readParam(wire.TypeBytes, p)
	if err != nil {
		return nil, err
	}
	if err := d.checkBytesLen(n); err != nil {
		return nil, err
	}
	return d.r.ReadN(n)
}

// Text reads the next item as a UTF-8 string.
func (d *Decoder) Text() (string, error) {
	raw, err := d.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.Wrap(ErrInvalidUTF8, "text requested")
	}
	return string(raw), nil
}

// SeqLen reads a sequence header and returns its element count.
func (d *Decoder) SeqLen() (int, error) {
	p, err := d.expect(wire.TypeSeq)
	if err != nil {
		return 0, err
	}
	return d.readLen(wire.TypeSeq, p)
}

// MapLen reads a map header and returns its pair count.
func (d *Decoder) MapLen() (int, error) {
	p, err := d.expect(wire.TypeMap)
	if err != nil {
		return 0, err
	}
	n, err := d.readLen(wire.TypeMap, p)
	if err != nil {
		return 0, err
	}
	if uint64(n) > maxInt/2 {
		return 0, errors.Wrapf(ErrLengthOverflow, "map length %d", n)
	}
	return n, nil
}

// Variant reads a variant header. Exactly one payload item follows; named
// reports whether the discriminant was a name rather than a numeric id.
func (d *Decoder) Variant() (id uint32, name string, named bool, err error) {
	p, err := d.expect(wire.TypeVariant)
	if err != nil {
		return 0, "", false, err
	}
	if p == wire.ParamNamedVariant {
		name, err = d.readName()
		return 0, name, true, err
	}
	v, err := d.readParam(wire.TypeVariant, p)
	if err != nil {
		return 0, "", false, err
	}
	return uint32(v), "", false, nil
}
