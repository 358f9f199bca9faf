package codec

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"dbor/wire"

	"github.com/pkg/errors"
)

// DefaultMaxDepth is the nesting limit applied to adversarial input before
// the call stack is at risk.
const DefaultMaxDepth = 1024

const maxInt = uint64(^uint(0) >> 1)
const minInt = -int64(maxInt) - 1

// Visitor receives decoded items. The decoder is pull for scalars and push
// for containers: a Start method returns the visitor that receives the
// container's contents, and the matching Finish method fires once the
// announced count has been delivered. Returning a nil visitor from a Start
// method tells the decoder to skip the contents structurally; no Finish call
// is made for a skipped container.
type Visitor interface {
	VisitUint(v uint64) error
	VisitInt(v int64) error
	VisitBool(v bool) error
	VisitUnit() error
	VisitNone() error
	VisitFloat32(v float32) error
	VisitFloat64(v float64) error
	VisitBytes(p []byte) error

	// StartSeq announces a sequence of n items.
	StartSeq(n int) (Visitor, error)
	FinishSeq(elems Visitor) error

	// StartMap announces n key/value pairs; the returned visitor receives
	// 2n items, key before value.
	StartMap(n int) (Visitor, error)
	FinishMap(pairs Visitor) error

	// StartVariant and StartNamedVariant announce a variant; the returned
	// visitor receives exactly one payload item.
	StartVariant(id uint32) (Visitor, error)
	StartNamedVariant(name string) (Visitor, error)
	FinishVariant(payload Visitor) error
}

// Decoder reads DBOR items from a transport. It accepts any legal encoding,
// including non-minimal widths, and consumes bytes strictly forward. An
// instruction byte with type tag 7 is rejected before it is consumed; any
// other error leaves the cursor just past the last byte read, so a reserved
// parameter or name-length byte has already been consumed when it is
// rejected.
type Decoder struct {
	r *byteReader

	// MaxDepth caps recursive nesting; inputs deeper than this fail with
	// ErrDepthExceeded.
	MaxDepth int

	// MaxBytes, when non-zero, caps the announced length of a single byte
	// string or variant name. Longer announcements fail with
	// ErrLengthOverflow before any content is read.
	MaxBytes uint64

	depth int
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:        newByteReader(r),
		MaxDepth: DefaultMaxDepth,
	}
}

// Offset is the transport position in bytes. It never decreases.
func (d *Decoder) Offset() int64 {
	return d.r.Offset()
}

// Next decodes exactly one item and delivers it to v.
func (d *Decoder) Next(v Visitor) error {
	t, p, err := d.readInstruction()
	if err != nil {
		return err
	}
	return d.decodeItem(t, p, v)
}

func (d *Decoder) readInstruction() (wire.Type, byte, error) {
	b, err := d.r.PeekByte()
	if err != nil {
		return 0, 0, err
	}
	t, p := wire.Split(b)
	if t == wire.TypeReserved {
		return 0, 0, errors.Wrapf(ErrReserved, "type tag 7, parameter %d", p)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return 0, 0, err
	}
	return t, p, nil
}

// readParam resolves an inline or sized parameter into its value.
func (d *Decoder) readParam(t wire.Type, p byte) (uint64, error) {
	if p <= wire.ParamMaxInline {
		return uint64(p), nil
	}
	if p > wire.Param64 {
		return 0, errors.Wrapf(ErrReserved, "%s parameter %d", t, p)
	}
	var buf [8]byte
	width := wire.ParamWidth(p)
	if err := d.r.ReadFull(buf[:width]); err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[:2])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[:4])), nil
	default:
		return binary.LittleEndian.Uint64(buf[:8]), nil
	}
}

// readLen resolves a container length and guards the platform word width.
func (d *Decoder) readLen(t wire.Type, p byte) (int, error) {
	v, err := d.readParam(t, p)
	if err != nil {
		return 0, err
	}
	if v > maxInt {
		return 0, errors.Wrapf(ErrLengthOverflow, "%s length %d", t, v)
	}
	return int(v), nil
}

// readIntParam resolves a signed integer item's parameter.
func (d *Decoder) readIntParam(p byte) (int64, error) {
	if p <= wire.IntMaxInline {
		return int64(p), nil
	}
	if p <= wire.ParamMaxInline {
		return int64(p) - wire.IntNegBias, nil
	}
	if p > wire.Param64 {
		return 0, errors.Wrapf(ErrReserved, "int parameter %d", p)
	}
	var buf [8]byte
	width := wire.ParamWidth(p)
	if err := d.r.ReadFull(buf[:width]); err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int64(int8(buf[0])), nil
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(buf[:2]))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(buf[:4]))), nil
	default:
		return int64(binary.LittleEndian.Uint64(buf[:8])), nil
	}
}

func (d *Decoder) readFloat32() (float32, error) {
	var buf [4]byte
	if err := d.r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

func (d *Decoder) readFloat64() (float64, error) {
	var buf [8]byte
	if err := d.r.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// readNameLen resolves the name-length byte of a named variant.
func (d *Decoder) readNameLen() (uint64, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b <= wire.NameLenMaxInline {
		return uint64(b), nil
	}
	if b > wire.NameLen64 {
		return 0, errors.Wrapf(ErrReserved, "name-length byte %d", b)
	}
	var buf [8]byte
	width := 1 << uint(b-wire.NameLen8)
	if err := d.r.ReadFull(buf[:width]); err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf[:2])), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf[:4])), nil
	default:
		return binary.LittleEndian.Uint64(buf[:8]), nil
	}
}

func (d *Decoder) readName() (string, error) {
	n, err := d.readNameLen()
	if err != nil {
		return "", err
	}
	if err := d.checkBytesLen(n); err != nil {
		return "", err
	}
	raw, err := d.r.ReadN(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.Wrap(ErrInvalidUTF8, "variant name")
	}
	return string(raw), nil
}

func (d *Decoder) checkBytesLen(n uint64) error {
	if n > maxInt {
		return errors.Wrapf(ErrLengthOverflow, "byte string length %d", n)
	}
	if d.MaxBytes != 0 && n > d.MaxBytes {
		return errors.Wrapf(ErrLengthOverflow, "byte string length %d exceeds configured cap %d", n, d.MaxBytes)
	}
	return nil
}

func (d *Decoder) push() error {
	d.depth++
	if d.depth > d.MaxDepth {
		return errors.Wrapf(ErrDepthExceeded, "nesting deeper than %d", d.MaxDepth)
	}
	return nil
}

func (d *Decoder) pop() {
	d.depth--
}

func (d *Decoder) decodeItem(t wire.Type, p byte, v Visitor) error {
	switch t {
	case wire.TypeUint:
		u, err := d.readParam(t, p)
		if err != nil {
			return err
		}
		return v.VisitUint(u)

	case wire.TypeInt:
		i, err := d.readIntParam(p)
		if err != nil {
			return err
		}
		return v.VisitInt(i)

	case wire.TypeMisc:
		switch p {
		case wire.MiscFalse:
			return v.VisitBool(false)
		case wire.MiscTrue:
			return v.VisitBool(true)
		case wire.MiscUnit:
			return v.VisitUnit()
		case wire.MiscNone:
			return v.VisitNone()
		case wire.MiscFloat32:
			f, err := d.readFloat32()
			if err != nil {
				return err
			}
			return v.VisitFloat32(f)
		case wire.MiscFloat64:
			f, err := d.readFloat64()
			if err != nil {
				return err
			}
			return v.VisitFloat64(f)
		default:
			return errors.Wrapf(ErrReserved, "misc code %d", p)
		}

	case wire.TypeVariant:
		var payload Visitor
		var err error
		if p == wire.ParamNamedVariant {
			name, nerr := d.readName()
			if nerr != nil {
				return nerr
			}
			payload, err = v.StartNamedVariant(name)
		} else {
			id, perr := d.readParam(t, p)
			if perr != nil {
				return perr
			}
			payload, err = v.StartVariant(uint32(id))
		}
		if err != nil {
			return err
		}
		if err := d.push(); err != nil {
			return err
		}
		if payload == nil {
			err = d.skipItem()
		} else {
			err = d.Next(payload)
		}
		d.pop()
		if err != nil {
			return err
		}
		if payload == nil {
			return nil
		}
		return v.FinishVariant(payload)

	case wire.TypeSeq:
		n, err := d.readLen(t, p)
		if err != nil {
			return err
		}
		elems, err := v.StartSeq(n)
		if err != nil {
			return err
		}
		if err := d.push(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if elems == nil {
				err = d.skipItem()
			} else {
				err = d.Next(elems)
			}
			if err != nil {
				d.pop()
				return err
			}
		}
		d.pop()
		if elems == nil {
			return nil
		}
		return v.FinishSeq(elems)

	case wire.TypeBytes:
		n, err := d.readParam(t, p)
		if err != nil {
			return err
		}
		if err := d.checkBytesLen(n); err != nil {
			return err
		}
		raw, err := d.r.ReadN(n)
		if err != nil {
			return err
		}
		return v.VisitBytes(raw)

	case wire.TypeMap:
		n, err := d.readLen(t, p)
		if err != nil {
			return err
		}
		if uint64(n) > maxInt/2 {
			return errors.Wrapf(ErrLengthOverflow, "map length %d", n)
		}
		pairs, err := v.StartMap(n)
		if err != nil {
			return err
		}
		if err := d.push(); err != nil {
			return err
		}
		for i := 0; i < 2*n; i++ {
			if pairs == nil {
				err = d.skipItem()
			} else {
				err = d.Next(pairs)
			}
			if err != nil {
				d.pop()
				return err
			}
		}
		d.pop()
		if pairs == nil {
			return nil
		}
		return v.FinishMap(pairs)

	default:
		return errors.Wrapf(ErrReserved, "type tag 7, parameter %d", p)
	}
}

// Skip structurally consumes exactly one item without materializing it.
// Reserved instructions, depth and EOF are enforced exactly as in a full
// decode.
func (d *Decoder) Skip() error {
	return d.skipItem()
}

func (d *Decoder) skipItem() error {
	t, p, err := d.readInstruction()
	if err != nil {
		return err
	}
	switch t {
	case wire.TypeUint:
		_, err := d.readParam(t, p)
		return err

	case wire.TypeInt:
		_, err := d.readIntParam(p)
		return err

	case wire.TypeMisc:
		switch p {
		case wire.MiscFalse, wire.MiscTrue, wire.MiscUnit, wire.MiscNone:
			return nil
		case wire.MiscFloat32:
			return d.r.Discard(4)
		case wire.MiscFloat64:
			return d.r.Discard(8)
		default:
			return errors.Wrapf(ErrReserved, "misc code %d", p)
		}

	case wire.TypeVariant:
		if p == wire.ParamNamedVariant {
			n, err := d.readNameLen()
			if err != nil {
				return err
			}
			if err := d.checkBytesLen(n); err != nil {
				return err
			}
			if err := d.r.Discard(n); err != nil {
				return err
			}
		} else {
			if _, err := d.readParam(t, p); err != nil {
				return err
			}
		}
		if err := d.push(); err != nil {
			return err
		}
		err := d.skipItem()
		d.pop()
		return err

	case wire.TypeSeq:
		n, err := d.readLen(t, p)
		if err != nil {
			return err
		}
		if err := d.push(); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := d.skipItem(); err != nil {
				d.pop()
				return err
			}
		}
		d.pop()
		return nil

	case wire.TypeBytes:
		n, err := d.readParam(t, p)
		if err != nil {
			return err
		}
		if err := d.checkBytesLen(n); err != nil {
			return err
		}
		return d.r.Discard(n)

	case wire.TypeMap:
		n, err := d.readLen(t, p)
		if err != nil {
			return err
		}
		if uint64(n) > maxInt/2 {
			return errors.Wrapf(ErrLengthOverflow, "map length %d", n)
		}
		if err := d.push(); err != nil {
			return err
		}
		for i := 0; i < 2*n; i++ {
			if err := d.skipItem(); err != nil {
				d.pop()
				return err
			}
		}
		d.pop()
		return nil

	default:
		return errors.Wrapf(ErrReserved, "type tag 7, parameter %d", p)
	}
}
