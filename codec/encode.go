package codec

import (
	"encoding/binary"
	"io"
	"math"

	"dbor/wire"

	"github.com/pkg/errors"
)

// Encoder emits DBOR items to a Writer, always in the narrowest legal
// encoding. Containers are scoped: BeginSeq, BeginMap and the variant
// methods announce how many inner items follow, and the scope closes itself
// once that many items have been emitted. Finish reports any scope that is
// still owed items.
type Encoder struct {
	w       io.Writer
	scratch [wire.MaxHeaderLen]byte
	scopes  []int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) write(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

func (e *Encoder) writeHeader(t wire.Type, v uint64) error {
	n := wire.PutParam(e.scratch[:], t, v)
	return e.write(e.scratch[:n])
}

// beginItem charges one item against the innermost open scope.
func (e *Encoder) beginItem() {
	if len(e.scopes) > 0 {
		e.scopes[len(e.scopes)-1]--
	}
}

// endItem pops every scope whose announced count has been satisfied.
func (e *Encoder) endItem() {
	for len(e.scopes) > 0 && e.scopes[len(e.scopes)-1] == 0 {
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

// Uint emits an unsigned integer.
func (e *Encoder) Uint(v uint64) error {
	e.beginItem()
	if err := e.writeHeader(wire.TypeUint, v); err != nil {
		return err
	}
	e.endItem()
	return nil
}

// Int emits a signed integer in the narrowest class that represents it.
func (e *Encoder) Int(v int64) error {
	e.beginItem()
	var err error
	switch {
	case v >= 0 && v <= wire.IntMaxInline:
		e.scratch[0] = wire.Compose(wire.TypeInt, byte(v))
		err = e.write(e.scratch[:1])
	case v >= -8 && v < 0:
		e.scratch[0] = wire.Compose(wire.TypeInt, byte(v+wire.IntNegBias))
		err = e.write(e.scratch[:1])
	case v >= math.MinInt8 && v <= math.MaxInt8:
		e.scratch[0] = wire.Compose(wire.TypeInt, wire.Param8)
		e.scratch[1] = byte(v)
		err = e.write(e.scratch[:2])
	case v >= math.MinInt16 && v <= math.MaxInt16:
		e.scratch[0] = wire.Compose(wire.TypeInt, wire.Param16)
		binary.LittleEndian.PutUint16(e.scratch[1:], uint16(v))
		err = e.write(e.scratch[:3])
	case v >= math.MinInt32 && v <= math.MaxInt32:
		e.scratch[0] = wire.Compose(wire.TypeInt, wire.Param32)
		binary.LittleEndian.PutUint32(e.scratch[1:], uint32(v))
		err = e.write(e.scratch[:5])
	default:
		e.scratch[0] = wire.Compose(wire.TypeInt, wire.Param64)
		binary.LittleEndian.PutUint64(e.scratch[1:], uint64(v))
		err = e.write(e.scratch[:9])
	}
	if err != nil {
		return err
	}
	e.endItem()
	return nil
}

func (e *Encoder) misc(code byte) error {
	e.beginItem()
	e.scratch[0] = wire.Compose(wire.TypeMisc, code)
	if err := e.write(e.scratch[:1]); err != nil {
		return err
	}
	e.endItem()
	return nil
}

func (e *Encoder) Bool(v bool) error {
	if v {
		return e.misc(wire.MiscTrue)
	}
	return e.misc(wire.MiscFalse)
}

func (e *Encoder) Unit() error {
	return e.misc(wire.MiscUnit)
}

func (e *Encoder) None() error {
	return e.misc(wire.MiscNone)
}

func (e *Encoder) Float32(v float32) error {
	e.beginItem()
	e.scratch[0] = wire.Compose(wire.TypeMisc, wire.MiscFloat32)
	binary.LittleEndian.PutUint32(e.scratch[1:], math.Float32bits(v))
	if err := e.write(e.scratch[:5]); err != nil {
		return err
	}
	e.endItem()
	return nil
}

// Float64 emits a double. The encoder never downcasts to float32.
func (e *Encoder) Float64(v float64) error {
	e.beginItem()
	e.scratch[0] = wire.Compose(wire.TypeMisc, wire.MiscFloat64)
	binary.LittleEndian.PutUint64(e.scratch[1:], math.Float64bits(v))
	if err := e.write(e.scratch[:9]); err != nil {
		return err
	}
	e.endItem()
	return nil
}

// Bytes emits a byte string.
func (e *Encoder) Bytes(p []byte) error {
	e.beginItem()
	if err := e.writeHeader(wire.TypeBytes, uint64(len(p))); err != nil {
		return err
	}
	if err := e.write(p); err != nil {
		return err
	}
	e.endItem()
	return nil
}

// String emits s as a UTF-8 byte string.
func (e *Encoder) String(s string) error {
	return e.Bytes([]byte(s))
}

// BeginSeq opens a sequence of exactly n items.
func (e *Encoder) BeginSeq(n int) error {
	if n < 0 {
		return errors.New("negative sequence length")
	}
	e.beginItem()
	if err := e.writeHeader(wire.TypeSeq, uint64(n)); err != nil {
		return err
	}
	e.scopes = append(e.scopes, n)
	e.endItem()
	return nil
}

// BeginMap opens a map of exactly n key/value pairs. The caller emits 2n
// items, alternating key then value.
func (e *Encoder) BeginMap(n int) error {
	if n < 0 {
		return errors.New("negative map length")
	}
	e.beginItem()
	if err := e.writeHeader(wire.TypeMap, uint64(n)); err != nil {
		return err
	}
	e.scopes = append(e.scopes, 2*n)
	e.endItem()
	return nil
}

// BeginVariant opens a variant with a numeric id. Exactly one payload item
// follows.
func (e *Encoder) BeginVariant(id uint32) error {
	e.beginItem()
	if err := e.writeHeader(wire.TypeVariant, uint64(id)); err != nil {
		return err
	}
	e.scopes = append(e.scopes, 1)
	return nil
}

// BeginNamedVariant opens a variant whose discriminant is a UTF-8 name.
// Exactly one payload item follows.
func (e *Encoder) BeginNamedVariant(name string) error {
	e.beginItem()
	// instruction byte plus the widest name-length encoding; one byte more
	// than the shared header scratch holds
	var hdr [1 + wire.MaxHeaderLen]byte
	hdr[0] = wire.Compose(wire.TypeVariant, wire.ParamNamedVariant)
	n := wire.PutNameLen(hdr[1:], uint64(len(name)))
	if err := e.write(hdr[:1+n]); err != nil {
		return err
	}
	if err := e.write([]byte(name)); err != nil {
		return err
	}
	e.scopes = append(e.scopes, 1)
	return nil
}

// Finish verifies that every announced container received its items. It does
// not flush the underlying Writer.
func (e *Encoder) Finish() error {
	if len(e.scopes) != 0 {
		return errors.Wrapf(ErrCountMismatch, "%d container scope(s) still open", len(e.scopes))
	}
	return nil
}
