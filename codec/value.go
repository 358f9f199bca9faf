package codec

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// Value models an arbitrary DBOR item. It is the decoder's default visitor
// target and re-emits itself through the Encoder, so any decoded tree
// round-trips byte-for-byte in header content.
//
// The following types implement Value:
//   - Uint, Int
//   - Bool, Unit, None
//   - Float32, Float64
//   - Bytes, String
//   - Seq, Map
//   - Variant, NamedVariant
type Value interface {
	Marshaler
}

type (
	Uint    uint64
	Int     int64
	Bool    bool
	Unit    struct{}
	None    struct{}
	Float32 float32
	Float64 float64
	Bytes   []byte

	// String is an encode-side convenience for UTF-8 byte strings. The
	// wire does not distinguish text from binary, so decoding always
	// yields Bytes.
	String string

	Seq []Value

	Pair struct {
		Key   Value
		Value Value
	}

	// Map holds its entries in wire order; the format imposes no key
	// uniqueness or ordering constraint.
	Map []Pair

	Variant struct {
		ID      uint32
		Payload Value
	}

	NamedVariant struct {
		Name    string
		Payload Value
	}
)

func (v Uint) MarshalDBOR(e *Encoder) error    { return e.Uint(uint64(v)) }
func (v Int) MarshalDBOR(e *Encoder) error     { return e.Int(int64(v)) }
func (v Bool) MarshalDBOR(e *Encoder) error    { return e.Bool(bool(v)) }
func (Unit) MarshalDBOR(e *Encoder) error      { return e.Unit() }
func (None) MarshalDBOR(e *Encoder) error      { return e.None() }
func (v Float32) MarshalDBOR(e *Encoder) error { return e.Float32(float32(v)) }
func (v Float64) MarshalDBOR(e *Encoder) error { return e.Float64(float64(v)) }
func (v Bytes) MarshalDBOR(e *Encoder) error   { return e.Bytes(v) }
func (v String) MarshalDBOR(e *Encoder) error  { return e.String(string(v)) }

func (v Seq) MarshalDBOR(e *Encoder) error {
	if err := e.BeginSeq(len(v)); err != nil {
		return err
	}
	for _, item := range v {
		if err := item.MarshalDBOR(e); err != nil {
			return err
		}
	}
	return nil
}

func (v Map) MarshalDBOR(e *Encoder) error {
	if err := e.BeginMap(len(v)); err != nil {
		return err
	}
	for _, pair := range v {
		if err := pair.Key.MarshalDBOR(e); err != nil {
			return err
		}
		if err := pair.Value.MarshalDBOR(e); err != nil {
			return err
		}
	}
	return nil
}

func (v Variant) MarshalDBOR(e *Encoder) error {
	if err := e.BeginVariant(v.ID); err != nil {
		return err
	}
	return v.Payload.MarshalDBOR(e)
}

func (v NamedVariant) MarshalDBOR(e *Encoder) error {
	if err := e.BeginNamedVariant(v.Name); err != nil {
		return err
	}
	return v.Payload.MarshalDBOR(e)
}

// valueVisitor builds Value trees. Containers get a fresh child visitor;
// the Finish hooks fold the child's accumulated items back into the parent.
type valueVisitor struct {
	vals []Value

	variantID   uint32
	variantName string
	named       bool
}

var _ Visitor = (*valueVisitor)(nil)

func (vv *valueVisitor) VisitUint(v uint64) error     { vv.vals = append(vv.vals, Uint(v)); return nil }
func (vv *valueVisitor) VisitInt(v int64) error       { vv.vals = append(vv.vals, Int(v)); return nil }
func (vv *valueVisitor) VisitBool(v bool) error       { vv.vals = append(vv.vals, Bool(v)); return nil }
func (vv *valueVisitor) VisitUnit() error             { vv.vals = append(vv.vals, Unit{}); return nil }
func (vv *valueVisitor) VisitNone() error             { vv.vals = append(vv.vals, None{}); return nil }
func (vv *valueVisitor) VisitFloat32(v float32) error { vv.vals = append(vv.vals, Float32(v)); return nil }
func (vv *valueVisitor) VisitFloat64(v float64) error { vv.vals = append(vv.vals, Float64(v)); return nil }
func (vv *valueVisitor) VisitBytes(p []byte) error    { vv.vals = append(vv.vals, Bytes(p)); return nil }

func (vv *valueVisitor) StartSeq(n int) (Visitor, error) {
	return &valueVisitor{}, nil
}

func (vv *valueVisitor) FinishSeq(elems Visitor) error {
	child := elems.(*valueVisitor)
	seq := make(Seq, len(child.vals))
	copy(seq, child.vals)
	vv.vals = append(vv.vals, seq)
	return nil
}

func (vv *valueVisitor) StartMap(n int) (Visitor, error) {
	return &valueVisitor{}, nil
}

func (vv *valueVisitor) FinishMap(pairs Visitor) error {
	child := pairs.(*valueVisitor)
	m := make(Map, 0, len(child.vals)/2)
	for i := 0; i+1 < len(child.vals); i += 2 {
		m = append(m, Pair{Key: child.vals[i], Value: child.vals[i+1]})
	}
	vv.vals = append(vv.vals, m)
	return nil
}

func (vv *valueVisitor) StartVariant(id uint32) (Visitor, error) {
	return &valueVisitor{variantID: id}, nil
}

func (vv *valueVisitor) StartNamedVariant(name string) (Visitor, error) {
	return &valueVisitor{variantName: name, named: true}, nil
}

func (vv *valueVisitor) FinishVariant(payload Visitor) error {
	child := payload.(*valueVisitor)
	if len(child.vals) != 1 {
		return errors.New("variant payload missing")
	}
	if child.named {
		vv.vals = append(vv.vals, NamedVariant{Name: child.variantName, Payload: child.vals[0]})
	} else {
		vv.vals = append(vv.vals, Variant{ID: child.variantID, Payload: child.vals[0]})
	}
	return nil
}

// EncodeValue writes one Value to w in minimal form.
func EncodeValue(w io.Writer, v Value) error {
	e := NewEncoder(w)
	if err := v.MarshalDBOR(e); err != nil {
		return err
	}
	return e.Finish()
}

// MarshalValue returns the minimal encoding of v.
func MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue reads exactly one item from d into a Value tree.
func DecodeValue(d *Decoder) (Value, error) {
	root := &valueVisitor{}
	if err := d.Next(root); err != nil {
		return nil, err
	}
	return root.vals[0], nil
}

// UnmarshalValue decodes one item from p and requires the input to be fully
// consumed.
func UnmarshalValue(p []byte) (Value, error) {
	d := NewDecoder(bytes.NewReader(p))
	v, err := DecodeValue(d)
	if err != nil {
		return nil, err
	}
	if _, err := d.r.PeekByte(); err == nil {
		return nil, errors.Wrapf(ErrTrailingBytes, "%d bytes consumed", d.Offset())
	} else if err != ErrUnexpectedEOF {
		return nil, err
	}
	return v, nil
}
