package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// tallyVisitor records the order of visitor callbacks.
type tallyVisitor struct {
	events *[]string
	skip   bool
}

func (v *tallyVisitor) note(ev string) {
	*v.events = append(*v.events, ev)
}

func (v *tallyVisitor) VisitUint(u uint64) error     { v.note("uint"); return nil }
func (v *tallyVisitor) VisitInt(i int64) error       { v.note("int"); return nil }
func (v *tallyVisitor) VisitBool(b bool) error       { v.note("bool"); return nil }
func (v *tallyVisitor) VisitUnit() error             { v.note("unit"); return nil }
func (v *tallyVisitor) VisitNone() error             { v.note("none"); return nil }
func (v *tallyVisitor) VisitFloat32(f float32) error { v.note("f32"); return nil }
func (v *tallyVisitor) VisitFloat64(f float64) error { v.note("f64"); return nil }
func (v *tallyVisitor) VisitBytes(p []byte) error    { v.note("bytes"); return nil }

func (v *tallyVisitor) StartSeq(n int) (Visitor, error) {
	v.note("seq")
	if v.skip {
		return nil, nil
	}
	return v, nil
}

func (v *tallyVisitor) FinishSeq(elems Visitor) error {
	v.note("endseq")
	return nil
}

func (v *tallyVisitor) StartMap(n int) (Visitor, error) {
	v.note("map")
	if v.skip {
		return nil, nil
	}
	return v, nil
}

func (v *tallyVisitor) FinishMap(pairs Visitor) error {
	v.note("endmap")
	return nil
}

func (v *tallyVisitor) StartVariant(id uint32) (Visitor, error) {
	v.note("variant")
	return v, nil
}

func (v *tallyVisitor) StartNamedVariant(name string) (Visitor, error) {
	v.note("named:" + name)
	return v, nil
}

func (v *tallyVisitor) FinishVariant(payload Visitor) error {
	v.note("endvariant")
	return nil
}

func TestVisitor_CallbackOrder(t *testing.T) {
	d := newTestDecoder(t, "84ac48656c6c6f20776f726c64210418278319341219896719cdab")
	var events []string
	require.NoError(t, d.Next(&tallyVisitor{events: &events}))
	require.Equal(t, []string{
		"seq",
		"bytes", "uint", "uint",
		"seq", "uint", "uint", "uint", "endseq",
		"endseq",
	}, events)
}

func TestVisitor_NilChildSkipsContents(t *testing.T) {
	d := newTestDecoder(t, "820118ff41")
	var events []string
	require.NoError(t, d.Next(&tallyVisitor{events: &events, skip: true}))
	require.Equal(t, []string{"seq"}, events)

	// the skipped container was consumed in full
	v, err := d.Bool()
	require.NoError(t, err)
	require.True(t, v)
}

func TestVisitor_VariantPayload(t *testing.T) {
	d := newTestDecoder(t, "7b0568656c6c6f42")
	var events []string
	require.NoError(t, d.Next(&tallyVisitor{events: &events}))
	require.Equal(t, []string{"named:hello", "unit", "endvariant"}, events)
}
