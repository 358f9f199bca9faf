package codec

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func encodeOne(t *testing.T, emit func(e *Encoder) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	require.NoError(t, emit(e))
	require.NoError(t, e.Finish())
	return buf.Bytes()
}

func TestEncoder_UintWidths(t *testing.T) {
	tests := []struct {
		v   uint64
		out string
	}{
		{0, "00"},
		{23, "17"},
		{24, "1818"},
		{255, "18ff"},
		{256, "190001"},
		{65535, "19ffff"},
		{65536, "1a00000100"},
		{0xffffffff, "1affffffff"},
		{0x100000000, "1b0000000001000000"},
		{0xffffffffffffffff, "1bffffffffffffffff"},
	}
	for _, tt := range tests {
		got := encodeOne(t, func(e *Encoder) error { return e.Uint(tt.v) })
		require.Equal(t, mustHex(t, tt.out), got, "uint %d", tt.v)
	}
}

func TestEncoder_IntWidths(t *testing.T) {
	tests := []struct {
		v   int64
		out string
	}{
		{0, "20"},
		{15, "2f"},
		{-1, "37"},
		{-8, "30"},
		{-9, "38f7"},
		{16, "3810"},
		{127, "387f"},
		{-128, "3880"},
		{128, "398000"},
		{-129, "397fff"},
		{32767, "39ff7f"},
		{-32768, "390080"},
		{32768, "3a00800000"},
		{-2147483648, "3a00000080"},
		{2147483648, "3b0000008000000000"},
		{-9223372036854775808, "3b0000000000000080"},
	}
	for _, tt := range tests {
		got := encodeOne(t, func(e *Encoder) error { return e.Int(tt.v) })
		require.Equal(t, mustHex(t, tt.out), got, "int %d", tt.v)
	}
}

func TestEncoder_Misc(t *testing.T) {
	require.Equal(t, mustHex(t, "40"), encodeOne(t, func(e *Encoder) error { return e.Bool(false) }))
	require.Equal(t, mustHex(t, "41"), encodeOne(t, func(e *Encoder) error { return e.Bool(true) }))
	require.Equal(t, mustHex(t, "42"), encodeOne(t, func(e *Encoder) error { return e.Unit() }))
	require.Equal(t, mustHex(t, "43"), encodeOne(t, func(e *Encoder) error { return e.None() }))
	require.Equal(t, mustHex(t, "440000803f"), encodeOne(t, func(e *Encoder) error { return e.Float32(1.0) }))
	require.Equal(t, mustHex(t, "45000000000000f03f"), encodeOne(t, func(e *Encoder) error { return e.Float64(1.0) }))
}

func TestEncoder_Bytes(t *testing.T) {
	require.Equal(t, mustHex(t, "a0"), encodeOne(t, func(e *Encoder) error { return e.Bytes(nil) }))
	require.Equal(t,
		mustHex(t, "ac48656c6c6f20776f726c6421"),
		encodeOne(t, func(e *Encoder) error { return e.String("Hello world!") }))

	long := bytes.Repeat([]byte{0xaa}, 300)
	got := encodeOne(t, func(e *Encoder) error { return e.Bytes(long) })
	require.Equal(t, mustHex(t, "b92c01"), got[:3])
	require.Equal(t, long, got[3:])
}

func TestEncoder_Variants(t *testing.T) {
	got := encodeOne(t, func(e *Encoder) error {
		if err := e.BeginVariant(3); err != nil {
			return err
		}
		return e.Bool(true)
	})
	require.Equal(t, mustHex(t, "6341"), got)

	got = encodeOne(t, func(e *Encoder) error {
		if err := e.BeginVariant(0x27); err != nil {
			return err
		}
		return e.Unit()
	})
	require.Equal(t, mustHex(t, "782742"), got)

	got = encodeOne(t, func(e *Encoder) error {
		if err := e.BeginVariant(0x12345678); err != nil {
			return err
		}
		return e.Uint(0)
	})
	require.Equal(t, mustHex(t, "7a7856341200"), got)
}

func TestEncoder_NamedVariant(t *testing.T) {
	got := encodeOne(t, func(e *Encoder) error {
		if err := e.BeginNamedVariant("hello"); err != nil {
			return err
		}
		return e.Unit()
	})
	require.Equal(t, mustHex(t, "7b0568656c6c6f42"), got)
}

func TestEncoder_Containers(t *testing.T) {
	got := encodeOne(t, func(e *Encoder) error {
		if err := e.BeginSeq(2); err != nil {
			return err
		}
		if err := e.Uint(1); err != nil {
			return err
		}
		return e.Uint(2)
	})
	require.Equal(t, mustHex(t, "820102"), got)

	got = encodeOne(t, func(e *Encoder) error {
		if err := e.BeginMap(1); err != nil {
			return err
		}
		if err := e.String("k"); err != nil {
			return err
		}
		return e.Uint(7)
	})
	require.Equal(t, mustHex(t, "c1a16b07"), got)
}

func TestEncoder_CompoundFixture(t *testing.T) {
	got := encodeOne(t, func(e *Encoder) error {
		if err := e.BeginSeq(4); err != nil {
			return err
		}
		if err := e.String("Hello world!"); err != nil {
			return err
		}
		if err := e.Uint(4); err != nil {
			return err
		}
		if err := e.Uint(0x27); err != nil {
			return err
		}
		if err := e.BeginSeq(3); err != nil {
			return err
		}
		if err := e.Uint(0x1234); err != nil {
			return err
		}
		if err := e.Uint(0x6789); err != nil {
			return err
		}
		return e.Uint(0xabcd)
	})
	require.Equal(t,
		mustHex(t, "84ac48656c6c6f20776f726c64210418278319341219896719cdab"),
		got)
}

func TestEncoder_CountMismatch(t *testing.T) {
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	require.NoError(t, e.BeginSeq(2))
	require.NoError(t, e.Uint(1))
	err := e.Finish()
	require.Error(t, err)
	require.Equal(t, ErrCountMismatch, errors.Cause(err))

	e = NewEncoder(&buf)
	require.NoError(t, e.BeginMap(2))
	require.NoError(t, e.Uint(1))
	require.NoError(t, e.Uint(2))
	err = e.Finish()
	require.Error(t, err)
	require.Equal(t, ErrCountMismatch, errors.Cause(err))
}

func TestEncoder_NestedScopesClose(t *testing.T) {
	got := encodeOne(t, func(e *Encoder) error {
		if err := e.BeginSeq(2); err != nil {
			return err
		}
		if err := e.BeginSeq(0); err != nil {
			return err
		}
		if err := e.BeginVariant(1); err != nil {
			return err
		}
		return e.None()
	})
	require.Equal(t, mustHex(t, "82806143"), got)
}
