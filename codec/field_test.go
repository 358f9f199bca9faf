package codec

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type cafeMarshaler struct {
	data []byte
}

func (c *cafeMarshaler) MarshalDBOR(e *Encoder) error {
	return e.Bytes([]byte{0xca, 0xfe})
}

func (c *cafeMarshaler) UnmarshalDBOR(d *Decoder) error {
	raw, err := d.Bytes()
	if err != nil {
		return err
	}
	if !bytes.Equal(raw, []byte{0xca, 0xfe}) {
		return errors.New("invalid cafe decode")
	}
	c.data = raw
	return nil
}

func TestEncodeDecodeFields(t *testing.T) {
	type inner struct {
		Name  string
		Count uint32
	}
	type testStruct struct {
		F0  bool
		F1  uint8
		F2  uint16
		F3  uint32
		F4  uint64
		F5  int8
		F6  int32
		F7  int64
		F8  float32
		F9  float64
		F10 string
		F11 []byte
		F12 [4]byte
		F13 []string
		F14 [2]uint8
		F15 map[string]uint64
		F16 *uint32
		F17 *uint32
		F18 inner
		F19 []*inner
	}

	seven := uint32(7)
	exp := testStruct{
		F0:  true,
		F1:  1,
		F2:  300,
		F3:  70000,
		F4:  1 << 40,
		F5:  -5,
		F6:  -70000,
		F7:  1 << 50,
		F8:  1.5,
		F9:  -2.25,
		F10: "testing",
		F11: []byte{0xff, 0x00},
		F12: [4]byte{1, 2, 3, 4},
		F13: []string{"a", "bb"},
		F14: [2]uint8{9, 10},
		F15: map[string]uint64{"k": 11},
		F16: &seven,
		F17: nil,
		F18: inner{Name: "in", Count: 2},
		F19: []*inner{{Name: "p", Count: 3}, nil},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeField(&buf, exp))

	var actual testStruct
	require.NoError(t, DecodeField(bytes.NewReader(buf.Bytes()), &actual))
	require.Equal(t, exp, actual)
}

func TestFields_Marshaler(t *testing.T) {
	var buf bytes.Buffer
	cafe := &cafeMarshaler{}
	require.NoError(t, EncodeFields(&buf, cafe, uint64(5)))
	require.Equal(t, mustHex(t, "a2cafe05"), buf.Bytes())

	var decoded cafeMarshaler
	var tail uint64
	require.NoError(t, DecodeFields(bytes.NewReader(buf.Bytes()), &decoded, &tail))
	require.Equal(t, []byte{0xca, 0xfe}, decoded.data)
	require.Equal(t, uint64(5), tail)
}

func TestFields_OptionalPointer(t *testing.T) {
	var buf bytes.Buffer
	var src *uint64
	require.NoError(t, EncodeField(&buf, src))
	require.Equal(t, mustHex(t, "43"), buf.Bytes())

	var dst *uint64
	require.NoError(t, DecodeField(bytes.NewReader(buf.Bytes()), &dst))
	require.Nil(t, dst)

	buf.Reset()
	five := uint64(5)
	require.NoError(t, EncodeField(&buf, &five))
	require.Equal(t, mustHex(t, "05"), buf.Bytes())
	require.NoError(t, DecodeField(bytes.NewReader(buf.Bytes()), &dst))
	require.NotNil(t, dst)
	require.Equal(t, uint64(5), *dst)
}

func TestFields_WidthChecks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeField(&buf, uint64(300)))

	var narrow uint8
	err := DecodeField(bytes.NewReader(buf.Bytes()), &narrow)
	require.Error(t, err)
	require.Equal(t, ErrTypeMismatch, errors.Cause(err))

	var wide uint16
	require.NoError(t, DecodeField(bytes.NewReader(buf.Bytes()), &wide))
	require.Equal(t, uint16(300), wide)

	buf.Reset()
	require.NoError(t, EncodeField(&buf, int64(-300)))
	var narrowInt int8
	err = DecodeField(bytes.NewReader(buf.Bytes()), &narrowInt)
	require.Error(t, err)
	require.Equal(t, ErrTypeMismatch, errors.Cause(err))
}

func TestFields_StructArityMismatch(t *testing.T) {
	type two struct {
		A uint64
		B uint64
	}
	// a three-item sequence does not fit a two-field struct
	var seqBuf bytes.Buffer
	e := NewEncoder(&seqBuf)
	require.NoError(t, e.BeginSeq(3))
	require.NoError(t, e.Encode(uint64(1), uint64(2), uint64(3)))
	require.NoError(t, e.Finish())

	var dst two
	err := DecodeField(bytes.NewReader(seqBuf.Bytes()), &dst)
	require.Error(t, err)
	require.Equal(t, ErrTypeMismatch, errors.Cause(err))
}

func TestFields_NonPointerErrors(t *testing.T) {
	err := DecodeField(bytes.NewReader([]byte{0x00}), uint64(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "can only decode into non-nil pointer types")
}

func TestFields_BoolWire(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeFields(&buf, true, false))
	require.Equal(t, mustHex(t, "4140"), buf.Bytes())

	var a, b bool
	require.NoError(t, DecodeFields(bytes.NewReader(buf.Bytes()), &a, &b))
	require.True(t, a)
	require.False(t, b)
}

func TestFields_ByteArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeField(&buf, [3]byte{0xaa, 0xbb, 0xcc}))
	require.Equal(t, mustHex(t, "a3aabbcc"), buf.Bytes())

	var wrong [4]byte
	err := DecodeField(bytes.NewReader(buf.Bytes()), &wrong)
	require.Error(t, err)
	require.Equal(t, ErrTypeMismatch, errors.Cause(err))

	var right [3]byte
	require.NoError(t, DecodeField(bytes.NewReader(buf.Bytes()), &right))
	require.Equal(t, [3]byte{0xaa, 0xbb, 0xcc}, right)
}
