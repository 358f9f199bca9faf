package wire

import "encoding/binary"

// Type is the high three bits of an instruction byte.
type Type byte

const (
	TypeUint Type = iota
	TypeInt
	TypeMisc
	TypeVariant
	TypeSeq
	TypeBytes
	TypeMap
	TypeReserved
)

func (t Type) String() string {
	switch t {
	case TypeUint:
		return "uint"
	case TypeInt:
		return "int"
	case TypeMisc:
		return "misc"
	case TypeVariant:
		return "variant"
	case TypeSeq:
		return "seq"
	case TypeBytes:
		return "bytes"
	case TypeMap:
		return "map"
	default:
		return "reserved"
	}
}

// Parameter classes shared by every tag. Parameters 0-23 carry their value
// inline; 24-27 announce a little-endian follow value of 1, 2, 4 or 8 bytes.
const (
	ParamMaxInline = 23
	Param8         = 24
	Param16        = 25
	Param32        = 26
	Param64        = 27
)

// Misc parameter codes. Values 6-31 are reserved.
const (
	MiscFalse   = 0
	MiscTrue    = 1
	MiscUnit    = 2
	MiscNone    = 3
	MiscFloat32 = 4
	MiscFloat64 = 5
)

// Int parameters 0-15 carry the value inline; 16-23 carry value+24, covering
// the window -8..-1.
const (
	IntMaxInline = 15
	IntNegBias   = 24
)

// ParamNamedVariant selects a named variant. The instruction byte is followed
// by a single name-length byte: 0-247 inline, 248-251 announce a little-endian
// u8/u16/u32/u64 length, 252-255 are reserved.
const (
	ParamNamedVariant = 27
	NameLenMaxInline  = 247
	NameLen8          = 248
	NameLen16         = 249
	NameLen32         = 250
	NameLen64         = 251
)

// Compose builds an instruction byte from a type tag and a parameter.
func Compose(t Type, p byte) byte {
	return byte(t)<<5 | p
}

// Split breaks an instruction byte into its type tag and parameter.
func Split(b byte) (Type, byte) {
	return Type(b >> 5), b & 0x1f
}

// ParamWidth returns the width in bytes of the follow value announced by a
// sized parameter (Param8 through Param64).
func ParamWidth(p byte) int {
	return 1 << uint(p-Param8)
}

// PutParam writes the minimal header encoding parameter v under tag t into p
// and returns the number of bytes written. p must hold at least MaxHeaderLen
// bytes. Every length and id branch of the encoder funnels through here so
// that two values never disagree on their width class.
func PutParam(p []byte, t Type, v uint64) int {
	switch {
	case v <= ParamMaxInline:
		p[0] = Compose(t, byte(v))
		return 1
	case v <= 0xff:
		p[0] = Compose(t, Param8)
		p[1] = byte(v)
		return 2
	case v <= 0xffff:
		p[0] = Compose(t, Param16)
		binary.LittleEndian.PutUint16(p[1:], uint16(v))
		return 3
	case v <= 0xffffffff:
		p[0] = Compose(t, Param32)
		binary.LittleEndian.PutUint32(p[1:], uint32(v))
		return 5
	default:
		p[0] = Compose(t, Param64)
		binary.LittleEndian.PutUint64(p[1:], v)
		return 9
	}
}

// PutNameLen writes the minimal name-length byte sequence for a named-variant
// name of n bytes into p and returns the number of bytes written.
func PutNameLen(p []byte, n uint64) int {
	switch {
	case n <= NameLenMaxInline:
		p[0] = byte(n)
		return 1
	case n <= 0xff:
		p[0] = NameLen8
		p[1] = byte(n)
		return 2
	case n <= 0xffff:
		p[0] = NameLen16
		binary.LittleEndian.PutUint16(p[1:], uint16(n))
		return 3
	case n <= 0xffffffff:
		p[0] = NameLen32
		binary.LittleEndian.PutUint32(p[1:], uint32(n))
		return 5
	default:
		p[0] = NameLen64
		binary.LittleEndian.PutUint64(p[1:], n)
		return 9
	}
}

// MaxHeaderLen is the largest header the grammar can produce: one instruction
// byte plus an eight-byte parameter.
const MaxHeaderLen = 9
