package codec

import (
	"io"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// Marshaler is implemented by types that emit their own DBOR encoding.
type Marshaler interface {
	MarshalDBOR(e *Encoder) error
}

// Unmarshaler is implemented by types that decode themselves.
type Unmarshaler interface {
	UnmarshalDBOR(d *Decoder) error
}

// Encode maps each item onto the wire: native Go scalars, strings and byte
// slices directly, Marshaler implementations through their own method, and
// everything else reflectively — structs as positional sequences of their
// exported fields, slices and arrays as sequences, maps as maps, nil
// pointers as none.
func (e *Encoder) Encode(items ...interface{}) error {
	for _, item := range items {
		if err := e.encodeItem(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeItem(item interface{}) error {
	switch it := item.(type) {
	case Marshaler:
		return it.MarshalDBOR(e)
	case nil:
		return e.None()
	case bool:
		return e.Bool(it)
	case uint8:
		return e.Uint(uint64(it))
	case uint16:
		return e.Uint(uint64(it))
	case uint32:
		return e.Uint(uint64(it))
	case uint64:
		return e.Uint(it)
	case uint:
		return e.Uint(uint64(it))
	case int8:
		return e.Int(int64(it))
	case int16:
		return e.Int(int64(it))
	case int32:
		return e.Int(int64(it))
	case int64:
		return e.Int(it)
	case int:
		return e.Int(int64(it))
	case float32:
		return e.Float32(it)
	case float64:
		return e.Float64(it)
	case string:
		return e.String(it)
	case []byte:
		return e.Bytes(it)
	default:
		return e.encodeReflect(item)
	}
}

func (e *Encoder) encodeReflect(item interface{}) error {
	v := reflect.ValueOf(item)
	t := v.Type()

	switch t.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return e.None()
		}
		return e.encodeItem(v.Elem().Interface())

	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			buf := make([]byte, v.Len())
			reflect.Copy(reflect.ValueOf(buf), v)
			return e.Bytes(buf)
		}
		if err := e.BeginSeq(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeItem(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return e.Bytes(v.Bytes())
		}
		if err := e.BeginSeq(v.Len()); err != nil {
			return err
		}
		for i := 0; i < v.Len(); i++ {
			if err := e.encodeItem(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		if err := e.BeginMap(v.Len()); err != nil {
			return err
		}
		for _, k := range v.MapKeys() {
			if err := e.encodeItem(k.Interface()); err != nil {
				return err
			}
			if err := e.encodeItem(v.MapIndex(k).Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		fields := exportedFields(t)
		if err := e.BeginSeq(len(fields)); err != nil {
			return err
		}
		for _, i := range fields {
			if err := e.encodeItem(v.Field(i).Interface()); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Errorf("type %s cannot be encoded", t)
	}
}

// Decode fills each item from the wire. Items must be non-nil pointers.
// Struct fields decode positionally and the wire sequence must carry exactly
// as many items as the struct has exported fields; pointer fields treat a
// none item as nil.
func (d *Decoder) Decode(items ...interface{}) error {
	for _, item := range items {
		if err := d.decodeField(item); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeField(item interface{}) error {
	switch it := item.(type) {
	case Unmarshaler:
		return it.UnmarshalDBOR(d)
	case *bool:
		v, err := d.Bool()
		if err != nil {
			return err
		}
		*it = v
	case *uint8:
		v, err := d.uintFit(math.MaxUint8)
		if err != nil {
			return err
		}
		*it = uint8(v)
	case *uint16:
		v, err := d.uintFit(math.MaxUint16)
		if err != nil {
			return err
		}
		*it = uint16(v)
	case *uint32:
		v, err := d.uintFit(math.MaxUint32)
		if err != nil {
			return err
		}
		*it = uint32(v)
	case *uint64:
		v, err := d.Uint()
		if err != nil {
			return err
		}
		*it = v
	case *uint:
		v, err := d.uintFit(uint64(^uint(0)))
		if err != nil {
			return err
		}
		*it = uint(v)
	case *int8:
		v, err := d.intFit(math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		*it = int8(v)
	case *int16:
		v, err := d.intFit(math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		*it = int16(v)
	case *int32:
		v, err := d.intFit(math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		*it = int32(v)
	case *int64:
		v, err := d.Int()
		if err != nil {
			return err
		}
		*it = v
	case *int:
		v, err := d.intFit(minInt, int64(maxInt))
		if err != nil {
			return err
		}
		*it = int(v)
	case *float32:
		v, err := d.Float32()
		if err != nil {
			return err
		}
		*it = v
	case *float64:
		v, err := d.Float64()
		if err != nil {
			return err
		}
		*it = v
	case *string:
		v, err := d.Text()
		if err != nil {
			return err
		}
		*it = v
	case *[]byte:
		v, err := d.Bytes()
		if err != nil {
			return err
		}
		*it = v
	default:
		return d.decodeReflect(item)
	}
	return nil
}

func (d *Decoder) uintFit(max uint64) (uint64, error) {
	v, err := d.Uint()
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, errors.Wrapf(ErrTypeMismatch, "uint %d overflows requested width", v)
	}
	return v, nil
}

func (d *Decoder) intFit(min, max int64) (int64, error) {
	v, err := d.Int()
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, errors.Wrapf(ErrTypeMismatch, "int %d overflows requested width", v)
	}
	return v, nil
}

func (d *Decoder) decodeReflect(item interface{}) error {
	rv := reflect.ValueOf(item)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("can only decode into non-nil pointer types")
	}
	elem := rv.Elem()
	t := elem.Type()

	switch t.Kind() {
	case reflect.Ptr:
		none, err := d.IsNone()
		if err != nil {
			return err
		}
		if none {
			elem.Set(reflect.Zero(t))
			return nil
		}
		p := reflect.New(t.Elem())
		if err := d.decodeField(p.Interface()); err != nil {
			return err
		}
		elem.Set(p)
		return nil

	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			raw, err := d.Bytes()
			if err != nil {
				return err
			}
			if len(raw) != t.Len() {
				return errors.Wrapf(ErrTypeMismatch, "byte string of %d bytes into [%d]byte", len(raw), t.Len())
			}
			reflect.Copy(elem, reflect.ValueOf(raw))
			return nil
		}
		n, err := d.SeqLen()
		if err != nil {
			return err
		}
		if n != t.Len() {
			return errors.Wrapf(ErrTypeMismatch, "sequence of %d items into array of %d", n, t.Len())
		}
		for i := 0; i < n; i++ {
			if err := d.decodeField(elem.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			raw, err := d.Bytes()
			if err != nil {
				return err
			}
			elem.SetBytes(raw)
			return nil
		}
		n, err := d.SeqLen()
		if err != nil {
			return err
		}
		hint := n
		if hint > 1024 {
			hint = 1024
		}
		s := reflect.MakeSlice(t, 0, hint)
		for i := 0; i < n; i++ {
			p := reflect.New(t.Elem())
			if err := d.decodeField(p.Interface()); err != nil {
				return err
			}
			s = reflect.Append(s, p.Elem())
		}
		elem.Set(s)
		return nil

	case reflect.Map:
		n, err := d.MapLen()
		if err != nil {
			return err
		}
		hint := n
		if hint > 1024 {
			hint = 1024
		}
		m := reflect.MakeMapWithSize(t, hint)
		for i := 0; i < n; i++ {
			k := reflect.New(t.Key())
			if err := d.decodeField(k.Interface()); err != nil {
				return err
			}
			v := reflect.New(t.Elem())
			if err := d.decodeField(v.Interface()); err != nil {
				return err
			}
			m.SetMapIndex(k.Elem(), v.Elem())
		}
		elem.Set(m)
		return nil

	case reflect.Struct:
		fields := exportedFields(t)
		n, err := d.SeqLen()
		if err != nil {
			return err
		}
		if n != len(fields) {
			return errors.Wrapf(ErrTypeMismatch, "sequence of %d items into struct with %d fields", n, len(fields))
		}
		for _, i := range fields {
			if err := d.decodeField(elem.Field(i).Addr().Interface()); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Errorf("type %s cannot be decoded", t)
	}
}

func exportedFields(t reflect.Type) []int {
	var fields []int
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath == "" {
			fields = append(fields, i)
		}
	}
	return fields
}

// EncodeField encodes the single item to the Writer.
func EncodeField(w io.Writer, item interface{}) error {
	return EncodeFields(w, item)
}

// EncodeFields encodes each item in order to the Writer.
func EncodeFields(w io.Writer, items ...interface{}) error {
	e := NewEncoder(w)
	if err := e.Encode(items...); err != nil {
		return err
	}
	return e.Finish()
}

// DecodeField decodes the next item from the Reader. The item must be a
// pointer type.
func DecodeField(r io.Reader, item interface{}) error {
	return DecodeFields(r, item)
}

// DecodeFields decodes each item in order from the Reader. Items must be
// pointer types.
func DecodeFields(r io.Reader, items ...interface{}) error {
	d := NewDecoder(r)
	return d.Decode(items...)
}
