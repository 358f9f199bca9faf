package codec

import "io"

// maxChunkAlloc bounds how much the decoder allocates ahead of the bytes it
// has actually read, so a forged length cannot force a huge allocation.
const maxChunkAlloc = 64 * 1024

// byteReader wraps the transport with exact-read semantics and a one-byte
// peek. EOF inside an item surfaces as ErrUnexpectedEOF; other transport
// errors pass through untouched.
type byteReader struct {
	r      io.Reader
	buf    [1]byte
	peeked int
	off    int64
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{
		r:      r,
		peeked: -1,
	}
}

// Offset is the number of bytes consumed so far. Peeked-but-unread bytes do
// not count.
func (r *byteReader) Offset() int64 {
	return r.off
}

func (r *byteReader) ReadByte() (byte, error) {
	if r.peeked >= 0 {
		b := byte(r.peeked)
		r.peeked = -1
		r.off++
		return b, nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		return 0, mapEOF(err)
	}
	r.off++
	return r.buf[0], nil
}

// PeekByte returns the next byte without consuming it.
func (r *byteReader) PeekByte() (byte, error) {
	if r.peeked >= 0 {
		return byte(r.peeked), nil
	}
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		return 0, mapEOF(err)
	}
	r.peeked = int(r.buf[0])
	return r.buf[0], nil
}

// ReadFull fills p or fails with ErrUnexpectedEOF.
func (r *byteReader) ReadFull(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if r.peeked >= 0 {
		p[0] = byte(r.peeked)
		r.peeked = -1
		r.off++
		p = p[1:]
	}
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if err != nil {
		return mapEOF(err)
	}
	return nil
}

// ReadN reads exactly n bytes, growing the result in bounded chunks.
func (r *byteReader) ReadN(n uint64) ([]byte, error) {
	if n <= maxChunkAlloc {
		buf := make([]byte, int(n))
		if err := r.ReadFull(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	out := make([]byte, 0, maxChunkAlloc)
	for remaining := n; remaining > 0; {
		chunk := remaining
		if chunk > maxChunkAlloc {
			chunk = maxChunkAlloc
		}
		start := len(out)
		out = append(out, make([]byte, int(chunk))...)
		if err := r.ReadFull(out[start:]); err != nil {
			return nil, err
		}
		remaining -= chunk
	}
	return out, nil
}

// Discard consumes and drops exactly n bytes.
func (r *byteReader) Discard(n uint64) error {
	var scratch [512]byte
	for n > 0 {
		chunk := n
		if chunk > uint64(len(scratch)) {
			chunk = uint64(len(scratch))
		}
		if err := r.ReadFull(scratch[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

func mapEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return err
}
