// Package canon implements the fixed-width, length-prefixed binary encoding
// shared by every value type in mel2stf. The encoding is deliberately plain:
// little-endian integers, a uint32 length prefix ahead of every variable-size
// byte string, and a single tag byte ahead of every discriminated union.
package canon

import (
	"encoding/binary"
	"fmt"
)

// Writer accumulates a canonical byte string.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer with the given capacity hint.
func NewWriter(capHint int) *Writer {
	return &Writer{buf: make([]byte, 0, capHint)}
}

// Bytes returns the accumulated canonical encoding.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteFixed appends raw bytes with no length prefix. Used for fixed-width
// fields (addresses, hashes, 128-bit quantities) whose length is implied by
// the type.
func (w *Writer) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes appends a uint32 length prefix followed by the bytes.
func (w *Writer) WriteBytes(b []byte) {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, b...)
}

// WriteTag appends a single discriminant byte for a tagged union.
func (w *Writer) WriteTag(tag byte) {
	w.buf = append(w.buf, tag)
}

// Reader consumes a canonical byte string produced by Writer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps b for sequential canonical decoding.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("canon: short buffer, need %d have %d", n, r.Remaining())
	}
	return nil
}

// ReadUint16 decodes a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadUint64 decodes a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadFixed reads exactly n raw bytes.
func (r *Reader) ReadFixed(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadBytes decodes a uint32 length prefix followed by that many bytes.
func (r *Reader) ReadBytes() ([]byte, error) {
	if err := r.need(4); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return r.ReadFixed(int(n))
}

// ReadTag decodes a single discriminant byte.
func (r *Reader) ReadTag() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	tag := r.buf[r.pos]
	r.pos++
	return tag, nil
}
