package dasm

import "encoding/binary"

// ImageReader is a sequential cursor over a byte buffer. Reads are
// little-endian and advance the current address by the bytes consumed.
// A read past the end fails without advancing, which terminates the
// disassembly stream.
type ImageReader struct {
	data []byte
	base uint64
	off  int
}

// NewImageReader positions a cursor at base over data.
func NewImageReader(data []byte, base uint64) *ImageReader {
	return &ImageReader{data: data, base: base}
}

// Address returns the address of the next byte to be read.
func (r *ImageReader) Address() uint64 {
	return r.base + uint64(r.off)
}

// TryRead16 reads a little-endian halfword.
func (r *ImageReader) TryRead16() (uint16, bool) {
	if r.off+2 > len(r.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, true
}

// TryRead32 reads a little-endian word.
func (r *ImageReader) TryRead32() (uint32, bool) {
	if r.off+4 > len(r.data) {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, true
}
