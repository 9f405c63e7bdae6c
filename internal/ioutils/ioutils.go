// Package ioutils wraps github.com/ronanh/intcomp to read and write
// compressed integer sections of serialized artifacts.
package ioutils

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/ronanh/intcomp"
)

var errShortBuffer = errors.New("invalid data: short buffer")

// CompressAndWriteUints32 compresses a slice of uint32 and writes it to w,
// prefixed with the length of the compressed form.
// It returns the scratch buffer (possibly extended) for future use.
func CompressAndWriteUints32(w io.Writer, input []uint32, buffer []uint32) ([]uint32, error) {
	buffer = buffer[:0]
	buffer = intcomp.CompressUint32(input, buffer)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return buffer, err
	}
	return buffer, binary.Write(w, binary.LittleEndian, buffer)
}

// CompressAndWriteUints64 compresses a slice of uint64 and writes it to w,
// prefixed with the length of the compressed form.
func CompressAndWriteUints64(w io.Writer, input []uint64) error {
	buffer := intcomp.CompressUint64(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints32 reads a compressed slice of uint32 from in and
// decompresses it. It returns the scratch buffer for future use, the number of
// bytes read and the decompressed slice.
func ReadAndDecompressUints32(in []byte, buffer []uint32) ([]uint32, int, []uint32, error) {
	if len(in) < 8 {
		return buffer, 0, nil, errShortBuffer
	}
	length := int(binary.LittleEndian.Uint64(in[:8]))
	in = in[8:]
	if len(in) < 4*length {
		return buffer, 8, nil, errShortBuffer
	}
	buffer = buffer[:0]
	for i := 0; i < length; i++ {
		buffer = append(buffer, binary.LittleEndian.Uint32(in[4*i:]))
	}
	return buffer, 8 + 4*length, intcomp.UncompressUint32(buffer, nil), nil
}

// ReadAndDecompressUints64 reads a compressed slice of uint64 from in and
// decompresses it. It returns the number of bytes read and the decompressed
// slice.
func ReadAndDecompressUints64(in []byte) (int, []uint64, error) {
	if len(in) < 8 {
		return 0, nil, errShortBuffer
	}
	length := int(binary.LittleEndian.Uint64(in[:8]))
	in = in[8:]
	if len(in) < 8*length {
		return 8, nil, errShortBuffer
	}
	buffer := make([]uint64, length)
	for i := range buffer {
		buffer[i] = binary.LittleEndian.Uint64(in[8*i:])
	}
	return 8 + 8*length, intcomp.UncompressUint64(buffer, nil), nil
}

// WriterCounter wraps an io.Writer and counts the bytes written through it.
type WriterCounter struct {
	W io.Writer
	N int64
}

func (w *WriterCounter) Write(p []byte) (n int, err error) {
	n, err = w.W.Write(p)
	w.N += int64(n)
	return
}

// ReaderCounter wraps an io.Reader and counts the bytes read through it.
type ReaderCounter struct {
	R io.Reader
	N int64
}

func (r *ReaderCounter) Read(p []byte) (n int, err error) {
	n, err = r.R.Read(p)
	r.N += int64(n)
	return
}
