package ioutils

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUints32RoundTrip(t *testing.T) {
	input := make([]uint32, 1000)
	for i := range input {
		input[i] = uint32(i * 7)
	}

	var buf bytes.Buffer
	_, err := CompressAndWriteUints32(&buf, input, nil)
	require.NoError(t, err)

	_, n, out, err := ReadAndDecompressUints32(buf.Bytes(), nil)
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)
	require.Equal(t, input, out)
}

func TestUints64RoundTrip(t *testing.T) {
	input := make([]uint64, 1000)
	for i := range input {
		input[i] = uint64(i) << 3
	}

	var buf bytes.Buffer
	require.NoError(t, CompressAndWriteUints64(&buf, input))

	n, out, err := ReadAndDecompressUints64(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, buf.Len(), n)
	require.Equal(t, input, out)
}

func TestWriterReaderCounter(t *testing.T) {
	assert := require.New(t)

	var buf bytes.Buffer
	wc := WriterCounter{W: &buf}
	_, err := wc.Write([]byte("abcd"))
	assert.NoError(err)
	_, err = wc.Write([]byte("efg"))
	assert.NoError(err)
	assert.EqualValues(7, wc.N)
	assert.Equal("abcdefg", buf.String())

	rc := ReaderCounter{R: &buf}
	out := make([]byte, 4)
	_, err = io.ReadFull(&rc, out)
	assert.NoError(err)
	assert.EqualValues(4, rc.N)
	_, err = io.ReadFull(&rc, out[:3])
	assert.NoError(err)
	assert.EqualValues(7, rc.N)
}

func TestShortBuffers(t *testing.T) {
	_, _, _, err := ReadAndDecompressUints32([]byte{1, 2, 3}, nil)
	require.Error(t, err)

	_, _, err = ReadAndDecompressUints64(nil)
	require.Error(t, err)
}
