package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/spmv"
	"github.com/consensys/spmv/internal/ioutils"
	"github.com/consensys/spmv/logger"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"
)

// The matrix encoding has four blocks: a CBOR body carrying the format
// metadata, the element data, and the intcomp-compressed indices and indptr
// sequences. Keeping the integer sequences in distinct blocks lets them be
// compressed as what they are (near-sequential integers) and decoded in
// parallel.

const headerLen = 4 * 8

type header struct {
	// length in bytes of each block
	bodyLen    uint64
	dataLen    uint64
	indicesLen uint64
	indptrLen  uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bodyLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.dataLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.indicesLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.indptrLen)
	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.bodyLen = binary.LittleEndian.Uint64(buf[:8])
	h.dataLen = binary.LittleEndian.Uint64(buf[8:16])
	h.indicesLen = binary.LittleEndian.Uint64(buf[16:24])
	h.indptrLen = binary.LittleEndian.Uint64(buf[24:32])
}

// matrixBody is the CBOR-encoded metadata block.
type matrixBody struct {
	Version     string // spmv version that wrote the artifact
	ScalarField string // modulus, hex
	Cols        uint32
}

// check parses the version and scalar field headers. A version mismatch gets
// a warning, a modulus mismatch is an error.
func (b *matrixBody) check() error {
	objectVersion, err := semver.Parse(b.Version)
	if err != nil {
		return fmt.Errorf("when parsing artifact version: %w", err)
	}
	if spmv.Version.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", spmv.Version.String()).Str("artifact", objectVersion.String()).Msg("spmv version (binary) mismatch with artifact. there are no guarantees on compatibility")
	}

	if expected := fr.Modulus().Text(16); b.ScalarField != expected {
		return fmt.Errorf("unsupported scalar field %s, expected %s", b.ScalarField, expected)
	}
	return nil
}

// matrixToBytes serializes m. The data, indices and indptr blocks are
// prepared in parallel.
func matrixToBytes(m *Matrix) ([]byte, error) {
	var data, indices, indptr []byte
	var g errgroup.Group
	g.Go(func() error {
		var err error
		data, err = dataToBytes(m.Data)
		return err
	})
	g.Go(func() error {
		var buf bytes.Buffer
		buf.Grow(4 * len(m.Indices))
		_, err := ioutils.CompressAndWriteUints32(&buf, m.Indices, nil)
		indices = buf.Bytes()
		return err
	})
	g.Go(func() error {
		var buf bytes.Buffer
		buf.Grow(8 * len(m.Indptr))
		err := ioutils.CompressAndWriteUints64(&buf, m.Indptr)
		indptr = buf.Bytes()
		return err
	})

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	var bodyBuf bytes.Buffer
	if err := enc.NewEncoder(&bodyBuf).Encode(matrixBody{
		Version:     spmv.Version.String(),
		ScalarField: fr.Modulus().Text(16),
		Cols:        m.Cols,
	}); err != nil {
		return nil, err
	}
	body := bodyBuf.Bytes()

	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := header{
		bodyLen:    uint64(len(body)),
		dataLen:    uint64(len(data)),
		indicesLen: uint64(len(indices)),
		indptrLen:  uint64(len(indptr)),
	}

	buf := h.toBytes()
	buf = append(buf, body...)
	buf = append(buf, data...)
	buf = append(buf, indices...)
	buf = append(buf, indptr...)
	return buf, nil
}

// matrixFromBytes deserializes a matrix, decoding the data, indices and
// indptr blocks in parallel. It returns the number of bytes read.
func matrixFromBytes(in []byte) (*Matrix, int, error) {
	if len(in) < headerLen {
		return nil, 0, errors.New("invalid data length")
	}

	h := new(header)
	h.fromBytes(in)

	// the block lengths are untrusted; consume them one by one so their sum
	// cannot overflow past the slice-bounds guard
	remaining := uint64(len(in) - headerLen)
	for _, l := range []uint64{h.bodyLen, h.dataLen, h.indicesLen, h.indptrLen} {
		if l > remaining {
			return nil, 0, errors.New("invalid data length")
		}
		remaining -= l
	}
	total := len(in) - int(remaining)

	m := new(Matrix)

	var g errgroup.Group
	bodyStart := uint64(headerLen)
	dataStart := bodyStart + h.bodyLen
	indicesStart := dataStart + h.dataLen
	indptrStart := indicesStart + h.indicesLen
	g.Go(func() error {
		var err error
		m.Data, err = dataFromBytes(in[dataStart:indicesStart])
		return err
	})
	g.Go(func() error {
		_, _, indices, err := ioutils.ReadAndDecompressUints32(in[indicesStart:indptrStart], nil)
		m.Indices = indices
		return err
	})
	g.Go(func() error {
		_, indptr, err := ioutils.ReadAndDecompressUints64(in[indptrStart:uint64(total)])
		m.Indptr = indptr
		return err
	})

	var body matrixBody
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, 0, err
	}
	if err := dm.NewDecoder(bytes.NewReader(in[bodyStart:dataStart])).Decode(&body); err != nil {
		return nil, 0, err
	}
	if err := body.check(); err != nil {
		return nil, 0, err
	}
	m.Cols = body.Cols

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return m, total, nil
}

func dataToBytes(data []fr.Element) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(4 + len(data)*fr.Bytes)
	v := fr.Vector(data)
	if _, err := v.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dataFromBytes(in []byte) ([]fr.Element, error) {
	var v fr.Vector
	if _, err := v.ReadFrom(bytes.NewReader(in)); err != nil {
		return nil, err
	}
	return v, nil
}
