package r1cs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sync/errgroup"

	"github.com/laconiczk/laconic"
	"github.com/laconiczk/laconic/internal/ioutils"
	"github.com/laconiczk/laconic/logger"
)

// serializationHeader opens a serialized constraint system. Same contract as
// the key headers: a version mismatch logs a warning, a scalar field
// mismatch fails hard.
type serializationHeader struct {
	Version     string
	ScalarField string

	NbConstraints int
	NbVariables   int
	NbPublic      int
	NbNonZero     [3]int
}

const (
	maxHeaderBytes    = 1 << 12
	maxSerializedSize = 1 << 30
)

func newSerializationHeader(s *System) *serializationHeader {
	return &serializationHeader{
		Version:       laconic.Version.String(),
		ScalarField:   fr.Modulus().Text(16),
		NbConstraints: s.NbConstraints,
		NbVariables:   s.NbVariables,
		NbPublic:      s.NbPublic,
		NbNonZero:     [3]int{s.A.NbNonZero(), s.B.NbNonZero(), s.C.NbNonZero()},
	}
}

func (h *serializationHeader) validate() error {
	objectVersion, err := semver.Parse(h.Version)
	if err != nil {
		return fmt.Errorf("when parsing laconic version: %w", err)
	}
	if laconic.Version.Compare(objectVersion) != 0 {
		log := logger.Logger()
		log.Warn().Str("binary", laconic.Version.String()).Str("object", objectVersion.String()).
			Msg("laconic version (binary) mismatch with serialized object. there are no guarantees on compatibility")
	}

	if h.ScalarField != fr.Modulus().Text(16) {
		return fmt.Errorf("unsupported scalar field %s", h.ScalarField)
	}

	if h.NbConstraints < 1 || h.NbConstraints > maxSerializedSize {
		return fmt.Errorf("%w: serialized system has %d constraints", laconic.ErrMalformedInstance, h.NbConstraints)
	}
	if h.NbVariables < 1 || h.NbVariables > maxSerializedSize {
		return fmt.Errorf("%w: serialized system has %d variables", laconic.ErrMalformedInstance, h.NbVariables)
	}
	if h.NbPublic < 0 || h.NbPublic > h.NbVariables {
		return fmt.Errorf("%w: serialized system has %d public variables", laconic.ErrMalformedInstance, h.NbPublic)
	}
	for i, nnz := range h.NbNonZero {
		if nnz < 0 || nnz > maxSerializedSize {
			return fmt.Errorf("%w: serialized matrix %c has %d entries", laconic.ErrMalformedInstance, 'A'+i, nnz)
		}
	}
	return nil
}

func writeFrame(w io.Writer, payload []byte) (int64, error) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return 0, err
	}
	written, err := w.Write(payload)
	return int64(8 + written), err
}

func readFrame(r io.Reader, maxSize uint64) ([]byte, int64, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, 0, err
	}
	size := binary.LittleEndian.Uint64(lenBuf[:])
	if size > maxSize {
		return nil, 8, errors.New("invalid serialized section size")
	}
	payload := make([]byte, size)
	read, err := io.ReadFull(r, payload)
	return payload, int64(8 + read), err
}

// row + column indices and coefficients, with room for compression headers
func sectionLimit(nbNonZero int) uint64 {
	return uint64(1024 + 64*nbNonZero)
}

// WriteTo writes the system to w: a CBOR header carrying the shape, then one
// framed section per matrix with compressed indices and raw coefficients.
// The three sections are prepared in parallel.
func (s *System) WriteTo(w io.Writer) (int64, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	headerBytes, err := em.Marshal(newSerializationHeader(s))
	if err != nil {
		return 0, err
	}

	matrices := [3]*SparseMatrix{&s.A, &s.B, &s.C}
	var sections [3][]byte
	var g errgroup.Group
	for i := range matrices {
		i := i
		g.Go(func() error {
			var buf bytes.Buffer
			scratch, err := ioutils.CompressAndWriteUints32(&buf, matrices[i].Rows, nil)
			if err != nil {
				return err
			}
			if _, err = ioutils.CompressAndWriteUints32(&buf, matrices[i].Cols, scratch); err != nil {
				return err
			}
			enc := curve.NewEncoder(&buf)
			if err := enc.Encode(matrices[i].Coeffs); err != nil {
				return err
			}
			sections[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	n, err := writeFrame(w, headerBytes)
	if err != nil {
		return n, err
	}
	for i := range sections {
		written, err := writeFrame(w, sections[i])
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadFrom reads a system written by WriteTo from r and validates it
// structurally, so a successfully read system is ready for indexing.
func (s *System) ReadFrom(r io.Reader) (int64, error) {
	headerBytes, n, err := readFrame(r, maxHeaderBytes)
	if err != nil {
		return n, err
	}
	var header serializationHeader
	if err := cbor.Unmarshal(headerBytes, &header); err != nil {
		return n, err
	}
	if err := header.validate(); err != nil {
		return n, err
	}

	var sections [3][]byte
	for i := range sections {
		payload, read, err := readFrame(r, sectionLimit(header.NbNonZero[i]))
		n += read
		if err != nil {
			return n, err
		}
		sections[i] = payload
	}

	s.NbConstraints = header.NbConstraints
	s.NbVariables = header.NbVariables
	s.NbPublic = header.NbPublic
	matrices := [3]*SparseMatrix{&s.A, &s.B, &s.C}
	var g errgroup.Group
	for i := range matrices {
		i := i
		g.Go(func() error {
			buf := bytes.NewReader(sections[i])
			_, rows, err := ioutils.ReadAndDecompressUints32(buf)
			if err != nil {
				return err
			}
			_, cols, err := ioutils.ReadAndDecompressUints32(buf)
			if err != nil {
				return err
			}
			dec := curve.NewDecoder(buf)
			var coeffs []fr.Element
			if err := dec.Decode(&coeffs); err != nil {
				return err
			}
			if len(rows) != header.NbNonZero[i] || len(cols) != header.NbNonZero[i] || len(coeffs) != header.NbNonZero[i] {
				return fmt.Errorf("%w: matrix %c section has inconsistent entry counts", laconic.ErrMalformedInstance, 'A'+i)
			}
			*matrices[i] = SparseMatrix{
				Rows:   rows,
				Cols:   cols,
				Coeffs: coeffs,
				NbRows: header.NbConstraints,
				NbCols: header.NbVariables,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return n, err
	}

	return n, s.Validate(0)
}
