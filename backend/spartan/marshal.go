package spartan

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
	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/internal/ioutils"
	"github.com/laconiczk/laconic/logger"
)

// serializationHeader opens every serialized object of this package. The
// scalar field identifies the curve the data was produced for; the version
// is informational, a mismatch logs a warning like the rest of the module's
// serialized objects do.
type serializationHeader struct {
	Version     string
	ScalarField string
	Info        IndexInfo
}

const maxHeaderBytes = 1 << 12

// limits on the deserialized shape, same bound the indexer enforces
const maxLogSize = 30

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

	info := &h.Info
	if info.NbVars < 1 || info.NbVars > maxLogSize {
		return fmt.Errorf("%w: serialized index has %d variables", laconic.ErrMalformedInstance, info.NbVars)
	}
	for m := 0; m < nbMatrices; m++ {
		if info.LogNbEntries[m] < 1 || info.LogNbEntries[m] > maxLogSize {
			return fmt.Errorf("%w: serialized entry domain of matrix %s has %d variables",
				laconic.ErrMalformedInstance, matrixNames[m], info.LogNbEntries[m])
		}
	}
	if info.NbPublic < 0 || info.NbPublic > 1<<(info.NbVars-1) {
		return fmt.Errorf("%w: serialized index has %d public inputs", laconic.ErrMalformedInstance, info.NbPublic)
	}
	if info.NbConstraints < 0 || info.NbConstraints > 1<<info.NbVars {
		return fmt.Errorf("%w: serialized index has %d constraints", laconic.ErrMalformedInstance, info.NbConstraints)
	}
	if info.NbVariables < info.NbPublic || info.NbVariables-info.NbPublic > 1<<(info.NbVars-1) {
		return fmt.Errorf("%w: serialized index has %d variables", laconic.ErrMalformedInstance, info.NbVariables)
	}
	return nil
}

func writeHeader(w io.Writer, info *IndexInfo) (int64, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	data, err := em.Marshal(&serializationHeader{
		Version:     laconic.Version.String(),
		ScalarField: fr.Modulus().Text(16),
		Info:        *info,
	})
	if err != nil {
		return 0, err
	}

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return 0, err
	}
	written, err := w.Write(data)
	return int64(8 + written), err
}

func readHeader(r io.Reader) (int64, IndexInfo, error) {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, IndexInfo{}, err
	}
	size := binary.LittleEndian.Uint64(lenBuf[:])
	if size > maxHeaderBytes {
		return 8, IndexInfo{}, errors.New("invalid serialization header size")
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return 8, IndexInfo{}, err
	}
	var h serializationHeader
	if err := cbor.Unmarshal(data, &h); err != nil {
		return int64(8 + size), IndexInfo{}, err
	}
	if err := h.validate(); err != nil {
		return int64(8 + size), IndexInfo{}, err
	}
	return int64(8 + size), h.Info, nil
}

// WriteTo writes the verifying key to w. The commitment key is not
// serialized; ReadFrom re-derives its generators deterministically.
func (vk *VerifyingKey) WriteTo(w io.Writer) (int64, error) {
	n, err := writeHeader(w, &vk.Info)
	if err != nil {
		return n, err
	}

	enc := curve.NewEncoder(w)
	for m := 0; m < nbMatrices; m++ {
		for _, c := range vk.oracleCommitments(m) {
			if err := enc.Encode(c.Rows); err != nil {
				return n + enc.BytesWritten(), err
			}
		}
	}
	return n + enc.BytesWritten(), nil
}

// ReadFrom reads the verifying key from r. Re-deriving the commitment key
// hashes to the curve, so reading a key costs about as much as NewKey.
func (vk *VerifyingKey) ReadFrom(r io.Reader) (int64, error) {
	n, info, err := readHeader(r)
	if err != nil {
		return n, err
	}
	vk.Info = info
	if vk.Key, err = hyrax.NewKey(info.maxTableVars()); err != nil {
		return n, err
	}

	dec := curve.NewDecoder(r)
	for m := 0; m < nbMatrices; m++ {
		vk.RowBits[m] = make([]hyrax.Commitment, info.NbVars)
		vk.ColBits[m] = make([]hyrax.Commitment, info.NbVars)
		for _, c := range vk.oracleCommitments(m) {
			if err := dec.Decode(&c.Rows); err != nil {
				return n + dec.BytesRead(), err
			}
		}
	}
	return n + dec.BytesRead(), nil
}

// WriteTo writes the proving key to w, verifying key included, so a read
// proving key is self-contained. The three matrix sections are prepared in
// parallel; the index vectors compress well, they are long runs of small
// integers.
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	n, err := pk.Vk.WriteTo(w)
	if err != nil {
		return n, err
	}

	var sections [nbMatrices][]byte
	var g errgroup.Group
	for m := 0; m < nbMatrices; m++ {
		m := m
		g.Go(func() error {
			var buf bytes.Buffer
			scratch, err := ioutils.CompressAndWriteUints32(&buf, pk.RowIdx[m], nil)
			if err != nil {
				return err
			}
			if _, err = ioutils.CompressAndWriteUints32(&buf, pk.ColIdx[m], scratch); err != nil {
				return err
			}
			enc := curve.NewEncoder(&buf)
			if err := enc.Encode(pk.Val[m]); err != nil {
				return err
			}
			sections[m] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return n, err
	}

	var lenBuf [8]byte
	for m := 0; m < nbMatrices; m++ {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(sections[m])))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return n, err
		}
		n += 8
		written, err := w.Write(sections[m])
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadFrom reads a proving key written by WriteTo from r.
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	vk := new(VerifyingKey)
	n, err := vk.ReadFrom(r)
	if err != nil {
		return n, err
	}
	pk.Vk = vk

	var sections [nbMatrices][]byte
	var lenBuf [8]byte
	for m := 0; m < nbMatrices; m++ {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return n, err
		}
		n += 8
		size := binary.LittleEndian.Uint64(lenBuf[:])
		// row + column indices and values, with room for compression headers
		if size > uint64(1024+64*(1<<vk.Info.LogNbEntries[m])) {
			return n, errors.New("invalid proving key section size")
		}
		sections[m] = make([]byte, size)
		read, err := io.ReadFull(r, sections[m])
		n += int64(read)
		if err != nil {
			return n, err
		}
	}

	var g errgroup.Group
	for m := 0; m < nbMatrices; m++ {
		m := m
		g.Go(func() error {
			buf := bytes.NewReader(sections[m])
			_, rowIdx, err := ioutils.ReadAndDecompressUints32(buf)
			if err != nil {
				return err
			}
			_, colIdx, err := ioutils.ReadAndDecompressUints32(buf)
			if err != nil {
				return err
			}
			dec := curve.NewDecoder(buf)
			var val []fr.Element
			if err := dec.Decode(&val); err != nil {
				return err
			}

			size := 1 << vk.Info.LogNbEntries[m]
			if len(rowIdx) != size || len(colIdx) != size || len(val) != size {
				return fmt.Errorf("%w: proving key section of matrix %s does not match the index shape",
					laconic.ErrMalformedInstance, matrixNames[m])
			}
			pk.RowIdx[m], pk.ColIdx[m], pk.Val[m] = rowIdx, colIdx, val
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return n, err
	}
	return n, nil
}

// WriteTo writes the proof to w.
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	info := proof.info()
	n, err := writeHeader(w, &info)
	if err != nil {
		return n, err
	}

	enc := curve.NewEncoder(w)
	for _, v := range proof.serializationOrder(false) {
		if err := enc.Encode(v); err != nil {
			return n + enc.BytesWritten(), err
		}
	}
	return n + enc.BytesWritten(), nil
}

// ReadFrom reads a proof from r. The embedded header sizes the sumcheck
// stages; Verify still checks the whole shape against the verifying key.
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	n, info, err := readHeader(r)
	if err != nil {
		return n, err
	}

	proof.Outer.RoundPolynomials = make([][]fr.Element, info.NbVars)
	proof.Inner.RoundPolynomials = make([][]fr.Element, info.NbVars)
	for m := 0; m < nbMatrices; m++ {
		proof.Encoding[m].RoundPolynomials = make([][]fr.Element, info.LogNbEntries[m])
	}

	dec := curve.NewDecoder(r)
	for _, v := range proof.serializationOrder(true) {
		if err := dec.Decode(v); err != nil {
			return n + dec.BytesRead(), err
		}
	}
	return n + dec.BytesRead(), nil
}

// info reconstructs the shape parameters the serialization header carries.
// Only the sumcheck stage sizes matter for decoding; the rest of the fields
// stay zero and pass the header validation floor of one variable per stage
// for every proof this package produces.
func (proof *Proof) info() IndexInfo {
	var info IndexInfo
	info.NbVars = len(proof.Outer.RoundPolynomials)
	for m := 0; m < nbMatrices; m++ {
		info.LogNbEntries[m] = len(proof.Encoding[m].RoundPolynomials)
	}
	return info
}

// serializationOrder lists every proof component in wire order. The curve
// encoder takes slices by value and the decoder by pointer, so the read
// flag picks the form; single elements go by pointer on both sides.
func (proof *Proof) serializationOrder(read bool) []interface{} {
	var out []interface{}
	points := func(s *[]curve.G1Affine) {
		if read {
			out = append(out, s)
		} else {
			out = append(out, *s)
		}
	}
	slice := func(s *[]fr.Element) {
		if read {
			out = append(out, s)
		} else {
			out = append(out, *s)
		}
	}

	points(&proof.Witness.Rows)
	for i := range proof.Outer.RoundPolynomials {
		slice(&proof.Outer.RoundPolynomials[i])
	}
	for m := 0; m < nbMatrices; m++ {
		out = append(out, &proof.RelationEvals[m])
	}
	for i := range proof.Inner.RoundPolynomials {
		slice(&proof.Inner.RoundPolynomials[i])
	}
	for m := 0; m < nbMatrices; m++ {
		out = append(out, &proof.MatrixEvals[m])
	}
	out = append(out, &proof.WitnessEval)
	for m := 0; m < nbMatrices; m++ {
		for i := range proof.Encoding[m].RoundPolynomials {
			slice(&proof.Encoding[m].RoundPolynomials[i])
		}
		slice(&proof.EncodingEvals[m])
		out = append(out, &proof.IndexOpenings[m].ClaimedValue)
		slice(&proof.IndexOpenings[m].FoldedRow)
	}
	out = append(out, &proof.WitnessOpening.ClaimedValue)
	slice(&proof.WitnessOpening.FoldedRow)
	return out
}
