// Package hyrax implements a transparent multilinear vector commitment in
// the style of the Hyrax polynomial commitment, without the hiding layer.
//
// A table of 2ˢ field elements is laid out as a 2^⌊s/2⌋ × 2^⌈s/2⌉ matrix and
// committed row by row with Pedersen multi-exponentiations over BN254. The
// generators are derived by hashing to the curve, so there is no trusted
// setup and commitments are deterministic. Opening at a point (r_row ‖ r_col)
// reveals the eq-weighted fold of the rows; the verifier checks the fold
// against the row commitments with two multi-exponentiations.
package hyrax

import (
	"encoding/binary"
	"errors"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/laconiczk/laconic/internal/utils"
	"github.com/laconiczk/laconic/polynomial"
)

var (
	ErrInvalidPoint        = errors.New("point size does not match table size")
	ErrInvalidTableSize    = errors.New("table size must be a power of two covered by the key")
	ErrInvalidOpeningShape = errors.New("folded row size does not match the point")
	ErrVerifyOpeningProof  = errors.New("cannot verify opening proof")
)

// dsTag domain-separates the generator derivation from any other use of
// hash-to-curve on this module's inputs.
const dsTag = "laconic-hyrax-v1"

// Key holds the column generators. It covers every table of at most
// 2^MaxVars entries and is shared by all commitments in an index.
type Key struct {
	MaxVars int
	G       []curve.G1Affine
}

// Commitment is one Pedersen point per matrix row.
type Commitment struct {
	Rows []curve.G1Affine
}

// OpeningProof certifies the value of the committed table at one point.
type OpeningProof struct {
	ClaimedValue fr.Element
	// FoldedRow is Σᵢ L[i]·V[i,:] for L the eq table of the row coordinates
	FoldedRow []fr.Element
}

// NewKey derives generators for tables of up to 2^maxVars entries. The
// derivation is deterministic: two parties calling NewKey with the same
// maxVars agree on the key without any exchange.
func NewKey(maxVars int) (*Key, error) {
	if maxVars < 0 {
		return nil, ErrInvalidTableSize
	}
	nbCols := 1 << ((maxVars + 1) / 2)
	g := make([]curve.G1Affine, nbCols)

	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	const chunkSize = 64
	for start := 0; start < nbCols; start += chunkSize {
		start := start
		end := utils.Min(start+chunkSize, nbCols)
		eg.Go(func() error {
			var buf [8]byte
			for i := start; i < end; i++ {
				binary.BigEndian.PutUint64(buf[:], uint64(i))
				var err error
				if g[i], err = curve.HashToG1(buf[:], []byte(dsTag)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Key{MaxVars: maxVars, G: g}, nil
}

// split returns the row/column variable counts for a table of 2ˢ entries.
// The first (most significant) variables index the row.
func split(s int) (sRow, sCol int) {
	sRow = s / 2
	sCol = s - sRow
	return
}

// Layout returns the matrix shape backing a table of 2^nbVars entries: the
// number of committed rows and the length of a folded row.
func Layout(nbVars int) (nbRows, nbCols int) {
	sRow, sCol := split(nbVars)
	return 1 << sRow, 1 << sCol
}

func (k *Key) covers(nbVars int) bool {
	_, sCol := split(nbVars)
	return nbVars >= 0 && (1<<sCol) <= len(k.G)
}

// Commit commits to the table v, whose length must be a power of two within
// the key's range.
func Commit(v []fr.Element, key *Key, nbTasks ...int) (Commitment, error) {
	if !utils.IsPowerOfTwo(len(v)) {
		return Commitment{}, ErrInvalidTableSize
	}
	s := utils.Log2Floor(len(v))
	if !key.covers(s) {
		return Commitment{}, ErrInvalidTableSize
	}
	sRow, sCol := split(s)
	nbRows, nbCols := 1<<sRow, 1<<sCol

	cfg := multiExpConfig(nbTasks)

	rows := make([]curve.G1Affine, nbRows)
	for i := 0; i < nbRows; i++ {
		if _, err := rows[i].MultiExp(key.G[:nbCols], v[i*nbCols:(i+1)*nbCols], cfg); err != nil {
			return Commitment{}, err
		}
	}

	return Commitment{Rows: rows}, nil
}

// Open evaluates the committed table at point and produces the folded row
// the verifier needs to check the claim.
func Open(v []fr.Element, point []fr.Element, key *Key) (OpeningProof, error) {
	if !utils.IsPowerOfTwo(len(v)) {
		return OpeningProof{}, ErrInvalidTableSize
	}
	s := utils.Log2Floor(len(v))
	if len(point) != s {
		return OpeningProof{}, ErrInvalidPoint
	}
	sRow, sCol := split(s)
	nbRows, nbCols := 1<<sRow, 1<<sCol

	l := polynomial.EqTable(point[:sRow])

	folded := make([]fr.Element, nbCols)
	utils.Parallelize(nbCols, func(start, end int) {
		var t fr.Element
		for j := start; j < end; j++ {
			for i := 0; i < nbRows; i++ {
				t.Mul(&l[i], &v[i*nbCols+j])
				folded[j].Add(&folded[j], &t)
			}
		}
	})

	r := polynomial.EqTable(point[sRow:])
	var value, t fr.Element
	for j := 0; j < nbCols; j++ {
		t.Mul(&folded[j], &r[j])
		value.Add(&value, &t)
	}

	return OpeningProof{ClaimedValue: value, FoldedRow: folded}, nil
}

// Verify checks an opening proof against a commitment. The two
// multi-exponentiations Σⱼ U[j]·Gⱼ and Σᵢ L[i]·Tᵢ must agree, and the
// claimed value must be the eq-weighted sum of the folded row.
func Verify(c *Commitment, proof *OpeningProof, point []fr.Element, key *Key, nbTasks ...int) error {
	s := len(point)
	sRow, sCol := split(s)
	if len(c.Rows) != 1<<sRow {
		return ErrInvalidPoint
	}
	if len(proof.FoldedRow) != 1<<sCol {
		return ErrInvalidOpeningShape
	}
	if !key.covers(s) {
		return ErrInvalidTableSize
	}

	cfg := multiExpConfig(nbTasks)

	// ⟨FoldedRow, eq(r_col)⟩ == ClaimedValue
	r := polynomial.EqTable(point[sRow:])
	var value, t fr.Element
	for j := range r {
		t.Mul(&proof.FoldedRow[j], &r[j])
		value.Add(&value, &t)
	}
	if !value.Equal(&proof.ClaimedValue) {
		return ErrVerifyOpeningProof
	}

	// Σⱼ U[j]·Gⱼ == Σᵢ L[i]·Tᵢ
	l := polynomial.EqTable(point[:sRow])
	var lhs, rhs curve.G1Affine
	if _, err := lhs.MultiExp(key.G[:1<<sCol], proof.FoldedRow, cfg); err != nil {
		return err
	}
	if _, err := rhs.MultiExp(c.Rows, l, cfg); err != nil {
		return err
	}
	if !lhs.Equal(&rhs) {
		return ErrVerifyOpeningProof
	}

	return nil
}

// FoldCommitments combines commitments of equally sized tables into the
// commitment of their γ-weighted linear combination. Pedersen commitments
// are linear, so one opening of the fold checks all the folded claims at
// once.
func FoldCommitments(cs []*Commitment, gamma fr.Element, nbTasks ...int) (Commitment, error) {
	if len(cs) == 0 {
		return Commitment{}, ErrInvalidTableSize
	}
	nbRows := len(cs[0].Rows)
	for i := range cs {
		if len(cs[i].Rows) != nbRows {
			return Commitment{}, ErrInvalidOpeningShape
		}
	}

	scalars := GammaPowers(gamma, len(cs))
	cfg := multiExpConfig(nbTasks)

	rows := make([]curve.G1Affine, nbRows)
	points := make([]curve.G1Affine, len(cs))
	for i := 0; i < nbRows; i++ {
		for j := range cs {
			points[j] = cs[j].Rows[i]
		}
		if _, err := rows[i].MultiExp(points, scalars, cfg); err != nil {
			return Commitment{}, err
		}
	}
	return Commitment{Rows: rows}, nil
}

// FoldTables returns the γ-weighted linear combination of equally sized
// tables.
func FoldTables(vs [][]fr.Element, gamma fr.Element) []fr.Element {
	if len(vs) == 0 {
		return nil
	}
	res := make([]fr.Element, len(vs[0]))
	copy(res, vs[0])
	var coeff, t fr.Element
	coeff.SetOne()
	for j := 1; j < len(vs); j++ {
		coeff.Mul(&coeff, &gamma)
		for i := range res {
			t.Mul(&coeff, &vs[j][i])
			res[i].Add(&res[i], &t)
		}
	}
	return res
}

// FoldValues returns Σⱼ γʲ·vals[j].
func FoldValues(vals []fr.Element, gamma fr.Element) fr.Element {
	var res fr.Element
	for j := len(vals) - 1; j >= 0; j-- {
		res.Mul(&res, &gamma)
		res.Add(&res, &vals[j])
	}
	return res
}

// GammaPowers returns [1, γ, γ², ...] of length n.
func GammaPowers(gamma fr.Element, n int) []fr.Element {
	scalars := make([]fr.Element, n)
	scalars[0].SetOne()
	for j := 1; j < n; j++ {
		scalars[j].Mul(&scalars[j-1], &gamma)
	}
	return scalars
}

func multiExpConfig(nbTasks []int) ecc.MultiExpConfig {
	cfg := ecc.MultiExpConfig{}
	if len(nbTasks) == 1 {
		cfg.NbTasks = nbTasks[0]
	}
	return cfg
}
