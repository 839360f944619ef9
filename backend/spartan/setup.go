package spartan

import (
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/laconiczk/laconic/hyrax"
	"github.com/laconiczk/laconic/internal/utils"
	"github.com/laconiczk/laconic/logger"
	"github.com/laconiczk/laconic/polynomial"
	"github.com/laconiczk/laconic/r1cs"
)

// VerifyingKey carries everything the verifier needs: the index shape, the
// commitment key and one commitment per index oracle. Setup derives it
// deterministically from the constraint system, so two parties indexing the
// same system agree on it without any exchange.
type VerifyingKey struct {
	Info IndexInfo
	Key  *hyrax.Key

	// Val[m] commits to the padded value table of matrix m; RowBits[m][j]
	// and ColBits[m][j] commit to bit j (most significant first) of its
	// row and column index vectors.
	Val     [nbMatrices]hyrax.Commitment
	RowBits [nbMatrices][]hyrax.Commitment
	ColBits [nbMatrices][]hyrax.Commitment
}

// ProvingKey carries the plain index data the prover sums over: the padded
// entry vectors of the three matrices, with column indices already remapped
// to the halved assignment layout.
type ProvingKey struct {
	Vk *VerifyingKey

	RowIdx [nbMatrices][]uint32
	ColIdx [nbMatrices][]uint32
	Val    [nbMatrices][]fr.Element
}

// Setup indexes a constraint system: it validates the instance, shapes it
// into the padded square layout and commits to the entry encoding of each
// matrix. The returned keys are reusable across every proof of the system.
func Setup(system *r1cs.System) (*ProvingKey, *VerifyingKey, error) {
	log := logger.Logger().With().
		Str("curve", "bn254").Str("backend", "spartan").
		Int("nbConstraints", system.NbConstraints).Logger()
	start := time.Now()

	if err := system.Validate(MaxSystemSize); err != nil {
		return nil, nil, err
	}

	var vk VerifyingKey
	vk.Info = newIndexInfo(system)

	pk := ProvingKey{Vk: &vk}
	for m, src := range [nbMatrices]*r1cs.SparseMatrix{&system.A, &system.B, &system.C} {
		pk.RowIdx[m], pk.ColIdx[m], pk.Val[m] = padEntries(src, &vk.Info)
	}

	key, err := hyrax.NewKey(vk.Info.maxTableVars())
	if err != nil {
		return nil, nil, err
	}
	vk.Key = key

	for m := 0; m < nbMatrices; m++ {
		if vk.Val[m], err = hyrax.Commit(pk.Val[m], key); err != nil {
			return nil, nil, err
		}
		if vk.RowBits[m], err = commitPlanes(bitPlanes(pk.RowIdx[m], vk.Info.NbVars), key); err != nil {
			return nil, nil, err
		}
		if vk.ColBits[m], err = commitPlanes(bitPlanes(pk.ColIdx[m], vk.Info.NbVars), key); err != nil {
			return nil, nil, err
		}
	}

	log.Debug().Dur("took", time.Since(start)).Msg("setup done")
	return &pk, &vk, nil
}

// newIndexInfo sizes the padded domains. The square dimension must cover
// the constraints on one axis and, on the other, a half for the public
// input and a half for the witness; each entry domain covers the nonzero
// count of its matrix, with at least one variable so every oracle is a
// table.
func newIndexInfo(system *r1cs.System) IndexInfo {
	nbWitness := system.NbVariables - system.NbPublic
	halfVars := 1 + utils.Log2Ceil(utils.Max(utils.Max(system.NbPublic, nbWitness), 1))

	info := IndexInfo{
		NbVars:        utils.Max(utils.Log2Ceil(system.NbConstraints), halfVars),
		NbPublic:      system.NbPublic,
		NbConstraints: system.NbConstraints,
		NbVariables:   system.NbVariables,
	}
	for m, src := range [nbMatrices]*r1cs.SparseMatrix{&system.A, &system.B, &system.C} {
		info.LogNbEntries[m] = utils.Max(1, utils.Log2Ceil(src.NbNonZero()))
	}
	return info
}

// padEntries lays a matrix out over the padded domains: row indices are kept,
// column indices are remapped so the public prefix lands in the bottom half
// of the assignment and the witness in the top half, and the vectors are
// padded to a power of two with zero-value entries.
func padEntries(m *r1cs.SparseMatrix, info *IndexInfo) (rowIdx, colIdx []uint32, val []fr.Element) {
	size := 1 << utils.Max(1, utils.Log2Ceil(m.NbNonZero()))
	rowIdx = make([]uint32, size)
	colIdx = make([]uint32, size)
	val = make([]fr.Element, size)

	copy(rowIdx, m.Rows)
	copy(val, m.Coeffs)

	halfShift := uint32(1) << (info.NbVars - 1)
	nbPublic := uint32(info.NbPublic)
	for i, c := range m.Cols {
		if c < nbPublic {
			colIdx[i] = c
		} else {
			colIdx[i] = halfShift + (c - nbPublic)
		}
	}
	return
}

// bitPlanes expands an index vector into nbVars {0,1}-valued tables, one per
// address bit, most significant first: planes[j][i] = bit j of idx[i].
func bitPlanes(idx []uint32, nbVars int) []polynomial.MultiLin {
	planes := make([]polynomial.MultiLin, nbVars)
	for j := range planes {
		planes[j] = make(polynomial.MultiLin, len(idx))
	}
	one := fr.One()
	for i, x := range idx {
		for j := 0; j < nbVars; j++ {
			if (x>>(nbVars-1-j))&1 == 1 {
				planes[j][i] = one
			}
		}
	}
	return planes
}

func commitPlanes(planes []polynomial.MultiLin, key *hyrax.Key) ([]hyrax.Commitment, error) {
	cs := make([]hyrax.Commitment, len(planes))
	var err error
	for j := range planes {
		if cs[j], err = hyrax.Commit(planes[j], key); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// mulVec accumulates res += M·z over the padded domains using the committed
// entry layout. Zero-value padding entries contribute nothing.
func (pk *ProvingKey) mulVec(m int, res, z []fr.Element) {
	rows, cols, vals := pk.RowIdx[m], pk.ColIdx[m], pk.Val[m]
	var t fr.Element
	for k := range vals {
		t.Mul(&vals[k], &z[cols[k]])
		res[rows[k]].Add(&res[rows[k]], &t)
	}
}

// evalMatrix returns M̃(r_x, r_y) = Σ_k val[k]·eq(r_x, row_k)·eq(r_y, col_k)
// from the eq tables of the two points.
func (pk *ProvingKey) evalMatrix(m int, eqRx, eqRy []fr.Element) fr.Element {
	rows, cols, vals := pk.RowIdx[m], pk.ColIdx[m], pk.Val[m]
	var res, t fr.Element
	for k := range vals {
		t.Mul(&eqRx[rows[k]], &eqRy[cols[k]])
		t.Mul(&t, &vals[k])
		res.Add(&res, &t)
	}
	return res
}

// oracleTables materializes the committed oracle vectors of matrix m in
// commitment order: value table first, then the row bit planes, then the
// column bit planes.
func (pk *ProvingKey) oracleTables(m int) [][]fr.Element {
	nbVars := pk.Vk.Info.NbVars
	tables := make([][]fr.Element, 0, 1+2*nbVars)
	tables = append(tables, pk.Val[m])
	for _, p := range bitPlanes(pk.RowIdx[m], nbVars) {
		tables = append(tables, p)
	}
	for _, p := range bitPlanes(pk.ColIdx[m], nbVars) {
		tables = append(tables, p)
	}
	return tables
}

// oracleCommitments lists the index commitments of matrix m in the same
// order the prover folds the tables.
func (vk *VerifyingKey) oracleCommitments(m int) []*hyrax.Commitment {
	cs := make([]*hyrax.Commitment, 0, 1+2*vk.Info.NbVars)
	cs = append(cs, &vk.Val[m])
	for j := range vk.RowBits[m] {
		cs = append(cs, &vk.RowBits[m][j])
	}
	for j := range vk.ColBits[m] {
		cs = append(cs, &vk.ColBits[m][j])
	}
	return cs
}
