// Package exactdiag computes ground states of transverse field Ising models
// by exact diagonalization.
//
// References:
//   - Computational Studies of Quantum Spin Systems, Anders W. Sandvik
package exactdiag

import (
	"cmp"
	"math"
	"math/cmplx"
	"slices"
	"strconv"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"

	"github.com/kwang0/SSE-QMC-TFIM/exactdiag/mat"
)

// Hamiltonian builds the transverse field Ising Hamiltonian in the spin-z
// product basis,
//
//	H = sum_{p<q} j[p][q] z_p z_q - sum_p h[p] x_p
//
// where z and x are Pauli matrices.
// Only the upper triangle of j is read.
// Site p is the p-th most significant bit of a basis state index.
func Hamiltonian(j [][]float64, h []float64) (*mat.COO, error) {
	numSpins := len(h)
	if numSpins == 0 {
		return nil, errors.Errorf("no sites")
	}
	if len(j) != numSpins {
		return nil, errors.Errorf("%d %d", len(j), numSpins)
	}
	for p, row := range j {
		if len(row) != numSpins {
			return nil, errors.Errorf("%d %d %d", p, len(row), numSpins)
		}
	}

	m := mat.COOZeros(1<<numSpins, 1<<numSpins)
	// flipped is a reusable buffer for the flipped state.
	flipped := make([]byte, numSpins)
	vrcs := make([]vRowCol, 0, numSpins+1)
	for i, state := range bits(numSpins) {
		vrcs = vrcs[:0]
		vrcs = couplingEntries(vrcs, j, i, state)
		vrcs = magneticEntries(vrcs, h, i, state, flipped)

		slices.SortFunc(vrcs, rowMajor)
		for _, v := range vrcs {
			m.Append(v.row, v.col, v.v)
		}
	}
	return m, nil
}

func couplingEntries(vrcs []vRowCol, j [][]float64, i int, state []byte) []vRowCol {
	var diag float64
	for p, row := range j {
		for q := p + 1; q < len(row); q++ {
			if row[q] == 0 {
				continue
			}
			zp := 1 - 2*int(state[p])
			zq := 1 - 2*int(state[q])
			diag += row[q] * float64(zp*zq)
		}
	}
	if diag != 0 {
		vrcs = append(vrcs, vRowCol{v: complex(float32(diag), 0), row: i, col: i})
	}
	return vrcs
}

func magneticEntries(vrcs []vRowCol, h []float64, i int, state []byte, flipped []byte) []vRowCol {
	for p, hp := range h {
		if hp == 0 {
			continue
		}
		copy(flipped, state)
		switch flipped[p] {
		case 1:
			flipped[p] = 0
		default:
			flipped[p] = 1
		}
		vrcs = append(vrcs, vRowCol{v: complex(float32(-hp), 0), row: i, col: bitIndex(flipped)})
	}
	return vrcs
}

// GroundState returns the lowest eigenvalue of h and its normalized
// eigenvector.
func GroundState(h *mat.COO) (float64, []complex128, error) {
	t := h.Tensor()
	eigvals, eigvecs := tensor.Zeros(1), tensor.Zeros(1)
	var bufs [7]*tensor.Dense
	for i := range len(bufs) {
		bufs[i] = tensor.Zeros(1)
	}
	if err := tensor.Arnoldi(eigvals, eigvecs, t, 1, bufs); err != nil {
		return 0, nil, errors.Wrap(err, "")
	}

	vec := make([]complex128, 0, h.Rows())
	for _, v := range eigvecs.All() {
		vec = append(vec, complex128(v))
	}
	if len(vec) != h.Rows() {
		return 0, nil, errors.Errorf("%d %d", len(vec), h.Rows())
	}

	var norm float64
	for _, a := range vec {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if norm == 0 {
		return 0, nil, errors.Errorf("zero vector")
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= complex(norm, 0)
	}

	hv := make([]complex128, h.Rows())
	h.Apply(hv, vec)
	var energy complex128
	for i, a := range vec {
		energy += cmplx.Conj(a) * hv[i]
	}
	return real(energy), vec, nil
}

type Statistics struct {
	M2             float64
	M4             float64
	BinderCumulant float64
}

// GetStatistics computes the moments of the staggered magnetization of a
// state on the periodic square lattice.
// Site y*l+x carries the checkerboard sign (-1)^(x+y).
func GetStatistics(vec []complex128) (Statistics, error) {
	numSpins := 0
	for 1<<numSpins < len(vec) {
		numSpins++
	}
	if 1<<numSpins != len(vec) {
		return Statistics{}, errors.Errorf("%d", len(vec))
	}
	l := int(math.Round(math.Sqrt(float64(numSpins))))
	if l*l != numSpins {
		return Statistics{}, errors.Errorf("%d not square", numSpins)
	}

	var stats Statistics
	var totalProb float64
	for i, state := range bits(numSpins) {
		amplitude := vec[i]
		probability := real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)

		var basisM float64
		for p, b := range state {
			z := float64(1 - 2*int(b))
			if (p%l+p/l)%2 == 1 {
				z = -z
			}
			basisM += z
		}
		basisM /= float64(numSpins)

		totalProb += probability
		stats.M2 += probability * basisM * basisM
		stats.M4 += probability * math.Pow(basisM, 4)
	}
	if math.Abs(totalProb-1) > 1e-3 {
		return Statistics{}, errors.Errorf("%f", totalProb)
	}
	if stats.M2 == 0 {
		return Statistics{}, errors.Errorf("%f", stats.M2)
	}

	stats.BinderCumulant = 1 - stats.M4/(3*stats.M2*stats.M2)
	return stats, nil
}

func indexBit(state []byte, n, i int) {
	stateStr := strconv.FormatInt(int64(i), 2)

	state = state[:0]
	// Pad zeros in front.
	for j := 0; j < n-len(stateStr); j++ {
		state = append(state, 0)
	}
	for _, bit := range []byte(stateStr) {
		state = append(state, bit-'0')
	}
}

func bits(n int) func(yield func(int, []byte) bool) {
	state := make([]byte, n)
	return func(yield func(int, []byte) bool) {
		numStates := 1 << n
		for i := range numStates {
			indexBit(state, n, i)
			if !yield(i, state) {
				return
			}
		}
	}
}

func bitIndex(state []byte) int {
	idx := 0
	for i := len(state) - 1; i >= 0; i-- {
		if state[i] == 1 {
			idx += 1 << (len(state) - 1 - i)
		}
	}
	return idx
}

type vRowCol struct {
	v   complex64
	row int
	col int
}

func rowMajor(a, b vRowCol) int {
	if c := cmp.Compare(a.row, b.row); c != 0 {
		return c
	}
	return cmp.Compare(a.col, b.col)
}
