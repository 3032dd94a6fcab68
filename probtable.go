package qmc

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/pkg/errors"
)

// probTable samples candidate operator insertions with probability
// proportional to the weight matrix M, where M[i][i] = h[i] and
// M[i][j] = 2|J[i][j]|. Immutable once built.
type probTable struct {
	n int
	// marginal[i] is the cumulative probability of rows up to i.
	marginal []float64
	// cond[i][j] is the cumulative probability within row i.
	cond [][]float64
}

func newProbTable(j [][]float64, h []float64) (*probTable, error) {
	n := len(h)
	t := &probTable{
		n:        n,
		marginal: make([]float64, n),
		cond:     make([][]float64, n),
	}

	var total float64
	for i := range n {
		t.cond[i] = make([]float64, n)
		var sum float64
		for k := range n {
			switch {
			case i == k:
				sum += h[i]
			default:
				sum += 2 * math.Abs(j[i][k])
			}
			t.cond[i][k] = sum
		}
		total += sum
		t.marginal[i] = total
	}
	if total == 0 {
		return nil, errors.Wrap(ErrExhaustedSampling, "zero weight")
	}

	for i := range n {
		t.marginal[i] /= total
		sum := t.cond[i][n-1]
		if sum == 0 {
			continue
		}
		for k := range n {
			t.cond[i][k] /= sum
		}
		t.cond[i][n-1] = 1
	}
	t.marginal[n-1] = 1

	return t, nil
}

// sample draws a pair (i, j) with probability M[i][j]/sum(M). Draws are
// mapped to (0, 1] so that zero mass entries are never selected.
func (t *probTable) sample(rng *rand.Rand) (int, int) {
	u := 1 - rng.Float64()
	i := sort.SearchFloat64s(t.marginal, u)
	v := 1 - rng.Float64()
	j := sort.SearchFloat64s(t.cond[i], v)
	return i, j
}
