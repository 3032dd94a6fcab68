// Package qmc implements projector stochastic series expansion quantum Monte
// Carlo for the transverse field Ising model.
//
// A simulation holds a string of 2m operators acting between two copies of a
// classical boundary configuration. Each sweep resamples the diagonal
// operators slot by slot, then flips clusters of the resulting space time
// graph with independent fair coins.
//
// References:
//   - Stochastic series expansion method for quantum Ising models with arbitrary interactions, Anders W. Sandvik
//   - Computational Studies of Quantum Spin Systems, Anders W. Sandvik
package qmc

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"
)

const (
	// maxDraws caps the rejection sampler against degenerate weights.
	maxDraws = 1 << 24
)

// ErrExhaustedSampling is reported when no admissible operator can be drawn
// for a slot, which only degenerate couplings and fields can cause.
var ErrExhaustedSampling = errors.New("exhausted sampling")

type opKind uint8

const (
	// diagField is an identity action field operator, weight h at its site.
	diagField opKind = iota
	// offField flips the spin at its site during propagation.
	offField
	// diagBond is an identity action two site operator, weight 2|J|.
	diagBond
)

// operator is one slot of the operator string.
// Field operators set j equal to i.
type operator struct {
	kind opKind
	i    int
	j    int
}

// Options are options for a simulation.
type Options struct {
	seeded bool
	seed1  uint64
	seed2  uint64

	boundary []bool
}

// NewOptions returns the default simulation options.
func NewOptions() Options {
	return Options{}
}

// Seed sets the random source seed.
func (opt Options) Seed(s1, s2 uint64) Options {
	opt.seeded = true
	opt.seed1, opt.seed2 = s1, s2
	return opt
}

// Boundary sets the initial boundary configuration, true meaning spin up.
func (opt Options) Boundary(b []bool) Options {
	opt.boundary = b
	return opt
}

// Simulation is one projector Monte Carlo chain.
// It is not safe for concurrent use; independent chains do not share state.
type Simulation struct {
	j [][]float64
	h []float64
	n int
	l int
	m int

	// boundary is the spin configuration at the left imaginary time end,
	// true meaning spin up. Both ends anchor to it.
	boundary []bool
	ops      []operator
	table    *probTable
	rng      *rand.Rand

	// Per sweep scratch, reset and reused by every sweep.
	alpha      []bool
	graph      graph
	legVisited [][4]bool
	bondSeen   []bool
	stack      []legRef

	// Bookkeeping from the most recent sweep.
	diagFields      int
	offFields       int
	bonds           int
	resampled       int
	draws           int
	boundaryToggles int
}

// Observables are one sweep's measurements.
type Observables struct {
	// Staggered is the checkerboard signed magnetization per spin of the
	// mid string configuration.
	Staggered float64
	// Mid is the spin configuration at the string midpoint.
	Mid []bool
	// Counts of operators placed by the diagonal phase.
	DiagFields int
	OffFields  int
	Bonds      int
}

// New creates a simulation with coupling matrix j, transverse fields h, and
// projector power m. The operator string carries 2m slots.
//
// j must be symmetric with a zero diagonal; positive entries are
// antiferromagnetic, negative ferromagnetic. The site count must be a
// perfect square, since the staggered magnetization reads sites as a square
// lattice of side sqrt(N) in row major order.
func New(j [][]float64, h []float64, m int, options ...Options) (*Simulation, error) {
	opt := NewOptions()
	if len(options) > 0 {
		opt = options[0]
	}

	n := len(h)
	if n == 0 {
		return nil, errors.Errorf("no sites")
	}
	if len(j) != n {
		return nil, errors.Errorf("%d %d", len(j), n)
	}
	for i, row := range j {
		if len(row) != n {
			return nil, errors.Errorf("row %d %d %d", i, len(row), n)
		}
		if row[i] != 0 {
			return nil, errors.Errorf("diagonal %d %f", i, row[i])
		}
	}
	for i, row := range j {
		for k, v := range row {
			if v != j[k][i] {
				return nil, errors.Errorf("asymmetric %d %d %f %f", i, k, v, j[k][i])
			}
		}
	}
	for i, v := range h {
		if v < 0 {
			return nil, errors.Errorf("field %d %f", i, v)
		}
	}
	l := int(math.Round(math.Sqrt(float64(n))))
	if l*l != n {
		return nil, errors.Errorf("%d not square", n)
	}
	if m < 1 {
		return nil, errors.Errorf("m %d", m)
	}

	table, err := newProbTable(j, h)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	s := &Simulation{
		j:     j,
		h:     h,
		n:     n,
		l:     l,
		m:     m,
		ops:   make([]operator, 2*m),
		table: table,

		alpha: make([]bool, n),
		graph: graph{
			links:    make([][4]legRef, 2*m),
			frontier: make([]legRef, n),
		},
		legVisited: make([][4]bool, 2*m),
		bondSeen:   make([]bool, 2*m),
		stack:      make([]legRef, 0, 64),
	}
	switch {
	case opt.seeded:
		s.rng = rand.New(rand.NewPCG(opt.seed1, opt.seed2))
	default:
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	switch {
	case opt.boundary == nil:
		s.boundary = make([]bool, n)
		for i := range s.boundary {
			s.boundary[i] = s.rng.IntN(2) == 0
		}
	case len(opt.boundary) != n:
		return nil, errors.Errorf("boundary %d %d", len(opt.boundary), n)
	default:
		s.boundary = slices.Clone(opt.boundary)
	}

	// Fill the string with an initial all diagonal configuration. A failure
	// here means the weights admit no operator at all under the boundary.
	if err := s.diagonalPhase(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}

// Sweep performs one full Monte Carlo step. The diagonal phase resamples
// every diagonal slot, and the cluster phase flips the space time graph
// before the new configuration is measured.
func (s *Simulation) Sweep() (Observables, error) {
	if err := s.diagonalPhase(); err != nil {
		return Observables{}, errors.Wrap(err, "")
	}
	s.boundaryToggles = s.clusterPhase(s.coin)
	return s.measure(), nil
}

// diagonalPhase walks the string once, propagating the spin configuration
// alpha. Off diagonal slots keep their operator and toggle alpha; every
// other slot is resampled from the probability tables. The space time graph
// is linked in the same pass.
func (s *Simulation) diagonalPhase() error {
	copy(s.alpha, s.boundary)
	s.graph.reset()
	s.diagFields, s.offFields, s.bonds = 0, 0, 0
	s.resampled, s.draws = 0, 0

	for p := range s.ops {
		if s.ops[p].kind == offField {
			site := s.ops[p].i
			s.alpha[site] = !s.alpha[site]
			s.graph.addField(p, site)
			s.offFields++
			continue
		}

		op, err := s.resample()
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("slot %d", p))
		}
		s.ops[p] = op
		switch op.kind {
		case diagField:
			s.graph.addField(p, op.i)
			s.diagFields++
		default:
			s.graph.addBond(p, op.i, op.j)
			s.bonds++
		}
	}
	return nil
}

// resample draws candidate operators until one is admissible under the
// propagated configuration: i == j is a field operator, a distinct pair is
// a bond requiring opposite spins on antiferromagnetic couplings and equal
// spins on ferromagnetic ones. Some channel keeps positive mass for any
// non degenerate weight matrix, so the cap only trips on degenerate input.
func (s *Simulation) resample() (operator, error) {
	s.resampled++
	for range maxDraws {
		i, j := s.table.sample(s.rng)
		s.draws++
		if i == j {
			return operator{kind: diagField, i: i, j: i}, nil
		}
		aligned := s.alpha[i] == s.alpha[j]
		switch {
		case s.j[i][j] > 0 && !aligned:
			return operator{kind: diagBond, i: i, j: j}, nil
		case s.j[i][j] < 0 && aligned:
			return operator{kind: diagBond, i: i, j: j}, nil
		}
	}
	return operator{}, errors.Wrap(ErrExhaustedSampling, fmt.Sprintf("%d draws", maxDraws))
}

// measure replays the boundary through the first m slots and reads off the
// midpoint configuration. Operator counts are those of the diagonal phase.
func (s *Simulation) measure() Observables {
	copy(s.alpha, s.boundary)
	for _, op := range s.ops[:s.m] {
		if op.kind == offField {
			s.alpha[op.i] = !s.alpha[op.i]
		}
	}

	var staggered float64
	for site, up := range s.alpha {
		spin := -1.0
		if up {
			spin = 1.0
		}
		x, y := site%s.l, site/s.l
		if (x+y)%2 == 1 {
			spin = -spin
		}
		staggered += spin
	}

	return Observables{
		Staggered:  staggered / float64(s.n),
		Mid:        slices.Clone(s.alpha),
		DiagFields: s.diagFields,
		OffFields:  s.offFields,
		Bonds:      s.bonds,
	}
}

func (s *Simulation) coin() bool {
	return s.rng.IntN(2) == 0
}
