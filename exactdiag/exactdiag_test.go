package exactdiag

import (
	"flag"
	"fmt"
	"log"
	"math"
	"testing"

	"github.com/kwang0/SSE-QMC-TFIM/exactdiag/mat"
)

func TestHamiltonian(t *testing.T) {
	t.Parallel()
	type matrixSlice struct {
		y [2]int
		x [2]int
		s *mat.COO
	}
	tests := []struct {
		j           [][]float64
		h           []float64
		shape       [2]int
		hamiltonian []matrixSlice
	}{
		{
			j:     [][]float64{{0}},
			h:     []float64{1},
			shape: [2]int{2, 2},
			hamiltonian: []matrixSlice{
				{
					y: [2]int{0, 2},
					x: [2]int{0, 2},
					s: mat.M([][]complex64{
						{0, -1},
						{-1, 0},
					}),
				},
			},
		},
		{
			// Antiferromagnetic pair.
			j:     [][]float64{{0, 1}, {1, 0}},
			h:     []float64{1, 1},
			shape: [2]int{4, 4},
			hamiltonian: []matrixSlice{
				{
					y: [2]int{0, 4},
					x: [2]int{0, 4},
					s: mat.M([][]complex64{
						{1, -1, -1, 0},
						{-1, -1, 0, -1},
						{-1, 0, -1, -1},
						{0, -1, -1, 1},
					}),
				},
			},
		},
		{
			// Ferromagnetic pair.
			j:     [][]float64{{0, -1}, {-1, 0}},
			h:     []float64{1, 1},
			shape: [2]int{4, 4},
			hamiltonian: []matrixSlice{
				{
					y: [2]int{0, 4},
					x: [2]int{0, 4},
					s: mat.M([][]complex64{
						{-1, -1, -1, 0},
						{-1, 1, 0, -1},
						{-1, 0, 1, -1},
						{0, -1, -1, -1},
					}),
				},
			},
		},
		{
			// Field on site 0 only.
			j:     [][]float64{{0, 0}, {0, 0}},
			h:     []float64{1, 0},
			shape: [2]int{4, 4},
			hamiltonian: []matrixSlice{
				{
					y: [2]int{0, 4},
					x: [2]int{0, 4},
					s: mat.M([][]complex64{
						{0, 0, -1, 0},
						{0, 0, 0, -1},
						{-1, 0, 0, 0},
						{0, -1, 0, 0},
					}),
				},
			},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %v", test.j, test.h), func(t *testing.T) {
			t.Parallel()
			hamiltonian, err := Hamiltonian(test.j, test.h)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !(hamiltonian.Rows() == test.shape[0] && hamiltonian.Cols() == test.shape[1]) {
				t.Fatalf("%d %d, expected %v", hamiltonian.Rows(), hamiltonian.Cols(), test.shape)
			}
			for _, th := range test.hamiltonian {
				s := hamiltonian.Slice(th.y, th.x)
				if !s.Equal(th.s) {
					t.Fatalf("%s, expected %s", s, th.s)
				}
			}
		})
	}
}

func TestEigen(t *testing.T) {
	t.Parallel()
	h, err := Hamiltonian([][]float64{{0, 1}, {1, 0}}, []float64{1, 1})
	if err != nil {
		t.Fatalf("%+v", err)
	}
	vvs := h.Eigen()

	// Check eigenvalues.
	s5 := math.Sqrt(5)
	vals := []float64{-s5, -1, 1, s5}
	for i, v := range vvs {
		if math.Abs(real(v.Val)-vals[i]) > 1e-6 {
			t.Fatalf("%d %v %f", i, v.Val, vals[i])
		}
	}

	// Check the ground state.
	var probSum float64
	for _, v := range vvs[0].Vec {
		probSum += real(v)*real(v) + imag(v)*imag(v)
	}
	if math.Abs(probSum-1) > 1e-6 {
		t.Fatalf("%f", probSum)
	}
	probs := []float64{(5 - s5) / 20, (5 + s5) / 20, (5 + s5) / 20, (5 - s5) / 20}
	for i, v := range vvs[0].Vec {
		prob := real(v)*real(v) + imag(v)*imag(v)
		if math.Abs(prob-probs[i]) > 1e-6 {
			t.Fatalf("%d %v %f %f", i, v, prob, probs[i])
		}
	}
}

func TestGroundState(t *testing.T) {
	t.Parallel()
	s5 := math.Sqrt(5)
	tests := []struct {
		j      [][]float64
		h      []float64
		energy float64
		probs  []float64
	}{
		{
			j:      [][]float64{{0}},
			h:      []float64{1},
			energy: -1,
			probs:  []float64{0.5, 0.5},
		},
		{
			j:      [][]float64{{0, 1}, {1, 0}},
			h:      []float64{1, 1},
			energy: -s5,
			probs:  []float64{(5 - s5) / 20, (5 + s5) / 20, (5 + s5) / 20, (5 - s5) / 20},
		},
		{
			j:      [][]float64{{0, -1}, {-1, 0}},
			h:      []float64{1, 1},
			energy: -s5,
			probs:  []float64{(5 + s5) / 20, (5 - s5) / 20, (5 - s5) / 20, (5 + s5) / 20},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %v", test.j, test.h), func(t *testing.T) {
			t.Parallel()
			hamiltonian, err := Hamiltonian(test.j, test.h)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			energy, vec, err := GroundState(hamiltonian)
			if err != nil {
				t.Fatalf("%+v", err)
			}

			// The tensor package computes in single precision.
			if math.Abs(energy-test.energy) > 1e-4 {
				t.Fatalf("%f %f", energy, test.energy)
			}
			for i, v := range vec {
				prob := real(v)*real(v) + imag(v)*imag(v)
				if math.Abs(prob-test.probs[i]) > 1e-4 {
					t.Fatalf("%d %v %f %f", i, v, prob, test.probs[i])
				}
			}
		})
	}
}

func TestGetStatistics(t *testing.T) {
	t.Parallel()
	// The fully staggered basis state 0b0110 on the 2x2 lattice.
	vec := make([]complex128, 16)
	vec[6] = 1
	stats, err := GetStatistics(vec)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if math.Abs(stats.M2-1) > 1e-12 {
		t.Fatalf("%#v", stats)
	}
	if math.Abs(stats.M4-1) > 1e-12 {
		t.Fatalf("%#v", stats)
	}
	if math.Abs(stats.BinderCumulant-2.0/3) > 1e-12 {
		t.Fatalf("%#v", stats)
	}

	// The uniform superposition has IID spins.
	for i := range vec {
		vec[i] = complex(0.25, 0)
	}
	stats, err = GetStatistics(vec)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if math.Abs(stats.M2-0.25) > 1e-12 {
		t.Fatalf("%#v", stats)
	}
	if math.Abs(stats.M4-0.15625) > 1e-12 {
		t.Fatalf("%#v", stats)
	}
	if math.Abs(stats.BinderCumulant-1.0/6) > 1e-12 {
		t.Fatalf("%#v", stats)
	}

	// 0b0011 has zero staggered magnetization.
	for i := range vec {
		vec[i] = 0
	}
	vec[3] = 1
	if _, err := GetStatistics(vec); err == nil {
		t.Fatalf("expected error")
	}

	// Unnormalized state.
	vec[3] = 0.5
	if _, err := GetStatistics(vec); err == nil {
		t.Fatalf("expected error")
	}

	// Dimension is not a power of two.
	if _, err := GetStatistics(make([]complex128, 3)); err == nil {
		t.Fatalf("expected error")
	}
	// Number of spins is not a perfect square.
	if _, err := GetStatistics(make([]complex128, 8)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
