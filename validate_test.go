package qmc

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	af := [][]float64{
		{0, 1},
		{1, 0},
	}
	fm := [][]float64{
		{0, -1},
		{-1, 0},
	}
	uncoupled := [][]float64{
		{0, 0},
		{0, 0},
	}
	tests := []struct {
		j        [][]float64
		boundary []bool
		ops      []operator
		want     *ViolationError
	}{
		{
			// An antiferromagnetic bond on anti-aligned spins is fine.
			j:        af,
			boundary: []bool{true, false},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
				{kind: diagField, i: 1, j: 1},
			},
		},
		{
			// Flipping both sites keeps the pair anti-aligned.
			j:        af,
			boundary: []bool{true, false},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
				{kind: offField, i: 0, j: 0},
				{kind: offField, i: 1, j: 1},
				{kind: diagBond, i: 0, j: 1},
			},
		},
		{
			j:        af,
			boundary: []bool{true, true},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
			},
			want: &ViolationError{Slot: 0, Sites: [2]int{0, 1}, Kind: ViolationAFAligned},
		},
		{
			j:        fm,
			boundary: []bool{true, false},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
			},
			want: &ViolationError{Slot: 0, Sites: [2]int{0, 1}, Kind: ViolationFMMisaligned},
		},
		{
			j:        uncoupled,
			boundary: []bool{true, false},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
			},
			want: &ViolationError{Slot: 0, Sites: [2]int{0, 1}, Kind: ViolationZeroCoupling},
		},
		{
			// The violation appears only after the spin flip propagates.
			j:        af,
			boundary: []bool{true, false},
			ops: []operator{
				{kind: diagBond, i: 0, j: 1},
				{kind: offField, i: 0, j: 0},
				{kind: diagBond, i: 0, j: 1},
			},
			want: &ViolationError{Slot: 2, Sites: [2]int{0, 1}, Kind: ViolationAFAligned},
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v %v", test.ops, test.want), func(t *testing.T) {
			t.Parallel()
			err := validate(test.j, test.boundary, test.ops)
			if test.want == nil {
				if err != nil {
					t.Fatalf("%+v", err)
				}
				return
			}
			var verr *ViolationError
			if !errors.As(err, &verr) {
				t.Fatalf("%+v", err)
			}
			if *verr != *test.want {
				t.Fatalf("%#v, expected %#v", verr, test.want)
			}
		})
	}
}

func TestValidateKindString(t *testing.T) {
	t.Parallel()
	err := validate(
		[][]float64{{0, 1}, {1, 0}},
		[]bool{false, false},
		[]operator{{kind: diagBond, i: 0, j: 1}},
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	want := "slot 0 sites [0 1]: antiferromagnetic bond on aligned spins"
	if err.Error() != want {
		t.Fatalf("%q, expected %q", err.Error(), want)
	}
}
