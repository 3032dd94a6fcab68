package qmc

import (
	"fmt"
	"slices"
)

// ViolationKind classifies a bond operator's broken sign rule.
type ViolationKind int

const (
	// ViolationAFAligned is an antiferromagnetic bond acting on aligned spins.
	ViolationAFAligned ViolationKind = iota
	// ViolationFMMisaligned is a ferromagnetic bond acting on misaligned spins.
	ViolationFMMisaligned
	// ViolationZeroCoupling is a bond between uncoupled sites.
	ViolationZeroCoupling
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationAFAligned:
		return "antiferromagnetic bond on aligned spins"
	case ViolationFMMisaligned:
		return "ferromagnetic bond on misaligned spins"
	case ViolationZeroCoupling:
		return "bond on zero coupling"
	default:
		return fmt.Sprintf("violation %d", int(k))
	}
}

// ViolationError reports the first operator slot whose bond breaks its sign
// rule. It signals a defect in the update logic, never a recoverable
// condition.
type ViolationError struct {
	Slot  int
	Sites [2]int
	Kind  ViolationKind
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("slot %d sites %v: %s", e.Slot, e.Sites, e.Kind)
}

// Validate replays the operator string from the boundary state and checks
// every bond operator against the sign of its coupling. A correct sweep
// never produces a violation.
func (s *Simulation) Validate() error {
	return validate(s.j, s.boundary, s.ops)
}

func validate(j [][]float64, boundary []bool, ops []operator) error {
	alpha := slices.Clone(boundary)
	for p, op := range ops {
		switch op.kind {
		case offField:
			alpha[op.i] = !alpha[op.i]
		case diagBond:
			aligned := alpha[op.i] == alpha[op.j]
			violation := &ViolationError{Slot: p, Sites: [2]int{op.i, op.j}}
			switch {
			case j[op.i][op.j] == 0:
				violation.Kind = ViolationZeroCoupling
				return violation
			case j[op.i][op.j] > 0 && aligned:
				violation.Kind = ViolationAFAligned
				return violation
			case j[op.i][op.j] < 0 && !aligned:
				violation.Kind = ViolationFMMisaligned
				return violation
			}
		}
	}
	return nil
}
