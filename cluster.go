package qmc

import "fmt"

// clusterPhase partitions the field vertex legs into clusters and flips
// each cluster according to one draw of coin. It returns the number of
// boundary bits toggled.
//
// Bond vertices are pass through: a cluster entering any bond leg owns all
// four, so both endpoint spins always flip together and the bond sign rules
// survive every flip. Field vertices terminate growth leg by leg, which is
// why only field legs seed clusters.
func (s *Simulation) clusterPhase(coin func() bool) int {
	for p := range s.legVisited {
		s.legVisited[p] = [4]bool{}
		s.bondSeen[p] = false
	}

	var toggles int
	for p, op := range s.ops {
		if op.kind == diagBond {
			continue
		}
		for _, dir := range [2]int{legLower1, legUpper1} {
			if s.legVisited[p][dir] {
				continue
			}
			toggles += s.expandCluster(legRef{slot: p, dir: dir}, coin())
		}
	}
	return toggles
}

// expandCluster grows the cluster seeded at seed with an explicit worklist
// and applies the flip decision as it goes: every field leg the cluster
// consumes toggles that slot's encoding, and every lower leg that crosses
// into the boundary sentinel toggles the stored boundary bit. A field
// vertex whose both legs join one cluster is toggled twice, restoring it,
// since the spin then flips on both of its sides.
func (s *Simulation) expandCluster(seed legRef, flip bool) int {
	var toggles int
	cross := func(from legRef) (legRef, bool) {
		to := s.graph.links[from.slot][from.dir]
		switch to.slot {
		case slotUnused:
			panic(fmt.Sprintf("%#v", from))
		case slotBoundary:
			if flip && (from.dir == legLower1 || from.dir == legLower2) {
				site := s.legSite(from)
				s.boundary[site] = !s.boundary[site]
				toggles++
			}
			return legRef{}, false
		}
		return to, true
	}

	s.legVisited[seed.slot][seed.dir] = true
	if flip {
		s.toggleField(seed.slot)
	}
	s.stack = s.stack[:0]
	if to, ok := cross(seed); ok {
		s.stack = append(s.stack, to)
	}

	for len(s.stack) > 0 {
		leg := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if s.ops[leg.slot].kind != diagBond {
			if s.legVisited[leg.slot][leg.dir] {
				continue
			}
			s.legVisited[leg.slot][leg.dir] = true
			if flip {
				s.toggleField(leg.slot)
			}
			continue
		}

		if s.bondSeen[leg.slot] {
			continue
		}
		s.bondSeen[leg.slot] = true
		for dir := range s.graph.links[leg.slot] {
			if to, ok := cross(legRef{slot: leg.slot, dir: dir}); ok {
				s.stack = append(s.stack, to)
			}
		}
	}
	return toggles
}

// toggleField swaps a field slot between its diagonal and off diagonal
// encodings.
func (s *Simulation) toggleField(p int) {
	switch s.ops[p].kind {
	case diagField:
		s.ops[p].kind = offField
	case offField:
		s.ops[p].kind = diagField
	default:
		panic(fmt.Sprintf("%d %v", p, s.ops[p].kind))
	}
}

// legSite is the lattice site a leg lives on.
func (s *Simulation) legSite(l legRef) int {
	op := s.ops[l.slot]
	switch l.dir {
	case legLower1, legUpper1:
		return op.i
	case legLower2, legUpper2:
		return op.j
	default:
		panic(fmt.Sprintf("%#v", l))
	}
}
