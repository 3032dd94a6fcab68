package qmc

const (
	// legLower1 is a vertex's lower leg on its first site.
	legLower1 = 0
	// legLower2 is a bond vertex's lower leg on its second site.
	legLower2 = 1
	// legUpper1 is a vertex's upper leg on its first site.
	legUpper1 = 2
	// legUpper2 is a bond vertex's upper leg on its second site.
	legUpper2 = 3
)

const (
	// slotBoundary marks a link reaching an imaginary time end.
	slotBoundary = -1
	// slotUnused marks the second site legs of a field vertex.
	slotUnused = -2
)

// legRef names one leg of the vertex at a slot. Negative slots are the
// sentinels above.
type legRef struct {
	slot int
	dir  int
}

// graph is the space time connectivity of one operator string. Vertices
// live in an arena indexed by slot, one per slot, so a sweep resets the
// graph without reallocating.
type graph struct {
	// links[p][d] is the peer of leg d on the vertex at slot p.
	links [][4]legRef
	// frontier[s] is the dangling upper leg of the last vertex on site s.
	frontier []legRef
}

func (g *graph) reset() {
	for s := range g.frontier {
		g.frontier[s] = legRef{slot: slotBoundary}
	}
}

func (g *graph) addField(p, site int) {
	g.links[p] = [4]legRef{
		legLower1: {slot: slotBoundary},
		legLower2: {slot: slotUnused},
		legUpper1: {slot: slotBoundary},
		legUpper2: {slot: slotUnused},
	}
	g.attach(p, site, legLower1, legUpper1)
}

func (g *graph) addBond(p, i, j int) {
	g.links[p] = [4]legRef{
		legLower1: {slot: slotBoundary},
		legLower2: {slot: slotBoundary},
		legUpper1: {slot: slotBoundary},
		legUpper2: {slot: slotBoundary},
	}
	g.attach(p, i, legLower1, legUpper1)
	g.attach(p, j, legLower2, legUpper2)
}

// attach links the new vertex at slot p into site's timeline. The new lower
// leg points at the site frontier, which is back patched to point at the new
// lower leg in return. The new upper leg becomes the frontier, keeping its
// boundary sentinel until a later vertex back patches it.
func (g *graph) attach(p, site, lower, upper int) {
	prev := g.frontier[site]
	g.links[p][lower] = prev
	if prev.slot != slotBoundary {
		g.links[prev.slot][prev.dir] = legRef{slot: p, dir: lower}
	}
	g.frontier[site] = legRef{slot: p, dir: upper}
}
