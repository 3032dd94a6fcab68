// Package lattice builds coupling matrices for common geometries.
package lattice

import "math"

// Square returns the coupling matrix of an l by l periodic square lattice
// with coupling jx on horizontal bonds and jy on vertical bonds. Sites are
// numbered row major, y*l + x. Bonds accumulate, so on l = 2 the wrapping
// neighbor doubles each coupling.
func Square(l int, jx, jy float64) [][]float64 {
	n := l * l
	j := zeros(n)
	for y := range l {
		for x := range l {
			s := y*l + x
			right := y*l + (x+1)%l
			down := ((y+1)%l)*l + x
			if right != s {
				j[s][right] += jx
				j[right][s] += jx
			}
			if down != s {
				j[s][down] += jy
				j[down][s] += jy
			}
		}
	}
	return j
}

// Chain returns the coupling matrix of an open chain of n sites.
func Chain(n int, coupling float64) [][]float64 {
	j := zeros(n)
	for s := range n - 1 {
		j[s][s+1] += coupling
		j[s+1][s] += coupling
	}
	return j
}

// AnisotropyAngle returns an l by l periodic square lattice whose horizontal
// and vertical couplings are j*cos(theta) and j*sin(theta).
func AnisotropyAngle(l int, j, theta float64) [][]float64 {
	return Square(l, j*math.Cos(theta), j*math.Sin(theta))
}

// UniformField returns n copies of the field strength h.
func UniformField(n int, h float64) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = h
	}
	return f
}

func zeros(n int) [][]float64 {
	j := make([][]float64, n)
	for i := range j {
		j[i] = make([]float64, n)
	}
	return j
}
