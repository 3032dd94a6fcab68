package qmc

import "github.com/pkg/errors"

// Estimator accumulates magnetization moments over sweeps without
// retaining per sweep samples.
type Estimator struct {
	n  int
	m2 float64
	m4 float64
}

// Add records one sweep's magnetization.
func (e *Estimator) Add(m float64) {
	e.n++
	e.m2 += m * m
	e.m4 += m * m * m * m
}

// Statistics are accumulated magnetization moments.
type Statistics struct {
	M2 float64
	M4 float64
	// BinderCumulant is 1 - <m^4>/(3<m^2>^2).
	BinderCumulant float64
}

// Statistics returns the moment averages over all recorded sweeps.
func (e *Estimator) Statistics() (Statistics, error) {
	if e.n == 0 {
		return Statistics{}, errors.Errorf("no samples")
	}
	var stats Statistics
	stats.M2 = e.m2 / float64(e.n)
	stats.M4 = e.m4 / float64(e.n)
	if stats.M2 == 0 {
		return Statistics{}, errors.Errorf("%d %f", e.n, stats.M2)
	}
	stats.BinderCumulant = 1 - stats.M4/(3*stats.M2*stats.M2)
	return stats, nil
}
