// Package util holds small helpers shared by the command line tools.
package util

import "time"

// Progress rate limits progress reporting inside tight loops.
type Progress struct {
	d    time.Duration
	last time.Time
}

func NewProgress(d time.Duration) *Progress {
	return &Progress{d: d}
}

// Ok reports whether enough time has passed since the last report.
func (p *Progress) Ok() bool {
	now := time.Now()
	if now.Sub(p.last) < p.d {
		return false
	}

	p.last = now
	return true
}
