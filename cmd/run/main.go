// Command run sweeps the anisotropy angle of a transverse field Ising
// model on square lattices of increasing size, and records the staggered
// magnetization statistics of every run in a sqlite database.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	qmc "github.com/kwang0/SSE-QMC-TFIM"
	"github.com/kwang0/SSE-QMC-TFIM/exactdiag"
	"github.com/kwang0/SSE-QMC-TFIM/lattice"
	"github.com/kwang0/SSE-QMC-TFIM/results"
	"github.com/kwang0/SSE-QMC-TFIM/util"
)

var (
	runDir = flag.String("d", filepath.Join("runs", "tfim"), "run directory")
	maxL   = flag.Int("l", 4, "largest lattice side length")
	jmag   = flag.Float64("j", 1, "coupling strength")
	hField = flag.Float64("hfield", 1, "transverse field strength")
	power  = flag.Int("m", 0, "expansion power, 0 means 4 times the number of sites")
	sweeps = flag.Int("sweeps", 4000, "measured sweeps per chain")
	delay  = flag.Int("delay", 500, "thermalization sweeps per chain")
	reps   = flag.Int("reps", 8, "independent chains per configuration")
	check  = flag.Bool("check", true, "compare against exact diagonalization before sweeping")
)

type config struct {
	l     int
	theta float64
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if *check {
		if err := checkExact(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(*runDir, 0755); err != nil {
		return errors.Wrap(err, "")
	}
	store, err := results.Open(filepath.Join(*runDir, "runs.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	configs := make([]config, 0)
	for l := 2; l <= *maxL; l++ {
		for t := 1; t <= 7; t++ {
			configs = append(configs, config{l: l, theta: float64(t) * math.Pi / 16})
		}
	}

	for _, c := range configs {
		ok, err := store.Has(c.l, c.theta)
		if err != nil {
			return err
		}
		if ok {
			log.Printf("skip %d %.4f", c.l, c.theta)
			continue
		}

		res, err := solve(c)
		if err != nil {
			return err
		}
		if err := store.Put(res); err != nil {
			return err
		}
		log.Printf("%d %.4f m2 %.4f binder %.4f", c.l, c.theta, res.M2, res.Binder)
	}

	all, err := store.Gather()
	if err != nil {
		return err
	}
	fmt.Printf("l,theta,m2,m2err,binder,bindererr\n")
	for _, r := range all {
		fmt.Printf("%d,%f,%f,%f,%f,%f\n", r.L, r.Theta, r.M2, r.M2Err, r.Binder, r.BinderErr)
	}
	return nil
}

func solve(c config) (results.Statistics, error) {
	n := c.l * c.l
	j := lattice.AnisotropyAngle(c.l, *jmag, c.theta)
	h := lattice.UniformField(n, *hField)
	m := *power
	if m == 0 {
		m = 4 * n
	}

	m2s := make([]float64, 0, *reps)
	binders := make([]float64, 0, *reps)
	for rep := 0; rep < *reps; rep++ {
		s, err := qmc.New(j, h, m)
		if err != nil {
			return results.Statistics{}, err
		}
		for range *delay {
			if _, err := s.Sweep(); err != nil {
				return results.Statistics{}, err
			}
		}

		est := qmc.Estimator{}
		progress := util.NewProgress(10 * time.Second)
		for i := 0; i < *sweeps; i++ {
			obs, err := s.Sweep()
			if err != nil {
				return results.Statistics{}, err
			}
			est.Add(obs.Staggered)

			if progress.Ok() {
				log.Printf("%d %.4f rep %d sweep %d/%d", c.l, c.theta, rep, i, *sweeps)
			}
		}

		stats, err := est.Statistics()
		if err != nil {
			return results.Statistics{}, err
		}
		m2s = append(m2s, stats.M2)
		binders = append(binders, stats.BinderCumulant)
	}

	res := results.Statistics{
		L:         c.l,
		Theta:     c.theta,
		M2:        stat.Mean(m2s, nil),
		M2Err:     stat.StdErr(stat.StdDev(m2s, nil), float64(*reps)),
		Binder:    stat.Mean(binders, nil),
		BinderErr: stat.StdErr(stat.StdDev(binders, nil), float64(*reps)),
	}
	return res, nil
}

// checkExact compares a small quantum Monte Carlo run against exact
// diagonalization, to catch blunders before committing to a long sweep.
func checkExact() error {
	const l = 2
	theta := math.Pi / 4
	n := l * l
	j := lattice.AnisotropyAngle(l, *jmag, theta)
	h := lattice.UniformField(n, *hField)

	hamiltonian, err := exactdiag.Hamiltonian(j, h)
	if err != nil {
		return err
	}
	energy, vec, err := exactdiag.GroundState(hamiltonian)
	if err != nil {
		return err
	}
	want, err := exactdiag.GetStatistics(vec)
	if err != nil {
		return err
	}

	s, err := qmc.New(j, h, 64)
	if err != nil {
		return err
	}
	for range 500 {
		if _, err := s.Sweep(); err != nil {
			return err
		}
	}
	est := qmc.Estimator{}
	for range 4000 {
		obs, err := s.Sweep()
		if err != nil {
			return err
		}
		est.Add(obs.Staggered)
	}
	got, err := est.Statistics()
	if err != nil {
		return err
	}

	if math.Abs(got.M2-want.M2) > 0.1 {
		return errors.Errorf("%#v %#v", got, want)
	}
	log.Printf("check l %d energy %.4f m2 %.4f exact %.4f", l, energy, got.M2, want.M2)
	return nil
}
