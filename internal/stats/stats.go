// Package stats summarizes the per-deposit yields of a simulation run.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/coldbox-data/yield.report/internal/ionization"
)

// Summary aggregates the charge and light yield of one run, normalized per
// MeV so runs with different deposit spectra stay comparable. Non-finite
// results (zero-field Birks, LArQL denominator crossings) are counted
// separately and excluded from the moments.
type Summary struct {
	N         int `json:"n"`
	NonFinite int `json:"non_finite"`

	MeanElectronsPerMeV   float64 `json:"mean_electrons_per_mev"`
	StdDevElectronsPerMeV float64 `json:"stddev_electrons_per_mev"`
	MeanPhotonsPerMeV     float64 `json:"mean_photons_per_mev"`
	StdDevPhotonsPerMeV   float64 `json:"stddev_photons_per_mev"`

	MedianElectronsPerMeV float64 `json:"median_electrons_per_mev"`
	Q25ElectronsPerMeV    float64 `json:"q25_electrons_per_mev"`
	Q75ElectronsPerMeV    float64 `json:"q75_electrons_per_mev"`

	NegativePhotons int `json:"negative_photons"`
}

// Summarize computes run statistics from per-deposit results. Results with
// zero energy carry no per-MeV information and are skipped like non-finite
// ones.
func Summarize(results []ionization.Result) Summary {
	s := Summary{N: len(results)}

	electronsPerMeV := make([]float64, 0, len(results))
	photonsPerMeV := make([]float64, 0, len(results))
	for _, r := range results {
		qy := r.Electrons / r.Energy
		ly := r.Photons / r.Energy
		if !finite(qy) || !finite(ly) {
			s.NonFinite++
			continue
		}
		if r.Photons < 0 {
			s.NegativePhotons++
		}
		electronsPerMeV = append(electronsPerMeV, qy)
		photonsPerMeV = append(photonsPerMeV, ly)
	}
	if len(electronsPerMeV) == 0 {
		return s
	}

	s.MeanElectronsPerMeV = stat.Mean(electronsPerMeV, nil)
	s.StdDevElectronsPerMeV = stat.StdDev(electronsPerMeV, nil)
	s.MeanPhotonsPerMeV = stat.Mean(photonsPerMeV, nil)
	s.StdDevPhotonsPerMeV = stat.StdDev(photonsPerMeV, nil)

	sort.Float64s(electronsPerMeV)
	s.Q25ElectronsPerMeV = stat.Quantile(0.25, stat.Empirical, electronsPerMeV, nil)
	s.MedianElectronsPerMeV = stat.Quantile(0.5, stat.Empirical, electronsPerMeV, nil)
	s.Q75ElectronsPerMeV = stat.Quantile(0.75, stat.Empirical, electronsPerMeV, nil)

	return s
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
