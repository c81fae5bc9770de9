package deposits

import (
	"math/rand"

	"github.com/google/uuid"
)

// GeneratorConfig bounds the synthetic deposit distribution. Positions are
// uniform in the box, energies and step lengths uniform in their ranges.
type GeneratorConfig struct {
	MinEnergyMeV  float64
	MaxEnergyMeV  float64
	MinStepCm     float64
	MaxStepCm     float64
	BoxHalfSideCm float64
}

// DefaultGeneratorConfig returns ranges typical of minimum-ionizing track
// steps in a small single-phase TPC.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinEnergyMeV:  0.1,
		MaxEnergyMeV:  5.0,
		MinStepCm:     0.05,
		MaxStepCm:     0.5,
		BoxHalfSideCm: 100.0,
	}
}

// Generator produces a deterministic stream of synthetic deposit records
// from a seed. Not safe for concurrent use; give each worker its own.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// species is the particle mix for synthetic runs: mostly MIP-like tracks,
// some showers, occasional heavy particles.
var species = []int{13, -13, 11, -11, 22, 211, -211, 2212, 321, 1000020040}

// NewGenerator creates a seeded generator. The same seed and config always
// produce the same record stream.
func NewGenerator(cfg GeneratorConfig, seed int64) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next synthetic deposit record.
func (g *Generator) Next() Record {
	uniform := func(lo, hi float64) float64 {
		return lo + g.rng.Float64()*(hi-lo)
	}
	half := g.cfg.BoxHalfSideCm
	return Record{
		EventID:    uuid.Must(uuid.NewRandomFromReader(g.rng)),
		Energy:     uniform(g.cfg.MinEnergyMeV, g.cfg.MaxEnergyMeV),
		StepLength: uniform(g.cfg.MinStepCm, g.cfg.MaxStepCm),
		X:          uniform(-half, half),
		Y:          uniform(-half, half),
		Z:          uniform(-half, half),
		PDGCode:    species[g.rng.Intn(len(species))],
	}
}

// Take returns the next n records.
func (g *Generator) Take(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = g.Next()
	}
	return records
}
