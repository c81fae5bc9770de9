package ionization

import "testing"

func TestYieldRatioByParticleType(t *testing.T) {
	p := testParams()
	p.ScintByParticleType = true
	calc := NewCalculator(p, testDensity, nil)

	tests := []struct {
		name string
		pdg  int
		want float64
	}{
		{"proton", 2212, 0.23},
		{"muon", 13, 0.23},
		{"antimuon", -13, 0.23},
		{"pion", 211, 0.23},
		{"negative pion", -211, 0.23},
		{"kaon", 321, 0.23},
		{"negative kaon", -321, 0.23},
		{"alpha", 1000020040, 0.56},
		{"electron", 11, 0.27},
		{"positron", -11, 0.27},
		{"photon", 22, 0.27},
		{"unknown code falls back to electron", 999999, 0.27},
		{"nuclear fragment falls back to electron", 1000060120, 0.27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := calc.Compute(Deposit{Energy: 1.0, StepLength: 0.3, PDGCode: tt.pdg}, 0.5)
			if res.ScintYieldRatio != tt.want {
				t.Errorf("yield ratio for pdg %d = %f, want %f", tt.pdg, res.ScintYieldRatio, tt.want)
			}
		})
	}
}

func TestYieldRatioGlobalWhenDisabled(t *testing.T) {
	p := testParams()
	p.ScintByParticleType = false
	calc := NewCalculator(p, testDensity, nil)

	for _, pdg := range []int{2212, 13, 11, 1000020040, 999999} {
		res := calc.Compute(Deposit{Energy: 1.0, StepLength: 0.3, PDGCode: pdg}, 0.5)
		if res.ScintYieldRatio != 0.3 {
			t.Errorf("yield ratio for pdg %d = %f, want global 0.3", pdg, res.ScintYieldRatio)
		}
	}
}

// The proton-specific ratio must come through, not the default, when
// per-particle yields are on and the proton ratio is configured away from
// the electron one.
func TestYieldRatioProtonDistinctFromDefault(t *testing.T) {
	p := testParams()
	p.ScintByParticleType = true
	p.ProtonScintYieldRatio = 0.19
	calc := NewCalculator(p, testDensity, nil)

	res := calc.Compute(Deposit{Energy: 1.0, StepLength: 0.3, PDGCode: 2212}, 0.5)
	if res.ScintYieldRatio != 0.19 {
		t.Errorf("proton yield ratio = %f, want configured 0.19", res.ScintYieldRatio)
	}
}
