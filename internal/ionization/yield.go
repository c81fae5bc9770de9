package ionization

// PDG particle codes the yield-ratio dispatch recognizes.
const (
	PDGElectron = 11
	PDGPositron = -11
	PDGPhoton   = 22
	PDGMuon     = 13
	PDGPion     = 211
	PDGKaon     = 321
	PDGProton   = 2212
	PDGAlpha    = 1000020040
)

// yieldTable maps particle species to their fast/total scintillation light
// fraction. Only the yield ratio depends on species here; recombination
// itself does not.
type yieldTable struct {
	proton   float64
	muon     float64
	pion     float64
	kaon     float64
	alpha    float64
	electron float64
}

// lookup dispatches on the PDG code. Both charge signs of muons, pions and
// kaons share a ratio; electrons, positrons and photons share another, and
// any unrecognized code falls back to that one rather than erroring.
func (t yieldTable) lookup(pdg int) float64 {
	switch pdg {
	case PDGProton:
		return t.proton
	case PDGMuon, -PDGMuon:
		return t.muon
	case PDGPion, -PDGPion:
		return t.pion
	case PDGKaon, -PDGKaon:
		return t.kaon
	case PDGAlpha:
		return t.alpha
	case PDGElectron, PDGPositron, PDGPhoton:
		return t.electron
	default:
		return t.electron
	}
}
