// Package ionization computes the free-electron and scintillation-photon
// yield of a single localized energy deposit in liquid argon. The split
// between the two is anticorrelated: both are drawn from the same total
// quanta budget, and the recombination survival fraction decides how much
// of the budget drifts out as charge versus relaxing as light.
package ionization

import "math"

// Ion+excitation work function (MeV per quantum). Fixed property of LAr,
// not exposed through configuration.
const wPhMeV = 19.5 * 1e-6

// FieldOffsets supplies position-dependent E-field distortions, typically
// from a space-charge map. Implementations must be safe for concurrent
// read access.
type FieldOffsets interface {
	Enabled() bool
	// OffsetsAt returns the fractional field offset vector at a point
	// (detector coordinates, cm).
	OffsetsAt(x, y, z float64) (dx, dy, dz float64)
}

// Params holds the fitted physical constants for the recombination and
// scintillation models, as they appear in configuration. Density-dependent
// coefficients (Recombk, ModBoxB) are in g/(MeV·cm²) here and are
// normalized by the LAr density when the Calculator is built.
type Params struct {
	ScintPreScale float64

	// Birks-style recombination
	RecombA float64
	Recombk float64

	// Modified-Box recombination
	ModBoxA float64
	ModBoxB float64

	UseModBoxRecomb   bool
	UseModLarqlRecomb bool

	// LArQL low-field correction shape constants
	LarqlChi0A float64
	LarqlChi0B float64
	LarqlChi0C float64
	LarqlChi0D float64
	LarqlAlpha float64
	LarqlBeta  float64

	// Ionization yield, electrons per GeV deposited
	GeVToElectrons float64

	// Scintillation yield ratios (fast/total light fraction)
	ScintByParticleType     bool
	ScintYieldRatio         float64
	ProtonScintYieldRatio   float64
	MuonScintYieldRatio     float64
	PionScintYieldRatio     float64
	KaonScintYieldRatio     float64
	AlphaScintYieldRatio    float64
	ElectronScintYieldRatio float64
}

// Deposit is one simulated energy deposition step.
type Deposit struct {
	Energy     float64 // MeV
	StepLength float64 // cm, may be zero for point-like deposits
	X, Y, Z    float64 // step midpoint, detector coordinates (cm)
	PDGCode    int
}

// Result is the yield of a single deposit. Photons can come out negative
// when the computed electrons exceed the total quanta estimate; that is
// passed through unclamped so downstream stages can decide what to do
// with it.
type Result struct {
	Energy          float64
	Electrons       float64
	Photons         float64
	ScintYieldRatio float64
}

// Calculator maps one energy deposit plus the ambient field to an
// electron/photon yield. All state is frozen at construction, so a single
// instance is safe for concurrent use from multiple workers. Changing
// detector conditions (temperature, density) requires building a new one.
type Calculator struct {
	scintPreScale float64
	recombA       float64
	recombK       float64 // normalized by density, (MeV/cm)⁻¹·kV/cm
	modBoxA       float64
	modBoxB       float64 // normalized by density
	useLarql      bool
	chi0A         float64
	chi0B         float64
	chi0C         float64
	chi0D         float64
	larqlAlpha    float64
	larqlBeta     float64
	wIon          float64 // MeV per ionization electron
	wPh           float64 // MeV per quantum (ion + excitation)

	// recombine is selected once at construction so the per-deposit path
	// carries no model branching.
	recombine func(dEdx, efield, stepLength float64) float64

	yieldRatio func(pdg int) float64

	offsets FieldOffsets
}

// NewCalculator builds a calculator from fitted constants and the ambient
// LAr density in g/cm³ (used once, to normalize the density-dependent
// recombination coefficients). offsets may be nil, which behaves like a
// disabled space-charge map. Construction is total for well-formed inputs;
// a non-positive density is a configuration error the caller must catch.
func NewCalculator(p Params, density float64, offsets FieldOffsets) *Calculator {
	c := &Calculator{
		scintPreScale: p.ScintPreScale,
		recombA:       p.RecombA,
		recombK:       p.Recombk / density,
		modBoxA:       p.ModBoxA,
		modBoxB:       p.ModBoxB / density,
		useLarql:      p.UseModLarqlRecomb,
		chi0A:         p.LarqlChi0A,
		chi0B:         p.LarqlChi0B,
		chi0C:         p.LarqlChi0C,
		chi0D:         p.LarqlChi0D,
		larqlAlpha:    p.LarqlAlpha,
		larqlBeta:     p.LarqlBeta,
		wIon:          1.0 / p.GeVToElectrons * 1e3,
		wPh:           wPhMeV,
		offsets:       offsets,
	}

	if p.UseModBoxRecomb {
		c.recombine = c.modBoxRecomb
	} else {
		c.recombine = c.birksRecomb
	}

	if p.ScintByParticleType {
		byType := yieldTable{
			proton:   p.ProtonScintYieldRatio,
			muon:     p.MuonScintYieldRatio,
			pion:     p.PionScintYieldRatio,
			kaon:     p.KaonScintYieldRatio,
			alpha:    p.AlphaScintYieldRatio,
			electron: p.ElectronScintYieldRatio,
		}
		c.yieldRatio = byType.lookup
	} else {
		global := p.ScintYieldRatio
		c.yieldRatio = func(int) float64 { return global }
	}

	return c
}

// Compute returns the electron and photon yield for one deposit under the
// given ambient field magnitude (kV/cm, before space-charge distortion).
// Numerically degenerate inputs (zero field on the Birks branch, a LArQL
// denominator crossing zero) produce non-finite floats rather than errors;
// callers downstream decide whether to clamp or discard.
func (c *Calculator) Compute(d Deposit, fieldBaseline float64) Result {
	// total quanta (ions + excitons)
	nq := d.Energy / c.wPh

	dEdx := 0.0
	if d.StepLength > 0 {
		dEdx = d.Energy / d.StepLength
	}
	efield := c.efieldAt(fieldBaseline, d)

	// Guard against spurious dE/dx spikes from near-zero-length steps.
	// The floor is part of the calibrated model, not a physical result.
	if dEdx < 1 {
		dEdx = 1
	}

	recomb := c.recombine(dEdx, efield, d.StepLength)
	if c.useLarql {
		recomb += c.escapingFraction(dEdx) * c.fieldCorrection(efield, dEdx)
	}

	electrons := (d.Energy / c.wIon) * recomb
	photons := (nq - electrons) * c.scintPreScale

	return Result{
		Energy:          d.Energy,
		Electrons:       electrons,
		Photons:         photons,
		ScintYieldRatio: c.yieldRatio(d.PDGCode),
	}
}

// modBoxRecomb is the Modified-Box survival fraction. A zero-length step
// has no defined track segment under this model, so it yields exactly 0.
func (c *Calculator) modBoxRecomb(dEdx, efield, stepLength float64) float64 {
	if stepLength <= 0 {
		return 0
	}
	xi := c.modBoxB * dEdx / efield
	return math.Log(c.modBoxA+xi) / xi
}

// birksRecomb is the Birks-style survival fraction. There is no guard on
// efield; a zero field divides by zero and the non-finite result is
// surfaced as-is.
func (c *Calculator) birksRecomb(dEdx, efield, _ float64) float64 {
	return c.recombA / (1 + dEdx*c.recombK/efield)
}

// escapingFraction is the LArQL chi0 function: the fraction of electrons
// escaping the dense ionization column at low fields.
func (c *Calculator) escapingFraction(dEdx float64) float64 {
	return c.chi0A / (c.chi0B + math.Exp(c.chi0C+c.chi0D*dEdx))
}

// fieldCorrection is the LArQL f_corr function scaling the escaping
// fraction with the local field. dEdx arrives floor-clamped at 1, so
// ln(dEdx) ≥ 0, but the denominator can still cross zero for specific
// dEdx values.
func (c *Calculator) fieldCorrection(efield, dEdx float64) float64 {
	return math.Exp(-efield / (c.larqlAlpha*math.Log(dEdx) + c.larqlBeta))
}

// efieldAt scales the ambient field by the space-charge distortion at the
// deposit's midpoint. With no map, or the map disabled, the baseline is
// used unmodified.
func (c *Calculator) efieldAt(baseline float64, d Deposit) float64 {
	if c.offsets == nil || !c.offsets.Enabled() {
		return baseline
	}
	dx, dy, dz := c.offsets.OffsetsAt(d.X, d.Y, d.Z)
	return baseline * math.Sqrt((1+dx)*(1+dx)+dy*dy+dz*dz)
}
