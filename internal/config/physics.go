package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coldbox-data/yield.report/internal/detector"
	"github.com/coldbox-data/yield.report/internal/ionization"
)

// DefaultConfigPath is the path to the canonical physics defaults file.
// This is the single source of truth for all default model constants.
const DefaultConfigPath = "config/physics.defaults.json"

// PhysicsConfig is the root configuration for the yield calculation.
// All fields are optional in the JSON; the Get* accessors carry the
// fitted defaults, so partial configs are safe.
type PhysicsConfig struct {
	// Recombination model selection and coefficients. Recombk and
	// ModBoxB are in g/(MeV·cm²) and get density-normalized when the
	// calculator is built.
	UseModBoxRecomb *bool    `json:"use_modbox_recomb,omitempty"`
	RecombA         *float64 `json:"recomb_a,omitempty"`
	Recombk         *float64 `json:"recomb_k,omitempty"`
	ModBoxA         *float64 `json:"modbox_a,omitempty"`
	ModBoxB         *float64 `json:"modbox_b,omitempty"`

	// LArQL low-field correction
	UseModLarqlRecomb *bool    `json:"use_larql_recomb,omitempty"`
	LarqlChi0A        *float64 `json:"larql_chi0_a,omitempty"`
	LarqlChi0B        *float64 `json:"larql_chi0_b,omitempty"`
	LarqlChi0C        *float64 `json:"larql_chi0_c,omitempty"`
	LarqlChi0D        *float64 `json:"larql_chi0_d,omitempty"`
	LarqlAlpha        *float64 `json:"larql_alpha,omitempty"`
	LarqlBeta         *float64 `json:"larql_beta,omitempty"`

	// Yields
	GeVToElectrons *float64 `json:"gev_to_electrons,omitempty"`
	ScintPreScale  *float64 `json:"scint_prescale,omitempty"`

	// Scintillation yield ratios (fast/total light fraction)
	ScintByParticleType     *bool    `json:"scint_by_particle_type,omitempty"`
	ScintYieldRatio         *float64 `json:"scint_yield_ratio,omitempty"`
	ProtonScintYieldRatio   *float64 `json:"proton_scint_yield_ratio,omitempty"`
	MuonScintYieldRatio     *float64 `json:"muon_scint_yield_ratio,omitempty"`
	PionScintYieldRatio     *float64 `json:"pion_scint_yield_ratio,omitempty"`
	KaonScintYieldRatio     *float64 `json:"kaon_scint_yield_ratio,omitempty"`
	AlphaScintYieldRatio    *float64 `json:"alpha_scint_yield_ratio,omitempty"`
	ElectronScintYieldRatio *float64 `json:"electron_scint_yield_ratio,omitempty"`

	// Detector conditions
	TemperatureK *float64 `json:"temperature_k,omitempty"`
	EfieldKVcm   *float64 `json:"efield_kvcm,omitempty"`

	// Space-charge field map (optional)
	SpaceChargeEnabled *bool   `json:"space_charge_enabled,omitempty"`
	FieldMapPath       *string `json:"field_map_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyPhysicsConfig returns a PhysicsConfig with all fields set to nil.
// Use LoadPhysicsConfig to load actual values from a file.
func EmptyPhysicsConfig() *PhysicsConfig {
	return &PhysicsConfig{}
}

// LoadPhysicsConfig loads a PhysicsConfig from a JSON file. The file must
// have a .json extension and stay under the max file size. Fields omitted
// from the JSON retain their defaults.
func LoadPhysicsConfig(path string) (*PhysicsConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPhysicsConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical physics defaults from
// DefaultConfigPath, searching upward from the current directory.
// Panics if the file cannot be found, intended for test setup.
func MustLoadDefaultConfig() *PhysicsConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadPhysicsConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values are physically usable.
func (c *PhysicsConfig) Validate() error {
	if c.GeVToElectrons != nil && *c.GeVToElectrons <= 0 {
		return fmt.Errorf("gev_to_electrons must be positive, got %f", *c.GeVToElectrons)
	}
	if c.ScintPreScale != nil {
		if *c.ScintPreScale < 0 || *c.ScintPreScale > 1 {
			return fmt.Errorf("scint_prescale must be between 0 and 1, got %f", *c.ScintPreScale)
		}
	}
	for name, r := range map[string]*float64{
		"scint_yield_ratio":          c.ScintYieldRatio,
		"proton_scint_yield_ratio":   c.ProtonScintYieldRatio,
		"muon_scint_yield_ratio":     c.MuonScintYieldRatio,
		"pion_scint_yield_ratio":     c.PionScintYieldRatio,
		"kaon_scint_yield_ratio":     c.KaonScintYieldRatio,
		"alpha_scint_yield_ratio":    c.AlphaScintYieldRatio,
		"electron_scint_yield_ratio": c.ElectronScintYieldRatio,
	} {
		if r != nil && (*r < 0 || *r > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *r)
		}
	}
	if c.TemperatureK != nil || c.EfieldKVcm != nil {
		if err := c.Conditions().Validate(); err != nil {
			return err
		}
	}
	if c.GetSpaceChargeEnabled() && c.GetFieldMapPath() == "" {
		return fmt.Errorf("space_charge_enabled requires field_map_path")
	}
	return nil
}

// GetUseModBoxRecomb returns the recombination model selection or the default.
func (c *PhysicsConfig) GetUseModBoxRecomb() bool {
	if c.UseModBoxRecomb == nil {
		return true // Modified-Box is the modern default
	}
	return *c.UseModBoxRecomb
}

// GetRecombA returns the Birks A coefficient or the default.
func (c *PhysicsConfig) GetRecombA() float64 {
	if c.RecombA == nil {
		return 0.800
	}
	return *c.RecombA
}

// GetRecombk returns the Birks k coefficient or the default.
func (c *PhysicsConfig) GetRecombk() float64 {
	if c.Recombk == nil {
		return 0.0486 // g/(MeV·cm²)·kV/cm
	}
	return *c.Recombk
}

// GetModBoxA returns the Modified-Box A coefficient or the default.
func (c *PhysicsConfig) GetModBoxA() float64 {
	if c.ModBoxA == nil {
		return 0.930
	}
	return *c.ModBoxA
}

// GetModBoxB returns the Modified-Box B coefficient or the default.
func (c *PhysicsConfig) GetModBoxB() float64 {
	if c.ModBoxB == nil {
		return 0.212 // g/(MeV·cm²)·kV/cm
	}
	return *c.ModBoxB
}

// GetUseModLarqlRecomb returns the LArQL toggle or the default.
func (c *PhysicsConfig) GetUseModLarqlRecomb() bool {
	if c.UseModLarqlRecomb == nil {
		return false
	}
	return *c.UseModLarqlRecomb
}

// GetLarqlChi0A returns the LArQL chi0 A constant or the default.
func (c *PhysicsConfig) GetLarqlChi0A() float64 {
	if c.LarqlChi0A == nil {
		return 0.00338427
	}
	return *c.LarqlChi0A
}

// GetLarqlChi0B returns the LArQL chi0 B constant or the default.
func (c *PhysicsConfig) GetLarqlChi0B() float64 {
	if c.LarqlChi0B == nil {
		return -6.57037
	}
	return *c.LarqlChi0B
}

// GetLarqlChi0C returns the LArQL chi0 C constant or the default.
func (c *PhysicsConfig) GetLarqlChi0C() float64 {
	if c.LarqlChi0C == nil {
		return 1.88418
	}
	return *c.LarqlChi0C
}

// GetLarqlChi0D returns the LArQL chi0 D constant or the default.
func (c *PhysicsConfig) GetLarqlChi0D() float64 {
	if c.LarqlChi0D == nil {
		return 0.000129379
	}
	return *c.LarqlChi0D
}

// GetLarqlAlpha returns the LArQL field-correction alpha or the default.
func (c *PhysicsConfig) GetLarqlAlpha() float64 {
	if c.LarqlAlpha == nil {
		return 0.0372
	}
	return *c.LarqlAlpha
}

// GetLarqlBeta returns the LArQL field-correction beta or the default.
func (c *PhysicsConfig) GetLarqlBeta() float64 {
	if c.LarqlBeta == nil {
		return 0.0124
	}
	return *c.LarqlBeta
}

// GetGeVToElectrons returns the ionization yield or the default.
func (c *PhysicsConfig) GetGeVToElectrons() float64 {
	if c.GeVToElectrons == nil {
		return 4.237e7 // electrons per GeV
	}
	return *c.GeVToElectrons
}

// GetScintPreScale returns the scintillation pre-scale or the default.
func (c *PhysicsConfig) GetScintPreScale() float64 {
	if c.ScintPreScale == nil {
		return 0.03
	}
	return *c.ScintPreScale
}

// GetScintByParticleType returns the per-species yield toggle or the default.
func (c *PhysicsConfig) GetScintByParticleType() bool {
	if c.ScintByParticleType == nil {
		return false
	}
	return *c.ScintByParticleType
}

// GetScintYieldRatio returns the global yield ratio or the default.
func (c *PhysicsConfig) GetScintYieldRatio() float64 {
	if c.ScintYieldRatio == nil {
		return 0.3
	}
	return *c.ScintYieldRatio
}

// GetProtonScintYieldRatio returns the proton yield ratio or the default.
func (c *PhysicsConfig) GetProtonScintYieldRatio() float64 {
	if c.ProtonScintYieldRatio == nil {
		return 0.23
	}
	return *c.ProtonScintYieldRatio
}

// GetMuonScintYieldRatio returns the muon yield ratio or the default.
func (c *PhysicsConfig) GetMuonScintYieldRatio() float64 {
	if c.MuonScintYieldRatio == nil {
		return 0.23
	}
	return *c.MuonScintYieldRatio
}

// GetPionScintYieldRatio returns the pion yield ratio or the default.
func (c *PhysicsConfig) GetPionScintYieldRatio() float64 {
	if c.PionScintYieldRatio == nil {
		return 0.23
	}
	return *c.PionScintYieldRatio
}

// GetKaonScintYieldRatio returns the kaon yield ratio or the default.
func (c *PhysicsConfig) GetKaonScintYieldRatio() float64 {
	if c.KaonScintYieldRatio == nil {
		return 0.23
	}
	return *c.KaonScintYieldRatio
}

// GetAlphaScintYieldRatio returns the alpha yield ratio or the default.
func (c *PhysicsConfig) GetAlphaScintYieldRatio() float64 {
	if c.AlphaScintYieldRatio == nil {
		return 0.56
	}
	return *c.AlphaScintYieldRatio
}

// GetElectronScintYieldRatio returns the electron/positron/photon yield
// ratio or the default.
func (c *PhysicsConfig) GetElectronScintYieldRatio() float64 {
	if c.ElectronScintYieldRatio == nil {
		return 0.27
	}
	return *c.ElectronScintYieldRatio
}

// GetSpaceChargeEnabled returns the space-charge toggle or the default.
func (c *PhysicsConfig) GetSpaceChargeEnabled() bool {
	if c.SpaceChargeEnabled == nil {
		return false
	}
	return *c.SpaceChargeEnabled
}

// GetFieldMapPath returns the field-map path or the default (none).
func (c *PhysicsConfig) GetFieldMapPath() string {
	if c.FieldMapPath == nil {
		return ""
	}
	return *c.FieldMapPath
}

// Conditions assembles the detector conditions from the config.
func (c *PhysicsConfig) Conditions() detector.Conditions {
	cond := detector.DefaultConditions()
	if c.TemperatureK != nil {
		cond.TemperatureK = *c.TemperatureK
	}
	if c.EfieldKVcm != nil {
		cond.EfieldKVcm = *c.EfieldKVcm
	}
	return cond
}

// Params assembles the calculator parameters from the config.
func (c *PhysicsConfig) Params() ionization.Params {
	return ionization.Params{
		ScintPreScale:           c.GetScintPreScale(),
		RecombA:                 c.GetRecombA(),
		Recombk:                 c.GetRecombk(),
		ModBoxA:                 c.GetModBoxA(),
		ModBoxB:                 c.GetModBoxB(),
		UseModBoxRecomb:         c.GetUseModBoxRecomb(),
		UseModLarqlRecomb:       c.GetUseModLarqlRecomb(),
		LarqlChi0A:              c.GetLarqlChi0A(),
		LarqlChi0B:              c.GetLarqlChi0B(),
		LarqlChi0C:              c.GetLarqlChi0C(),
		LarqlChi0D:              c.GetLarqlChi0D(),
		LarqlAlpha:              c.GetLarqlAlpha(),
		LarqlBeta:               c.GetLarqlBeta(),
		GeVToElectrons:          c.GetGeVToElectrons(),
		ScintByParticleType:     c.GetScintByParticleType(),
		ScintYieldRatio:         c.GetScintYieldRatio(),
		ProtonScintYieldRatio:   c.GetProtonScintYieldRatio(),
		MuonScintYieldRatio:     c.GetMuonScintYieldRatio(),
		PionScintYieldRatio:     c.GetPionScintYieldRatio(),
		KaonScintYieldRatio:     c.GetKaonScintYieldRatio(),
		AlphaScintYieldRatio:    c.GetAlphaScintYieldRatio(),
		ElectronScintYieldRatio: c.GetElectronScintYieldRatio(),
	}
}
