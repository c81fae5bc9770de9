// Package detector provides the ambient detector conditions the yield
// calculation depends on: temperature, the nominal drift field, and the
// LAr density derived from temperature.
package detector

import "fmt"

// Plausible temperature window for liquid argon at detector operating
// pressure. Outside this range the linear density parametrization is
// meaningless.
const (
	MinTemperatureK = 83.0
	MaxTemperatureK = 94.0
)

// Conditions are the run-epoch detector conditions. They are plain values;
// a change in conditions means rebuilding whatever was derived from them.
type Conditions struct {
	TemperatureK float64 // LAr bulk temperature, kelvin
	EfieldKVcm   float64 // nominal drift field magnitude, kV/cm
}

// DefaultConditions returns the nominal single-phase operating point.
func DefaultConditions() Conditions {
	return Conditions{
		TemperatureK: 87.3,
		EfieldKVcm:   0.5,
	}
}

// Density returns the LAr density in g/cm³ using the standard linear
// parametrization in temperature.
func (c Conditions) Density() float64 {
	return -0.00615*c.TemperatureK + 1.928
}

// Validate rejects conditions that would make the derived density or the
// field normalization nonsensical.
func (c Conditions) Validate() error {
	if c.TemperatureK < MinTemperatureK || c.TemperatureK > MaxTemperatureK {
		return fmt.Errorf("temperature %.2f K outside liquid argon range [%.1f, %.1f]",
			c.TemperatureK, MinTemperatureK, MaxTemperatureK)
	}
	if c.EfieldKVcm < 0 {
		return fmt.Errorf("drift field must be non-negative, got %f kV/cm", c.EfieldKVcm)
	}
	return nil
}
