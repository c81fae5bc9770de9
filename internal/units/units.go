// Package units provides shared constants and validation for energy units
package units

// Unit constants
const (
	MeV = "mev"
	KeV = "kev"
	GeV = "gev"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MeV, KeV, GeV}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mev, kev, gev"
}

// ConvertEnergy converts an energy from MeV to the target units.
// The database stores energies in MeV.
func ConvertEnergy(energyMeV float64, targetUnits string) float64 {
	switch targetUnits {
	case MeV:
		return energyMeV
	case KeV:
		return energyMeV * 1e3
	case GeV:
		return energyMeV * 1e-3
	default:
		return energyMeV
	}
}
