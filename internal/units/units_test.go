package units

import (
	"math"
	"testing"
)

func TestConvertEnergy(t *testing.T) {
	tests := []struct {
		name      string
		energyMeV float64
		units     string
		expected  float64
	}{
		{"2 MeV to keV", 2.0, KeV, 2000.0},
		{"2 MeV to GeV", 2.0, GeV, 0.002},
		{"2 MeV to MeV", 2.0, MeV, 2.0},
		{"unknown units default to MeV", 2.0, "unknown", 2.0},
		{"zero energy", 0.0, KeV, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertEnergy(tt.energyMeV, tt.units)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("ConvertEnergy(%f, %s) = %f, want %f", tt.energyMeV, tt.units, result, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mev", MeV, true},
		{"valid kev", KeV, true},
		{"valid gev", GeV, true},
		{"invalid unit", "joule", false},
		{"empty string", "", false},
		{"case sensitive", "MeV", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.unit); got != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, got, tt.expected)
			}
		})
	}
}

func TestGetValidUnitsString(t *testing.T) {
	if got := GetValidUnitsString(); got != "mev, kev, gev" {
		t.Errorf("GetValidUnitsString() = %s", got)
	}
}
