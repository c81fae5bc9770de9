// Package deposits supplies energy-deposition records to the yield
// calculation, either replayed from a JSON-lines export or generated
// synthetically for calibration runs.
package deposits

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/coldbox-data/yield.report/internal/ionization"
)

// Record is one energy-deposition step as it arrives from upstream.
type Record struct {
	EventID    uuid.UUID `json:"event_id"`
	Energy     float64   `json:"energy_mev"`
	StepLength float64   `json:"step_length_cm"`
	X          float64   `json:"x_cm"`
	Y          float64   `json:"y_cm"`
	Z          float64   `json:"z_cm"`
	PDGCode    int       `json:"pdg_code"`
}

// Deposit converts the record into the calculator's input form.
func (r Record) Deposit() ionization.Deposit {
	return ionization.Deposit{
		Energy:     r.Energy,
		StepLength: r.StepLength,
		X:          r.X,
		Y:          r.Y,
		Z:          r.Z,
		PDGCode:    r.PDGCode,
	}
}

// Validate rejects records that the calculator's contract excludes.
func (r Record) Validate() error {
	if r.Energy < 0 {
		return fmt.Errorf("deposit energy must be non-negative, got %f MeV", r.Energy)
	}
	if r.StepLength < 0 {
		return fmt.Errorf("step length must be non-negative, got %f cm", r.StepLength)
	}
	return nil
}

// ReadFile loads deposit records from a JSON-lines file (one JSON object
// per line, blank lines skipped). Records failing validation abort the
// load with the offending line number.
func ReadFile(path string) ([]Record, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open deposits file: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	// Deposit lines are small, but allow some headroom over the default.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse deposit: %w", lineNo, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deposits file: %w", err)
	}
	return records, nil
}
