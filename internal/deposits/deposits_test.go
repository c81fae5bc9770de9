package deposits

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestReadFile(t *testing.T) {
	id1 := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	id2 := uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")
	content := strings.Join([]string{
		`{"event_id":"` + id1.String() + `","energy_mev":2.0,"step_length_cm":1.0,"x_cm":10,"y_cm":-5,"z_cm":42,"pdg_code":13}`,
		``,
		`{"event_id":"` + id2.String() + `","energy_mev":0.5,"step_length_cm":0,"pdg_code":2212}`,
	}, "\n")

	path := filepath.Join(t.TempDir(), "deposits.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := []Record{
		{EventID: id1, Energy: 2.0, StepLength: 1.0, X: 10, Y: -5, Z: 42, PDGCode: 13},
		{EventID: id2, Energy: 0.5, StepLength: 0, PDGCode: 2212},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadFile mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFileRejects(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantSub string
	}{
		{"missing file", filepath.Join(dir, "missing.jsonl"), "failed to open"},
		{"malformed line", write("bad.jsonl", `{"energy_mev":`), "line 1"},
		{"negative energy", write("negenergy.jsonl", `{"energy_mev":-1}`), "energy must be non-negative"},
		{"negative step", write("negstep.jsonl", "{\"energy_mev\":1}\n{\"energy_mev\":1,\"step_length_cm\":-0.1}"), "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig()

	a := NewGenerator(cfg, 42).Take(100)
	b := NewGenerator(cfg, 42).Take(100)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different streams (-a +b):\n%s", diff)
	}

	c := NewGenerator(cfg, 43).Take(100)
	if cmp.Equal(a, c) {
		t.Error("different seeds produced identical streams")
	}
}

func TestGeneratorRespectsBounds(t *testing.T) {
	cfg := GeneratorConfig{
		MinEnergyMeV:  1.0,
		MaxEnergyMeV:  2.0,
		MinStepCm:     0.1,
		MaxStepCm:     0.2,
		BoxHalfSideCm: 50,
	}
	gen := NewGenerator(cfg, 7)

	for i := 0; i < 1000; i++ {
		r := gen.Next()
		if r.Energy < 1.0 || r.Energy > 2.0 {
			t.Fatalf("record %d: energy %f out of bounds", i, r.Energy)
		}
		if r.StepLength < 0.1 || r.StepLength > 0.2 {
			t.Fatalf("record %d: step %f out of bounds", i, r.StepLength)
		}
		if r.X < -50 || r.X > 50 || r.Y < -50 || r.Y > 50 || r.Z < -50 || r.Z > 50 {
			t.Fatalf("record %d: position (%f, %f, %f) out of box", i, r.X, r.Y, r.Z)
		}
		if err := r.Validate(); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}
}
