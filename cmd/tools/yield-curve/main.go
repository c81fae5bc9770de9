// Package main renders charge and light yield curves against drift field
// for a configured recombination model. It is an offline companion to the
// /charts/yield endpoint, producing PNGs suitable for reports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/coldbox-data/yield.report/internal/config"
	"github.com/coldbox-data/yield.report/internal/ionization"
	"github.com/coldbox-data/yield.report/internal/spacecharge"
)

var (
	configPath = flag.String("config", "", "Path to physics config JSON (defaults apply when empty)")
	outputDir  = flag.String("o", "plots", "Output directory for PNGs")
	fieldMin   = flag.Float64("field-min", 0.05, "Minimum drift field (kV/cm)")
	fieldMax   = flag.Float64("field-max", 1.0, "Maximum drift field (kV/cm)")
	fieldSteps = flag.Int("field-steps", 96, "Number of field sample points")
)

// dE/dx values to draw one curve each for: MIP-like through heavily
// ionizing.
var dEdxValues = []float64{1.7, 2.1, 5.0, 10.0, 20.0}

func main() {
	flag.Parse()

	cfg := config.EmptyPhysicsConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPhysicsConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	cond := cfg.Conditions()
	calc := ionization.NewCalculator(cfg.Params(), cond.Density(), spacecharge.Disabled{})

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	if err := renderYieldPlot(calc, "charge_yield.png", "Charge yield vs drift field", "electrons / MeV",
		func(r ionization.Result, energy float64) float64 { return r.Electrons / energy }); err != nil {
		log.Fatal(err)
	}
	if err := renderYieldPlot(calc, "light_yield.png", "Light yield vs drift field", "photons / MeV",
		func(r ionization.Result, energy float64) float64 { return r.Photons / energy }); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote plots to %s", *outputDir)
}

func renderYieldPlot(calc *ionization.Calculator, filename, title, yLabel string,
	value func(r ionization.Result, energy float64) float64) error {

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "E field (kV/cm)"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	step := (*fieldMax - *fieldMin) / float64(*fieldSteps-1)
	for _, dEdx := range dEdxValues {
		pts := make(plotter.XYs, 0, *fieldSteps)
		for i := 0; i < *fieldSteps; i++ {
			field := *fieldMin + float64(i)*step
			// A 1 cm step at this dE/dx; per-MeV yields do not depend on
			// the step length choice.
			res := calc.Compute(ionization.Deposit{
				Energy:     dEdx,
				StepLength: 1.0,
				PDGCode:    ionization.PDGMuon,
			}, field)
			pts = append(pts, plotter.XY{X: field, Y: value(res, dEdx)})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to build line for dE/dx=%.1f: %w", dEdx, err)
		}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("dE/dx = %.1f MeV/cm", dEdx), line)
	}

	outFile := filepath.Join(*outputDir, filename)
	if err := p.Save(10*vg.Inch, 6*vg.Inch, outFile); err != nil {
		return fmt.Errorf("failed to save %s: %w", outFile, err)
	}
	return nil
}
