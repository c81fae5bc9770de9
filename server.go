package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/google/uuid"

	"github.com/coldbox-data/yield.report/internal/detector"
	"github.com/coldbox-data/yield.report/internal/httputil"
	"github.com/coldbox-data/yield.report/internal/ionization"
	"github.com/coldbox-data/yield.report/internal/simdb"
	"github.com/coldbox-data/yield.report/internal/units"
)

type Server struct {
	calc *ionization.Calculator
	cond detector.Conditions
	db   *simdb.DB
}

func NewServer(calc *ionization.Calculator, cond detector.Conditions, db *simdb.DB) *Server {
	return &Server{
		calc: calc,
		cond: cond,
		db:   db,
	}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/api/compute", s.computeHandler)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/summary", s.runSummary)
	mux.HandleFunc("/charts/yield", s.yieldChartHandler)
	return mux
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to the Yield Server!"))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{"status": "ok"})
}

// computeRequest is one deposit posted for an ad-hoc yield calculation.
// efield_kvcm overrides the configured drift field when set.
type computeRequest struct {
	EnergyMeV    float64  `json:"energy_mev"`
	StepLengthCm float64  `json:"step_length_cm"`
	XCm          float64  `json:"x_cm"`
	YCm          float64  `json:"y_cm"`
	ZCm          float64  `json:"z_cm"`
	PDGCode      int      `json:"pdg_code"`
	EfieldKVcm   *float64 `json:"efield_kvcm,omitempty"`
}

func (s *Server) computeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.EnergyMeV < 0 || req.StepLengthCm < 0 {
		httputil.BadRequest(w, "energy_mev and step_length_cm must be non-negative")
		return
	}

	efield := s.cond.EfieldKVcm
	if req.EfieldKVcm != nil {
		efield = *req.EfieldKVcm
	}

	result := s.calc.Compute(ionization.Deposit{
		Energy:     req.EnergyMeV,
		StepLength: req.StepLengthCm,
		X:          req.XCm,
		Y:          req.YCm,
		Z:          req.ZCm,
		PDGCode:    req.PDGCode,
	}, efield)

	httputil.WriteJSONOK(w, result)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	runs, err := s.db.Runs()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to retrieve runs: %v", err))
		return
	}
	httputil.WriteJSONOK(w, runs)
}

func (s *Server) runSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	runID, err := uuid.Parse(r.URL.Query().Get("run_id"))
	if err != nil {
		httputil.BadRequest(w, "run_id must be a valid UUID")
		return
	}

	energyUnits := r.URL.Query().Get("units")
	if energyUnits == "" {
		energyUnits = units.MeV
	}
	if !units.IsValid(energyUnits) {
		httputil.BadRequest(w, "units must be one of: "+units.GetValidUnitsString())
		return
	}

	totals, err := s.db.Totals(runID)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to summarize run: %v", err))
		return
	}
	totals.TotalEnergy = units.ConvertEnergy(totals.TotalEnergy, energyUnits)

	httputil.WriteJSONOK(w, map[string]interface{}{
		"run_id":       runID,
		"energy_units": energyUnits,
		"totals":       totals,
	})
}

// yieldChartHandler renders the charge yield (electrons/MeV) against drift
// field for a few representative dE/dx values, computed live from the
// configured calculator.
func (s *Server) yieldChartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	const (
		fieldMin  = 0.05 // kV/cm
		fieldMax  = 1.00
		fieldStep = 0.01
	)
	dEdxValues := []float64{1.7, 2.1, 5.0, 10.0, 20.0}

	var fields []string
	series := make(map[float64][]opts.LineData, len(dEdxValues))
	for f := fieldMin; f <= fieldMax+1e-9; f += fieldStep {
		fields = append(fields, fmt.Sprintf("%.2f", f))
		for _, dEdx := range dEdxValues {
			// A 1 cm step at this dE/dx; charge yield is per MeV so the
			// step length choice only fixes dE/dx.
			res := s.calc.Compute(ionization.Deposit{
				Energy:     dEdx,
				StepLength: 1.0,
				PDGCode:    ionization.PDGMuon,
			}, f)
			series[dEdx] = append(series[dEdx], opts.LineData{Value: res.Electrons / dEdx})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Charge Yield", Theme: "dark", Width: "1100px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Charge yield vs drift field",
			Subtitle: fmt.Sprintf("T=%.1f K, density=%.3f g/cm³", s.cond.TemperatureK, s.cond.Density()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "E field (kV/cm)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "electrons / MeV"}),
	)
	line.SetXAxis(fields)
	for _, dEdx := range dEdxValues {
		line.AddSeries(fmt.Sprintf("dE/dx = %.1f MeV/cm", dEdx), series[dEdx])
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
