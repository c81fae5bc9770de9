package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coldbox-data/yield.report/internal/config"
	"github.com/coldbox-data/yield.report/internal/deposits"
	"github.com/coldbox-data/yield.report/internal/detector"
	"github.com/coldbox-data/yield.report/internal/ionization"
	"github.com/coldbox-data/yield.report/internal/simdb"
	"github.com/coldbox-data/yield.report/internal/spacecharge"
	"github.com/coldbox-data/yield.report/internal/stats"
	"github.com/coldbox-data/yield.report/internal/version"
)

var (
	configPath   = flag.String("config", "", "Path to physics config JSON (defaults apply when empty)")
	dbPath       = flag.String("db", "yield_results.db", "Path to the results database")
	listen       = flag.String("listen", ":8080", "Listen address")
	depositsPath = flag.String("deposits", "", "JSON-lines deposits file to replay (synthetic generator when empty)")
	numDeposits  = flag.Int("n", 10000, "Number of synthetic deposits to generate (ignored with -deposits)")
	seed         = flag.Int64("seed", 1, "Generator seed for synthetic deposits")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("yield.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	cfg := config.EmptyPhysicsConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadPhysicsConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	cond := cfg.Conditions()
	if err := cond.Validate(); err != nil {
		log.Fatalf("invalid detector conditions: %v", err)
	}

	var offsets ionization.FieldOffsets = spacecharge.Disabled{}
	if cfg.GetSpaceChargeEnabled() {
		m, err := spacecharge.LoadVoxelMap(cfg.GetFieldMapPath())
		if err != nil {
			log.Fatalf("failed to load field map: %v", err)
		}
		offsets = m
	}

	calc := ionization.NewCalculator(cfg.Params(), cond.Density(), offsets)

	db, err := simdb.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run the simulation pass in the background while the API comes up.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runSimulation(cfg, cond, calc, db); err != nil {
			log.Printf("simulation pass failed: %v", err)
		}
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := NewServer(calc, cond, db).ServeMux()
		srv := &http.Server{Addr: *listen, Handler: mux}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("server shutdown: %v", err)
			}
		}()

		log.Printf("listening on %s", *listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server error: %v", err)
		}
	}()

	wg.Wait()
	log.Print("shutdown complete")
}

// runSimulation computes yields for one pass over the deposit stream and
// records the run, its per-deposit results, and a summary.
func runSimulation(cfg *config.PhysicsConfig, cond detector.Conditions, calc *ionization.Calculator, db *simdb.DB) error {
	var records []deposits.Record
	if *depositsPath != "" {
		var err error
		records, err = deposits.ReadFile(*depositsPath)
		if err != nil {
			return err
		}
		log.Printf("replaying %d deposits from %s", len(records), *depositsPath)
	} else {
		if *numDeposits <= 0 {
			return nil
		}
		gen := deposits.NewGenerator(deposits.DefaultGeneratorConfig(), *seed)
		records = gen.Take(*numDeposits)
		log.Printf("generated %d synthetic deposits (seed %d)", len(records), *seed)
	}

	runID := uuid.New()
	run := simdb.Run{
		RunID:        runID,
		Model:        modelName(cfg),
		TemperatureK: cond.TemperatureK,
		EfieldKVcm:   cond.EfieldKVcm,
		NumDeposits:  len(records),
		StartedAt:    time.Now(),
	}
	if err := db.RecordRun(run); err != nil {
		return err
	}

	rows := make([]simdb.ResultRow, len(records))
	results := make([]ionization.Result, len(records))
	for i, rec := range records {
		res := calc.Compute(rec.Deposit(), cond.EfieldKVcm)
		results[i] = res
		rows[i] = simdb.ResultRow{
			EventID:    rec.EventID,
			PDGCode:    rec.PDGCode,
			StepLength: rec.StepLength,
			Result:     res,
		}
	}
	if err := db.RecordResults(runID, rows); err != nil {
		return err
	}

	summary := stats.Summarize(results)
	log.Printf("run %s: %d deposits, Qy %.1f ± %.1f e/MeV, Ly %.1f ± %.1f ph/MeV, %d non-finite, %d negative photons",
		runID, summary.N,
		summary.MeanElectronsPerMeV, summary.StdDevElectronsPerMeV,
		summary.MeanPhotonsPerMeV, summary.StdDevPhotonsPerMeV,
		summary.NonFinite, summary.NegativePhotons)
	return nil
}

func modelName(cfg *config.PhysicsConfig) string {
	name := "birks"
	if cfg.GetUseModBoxRecomb() {
		name = "modbox"
	}
	if cfg.GetUseModLarqlRecomb() {
		name += "+larql"
	}
	return name
}
