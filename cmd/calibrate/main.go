package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/swell/config"
	"github.com/pthm-cable/swell/ocean"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	targetHs := flag.Float64("hs", 3.0, "Target significant wave height (m)")
	targetSlope := flag.Float64("slope", 0, "Target mean max slope (0 = ignore)")
	frames := flag.Int("frames", 8, "Frames sampled per seed")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 80, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Every evaluation builds simulations; keep their info logs quiet.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	evalSeeds := make([]uint64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = uint64(i*1000 + 42)
	}

	pool := ocean.NewPool(baseCfg.Compute.Workers)
	defer pool.Close()

	targets := Targets{Hs: *targetHs, MaxSlope: *targetSlope}
	evaluator := NewFitnessEvaluator(params, targets, *frames, evalSeeds, baseCfg, pool)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	logPath := filepath.Join(*outputDir, "calibrate_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "hs", "max_slope"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			m := evaluator.Last()
			clamped := params.Clamp(raw)
			row := []string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.6g", fitness),
				fmt.Sprintf("%.4f", m.Hs),
				fmt.Sprintf("%.4f", m.MaxSlope),
			}
			for _, v := range clamped {
				row = append(row, fmt.Sprintf("%.6f", v))
			}
			logWriter.Write(row)
			logWriter.Flush()

			elapsed := time.Since(startTime)
			remaining := time.Duration(*maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			_, best := evaluator.Best()
			fmt.Printf("Eval %d/%d: Hs=%.3fm slope=%.3f fitness=%.3g (best=%.3g) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, m.Hs, m.MaxSlope, fitness, best,
				formatDuration(elapsed), formatDuration(remaining))
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0,
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.15,
		Population:   4 + 3*dim,
	}

	fmt.Printf("Calibrating %d parameters towards Hs=%.2fm slope=%.3f, max_evals=%d\n", dim, *targetHs, *targetSlope, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, frames per seed: %d\n", *seeds, *frames)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	bestParams, bestFitness := evaluator.Best()
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4g\n", bestFitness)
	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6g\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "calibrated.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write calibrated config: %v", err)
	} else {
		fmt.Printf("\nCalibrated config saved to: %s\n", configOutPath)
	}
}
