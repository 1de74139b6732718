package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	fitcommon "github.com/cwbudde/algo-theremin/internal/fitcommon"
	"github.com/cwbudde/algo-theremin/internal/gesture"
	"github.com/cwbudde/algo-theremin/preset"
	"github.com/cwbudde/algo-theremin/theremin"
)

func main() {
	referencePath := flag.String("reference", "reference/sweep.wav", "Reference WAV path")
	gesturePath := flag.String("gesture", "", "Gesture JSON replayed for every candidate (default: built-in sweep)")
	presetPath := flag.String("preset", "", "Base preset JSON path (optional)")
	outputPreset := flag.String("output-preset", "out/fitted.json", "Path to write best fitted preset JSON")
	reportPath := flag.String("report", "", "Optional report JSON path (default: <output-preset>.report.json)")
	optimize := flag.String("optimize", "envelope,tuning,level", "Comma-separated knob groups to optimize: envelope, tuning, level, waveform")
	duration := flag.Float64("duration", 0, "Render duration per evaluation in seconds (0 = gesture end + 0.5s)")
	sampleRate := flag.Int("sample-rate", 48000, "Final render/analysis sample rate")
	optSampleRate := flag.Int("opt-sample-rate", 0, "Optimization-loop sample rate (0 uses --sample-rate)")
	seed := flag.Int64("seed", 1, "Random seed")
	timeBudget := flag.Float64("time-budget", 120.0, "Optimization time budget in seconds")
	maxEvals := flag.Int("max-evals", 10000, "Maximum objective evaluations")
	reportEvery := flag.Int("report-every", 20, "Print progress every N evaluations")
	checkpointEvery := flag.Int("checkpoint-every", 1, "Write checkpoint every N best-score improvements")
	refineTopK := flag.Int("refine-top-k", 3, "After optimization, re-evaluate best N candidates at full settings")
	topK := flag.Int("top-k", 5, "How many top candidates to keep in report")
	resume := flag.Bool("resume", true, "Resume from previous best_knobs report when available")
	resumeReport := flag.String("resume-report", "", "Optional report JSON path to resume from (default: current report path)")
	workers := flag.String("workers", "1", "Parallel optimization workers running independent Mayfly rounds (number or 'auto')")

	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	mayflyPop := flag.Int("mayfly-pop", 10, "Male and female population size per Mayfly run")
	mayflyRoundEvals := flag.Int("mayfly-round-evals", 240, "Target eval budget per Mayfly round")
	flag.Parse()

	groups, err := parseOptimizeGroups(*optimize)
	if err != nil {
		die("invalid --optimize: %v", err)
	}

	if *outputPreset == "" {
		die("output-preset must not be empty")
	}
	if *maxEvals < 1 {
		die("max-evals must be >= 1")
	}
	if *timeBudget <= 0 {
		die("time-budget must be > 0")
	}
	if *reportEvery < 1 {
		*reportEvery = 1
	}
	if *checkpointEvery < 1 {
		*checkpointEvery = 1
	}
	if *mayflyPop < 2 {
		*mayflyPop = 2
	}
	if *mayflyRoundEvals < *mayflyPop*2 {
		*mayflyRoundEvals = *mayflyPop * 2
	}
	if *topK < 1 {
		*topK = 1
	}
	if *optSampleRate <= 0 {
		*optSampleRate = *sampleRate
	}
	if *refineTopK < 1 {
		*refineTopK = 1
	}
	if *refineTopK > *topK {
		*refineTopK = *topK
	}
	parsedWorkers, err := parseWorkersFlag(*workers)
	if err != nil {
		die("invalid workers value: %v", err)
	}

	baseParams := theremin.NewDefaultParams()
	if *presetPath != "" {
		baseParams, err = preset.LoadJSON(*presetPath)
		if err != nil {
			die("failed to load preset: %v", err)
		}
	}

	script := gesture.Default()
	if *gesturePath != "" {
		script, err = gesture.Load(*gesturePath)
		if err != nil {
			die("failed to load gesture: %v", err)
		}
	}
	if *duration <= 0 {
		*duration = script.End() + 0.5
	}

	refRaw, refSR, err := readWAVMono(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}
	refOpt, err := resampleIfNeeded(refRaw, refSR, *optSampleRate)
	if err != nil {
		die("failed to resample optimization reference: %v", err)
	}
	refFull, err := resampleIfNeeded(refRaw, refSR, *sampleRate)
	if err != nil {
		die("failed to resample full reference: %v", err)
	}

	defs, initCand := initCandidate(baseParams, groups)
	if *resume {
		resumePath := *resumeReport
		if resumePath == "" {
			if *reportPath != "" {
				resumePath = *reportPath
			} else {
				resumePath = *outputPreset + ".report.json"
			}
		}
		if resumed, ok, err := loadCandidateFromReport(resumePath, defs, initCand); err != nil {
			fmt.Fprintf(os.Stderr, "resume skipped (%s): %v\n", resumePath, err)
		} else if ok {
			initCand = resumed
			fmt.Printf("Resumed candidate from %s\n", resumePath)
		}
	}

	cfg := &optimizationConfig{
		reference:        refOpt,
		finalReference:   refFull,
		baseParams:       baseParams,
		script:           script,
		defs:             defs,
		initCandidate:    initCand,
		duration:         *duration,
		sampleRate:       *optSampleRate,
		finalSampleRate:  *sampleRate,
		seed:             *seed,
		timeBudget:       *timeBudget,
		maxEvals:         *maxEvals,
		reportEvery:      *reportEvery,
		checkpointEvery:  *checkpointEvery,
		refineTopK:       *refineTopK,
		mayflyVariant:    *mayflyVariant,
		mayflyPop:        *mayflyPop,
		mayflyRoundEvals: *mayflyRoundEvals,
		workers:          parsedWorkers,
		topK:             *topK,
		outputPreset:     *outputPreset,
		reportPath:       *reportPath,
		referencePath:    *referencePath,
		presetPath:       *presetPath,
		gesturePath:      *gesturePath,
	}

	result, err := runOptimization(cfg)
	if err != nil {
		die("optimization failed: %v", err)
	}

	if err := writeOutputs(
		*outputPreset,
		*reportPath,
		*referencePath,
		*presetPath,
		*gesturePath,
		*sampleRate,
		*duration,
		result.elapsed,
		result.evals,
		strings.ToLower(*mayflyVariant),
		defs,
		result.best,
		result.bestMetrics,
		result.bestParams,
		result.checkpoints,
		result.top,
	); err != nil {
		die("failed to write outputs: %v", err)
	}

	fmt.Printf("Done evals=%d elapsed=%.1fs best_score=%.4f best_similarity=%.2f%% variant=%s\n", result.evals, result.elapsed, result.bestMetrics.Score, result.bestMetrics.Similarity*100.0, strings.ToLower(*mayflyVariant))
}

func parseWorkersFlag(raw string) (int, error) {
	return fitcommon.ParseWorkers(raw)
}

func loadCandidateFromReport(path string, defs []knobDef, fallback candidate) (candidate, bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, false, nil
		}
		return fallback, false, err
	}

	var rep struct {
		BestKnobs map[string]float64 `json:"best_knobs"`
	}
	if err := json.Unmarshal(b, &rep); err != nil {
		return fallback, false, err
	}
	if len(rep.BestKnobs) == 0 {
		return fallback, false, nil
	}

	vals := make([]float64, len(fallback.Vals))
	copy(vals, fallback.Vals)
	updated := false
	for i, d := range defs {
		if v, ok := rep.BestKnobs[d.Name]; ok {
			vals[i] = clamp(v, d.Min, d.Max)
			if d.IsInt {
				vals[i] = math.Round(vals[i])
			}
			updated = true
		}
	}
	if !updated {
		return fallback, false, nil
	}
	return candidate{Vals: vals}, true, nil
}
