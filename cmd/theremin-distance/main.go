package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-theremin/analysis"
	fitcommon "github.com/cwbudde/algo-theremin/internal/fitcommon"
	"github.com/cwbudde/algo-theremin/internal/gesture"
	"github.com/cwbudde/algo-theremin/preset"
	"github.com/cwbudde/algo-theremin/theremin"
)

func main() {
	referencePath := flag.String("reference", "reference/sweep.wav", "Reference WAV path")
	candidatePath := flag.String("candidate", "", "Candidate WAV path; if empty, render candidate from the theremin model")
	presetPath := flag.String("preset", "", "Preset JSON path for rendered candidate (empty uses defaults)")
	gesturePath := flag.String("gesture", "", "Gesture JSON for rendered candidate (empty uses built-in sweep)")
	duration := flag.Float64("duration", 0, "Rendered candidate duration in seconds (0 = gesture end + 0.5s)")
	sampleRate := flag.Int("sample-rate", 48000, "Analysis sample rate in Hz")
	writeCandidate := flag.String("write-candidate", "", "Optional path to write rendered candidate WAV")
	jsonOut := flag.Bool("json", false, "Print metrics as JSON")
	flag.Parse()

	ref, refSR, err := readWAVMono(*referencePath)
	if err != nil {
		die("failed to read reference: %v", err)
	}
	ref, err = resampleIfNeeded(ref, refSR, *sampleRate)
	if err != nil {
		die("failed to resample reference: %v", err)
	}

	var cand []float64
	if *candidatePath != "" {
		candRaw, candSR, err := readWAVMono(*candidatePath)
		if err != nil {
			die("failed to read candidate: %v", err)
		}
		cand, err = resampleIfNeeded(candRaw, candSR, *sampleRate)
		if err != nil {
			die("failed to resample candidate: %v", err)
		}
	} else {
		samples, err := renderCandidate(*presetPath, *gesturePath, *sampleRate, *duration)
		if err != nil {
			die("failed to render candidate: %v", err)
		}
		cand = fitcommon.Int16ToFloat64(samples)
		if *writeCandidate != "" {
			if err := fitcommon.WriteMonoWAV(*writeCandidate, fitcommon.Int16ToFloat32Norm(samples), *sampleRate); err != nil {
				die("failed to write candidate wav: %v", err)
			}
		}
	}

	metrics := analysis.Compare(ref, cand, *sampleRate)
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(metrics); err != nil {
			die("json encode failed: %v", err)
		}
		return
	}

	fmt.Printf("Reference frames: %d\n", metrics.ReferenceFrames)
	fmt.Printf("Candidate frames: %d\n", metrics.CandidateFrames)
	fmt.Printf("Aligned frames:   %d\n", metrics.AlignedFrames)
	fmt.Printf("Lag:              %d samples (%.3f ms)\n", metrics.LagSamples, 1000.0*float64(metrics.LagSamples)/float64(metrics.SampleRate))
	fmt.Println()
	fmt.Printf("Component        Raw          Norm   Weight  Contribution\n")
	fmt.Printf("─────────────────────────────────────────────────────────\n")
	printComp := func(name string, raw string, norm, weight float64, dominant bool) {
		contrib := norm * weight
		marker := ""
		if dominant {
			marker = " ◄"
		}
		fmt.Printf("%-16s %-12s %5.1f%%  ×%.2f   → %.4f%s\n", name, raw, norm*100, weight, contrib, marker)
	}
	printComp("Time RMSE", fmt.Sprintf("%.6f", metrics.TimeRMSE), metrics.TimeNorm, analysis.WeightTime, metrics.Dominant == "time")
	printComp("Envelope RMSE", fmt.Sprintf("%.1f dB", metrics.EnvelopeRMSEDB), metrics.EnvelopeNorm, analysis.WeightEnvelope, metrics.Dominant == "envelope")
	printComp("Pitch RMSE", fmt.Sprintf("%.1f cents", metrics.PitchRMSECents), metrics.PitchNorm, analysis.WeightPitch, metrics.Dominant == "pitch")
	printComp("Click diff", fmt.Sprintf("%.2f /s", metrics.ClickRateDiff), metrics.ClickNorm, analysis.WeightClick, metrics.Dominant == "click")
	printComp("Decay diff", fmt.Sprintf("%.1f dB/s", metrics.DecayDiffDBPerS), metrics.DecayNorm, analysis.WeightDecay, metrics.Dominant == "decay")
	fmt.Printf("─────────────────────────────────────────────────────────\n")
	fmt.Printf("Score:            %.4f  (0 best, 1 worst)\n", metrics.Score)
	fmt.Printf("Similarity:       %.2f%%\n", metrics.Similarity*100.0)
	fmt.Printf("Dominant factor:  %s\n", metrics.Dominant)
	fmt.Printf("\nDecay slopes: ref=%.1f dB/s  cand=%.1f dB/s\n", metrics.RefDecayDBPerS, metrics.CandDecayDBPerS)
}

func renderCandidate(presetPath string, gesturePath string, sampleRate int, duration float64) ([]int16, error) {
	params := theremin.NewDefaultParams()
	if presetPath != "" {
		var err error
		params, err = preset.LoadJSON(presetPath)
		if err != nil {
			return nil, err
		}
	}

	script := gesture.Default()
	if gesturePath != "" {
		var err error
		script, err = gesture.Load(gesturePath)
		if err != nil {
			return nil, err
		}
	}
	if duration <= 0 {
		duration = script.End() + 0.5
	}
	return script.Render(params, sampleRate, duration)
}

func readWAVMono(path string) ([]float64, int, error) {
	return fitcommon.ReadWAVMono(path)
}

func resampleIfNeeded(in []float64, fromRate int, toRate int) ([]float64, error) {
	return fitcommon.ResampleIfNeeded(in, fromRate, toRate)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
