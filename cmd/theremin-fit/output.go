package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-theremin/analysis"
	"github.com/cwbudde/algo-theremin/theremin"
)

type runReport struct {
	ReferencePath   string             `json:"reference_path"`
	PresetPath      string             `json:"preset_path,omitempty"`
	GesturePath     string             `json:"gesture_path,omitempty"`
	OutputPreset    string             `json:"output_preset"`
	SampleRate      int                `json:"sample_rate"`
	RenderSeconds   float64            `json:"render_seconds"`
	DurationSec     float64            `json:"elapsed_seconds"`
	Evaluations     int                `json:"evaluations"`
	MayflyVariant   string             `json:"mayfly_variant"`
	BestScore       float64            `json:"best_score"`
	BestSimilarity  float64            `json:"best_similarity"`
	BestMetrics     analysis.Metrics   `json:"best_metrics"`
	BestKnobs       map[string]float64 `json:"best_knobs"`
	CheckpointCount int                `json:"checkpoint_count"`
	TopCandidates   []topCandidate     `json:"top_candidates,omitempty"`
}

func writeOutputs(
	outputPreset string,
	reportPath string,
	referencePath string,
	presetPath string,
	gesturePath string,
	sampleRate int,
	renderSeconds float64,
	elapsed float64,
	evals int,
	variant string,
	defs []knobDef,
	best candidate,
	bestM analysis.Metrics,
	bestParams *theremin.Params,
	checkpoints int,
	top []topCandidate,
) error {
	if err := writePresetJSON(outputPreset, cloneParams(bestParams)); err != nil {
		return err
	}

	knobs := make(map[string]float64, len(defs))
	for i, d := range defs {
		knobs[d.Name] = best.Vals[i]
	}

	rep := runReport{
		ReferencePath:   referencePath,
		PresetPath:      presetPath,
		GesturePath:     gesturePath,
		OutputPreset:    outputPreset,
		SampleRate:      sampleRate,
		RenderSeconds:   renderSeconds,
		DurationSec:     elapsed,
		Evaluations:     evals,
		MayflyVariant:   variant,
		BestScore:       bestM.Score,
		BestSimilarity:  bestM.Similarity,
		BestMetrics:     bestM,
		BestKnobs:       knobs,
		CheckpointCount: checkpoints,
		TopCandidates:   top,
	}

	if reportPath == "" {
		reportPath = outputPreset + ".report.json"
	}
	return writeJSON(reportPath, rep)
}

func writePresetJSON(path string, p *theremin.Params) error {
	type out struct {
		Octaves        float64 `json:"octaves,omitempty"`
		DecayRate      float64 `json:"decay_rate,omitempty"`
		SnapThreshold  float64 `json:"snap_threshold,omitempty"`
		ReferencePitch float64 `json:"reference_pitch,omitempty"`
		MaxVolume      float64 `json:"max_volume,omitempty"`
		Waveform       string  `json:"waveform,omitempty"`
	}

	o := out{
		Octaves:        p.Octaves,
		DecayRate:      p.DecayRate,
		SnapThreshold:  p.SnapThreshold,
		ReferencePitch: p.ReferencePitch,
		MaxVolume:      p.MaxVolume,
		Waveform:       p.Waveform.String(),
	}
	return writeJSON(path, o)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
