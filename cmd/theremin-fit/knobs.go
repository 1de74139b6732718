package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-theremin/theremin"
)

type knobDef struct {
	Name  string
	Min   float64
	Max   float64
	IsInt bool
}

type candidate struct {
	Vals []float64
}

// parseOptimizeGroups parses a comma-separated string of group names.
// Valid groups: envelope, tuning, level, waveform.
func parseOptimizeGroups(raw string) (map[string]bool, error) {
	valid := map[string]bool{"envelope": true, "tuning": true, "level": true, "waveform": true}
	groups := make(map[string]bool)
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !valid[s] {
			return nil, fmt.Errorf("unknown optimize group %q (valid: envelope, tuning, level, waveform)", s)
		}
		groups[s] = true
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no optimize groups specified")
	}
	return groups, nil
}

func initCandidate(base *theremin.Params, groups map[string]bool) ([]knobDef, candidate) {
	defs := make([]knobDef, 0, 8)
	vals := make([]float64, 0, 8)
	addKnob := func(def knobDef, val float64) {
		for _, d := range defs {
			if d.Name == def.Name {
				return
			}
		}
		defs = append(defs, def)
		vals = append(vals, val)
	}

	// Envelope group knobs.
	if groups["envelope"] {
		addKnob(knobDef{Name: "decay_rate", Min: 1.0, Max: 500.0}, base.DecayRate)
		addKnob(knobDef{Name: "snap_threshold", Min: 1e-6, Max: 1e-2}, base.SnapThreshold)
	}

	// Tuning group knobs.
	if groups["tuning"] {
		addKnob(knobDef{Name: "reference_pitch", Min: 400.0, Max: 480.0}, base.ReferencePitch)
		addKnob(knobDef{Name: "octaves", Min: 0.5, Max: 6.0}, base.Octaves)
	}

	// Level group knobs.
	if groups["level"] {
		addKnob(knobDef{Name: "max_volume", Min: 1024.0, Max: 32768.0}, base.MaxVolume)
	}

	// Waveform group knobs: discrete shape index.
	if groups["waveform"] {
		addKnob(knobDef{Name: "waveform", Min: 0, Max: 3, IsInt: true}, float64(base.Waveform))
	}

	for i := range vals {
		vals[i] = clamp(vals[i], defs[i].Min, defs[i].Max)
		if defs[i].IsInt {
			vals[i] = math.Round(vals[i])
		}
	}
	return defs, candidate{Vals: vals}
}

func applyCandidate(base *theremin.Params, defs []knobDef, c candidate) *theremin.Params {
	params := cloneParams(base)

	for i, def := range defs {
		v := c.Vals[i]
		switch def.Name {
		case "decay_rate":
			params.DecayRate = v
		case "snap_threshold":
			params.SnapThreshold = v
		case "reference_pitch":
			params.ReferencePitch = v
		case "octaves":
			params.Octaves = v
		case "max_volume":
			params.MaxVolume = v
		case "waveform":
			params.Waveform = theremin.Waveform(int(math.Round(v)))
		}
	}

	if params.Waveform < theremin.WaveSine || params.Waveform > theremin.WaveSquare {
		params.Waveform = theremin.WaveSine
	}
	return params
}

func fromNormalized(pos []float64, defs []knobDef) candidate {
	vals := make([]float64, len(defs))
	for i := range defs {
		x := 0.0
		if i < len(pos) {
			x = clamp(pos[i], 0, 1)
		}
		v := defs[i].Min + x*(defs[i].Max-defs[i].Min)
		if defs[i].IsInt {
			v = math.Round(v)
		}
		vals[i] = v
	}
	return candidate{Vals: vals}
}
