package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-theremin/theremin"
)

func TestLoadJSONAppliesFields(t *testing.T) {
	dir := t.TempDir()
	presetPath := filepath.Join(dir, "preset.json")
	content := `{
  "octaves": 3,
  "decay_rate": 80.5,
  "reference_pitch": 432,
  "waveform": "triangle"
}`
	if err := os.WriteFile(presetPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	p, err := LoadJSON(presetPath)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if p.Octaves != 3 {
		t.Fatalf("octaves mismatch: %f", p.Octaves)
	}
	if p.DecayRate != 80.5 {
		t.Fatalf("decay_rate mismatch: %f", p.DecayRate)
	}
	if p.ReferencePitch != 432 {
		t.Fatalf("reference_pitch mismatch: %f", p.ReferencePitch)
	}
	if p.Waveform != theremin.WaveTriangle {
		t.Fatalf("waveform mismatch: %v", p.Waveform)
	}

	// Absent fields keep defaults.
	def := theremin.NewDefaultParams()
	if p.SnapThreshold != def.SnapThreshold {
		t.Fatalf("snap_threshold changed without being set: %g", p.SnapThreshold)
	}
	if p.MaxVolume != def.MaxVolume {
		t.Fatalf("max_volume changed without being set: %g", p.MaxVolume)
	}
}

func TestLoadJSONRejectsInvalidRanges(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero decay", `{"decay_rate": 0}`},
		{"negative pitch", `{"reference_pitch": -440}`},
		{"octaves too wide", `{"octaves": 12}`},
		{"snap threshold too large", `{"snap_threshold": 1.5}`},
		{"volume past full scale", `{"max_volume": 65536}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			presetPath := filepath.Join(t.TempDir(), "preset.json")
			if err := os.WriteFile(presetPath, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write preset: %v", err)
			}
			if _, err := LoadJSON(presetPath); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadJSONRejectsUnknownWaveform(t *testing.T) {
	presetPath := filepath.Join(t.TempDir(), "preset.json")
	if err := os.WriteFile(presetPath, []byte(`{"waveform": "noise"}`), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}
	if _, err := LoadJSON(presetPath); err == nil {
		t.Fatalf("expected error for unknown waveform")
	}
}
