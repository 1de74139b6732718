package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseWorkersFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: "8", want: 8},
		{in: "auto", want: 0},
		{in: "AUTO", want: 0},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseWorkersFlag(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseWorkersFlag(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseWorkersFlag(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseWorkersFlag(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoadCandidateFromReportBestKnobs(t *testing.T) {
	tmp := t.TempDir()
	reportPath := filepath.Join(tmp, "rep.json")
	if err := os.WriteFile(reportPath, []byte(`{"best_knobs":{"decay_rate":120.5,"reference_pitch":442}}`), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	defs := []knobDef{
		{Name: "decay_rate", Min: 1.0, Max: 500.0},
		{Name: "reference_pitch", Min: 400.0, Max: 480.0},
	}
	fallback := candidate{Vals: []float64{50.0, 440.0}}

	got, ok, err := loadCandidateFromReport(reportPath, defs, fallback)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !ok {
		t.Fatal("expected resume candidate")
	}
	if got.Vals[0] != 120.5 {
		t.Fatalf("decay_rate = %v, want 120.5", got.Vals[0])
	}
	if got.Vals[1] != 442 {
		t.Fatalf("reference_pitch = %v, want 442", got.Vals[1])
	}
}

func TestLoadCandidateFromReportClampsAndRounds(t *testing.T) {
	tmp := t.TempDir()
	reportPath := filepath.Join(tmp, "rep.json")
	if err := os.WriteFile(reportPath, []byte(`{"best_knobs":{"octaves":9,"waveform":2.4}}`), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	defs := []knobDef{
		{Name: "octaves", Min: 0.5, Max: 6.0},
		{Name: "waveform", Min: 0, Max: 3, IsInt: true},
	}
	fallback := candidate{Vals: []float64{2.0, 0}}

	got, ok, err := loadCandidateFromReport(reportPath, defs, fallback)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !ok {
		t.Fatal("expected resume candidate")
	}
	// octaves clamped to Max=6
	if got.Vals[0] != 6 {
		t.Fatalf("octaves = %v, want 6 (clamped from 9)", got.Vals[0])
	}
	if got.Vals[1] != 2 {
		t.Fatalf("waveform = %v, want 2 (rounded from 2.4)", got.Vals[1])
	}
}

func TestLoadCandidateFromReportMissingFile(t *testing.T) {
	defs := []knobDef{{Name: "x", Min: 0, Max: 1}}
	fallback := candidate{Vals: []float64{0.5}}

	_, ok, err := loadCandidateFromReport("/nonexistent/path.json", defs, fallback)
	if err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing file")
	}
}
