package theremin

import (
	"math"
	"testing"
)

func TestWaveformValues(t *testing.T) {
	const eps = 1e-12
	tests := []struct {
		name  string
		wave  Waveform
		phase float64
		want  float64
	}{
		{"sine zero", WaveSine, 0.0, 0.0},
		{"sine quarter", WaveSine, 0.25, 1.0},
		{"sine half", WaveSine, 0.5, 0.0},
		{"sine three quarters", WaveSine, 0.75, -1.0},
		{"sine negative quarter", WaveSine, -0.25, -1.0},
		{"sawtooth zero", WaveSawtooth, 0.0, 0.0},
		{"sawtooth quarter", WaveSawtooth, 0.25, 0.5},
		{"sawtooth wrapped", WaveSawtooth, 1.25, 0.5},
		{"triangle zero", WaveTriangle, 0.0, -1.0},
		{"triangle quarter", WaveTriangle, 0.25, 0.0},
		{"triangle half", WaveTriangle, 0.5, 1.0},
		{"square low half", WaveSquare, 0.25, 0.0},
		{"square boundary", WaveSquare, 0.5, 0.0},
		{"square high half", WaveSquare, 0.75, 1.0},
		{"square negative phase", WaveSquare, -0.25, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.wave.Sample(tt.phase)
			if math.Abs(got-tt.want) > eps {
				t.Fatalf("%v.Sample(%g) = %g, want %g", tt.wave, tt.phase, got, tt.want)
			}
		})
	}
}

func TestWaveformPeriodicity(t *testing.T) {
	waves := []Waveform{WaveSine, WaveSawtooth, WaveTriangle, WaveSquare}
	phases := []float64{0.1, 0.37, 0.52, 0.93}
	for _, w := range waves {
		for _, p := range phases {
			base := w.Sample(p)
			for _, shift := range []float64{1, 2, -3} {
				got := w.Sample(p + shift)
				if math.Abs(got-base) > 1e-9 {
					t.Fatalf("%v: Sample(%g) = %g but Sample(%g) = %g", w, p, base, p+shift, got)
				}
			}
		}
	}
}

func TestWaveformRanges(t *testing.T) {
	for _, w := range []Waveform{WaveSine, WaveSawtooth, WaveTriangle, WaveSquare} {
		lo := -1.0
		if w == WaveSquare {
			lo = 0.0
		}
		for i := 0; i < 2000; i++ {
			phase := float64(i)*0.0137 - 5.0
			v := w.Sample(phase)
			if v < lo-1e-12 || v > 1.0+1e-12 {
				t.Fatalf("%v: Sample(%g) = %g outside [%g, 1]", w, phase, v, lo)
			}
		}
	}
}

func TestWaveformNextCyclesAllShapes(t *testing.T) {
	w := WaveSine
	seen := make(map[Waveform]bool)
	for i := 0; i < int(numWaveforms); i++ {
		seen[w] = true
		w = w.Next()
	}
	if len(seen) != int(numWaveforms) {
		t.Fatalf("expected %d distinct shapes in the cycle, got %d", numWaveforms, len(seen))
	}
	if w != WaveSine {
		t.Fatalf("expected the cycle to return to sine, got %v", w)
	}
}

func TestParseWaveformRoundTrip(t *testing.T) {
	for _, w := range []Waveform{WaveSine, WaveSawtooth, WaveTriangle, WaveSquare} {
		got, err := ParseWaveform(w.String())
		if err != nil {
			t.Fatalf("ParseWaveform(%q): %v", w.String(), err)
		}
		if got != w {
			t.Fatalf("ParseWaveform(%q) = %v, want %v", w.String(), got, w)
		}
	}
	if _, err := ParseWaveform("noise"); err == nil {
		t.Fatalf("expected error for unknown waveform name")
	}
}
