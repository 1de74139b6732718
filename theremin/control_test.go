package theremin

import (
	"math"
	"testing"
)

func TestPitchFrequencyEndpoints(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	tests := []struct {
		name string
		raw  int16
		want float64
		tol  float64
	}{
		{"bottom of band", math.MinInt16, 220.0, 1.0},
		{"center", 0, 440.0, 1.0},
		{"top of band", math.MaxInt16, 880.0, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.PitchFrequency(tt.raw)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("PitchFrequency(%d) = %.2f Hz, want %.2f ±%.1f", tt.raw, got, tt.want, tt.tol)
			}
		})
	}
}

func TestPitchFrequencyIsLogarithmic(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	// Equal quarter-band steps must give equal frequency ratios.
	f0 := c.PitchFrequency(math.MinInt16)
	f1 := c.PitchFrequency(-16384)
	f2 := c.PitchFrequency(0)
	r1 := f1 / f0
	r2 := f2 / f1
	if math.Abs(r1-r2) > 0.01 {
		t.Fatalf("expected constant ratio per step, got %.4f then %.4f", r1, r2)
	}
	if math.Abs(r1-math.Sqrt2) > 0.01 {
		t.Fatalf("half-octave step ratio = %.4f, want √2", r1)
	}
}

func TestOctaveRangeScales(t *testing.T) {
	p := NewDefaultParams()
	p.Octaves = 4
	e, err := NewEngine(48000, p)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	c := NewControls(e)

	if got := c.PitchFrequency(math.MinInt16); math.Abs(got-110.0) > 1.0 {
		t.Fatalf("4-octave band bottom = %.2f Hz, want 110", got)
	}
	if got := c.PitchFrequency(0); math.Abs(got-440.0) > 1.0 {
		t.Fatalf("4-octave band center = %.2f Hz, want 440", got)
	}
}

func TestLoudnessVolumeIsLinear(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	if got := c.LoudnessVolume(math.MinInt16); got != 0 {
		t.Fatalf("LoudnessVolume(min) = %g, want 0", got)
	}
	if got := c.LoudnessVolume(0); got != 16384 {
		t.Fatalf("LoudnessVolume(0) = %g, want 16384", got)
	}
	if got := c.LoudnessVolume(math.MaxInt16); got != 32767.5 {
		t.Fatalf("LoudnessVolume(max) = %g, want 32767.5", got)
	}
}

func TestAxisUpdatesCarryOtherAxis(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	c.SetLoudnessAxis(0)
	front := e.notes[len(e.notes)-1]
	if front.volume != 16384 {
		t.Fatalf("volume = %g, want 16384", front.volume)
	}
	if want := c.PitchFrequency(0); front.frequency != want {
		t.Fatalf("frequency = %g, want carried center pitch %g", front.frequency, want)
	}

	c.SetPitchAxis(math.MaxInt16)
	front = e.notes[len(e.notes)-1]
	if front.volume != 16384 {
		t.Fatalf("volume = %g, want loudness carried through a retune", front.volume)
	}
	if want := c.PitchFrequency(math.MaxInt16); front.frequency != want {
		t.Fatalf("frequency = %g, want %g", front.frequency, want)
	}
}

func TestInitialStateIsSilent(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	c.SetPitchAxis(1000)
	front := e.notes[len(e.notes)-1]
	if front.volume != 0 {
		t.Fatalf("first pitch motion should stay silent, volume %g", front.volume)
	}
}

func TestControlsCycleWaveformAdvancesEngine(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	if got := c.CycleWaveform(); got != WaveSawtooth {
		t.Fatalf("first cycle = %v, want sawtooth", got)
	}
	if got := e.CurrentWaveform(); got != WaveSawtooth {
		t.Fatalf("engine waveform = %v, want sawtooth", got)
	}
}

func TestSilenceKeepsPitchDropsVolume(t *testing.T) {
	e := newTestEngine(t, 48000)
	c := NewControls(e)

	c.SetLoudnessAxis(math.MaxInt16)
	c.SetPitchAxis(12000)
	c.Silence()

	front := e.notes[len(e.notes)-1]
	if front.volume != 0 {
		t.Fatalf("volume after Silence = %g, want 0", front.volume)
	}
	if want := c.PitchFrequency(12000); front.frequency != want {
		t.Fatalf("frequency after Silence = %g, want held pitch %g", front.frequency, want)
	}
}
