package theremin

import (
	"math"
	"testing"
)

func newTestEngine(t *testing.T, sampleRate int) *Engine {
	t.Helper()
	e, err := NewEngine(sampleRate, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestNewEngineStartsAtRest(t *testing.T) {
	e := newTestEngine(t, 48000)
	if len(e.notes) != 1 {
		t.Fatalf("expected a single rest note, got %d notes", len(e.notes))
	}
	rest := e.notes[0]
	if rest.frequency != 0 || rest.volume != 0 || rest.target != 1 {
		t.Fatalf("unexpected rest note state: %+v", rest)
	}

	buf := make([]int16, 256)
	e.Render(buf)
	for i, s := range buf {
		if s != 0 {
			t.Fatalf("expected silence at rest, sample %d = %d", i, s)
		}
	}
	if len(e.notes) != 1 {
		t.Fatalf("rest note disappeared while idle")
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	if _, err := NewEngine(0, nil); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
	p := NewDefaultParams()
	p.DecayRate = -1
	if _, err := NewEngine(48000, p); err == nil {
		t.Fatalf("expected error for negative decay rate")
	}
}

func TestAddNoteForcesFrontToSilence(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.AddNote(440, 100)
	e.AddNote(550, 100)
	e.AddNote(660, 100)

	if len(e.notes) != 4 {
		t.Fatalf("expected 4 stacked notes, got %d", len(e.notes))
	}
	for i, n := range e.notes[:len(e.notes)-1] {
		if n.target != 0 {
			t.Fatalf("replaced note %d has target %g, want 0", i, n.target)
		}
	}
	front := e.notes[len(e.notes)-1]
	if front.target != 1 || front.amplitude != 0 {
		t.Fatalf("front note target=%g amplitude=%g, want target 1 amplitude 0", front.target, front.amplitude)
	}
}

func TestAddNotePreservesPhase(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.AddNote(440, 100)
	e.Render(make([]int16, 1003))

	old := e.notes[len(e.notes)-1]
	e.AddNote(554.37, 100)
	now := e.notes[len(e.notes)-1]

	oldPhase := old.frequency * (e.t - old.start)
	newPhase := now.frequency * (e.t - now.start)
	diff := oldPhase - newPhase
	if wrapped := math.Abs(diff - math.Round(diff)); wrapped > 1e-9 {
		t.Fatalf("phase discontinuity across retune: old=%g new=%g", oldPhase, newPhase)
	}
}

func TestAddNoteZeroFrequencyAnchorsAtNow(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.AddNote(440, 100)
	e.Render(make([]int16, 480))

	e.AddNote(0, 0)
	front := e.notes[len(e.notes)-1]
	if front.start != e.t {
		t.Fatalf("zero-frequency note start = %g, want current time %g", front.start, e.t)
	}
}

func TestFullyDecayedNotesAreRemoved(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.AddNote(440, 100)
	e.Render(make([]int16, 48000))

	if len(e.notes) != 1 {
		t.Fatalf("expected only the front note to survive, got %d notes", len(e.notes))
	}
	front := e.notes[0]
	if front.frequency != 440 {
		t.Fatalf("surviving note frequency = %g, want 440", front.frequency)
	}
	if front.amplitude != 1 {
		t.Fatalf("front amplitude = %g, want exactly 1 after convergence", front.amplitude)
	}
}

func TestStackGrowsPastInitialCapacity(t *testing.T) {
	e := newTestEngine(t, 48000)
	for i := 0; i < 200; i++ {
		e.AddNote(200+float64(i), 10)
	}
	if len(e.notes) != 201 {
		t.Fatalf("expected 201 notes before rendering, got %d", len(e.notes))
	}

	e.Render(make([]int16, 48000))
	if len(e.notes) != 1 {
		t.Fatalf("expected decayed notes to be reclaimed, got %d", len(e.notes))
	}
	if got := e.notes[0].frequency; got != 399 {
		t.Fatalf("surviving note frequency = %g, want 399", got)
	}
}

func TestRenderHardClipsWithoutWrapping(t *testing.T) {
	e := newTestEngine(t, 48000)
	// Engine-level volume is unchecked; drive past full scale on purpose.
	e.AddNote(440, 40000)

	buf := make([]int16, 48000)
	e.Render(buf) // converge the envelope
	e.Render(buf)

	minSeen, maxSeen := buf[0], buf[0]
	for i := 1; i < len(buf); i++ {
		if buf[i] > maxSeen {
			maxSeen = buf[i]
		}
		if buf[i] < minSeen {
			minSeen = buf[i]
		}
		// Integer wraparound would show as a near full-scale jump; a
		// clipped 440 Hz sine moves a few thousand counts per sample at
		// most.
		if d := int(buf[i]) - int(buf[i-1]); d > 10000 || d < -10000 {
			t.Fatalf("discontinuity of %d counts at sample %d, clipping must clamp", d, i)
		}
	}
	if maxSeen != maxSample {
		t.Fatalf("expected top rail %d, got %d", maxSample, maxSeen)
	}
	if minSeen != minSample {
		t.Fatalf("expected bottom rail %d, got %d", minSample, minSeen)
	}
}

func TestRenderAdvancesTimeBySamplePeriod(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.Render(make([]int16, 480))
	want := 480.0 / 48000.0
	if math.Abs(e.t-want) > 1e-12 {
		t.Fatalf("t = %g after 480 samples, want %g", e.t, want)
	}
}

func TestRenderSteadyStateDoesNotAllocate(t *testing.T) {
	e := newTestEngine(t, 48000)
	e.AddNote(440, 100)
	buf := make([]int16, 256)
	e.Render(buf)

	allocs := testing.AllocsPerRun(100, func() {
		e.Render(buf)
	})
	if allocs != 0 {
		t.Fatalf("Render allocated %.1f times per call in steady state", allocs)
	}
}

func TestCycleWaveformRoundTrips(t *testing.T) {
	e := newTestEngine(t, 48000)
	if got := e.CurrentWaveform(); got != WaveSine {
		t.Fatalf("initial waveform = %v, want sine", got)
	}
	for _, want := range []Waveform{WaveSawtooth, WaveTriangle, WaveSquare, WaveSine} {
		if got := e.CycleWaveform(); got != want {
			t.Fatalf("CycleWaveform = %v, want %v", got, want)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	e, err := NewEngine(48000, nil)
	if err != nil {
		b.Fatalf("NewEngine: %v", err)
	}
	e.AddNote(440, 16000)
	buf := make([]int16, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Render(buf)
	}
}

func BenchmarkRenderDeepStack(b *testing.B) {
	e, err := NewEngine(48000, nil)
	if err != nil {
		b.Fatalf("NewEngine: %v", err)
	}
	buf := make([]int16, 512)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Retune every block so a handful of decaying notes overlap.
		e.AddNote(220+float64(i%512), 8000)
		e.Render(buf)
	}
}
