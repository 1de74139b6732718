package theremin

import (
	"fmt"
	"sync"
)

// Output sample bounds. Sums outside this range hard-clip, never wrap.
const (
	maxSample = 32767
	minSample = -32768
)

// defaultStackCapacity pre-sizes the note stack so steady-state pushes do
// not allocate.
const defaultStackCapacity = 64

// Engine is the synthesis core: a stack of decaying notes mixed into signed
// 16-bit samples on demand.
//
// One mutex serializes rendering against control updates. The audio backend
// pulls whole buffers, so the lock is held once per buffer fill on the
// render side and for an O(1) splice on the control side. Notes live in a
// growable slice ordered by recency, newest last; fully decayed notes are
// compacted away in place during rendering.
type Engine struct {
	mu sync.Mutex

	sampleRate int
	dt         float64
	t          float64
	params     Params
	wave       Waveform
	notes      []Note
}

// NewEngine creates an engine rendering at the given sample rate. A nil
// params uses defaults.
func NewEngine(sampleRate int, params *Params) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0, got %d", sampleRate)
	}
	p := *NewDefaultParams()
	if params != nil {
		p = *params
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		sampleRate: sampleRate,
		dt:         1.0 / float64(sampleRate),
		params:     p,
		wave:       p.Waveform,
		notes:      make([]Note, 0, defaultStackCapacity),
	}
	e.notes = append(e.notes, restNote())
	return e, nil
}

// SampleRate returns the rate the engine renders at.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// AddNote replaces the front note: the old front starts decaying to silence
// while a new note at the given frequency and volume fades in over it.
//
// The new note's start anchor is shifted so its oscillator phase matches the
// phase the old note had reached, which keeps retuning click-free. A zero
// frequency has no phase and anchors at the current time.
func (e *Engine) AddNote(frequency, volume float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old := &e.notes[len(e.notes)-1]
	old.target = 0

	start := e.t
	if frequency != 0 {
		start -= (e.t - old.start) * old.frequency / frequency
	}
	e.notes = append(e.notes, Note{
		frequency: frequency,
		volume:    volume,
		start:     start,
		amplitude: 0,
		target:    1,
	})
}

// CycleWaveform switches to the next oscillator shape and returns it.
func (e *Engine) CycleWaveform() Waveform {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wave = e.wave.Next()
	return e.wave
}

// CurrentWaveform returns the active oscillator shape.
func (e *Engine) CurrentWaveform() Waveform {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wave
}

// Render fills dst with the next len(dst) samples.
//
// Per sample: every note contributes wave(frequency*(t-start)) scaled by its
// amplitude and volume, then its envelope advances one step; notes that have
// fully decayed are dropped. The mix hard-clips to the signed 16-bit range
// and time advances by one sample period. The steady-state path does not
// allocate.
func (e *Engine) Render(dst []int16) {
	e.mu.Lock()
	defer e.mu.Unlock()

	coeff := decayCoeff(e.dt, e.params.DecayRate)
	threshold := e.params.SnapThreshold
	for i := range dst {
		sum := 0.0
		keep := e.notes[:0]
		for j := range e.notes {
			n := &e.notes[j]
			sum += e.wave.Sample(n.frequency*(e.t-n.start)) * n.amplitude * n.volume
			n.step(coeff, threshold)
			if n.amplitude == 0 && n.target == 0 {
				continue // fully decayed
			}
			keep = append(keep, *n)
		}
		e.notes = keep

		if sum > maxSample {
			sum = maxSample
		} else if sum < minSample {
			sum = minSample
		}
		dst[i] = int16(sum)
		e.t += e.dt
	}
}
