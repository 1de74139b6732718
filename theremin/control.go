package theremin

import (
	"math"
	"time"
)

// FadeOutWait is how long callers should keep the stream running after
// Silence so the decay tail drains before the device closes.
const FadeOutWait = 500 * time.Millisecond

// Controls maps raw control-axis samples onto the engine. Loudness scales
// linearly to [0, MaxVolume]; pitch sweeps an Octaves-wide band centered on
// the reference pitch in the log domain, so equal stick travel covers equal
// musical intervals. Each axis update carries the other axis's last value
// forward, retuning the single intended voice.
//
// Controls itself is meant for one goroutine (the event pump); the engine it
// drives handles cross-thread safety.
type Controls struct {
	engine *Engine

	octaves  float64
	refPitch float64
	maxVol   float64

	lastPitch    int16
	lastLoudness int16
}

// NewControls creates a control mapper for the engine. The initial state is
// silent at the center of the pitch band.
func NewControls(engine *Engine) *Controls {
	return &Controls{
		engine:       engine,
		octaves:      engine.params.Octaves,
		refPitch:     engine.params.ReferencePitch,
		maxVol:       engine.params.MaxVolume,
		lastPitch:    0,
		lastLoudness: math.MinInt16,
	}
}

// PitchFrequency converts a raw pitch-axis sample to a frequency in Hz.
func (c *Controls) PitchFrequency(raw int16) float64 {
	x := (float64(raw) + 32768.0) / 65536.0
	return c.refPitch * float64(pow2Approx(float32(c.octaves*(x-0.5))))
}

// LoudnessVolume converts a raw loudness-axis sample to a volume scalar.
func (c *Controls) LoudnessVolume(raw int16) float64 {
	return c.maxVol * (float64(raw) + 32768.0) / 65536.0
}

// SetPitchAxis retunes the voice, keeping the current loudness.
func (c *Controls) SetPitchAxis(raw int16) {
	c.lastPitch = raw
	c.engine.AddNote(c.PitchFrequency(raw), c.LoudnessVolume(c.lastLoudness))
}

// SetLoudnessAxis reshapes the voice's loudness, keeping the current pitch.
func (c *Controls) SetLoudnessAxis(raw int16) {
	c.lastLoudness = raw
	c.engine.AddNote(c.PitchFrequency(c.lastPitch), c.LoudnessVolume(raw))
}

// CycleWaveform switches the engine to the next oscillator shape.
func (c *Controls) CycleWaveform() Waveform {
	return c.engine.CycleWaveform()
}

// Silence fades the voice out at its current pitch. Keep rendering for
// FadeOutWait afterwards so the tail reaches the device.
func (c *Controls) Silence() {
	c.lastLoudness = math.MinInt16
	c.engine.AddNote(c.PitchFrequency(c.lastPitch), 0)
}
