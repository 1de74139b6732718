package theremin

import "fmt"

// Params holds the session-constant synthesis parameters.
type Params struct {
	// Octaves is the width of the pitch band in octaves, centered on
	// ReferencePitch.
	Octaves float64
	// DecayRate is the envelope decay constant in 1/seconds.
	DecayRate float64
	// SnapThreshold is the distance below which an envelope is forced to
	// exactly its target value.
	SnapThreshold float64
	// ReferencePitch is the frequency at the pitch-axis center, in Hz.
	ReferencePitch float64
	// MaxVolume is the loudness at full axis deflection; 32768 spans the
	// whole signed 16-bit output range.
	MaxVolume float64
	// Waveform is the initial oscillator shape.
	Waveform Waveform
}

// NewDefaultParams creates default parameters.
func NewDefaultParams() *Params {
	return &Params{
		Octaves:        2.0,
		DecayRate:      50.0,
		SnapThreshold:  1e-4,
		ReferencePitch: 440.0,
		MaxVolume:      32768.0,
		Waveform:       WaveSine,
	}
}

// Validate checks parameter ranges.
func (p *Params) Validate() error {
	if !isFinite(p.Octaves) || p.Octaves <= 0 || p.Octaves > 10 {
		return fmt.Errorf("octaves must be in (0, 10], got %g", p.Octaves)
	}
	if !isFinite(p.DecayRate) || p.DecayRate <= 0 {
		return fmt.Errorf("decay_rate must be > 0, got %g", p.DecayRate)
	}
	if !isFinite(p.SnapThreshold) || p.SnapThreshold <= 0 || p.SnapThreshold >= 1 {
		return fmt.Errorf("snap_threshold must be in (0, 1), got %g", p.SnapThreshold)
	}
	if !isFinite(p.ReferencePitch) || p.ReferencePitch <= 0 {
		return fmt.Errorf("reference_pitch must be > 0, got %g", p.ReferencePitch)
	}
	if !isFinite(p.MaxVolume) || p.MaxVolume <= 0 || p.MaxVolume > 32768 {
		return fmt.Errorf("max_volume must be in (0, 32768], got %g", p.MaxVolume)
	}
	if p.Waveform < WaveSine || p.Waveform >= numWaveforms {
		return fmt.Errorf("unknown waveform %d", int(p.Waveform))
	}
	return nil
}
