package theremin

import (
	"fmt"
	"math"
)

// Waveform selects the oscillator shape the engine renders with.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSawtooth
	WaveTriangle
	WaveSquare

	numWaveforms
)

// Sample evaluates the waveform at the given phase. Phase is measured in
// cycles, one full period per unit; any real value is accepted.
func (w Waveform) Sample(phase float64) float64 {
	switch w {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveSawtooth:
		return 2 * (phase - math.Floor(0.5+phase))
	case WaveTriangle:
		return 2*math.Abs(2*(phase-math.Floor(0.5+phase))) - 1
	case WaveSquare:
		if phase-math.Floor(phase) > 0.5 {
			return 1.0
		}
		return 0.0
	default:
		return 0.0
	}
}

// Next returns the following shape in the cycle sine, sawtooth, triangle,
// square and back to sine.
func (w Waveform) Next() Waveform {
	return (w + 1) % numWaveforms
}

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveSawtooth:
		return "sawtooth"
	case WaveTriangle:
		return "triangle"
	case WaveSquare:
		return "square"
	default:
		return "unknown"
	}
}

// ParseWaveform resolves a waveform name as used in presets and flags.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "sine":
		return WaveSine, nil
	case "sawtooth":
		return WaveSawtooth, nil
	case "triangle":
		return WaveTriangle, nil
	case "square":
		return WaveSquare, nil
	default:
		return WaveSine, fmt.Errorf("unknown waveform %q", name)
	}
}
