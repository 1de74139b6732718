package theremin

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// decayCoeff returns the per-sample one-pole coefficient for a decay rate in
// 1/seconds at the given sample period. Always in (0, 1) for positive rates.
func decayCoeff(dt, rate float64) float64 {
	return math.Exp(-dt * rate)
}

// step advances the note's envelope by one sample:
//
//	amplitude' = target + (amplitude-target)*coeff
//
// The approach is monotonic and never overshoots. Once within threshold of
// the target the amplitude snaps to it exactly, so every fade reaches 0 or 1
// in finitely many steps; the removal rule in the render loop depends on
// that.
func (n *Note) step(coeff, threshold float64) {
	a := n.target + (n.amplitude-n.target)*coeff
	if math.Abs(a-n.target) < threshold {
		n.amplitude = n.target
		return
	}
	n.amplitude = dspcore.FlushDenormals(a)
}
