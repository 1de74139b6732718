package analysis

import (
	"math"
)

// Score weights of the combined distance components.
const (
	WeightTime     = 0.25
	WeightEnvelope = 0.20
	WeightPitch    = 0.25
	WeightClick    = 0.15
	WeightDecay    = 0.15
)

// Full-scale values at which each component saturates its share of the
// score.
const (
	timeFullScale  = 0.25  // waveform RMSE on RMS-normalized signals
	envFullScale   = 30.0  // dB
	pitchFullScale = 200.0 // cents, a whole tone off
	clickFullScale = 20.0  // clicks per second
	decayFullScale = 40.0  // dB/s
)

// clickThreshold is the second-difference magnitude past which a sample
// counts as an impulsive discontinuity, on RMS-normalized material.
const clickThreshold = 0.05

// Metrics contains distance and similarity measurements between two audio
// signals.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	AlignedFrames   int `json:"aligned_frames"`
	LagSamples      int `json:"lag_samples"`

	TimeRMSE        float64 `json:"time_rmse"`
	EnvelopeRMSEDB  float64 `json:"envelope_rmse_db"`
	PitchRMSECents  float64 `json:"pitch_rmse_cents"`
	RefClickRate    float64 `json:"ref_click_rate"`
	CandClickRate   float64 `json:"cand_click_rate"`
	ClickRateDiff   float64 `json:"click_rate_diff"`
	RefDecayDBPerS  float64 `json:"ref_decay_db_per_s"`
	CandDecayDBPerS float64 `json:"cand_decay_db_per_s"`
	DecayDiffDBPerS float64 `json:"decay_diff_db_per_s"`

	// Normalized per-component contributions in [0,1] and the name of the
	// component dominating the score.
	TimeNorm     float64 `json:"time_norm"`
	EnvelopeNorm float64 `json:"envelope_norm"`
	PitchNorm    float64 `json:"pitch_norm"`
	ClickNorm    float64 `json:"click_norm"`
	DecayNorm    float64 `json:"decay_norm"`
	Dominant     string  `json:"dominant"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Compare returns objective distance metrics and a combined score in [0,1],
// 0 meaning indistinguishable. Degenerate inputs score 1.
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
	}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m
	}

	ref := trimLeadingSilence(reference, 1e-6)
	cand := trimLeadingSilence(candidate, 1e-6)
	if len(ref) == 0 || len(cand) == 0 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m
	}

	ref = normalizeRMS(ref, 0.1)
	cand = normalizeRMS(cand, 0.1)

	maxLag := sampleRate / 2
	if maxLag > len(ref)-1 {
		maxLag = len(ref) - 1
	}
	if maxLag > len(cand)-1 {
		maxLag = len(cand) - 1
	}
	if maxLag < 1 {
		maxLag = 1
	}
	lag := estimateLag(ref, cand, maxLag)
	m.LagSamples = lag

	refA, candA := alignByLag(ref, cand, lag)
	n := len(refA)
	if len(candA) < n {
		n = len(candA)
	}
	if n < 256 {
		m.Score = 1.0
		m.Similarity = 0.0
		return m
	}
	maxFrames := sampleRate * 12
	if n > maxFrames {
		n = maxFrames
	}
	refA = refA[:n]
	candA = candA[:n]
	m.AlignedFrames = n

	m.TimeRMSE = rmse(refA, candA)

	refEnv := Envelope(refA, 256, 128)
	candEnv := Envelope(candA, 256, 128)
	envN := len(refEnv)
	if len(candEnv) < envN {
		envN = len(candEnv)
	}
	if envN > 0 {
		envDiff := make([]float64, envN)
		for i := 0; i < envN; i++ {
			envDiff[i] = linToDB(refEnv[i]) - linToDB(candEnv[i])
		}
		m.EnvelopeRMSEDB = rms1(envDiff)
	}

	refTrack, errRef := PitchTrack(refA, sampleRate, pitchFFTSize, pitchHop)
	candTrack, errCand := PitchTrack(candA, sampleRate, pitchFFTSize, pitchHop)
	if errRef == nil && errCand == nil {
		m.PitchRMSECents = pitchRMSECents(refTrack, candTrack)
	}

	m.RefClickRate = clickRate(refA, sampleRate, clickThreshold)
	m.CandClickRate = clickRate(candA, sampleRate, clickThreshold)
	m.ClickRateDiff = math.Abs(m.RefClickRate - m.CandClickRate)

	hopSec := 128.0 / float64(sampleRate)
	m.RefDecayDBPerS = decaySlopeDBPerS(refEnv, hopSec)
	m.CandDecayDBPerS = decaySlopeDBPerS(candEnv, hopSec)
	if isFinite(m.RefDecayDBPerS) && isFinite(m.CandDecayDBPerS) {
		m.DecayDiffDBPerS = math.Abs(m.RefDecayDBPerS - m.CandDecayDBPerS)
	}

	m.TimeNorm = clamp01(m.TimeRMSE / timeFullScale)
	m.EnvelopeNorm = clamp01(m.EnvelopeRMSEDB / envFullScale)
	m.PitchNorm = clamp01(m.PitchRMSECents / pitchFullScale)
	m.ClickNorm = clamp01(m.ClickRateDiff / clickFullScale)
	m.DecayNorm = clamp01(m.DecayDiffDBPerS / decayFullScale)
	m.Score = clamp01(WeightTime*m.TimeNorm + WeightEnvelope*m.EnvelopeNorm +
		WeightPitch*m.PitchNorm + WeightClick*m.ClickNorm + WeightDecay*m.DecayNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	m.Dominant = dominantComponent(&m)

	return m
}

// Envelope returns the windowed RMS envelope of x.
func Envelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = rms1(x[start : start+frame])
	}
	return out
}

func dominantComponent(m *Metrics) string {
	names := []string{"time", "envelope", "pitch", "click", "decay"}
	contribs := []float64{
		WeightTime * m.TimeNorm,
		WeightEnvelope * m.EnvelopeNorm,
		WeightPitch * m.PitchNorm,
		WeightClick * m.ClickNorm,
		WeightDecay * m.DecayNorm,
	}
	best := 0
	for i := 1; i < len(contribs); i++ {
		if contribs[i] > contribs[best] {
			best = i
		}
	}
	if contribs[best] <= 0 {
		return "none"
	}
	return names[best]
}

// clickRate counts impulsive discontinuities per second: samples whose
// second difference exceeds the threshold. Smooth crossfaded synthesis
// keeps this at zero; an abrupt cut or integer wrap shows up immediately.
func clickRate(x []float64, sampleRate int, threshold float64) float64 {
	if len(x) < 3 || sampleRate <= 0 {
		return 0
	}
	clicks := 0
	for i := 2; i < len(x); i++ {
		dd := x[i] - 2*x[i-1] + x[i-2]
		if math.Abs(dd) > threshold {
			clicks++
		}
	}
	return float64(clicks) * float64(sampleRate) / float64(len(x))
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i := 0; i < len(x); i++ {
		if math.Abs(x[i]) > threshold {
			return x[i:]
		}
	}
	return nil
}

func normalizeRMS(x []float64, target float64) []float64 {
	if len(x) == 0 {
		return x
	}
	r := rms1(x)
	if r <= 1e-12 {
		return append([]float64(nil), x...)
	}
	g := target / r
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

func estimateLag(ref []float64, cand []float64, maxLag int) int {
	if len(ref) == 0 || len(cand) == 0 {
		return 0
	}
	step := 2
	if len(ref) > 200000 || len(cand) > 200000 {
		step = 4
	}
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		s := dotAtLag(ref, cand, lag, step)
		if s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

func dotAtLag(a []float64, b []float64, lag int, step int) float64 {
	var ai, bi int
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := len(a) - ai
	if len(b)-bi < n {
		n = len(b) - bi
	}
	if n <= 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i += step {
		sum += a[ai+i] * b[bi+i]
	}
	return sum
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	o := -lag
	if o >= len(cand) {
		return nil, nil
	}
	return ref, cand[o:]
}

func rmse(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func rms1(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func decaySlopeDBPerS(env []float64, hopSec float64) float64 {
	if len(env) < 8 || hopSec <= 0 {
		return math.NaN()
	}
	peak := -math.MaxFloat64
	peakIdx := 0
	for i, v := range env {
		db := linToDB(v)
		if db > peak {
			peak = db
			peakIdx = i
		}
	}
	start := peakIdx + 1
	if start >= len(env)-4 {
		return math.NaN()
	}

	threshold := peak - 60.0
	end := len(env)
	for i := start; i < len(env); i++ {
		if linToDB(env[i]) < threshold {
			end = i
			break
		}
	}
	if end-start < 6 {
		return math.NaN()
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start)
	for i := start; i < end; i++ {
		x := float64(i-start) * hopSec
		y := linToDB(env[i])
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if math.Abs(den) < 1e-12 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
