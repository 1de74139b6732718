package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

// Frame geometry for the pitch track inside Compare.
const (
	pitchFFTSize = 4096
	pitchHop     = 1024
)

// pitchEnergyFloor marks frames too quiet to carry a pitch; such frames
// report 0 and are skipped by the cents comparison.
const pitchEnergyFloor = 1e-4

// PitchTrack estimates the dominant frequency of x once per hop using
// Hann-windowed frames and a real FFT plan, refined to sub-bin accuracy by
// parabolic interpolation of the log magnitudes around the peak. Frames
// below the energy floor yield 0. Signals shorter than one frame yield an
// empty track.
func PitchTrack(x []float64, sampleRate int, fftSize int, hop int) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0, got %d", sampleRate)
	}
	if fftSize <= 0 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("fft size must be a power of two, got %d", fftSize)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("hop must be > 0, got %d", hop)
	}
	if len(x) < fftSize {
		return nil, nil
	}

	plan, err := algofft.NewPlanReal64(fftSize)
	if err != nil {
		return nil, err
	}

	hann := make([]float64, fftSize)
	for i := range hann {
		hann[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(fftSize-1))
	}

	spec := make([]complex128, fftSize/2+1)
	buf := make([]float64, fftSize)
	nBins := fftSize / 2

	track := make([]float64, 0, 1+(len(x)-fftSize)/hop)
	for pos := 0; pos+fftSize <= len(x); pos += hop {
		frame := x[pos : pos+fftSize]
		if rms1(frame) < pitchEnergyFloor {
			track = append(track, 0)
			continue
		}
		for i := 0; i < fftSize; i++ {
			buf[i] = frame[i] * hann[i]
		}
		plan.Forward(spec, buf)

		bestBin := 0
		bestMag := 0.0
		for k := 1; k < nBins; k++ {
			if mag := cmplx.Abs(spec[k]); mag > bestMag {
				bestMag = mag
				bestBin = k
			}
		}
		if bestBin == 0 {
			track = append(track, 0)
			continue
		}

		bin := float64(bestBin)
		if bestBin > 1 && bestBin < nBins-1 {
			m0 := linToDB(cmplx.Abs(spec[bestBin-1]))
			m1 := linToDB(bestMag)
			m2 := linToDB(cmplx.Abs(spec[bestBin+1]))
			den := m0 - 2*m1 + m2
			if math.Abs(den) > 1e-12 {
				bin += 0.5 * (m0 - m2) / den
			}
		}
		track = append(track, bin*float64(sampleRate)/float64(fftSize))
	}
	return track, nil
}

// pitchRMSECents compares two pitch tracks in cents, skipping frames where
// either side carries no pitch.
func pitchRMSECents(ref []float64, cand []float64) float64 {
	n := len(ref)
	if len(cand) < n {
		n = len(cand)
	}
	var sum float64
	voiced := 0
	for i := 0; i < n; i++ {
		if ref[i] <= 0 || cand[i] <= 0 {
			continue
		}
		d := 1200 * math.Log2(cand[i]/ref[i])
		sum += d * d
		voiced++
	}
	if voiced == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(voiced))
}
