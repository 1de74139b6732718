package gesture

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/cwbudde/algo-theremin/theremin"
)

// Event is one timed control change. Axis values use the raw signed 16-bit
// range a joystick reports; nil means the axis is untouched by this event.
type Event struct {
	At            float64 `json:"at"`
	PitchAxis     *int    `json:"pitch_axis,omitempty"`
	LoudnessAxis  *int    `json:"loudness_axis,omitempty"`
	CycleWaveform bool    `json:"cycle_waveform,omitempty"`
}

// Script is a sequence of events replayed against a Controls during an
// offline render. Events are kept sorted by time; simultaneous events stay
// in file order.
type Script struct {
	Events []Event `json:"events"`
}

// Load reads a script from a JSON file and sorts its events by time.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gesture: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse gesture: %w", err)
	}
	if len(s.Events) == 0 {
		return nil, fmt.Errorf("gesture has no events: %s", path)
	}
	for i := range s.Events {
		if err := validateEvent(&s.Events[i]); err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
	}
	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].At < s.Events[j].At
	})
	return &s, nil
}

func validateEvent(e *Event) error {
	if math.IsNaN(e.At) || math.IsInf(e.At, 0) || e.At < 0 {
		return fmt.Errorf("at must be >= 0, got %g", e.At)
	}
	if e.PitchAxis != nil {
		if v := *e.PitchAxis; v < math.MinInt16 || v > math.MaxInt16 {
			return fmt.Errorf("pitch_axis must be in [-32768, 32767], got %d", v)
		}
	}
	if e.LoudnessAxis != nil {
		if v := *e.LoudnessAxis; v < math.MinInt16 || v > math.MaxInt16 {
			return fmt.Errorf("loudness_axis must be in [-32768, 32767], got %d", v)
		}
	}
	return nil
}

// Default returns a built-in performance: a sweep across the full pitch band
// at half loudness, a waveform change on the way, and a fade to silence at
// the end. Used by the offline tools when no script is given.
func Default() *Script {
	const (
		sweepStart = 0.05
		sweepEnd   = 2.45
		steps      = 48
	)
	s := &Script{}
	s.Events = append(s.Events, Event{At: 0, LoudnessAxis: axis(0)})
	for i := 0; i <= steps; i++ {
		frac := float64(i) / steps
		s.Events = append(s.Events, Event{
			At:        sweepStart + (sweepEnd-sweepStart)*frac,
			PitchAxis: axis(math.MinInt16 + int(65535*frac)),
		})
	}
	s.Events = append(s.Events, Event{At: 2.6, CycleWaveform: true})
	s.Events = append(s.Events, Event{At: 3.0, LoudnessAxis: axis(math.MinInt16)})
	return s
}

func axis(v int) *int {
	return &v
}

// End returns the time of the last event in seconds, or 0 for an empty
// script.
func (s *Script) End() float64 {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].At
}

const renderBlock = 256

// Render replays the script against a fresh engine and returns the rendered
// signal. Events land on their exact sample: the block loop splits at event
// boundaries, so block size never shifts timing.
func (s *Script) Render(params *theremin.Params, sampleRate int, seconds float64) ([]int16, error) {
	return s.RenderWithProgress(params, sampleRate, seconds, nil)
}

// RenderWithProgress is Render with a per-block progress callback. onProgress
// may be nil; it runs on the calling goroutine.
func (s *Script) RenderWithProgress(params *theremin.Params, sampleRate int, seconds float64, onProgress func(rendered, total int)) ([]int16, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0, got %d", sampleRate)
	}
	if seconds <= 0 || math.IsNaN(seconds) {
		return nil, fmt.Errorf("duration must be > 0, got %g", seconds)
	}
	engine, err := theremin.NewEngine(sampleRate, params)
	if err != nil {
		return nil, err
	}
	controls := theremin.NewControls(engine)

	total := int(seconds * float64(sampleRate))
	out := make([]int16, total)
	next := 0
	for cursor := 0; cursor < total; {
		for next < len(s.Events) && eventSample(s.Events[next].At, sampleRate) <= cursor {
			applyEvent(controls, &s.Events[next])
			next++
		}
		end := cursor + renderBlock
		if end > total {
			end = total
		}
		if next < len(s.Events) {
			if es := eventSample(s.Events[next].At, sampleRate); es > cursor && es < end {
				end = es
			}
		}
		engine.Render(out[cursor:end])
		cursor = end
		if onProgress != nil {
			onProgress(cursor, total)
		}
	}
	return out, nil
}

func eventSample(at float64, sampleRate int) int {
	return int(math.Round(at * float64(sampleRate)))
}

func applyEvent(c *theremin.Controls, e *Event) {
	if e.PitchAxis != nil {
		c.SetPitchAxis(int16(*e.PitchAxis))
	}
	if e.LoudnessAxis != nil {
		c.SetLoudnessAxis(int16(*e.LoudnessAxis))
	}
	if e.CycleWaveform {
		c.CycleWaveform()
	}
}
