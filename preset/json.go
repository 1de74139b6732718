package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-theremin/theremin"
)

// File is the JSON schema for theremin presets. Absent fields keep their
// defaults.
type File struct {
	Octaves        *float64 `json:"octaves"`
	DecayRate      *float64 `json:"decay_rate"`
	SnapThreshold  *float64 `json:"snap_threshold"`
	ReferencePitch *float64 `json:"reference_pitch"`
	MaxVolume      *float64 `json:"max_volume"`
	Waveform       string   `json:"waveform"`
}

// LoadJSON loads a preset JSON file and applies it on top of default params.
func LoadJSON(path string) (*theremin.Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}

	p := theremin.NewDefaultParams()
	if err := ApplyFile(p, &f); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyFile applies a parsed preset file onto an existing params object.
func ApplyFile(dst *theremin.Params, f *File) error {
	if dst == nil {
		return fmt.Errorf("nil destination params")
	}
	if f == nil {
		return nil
	}

	if f.Octaves != nil {
		if *f.Octaves <= 0 || *f.Octaves > 10 {
			return fmt.Errorf("octaves must be in (0, 10]")
		}
		dst.Octaves = *f.Octaves
	}
	if f.DecayRate != nil {
		if *f.DecayRate <= 0 {
			return fmt.Errorf("decay_rate must be > 0")
		}
		dst.DecayRate = *f.DecayRate
	}
	if f.SnapThreshold != nil {
		if *f.SnapThreshold <= 0 || *f.SnapThreshold >= 1 {
			return fmt.Errorf("snap_threshold must be in (0, 1)")
		}
		dst.SnapThreshold = *f.SnapThreshold
	}
	if f.ReferencePitch != nil {
		if *f.ReferencePitch <= 0 {
			return fmt.Errorf("reference_pitch must be > 0")
		}
		dst.ReferencePitch = *f.ReferencePitch
	}
	if f.MaxVolume != nil {
		if *f.MaxVolume <= 0 || *f.MaxVolume > 32768 {
			return fmt.Errorf("max_volume must be in (0, 32768]")
		}
		dst.MaxVolume = *f.MaxVolume
	}
	if name := strings.TrimSpace(f.Waveform); name != "" {
		w, err := theremin.ParseWaveform(name)
		if err != nil {
			return err
		}
		dst.Waveform = w
	}
	return nil
}
