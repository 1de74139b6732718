package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fitcommon "github.com/cwbudde/algo-theremin/internal/fitcommon"
	"github.com/cwbudde/algo-theremin/internal/gesture"
	"github.com/cwbudde/algo-theremin/preset"
	"github.com/cwbudde/algo-theremin/theremin"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/schollz/progressbar/v3"
)

func main() {
	// Command-line flags
	gesturePath := flag.String("gesture", "", "Gesture JSON file (default: built-in sweep)")
	duration := flag.Float64("duration", 0, "Render duration in seconds (0 = gesture end + 0.5s)")
	sampleRate := flag.Int("sample-rate", 48000, "Render sample rate in Hz")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	octaves := flag.Float64("octaves", 0, "Pitch band width in octaves (0 = keep preset)")
	decay := flag.Float64("decay", 0, "Envelope decay rate in 1/s (0 = keep preset)")
	waveform := flag.String("waveform", "", "Initial waveform: sine, sawtooth, triangle, square")
	output := flag.String("output", "output.wav", "Output file path (.wav, .aif or .aiff)")
	chartPath := flag.String("chart", "", "Write an HTML page of envelope and pitch charts (optional)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	flag.Parse()

	params, err := loadParams(*presetPath, *octaves, *decay, *waveform)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	script := gesture.Default()
	if *gesturePath != "" {
		script, err = gesture.Load(*gesturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	seconds := *duration
	if seconds <= 0 {
		seconds = script.End() + 0.5
	}

	if !*quiet {
		fmt.Printf("Rendering %.2f seconds at %d Hz (%d events, waveform %s)...\n",
			seconds, *sampleRate, len(script.Events), params.Waveform)
	}

	// progress will be a number 0-100
	progress := make(chan int)
	errors := make(chan error)
	done := make(chan []int16)

	bar := progressbar.NewOptions(
		100,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("rendering..."),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]=[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	go func() {
		last := -1
		out, err := script.RenderWithProgress(params, *sampleRate, seconds, func(rendered, total int) {
			pct := rendered * 100 / total
			if pct != last {
				last = pct
				progress <- pct
			}
		})
		if err != nil {
			errors <- err
			return
		}
		done <- out
	}()

	var samples []int16
	wait := true
	for wait {
		select {
		case err := <-errors:
			fmt.Fprintf(os.Stderr, "\nRender error: %v\n", err)
			os.Exit(1)
		case p := <-progress:
			if !*quiet {
				bar.Set(p)
			}
		case samples = <-done:
			wait = false
		}
	}
	if !*quiet {
		fmt.Println()
	}

	if err := writeByExtension(*output, samples, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *output, err)
		os.Exit(1)
	}
	if !*quiet {
		fmt.Printf("Wrote %s (%d frames)\n", *output, len(samples))
	}

	if *chartPath != "" {
		if err := writeCharts(*chartPath, samples, *sampleRate); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *chartPath, err)
			os.Exit(1)
		}
		if !*quiet {
			fmt.Printf("Wrote %s\n", *chartPath)
		}
	}
}

func writeByExtension(path string, samples []int16, sampleRate int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return fitcommon.WriteMonoWAV(path, fitcommon.Int16ToFloat32Norm(samples), sampleRate)
	case ".aif", ".aiff":
		return writeMonoAIFF(path, samples, sampleRate)
	default:
		return fmt.Errorf("unsupported extension %q (use .wav, .aif or .aiff)", filepath.Ext(path))
	}
}

func writeMonoAIFF(path string, samples []int16, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := aiff.NewEncoder(f, sampleRate, 16, 1)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func loadParams(path string, octaves, decay float64, waveform string) (*theremin.Params, error) {
	params := theremin.NewDefaultParams()
	if path != "" {
		loaded, err := preset.LoadJSON(path)
		if err != nil {
			return nil, fmt.Errorf("loading preset %q: %w", path, err)
		}
		params = loaded
	}
	if octaves != 0 {
		params.Octaves = octaves
	}
	if decay != 0 {
		params.DecayRate = decay
	}
	if waveform != "" {
		w, err := theremin.ParseWaveform(waveform)
		if err != nil {
			return nil, err
		}
		params.Waveform = w
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}
