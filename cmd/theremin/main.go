package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-theremin/device"
	"github.com/cwbudde/algo-theremin/preset"
	"github.com/cwbudde/algo-theremin/theremin"
	"github.com/veandco/go-sdl2/sdl"
)

var logger = slog.Default()

func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func main() {
	// Command-line flags
	list := flag.Bool("list", false, "List attached joysticks and exit")
	joyIndex := flag.Int("joystick", 0, "Joystick index to open")
	pitchAxis := flag.Int("pitch-axis", 4, "Joystick axis controlling pitch")
	volumeAxis := flag.Int("volume-axis", 1, "Joystick axis controlling loudness")
	presetPath := flag.String("preset", "", "Preset JSON file path (optional)")
	octaves := flag.Float64("octaves", 0, "Pitch band width in octaves (0 = keep preset)")
	decay := flag.Float64("decay", 0, "Envelope decay rate in 1/s (0 = keep preset)")
	waveform := flag.String("waveform", "", "Initial waveform: sine, sawtooth, triangle, square")
	sampleRate := flag.Int("sample-rate", 48000, "Output sample rate in Hz")
	verbose := flag.Bool("verbose", false, "Log every control event")
	flag.Parse()

	initLogger(*verbose)

	params, err := loadParams(*presetPath, *octaves, *decay, *waveform)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := device.InitJoysticks(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer device.QuitJoysticks()

	if *list {
		infos := device.ListJoysticks()
		if len(infos) == 0 {
			fmt.Println("No joysticks attached")
			return
		}
		for _, info := range infos {
			fmt.Printf("%d: %s (%d axes, %d buttons)\n", info.Index, info.Name, info.Axes, info.Buttons)
		}
		return
	}

	joy, err := device.OpenJoystick(*joyIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer joy.Close()

	fmt.Printf("Opened Joystick %d\n", *joyIndex)
	fmt.Printf("Name: %s\n", joy.Name())
	fmt.Printf("Number of Axes: %d\n", joy.Axes())
	fmt.Printf("Number of Buttons: %d\n", joy.Buttons())

	engine, err := theremin.NewEngine(*sampleRate, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	controls := theremin.NewControls(engine)

	out, err := device.NewOutput(*sampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	out.Start(engine)

	fmt.Printf("Playing at %d Hz (axis %d = pitch, axis %d = loudness, any button = waveform)\n",
		*sampleRate, *pitchAxis, *volumeAxis)

	pAxis := uint8(*pitchAxis)
	vAxis := uint8(*volumeAxis)
	id := joy.InstanceID()

	running := true
	for running {
		event := sdl.WaitEventTimeout(250)
		if event == nil {
			continue
		}
		switch ev := event.(type) {
		case *sdl.JoyAxisEvent:
			if ev.Which != id {
				break
			}
			switch ev.Axis {
			case vAxis:
				controls.SetLoudnessAxis(ev.Value)
				logger.Debug("loudness", "raw", ev.Value, "volume", controls.LoudnessVolume(ev.Value))
			case pAxis:
				controls.SetPitchAxis(ev.Value)
				logger.Debug("pitch", "raw", ev.Value, "freq", controls.PitchFrequency(ev.Value))
			}
		case *sdl.JoyButtonEvent:
			if ev.Which == id && ev.Type == sdl.JOYBUTTONDOWN {
				fmt.Printf("Waveform: %s\n", controls.CycleWaveform())
			}
		case *sdl.JoyDeviceRemovedEvent:
			if sdl.JoystickID(ev.Which) == id {
				logger.Info("joystick removed")
				running = false
			}
		case *sdl.KeyboardEvent:
			if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
				running = false
			}
		case *sdl.QuitEvent:
			running = false
		}
	}

	// Fade to silence before tearing the device down, otherwise the stream
	// stops mid-waveform with a pop.
	controls.Silence()
	time.Sleep(theremin.FadeOutWait)

	if err := out.Close(); err != nil {
		logger.Warn("close audio", "err", err)
	}
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
