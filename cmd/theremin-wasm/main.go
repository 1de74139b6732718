//go:build js && wasm

package main

import (
	"math"
	"syscall/js"
	"unsafe"

	"github.com/cwbudde/algo-theremin/theremin"
)

var (
	globalEngine   *theremin.Engine
	globalControls *theremin.Controls
	renderScratch  []int16
	outputBuffer   []float32
)

func main() {
	// Keep program running
	c := make(chan struct{})

	// Export functions to JavaScript
	js.Global().Set("wasmInit", js.FuncOf(wasmInit))
	js.Global().Set("wasmSetPitchAxis", js.FuncOf(wasmSetPitchAxis))
	js.Global().Set("wasmSetLoudnessAxis", js.FuncOf(wasmSetLoudnessAxis))
	js.Global().Set("wasmCycleWaveform", js.FuncOf(wasmCycleWaveform))
	js.Global().Set("wasmSilence", js.FuncOf(wasmSilence))
	js.Global().Set("wasmProcessBlock", js.FuncOf(wasmProcessBlock))
	js.Global().Set("wasmGetMemoryBuffer", js.FuncOf(wasmGetMemoryBuffer))

	println("WASM theremin module loaded")
	<-c
}

func wasmInit(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	sampleRate := args[0].Int()

	params := theremin.NewDefaultParams()
	engine, err := theremin.NewEngine(sampleRate, params)
	if err != nil {
		println("Theremin init failed:", err.Error())
		return nil
	}
	globalEngine = engine
	globalControls = theremin.NewControls(engine)

	// Pre-allocate output buffer for 128 mono frames
	renderScratch = make([]int16, 128)
	outputBuffer = make([]float32, 128)

	println("Theremin initialized at", sampleRate, "Hz")
	return nil
}

func wasmSetPitchAxis(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalControls == nil {
		return nil
	}
	globalControls.SetPitchAxis(clampAxis(args[0].Int()))
	return nil
}

func wasmSetLoudnessAxis(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalControls == nil {
		return nil
	}
	globalControls.SetLoudnessAxis(clampAxis(args[0].Int()))
	return nil
}

func wasmCycleWaveform(this js.Value, args []js.Value) interface{} {
	if globalControls == nil {
		return nil
	}
	return js.ValueOf(globalControls.CycleWaveform().String())
}

func wasmSilence(this js.Value, args []js.Value) interface{} {
	if globalControls == nil {
		return nil
	}
	globalControls.Silence()
	return nil
}

func wasmProcessBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || globalEngine == nil {
		return 0
	}

	numFrames := args[0].Int()
	if numFrames > 128 {
		numFrames = 128
	}
	if numFrames < 1 {
		return 0
	}

	globalEngine.Render(renderScratch[:numFrames])

	// Rescale to the [-1, 1] float frames the AudioWorklet consumes.
	for i := 0; i < numFrames; i++ {
		outputBuffer[i] = float32(renderScratch[i]) / 32768.0
	}

	// Return pointer to buffer in WASM linear memory
	ptr := &outputBuffer[0]
	return js.ValueOf(uintptr(unsafe.Pointer(ptr)))
}

func wasmGetMemoryBuffer(this js.Value, args []js.Value) interface{} {
	// Return WASM memory buffer for access from JS
	return js.Global().Get("Go").Get("_inst").Get("exports").Get("mem").Get("buffer")
}

func clampAxis(v int) int16 {
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}
