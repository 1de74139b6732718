package main

import fitcommon "github.com/cwbudde/algo-theremin/internal/fitcommon"

func readWAVMono(path string) ([]float64, int, error) {
	return fitcommon.ReadWAVMono(path)
}

func resampleIfNeeded(in []float64, fromRate int, toRate int) ([]float64, error) {
	return fitcommon.ResampleIfNeeded(in, fromRate, toRate)
}
