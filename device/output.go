package device

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// SampleSource produces signed 16-bit mono samples. Render is called from
// the audio goroutine, so implementations must be safe to call concurrently
// with control updates.
type SampleSource interface {
	Render(dst []int16)
}

// Output streams a SampleSource to the default audio device as mono
// signed-16-bit little-endian PCM.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewOutput opens the audio device and blocks until it is ready.
func NewOutput(sampleRate int) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready
	return &Output{ctx: ctx}, nil
}

// Start begins pulling samples from src. Repeated calls are no-ops.
func (o *Output) Start(src SampleSource) {
	if o.player != nil {
		return
	}
	o.player = o.ctx.NewPlayer(&sourceReader{src: src})
	o.player.Play()
}

func (o *Output) Pause() {
	if o.player != nil {
		o.player.Pause()
	}
}

func (o *Output) Resume() {
	if o.player != nil {
		o.player.Play()
	}
}

func (o *Output) Close() error {
	if o.player == nil {
		return nil
	}
	return o.player.Close()
}

// sourceReader adapts a SampleSource to the io.Reader oto pulls from. The
// scratch buffer is reused across calls; oto serializes Reads on one
// goroutine.
type sourceReader struct {
	src     SampleSource
	scratch []int16
}

func (r *sourceReader) Read(p []byte) (int, error) {
	frames := len(p) / 2
	if frames == 0 {
		return 0, nil
	}
	if cap(r.scratch) < frames {
		r.scratch = make([]int16, frames)
	}
	buf := r.scratch[:frames]
	r.src.Render(buf)
	for i, v := range buf {
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
	}
	return frames * 2, nil
}
