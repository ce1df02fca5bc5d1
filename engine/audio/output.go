package audio

import (
	"fmt"
	"io"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Output is the device sink the mixer is streamed into.
type Output interface {
	// Start begins pulling signed 16-bit stereo from r on the device's own goroutine.
	Start(r io.Reader) error

	// Close stops playback and releases the device stream.
	Close() error
}

// OutputFactory opens an Output at the given sample rate.
type OutputFactory func(sampleRate int) (Output, error)

type ebitenOutput struct {
	ctx    *audio.Context
	player *audio.Player
}

var _ Output = &ebitenOutput{}

// NewEbitenOutput opens the process-wide ebiten audio context. The context cannot be
// closed, so a later call reuses it and must ask for the same sample rate.
func NewEbitenOutput(sampleRate int) (Output, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("audio: context already running at %d Hz", ctx.SampleRate())
	}
	return &ebitenOutput{ctx: ctx}, nil
}

func (o *ebitenOutput) Start(r io.Reader) error {
	if o.player != nil {
		return nil
	}
	p, err := o.ctx.NewPlayer(r)
	if err != nil {
		return fmt.Errorf("audio: new player: %w", err)
	}
	p.SetBufferSize(100 * time.Millisecond)
	p.Play()
	o.player = p
	return nil
}

func (o *ebitenOutput) Close() error {
	if o.player == nil {
		return nil
	}
	p := o.player
	o.player = nil
	return p.Close()
}
