package audio

import (
	"encoding/binary"
	"math"
	"sync"
)

// Bus identifies the gain stage a voice is routed through before the master gain.
type Bus int

const (
	// BusAmbient carries looping background beds.
	BusAmbient Bus = iota

	// BusEffects carries one-shot effects.
	BusEffects
)

// bytesPerFrame is the size of one 16-bit stereo frame.
const bytesPerFrame = 4

// Buffer is decoded PCM audio as interleaved stereo float32 samples in [-1, 1].
type Buffer struct {
	SampleRate int
	Samples    []float32
}

// Frames returns the number of stereo frames in the buffer.
func (b *Buffer) Frames() int {
	return len(b.Samples) / 2
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

type voice struct {
	buf  *Buffer
	pos  int
	loop bool
	bus  Bus
}

// Mixer is the audio graph: voices feed the ambient or effects bus, both buses feed the
// master gain. It renders the graph as signed 16-bit little-endian stereo through Read,
// and the number of frames rendered so far is the audio clock gain automation runs on.
type Mixer struct {
	mu         *sync.Mutex
	sampleRate int
	clock      int64

	master *Param
	buses  map[Bus]*Param

	voices map[uint64]*voice
	nextID uint64
}

// NewMixer creates a silent mixer with unity gains.
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{
		mu:         &sync.Mutex{},
		sampleRate: sampleRate,
		master:     NewParam(1),
		buses: map[Bus]*Param{
			BusAmbient: NewParam(1),
			BusEffects: NewParam(1),
		},
		voices: make(map[uint64]*voice),
	}
}

// SampleRate returns the output sample rate.
func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

// Clock returns the number of frames rendered so far.
func (m *Mixer) Clock() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock
}

// Start adds a voice playing buf on bus and returns its handle, or 0 for an empty buffer.
func (m *Mixer) Start(buf *Buffer, bus Bus, loop bool) uint64 {
	if buf == nil || buf.Frames() == 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.voices[m.nextID] = &voice{buf: buf, loop: loop, bus: bus}
	return m.nextID
}

// Stop removes a voice. Returns false if it already finished or never existed.
func (m *Mixer) Stop(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.voices[id]; !ok {
		return false
	}
	delete(m.voices, id)
	return true
}

// StopAll removes every voice.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.voices)
}

// Playing reports whether the voice is still sounding.
func (m *Mixer) Playing(id uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.voices[id]
	return ok
}

// Voices returns the number of active voices.
func (m *Mixer) Voices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// SetBusGain sets a bus gain immediately.
func (m *Mixer) SetBusGain(bus Bus, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.buses[bus]; ok {
		p.SetValue(v)
	}
}

// SetMasterGain sets the master gain immediately, cancelling any ramp.
func (m *Mixer) SetMasterGain(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master.SetValue(v)
}

// RampMaster schedules a linear master gain ramp starting at the current clock.
// The ramp replaces any ramp in flight.
func (m *Mixer) RampMaster(from, to float64, frames int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master.LinearRamp(from, to, m.clock, frames)
}

// MasterGain returns the master gain at the current clock.
func (m *Mixer) MasterGain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master.ValueAt(m.clock)
}

// MasterGainAt returns the master gain at an absolute clock position.
func (m *Mixer) MasterGainAt(sample int64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.master.ValueAt(sample)
}

// Read renders len(p)/4 frames of the graph. It never returns io.EOF; with no voices it
// renders silence.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(p) / bytesPerFrame
	ambient, effects := m.buses[BusAmbient], m.buses[BusEffects]

	for f := range frames {
		var l, r float64
		for id, v := range m.voices {
			gain := ambient.ValueAt(m.clock)
			if v.bus == BusEffects {
				gain = effects.ValueAt(m.clock)
			}
			l += float64(v.buf.Samples[v.pos*2]) * gain
			r += float64(v.buf.Samples[v.pos*2+1]) * gain

			v.pos++
			if v.pos >= v.buf.Frames() {
				if !v.loop {
					delete(m.voices, id)
					continue
				}
				v.pos = 0
			}
		}

		g := m.master.ValueAt(m.clock)
		binary.LittleEndian.PutUint16(p[f*bytesPerFrame:], uint16(toPCM16(l*g)))
		binary.LittleEndian.PutUint16(p[f*bytesPerFrame+2:], uint16(toPCM16(r*g)))
		m.clock++
	}
	return frames * bytesPerFrame, nil
}

func toPCM16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}
