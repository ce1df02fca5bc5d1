package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrUnsupportedFormat is returned when a sound is neither WAV, MP3 nor Ogg Vorbis.
var ErrUnsupportedFormat = errors.New("audio: unsupported format")

// Format is a container/codec the decoder understands.
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatMP3
	FormatOGG
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	case FormatOGG:
		return "ogg"
	}
	return "unknown"
}

// DetectFormat sniffs the data's magic bytes, falling back to the name's extension.
func DetectFormat(name string, data []byte) Format {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return FormatWAV
	case len(data) >= 4 && string(data[0:4]) == "OggS":
		return FormatOGG
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}

	ext := strings.ToLower(path.Ext(name))
	if i := strings.IndexAny(ext, "?#"); i >= 0 {
		ext = ext[:i]
	}
	switch ext {
	case ".wav", ".wave":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOGG
	}
	return FormatUnknown
}

// Decode decodes an encoded sound into a Buffer resampled to sampleRate.
//
// Parameters:
//   - name: the source path or URL, used for extension based detection
//   - data: the encoded bytes
//   - sampleRate: the output sample rate
//
// Returns:
//   - *Buffer: the decoded stereo PCM
//   - error: ErrUnsupportedFormat or a wrapped decoder error
func Decode(name string, data []byte, sampleRate int) (*Buffer, error) {
	var (
		stream io.Reader
		err    error
	)
	format := DetectFormat(name, data)
	switch format {
	case FormatWAV:
		stream, err = wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case FormatMP3:
		stream, err = mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case FormatOGG:
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", format, name, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", format, name, err)
	}
	return pcm16ToBuffer(pcm, sampleRate), nil
}

// pcm16ToBuffer converts signed 16-bit little-endian stereo to float samples.
func pcm16ToBuffer(pcm []byte, sampleRate int) *Buffer {
	n := len(pcm) / bytesPerFrame * 2
	samples := make([]float32, n)
	for i := range n {
		samples[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768
	}
	return &Buffer{SampleRate: sampleRate, Samples: samples}
}
