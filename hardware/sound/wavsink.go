package sound

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSink renders every speaker toggle to a mono 8-bit WAV stream. It is
// the reference AudioSink used by the cmd/tk2000 harness's
// --capture-audio flag.
type WavSink struct {
	enc *wav.Encoder
}

// NewWavSink wraps w in a wav.Encoder at SampleRate, 8-bit mono PCM. Close
// must be called to finalize the WAV header.
func NewWavSink(w io.WriteSeeker) *WavSink {
	return &WavSink{enc: wav.NewEncoder(w, SampleRate, 8, 1, 1)}
}

// Write implements AudioSink.
func (s *WavSink) Write(samples []byte) error {
	data := make([]int, len(samples))
	for i, b := range samples {
		data[i] = int(b)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           data,
		SourceBitDepth: 8,
	}
	return s.enc.Write(buf)
}

// Close finalizes the WAV file. It must be called once playback ends.
func (s *WavSink) Close() error {
	return s.enc.Close()
}
