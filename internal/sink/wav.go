// ABOUTME: WAV file sink implementation
// ABOUTME: Writes decoded PCM frames to a RIFF/WAVE file via go-audio
package sink

import (
	"fmt"
	"os"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"

	"github.com/harperreed/pcmfeed/pkg/audio"
)

// WavWriter writes decoded frames to a wav file.
type WavWriter struct {
	path    string
	file    *os.File
	encoder *wav.Encoder
	format  audio.Format
}

// NewWavWriter returns a sink that records frames to the wav file at path.
// The file is created on Open, once the stream format is known.
func NewWavWriter(path string) *WavWriter {
	return &WavWriter{path: path}
}

// Open creates the output file and wav encoder for the given format.
func (w *WavWriter) Open(format audio.Format) error {
	if w.encoder != nil {
		return fmt.Errorf("wav sink already open")
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	w.file = f
	w.format = format
	w.encoder = wav.NewEncoder(f, format.SampleRate, format.BitDepth, format.Channels, 1)

	return nil
}

// Write appends one interleaved frame to the wav file.
func (w *WavWriter) Write(samples []int16) error {
	if w.encoder == nil {
		return fmt.Errorf("wav sink not open")
	}

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  w.format.SampleRate,
			NumChannels: w.format.Channels,
		},
		Data:           audio.Int16ToInt(samples),
		SourceBitDepth: w.format.BitDepth,
	}

	if err := w.encoder.Write(&buf); err != nil {
		return fmt.Errorf("wav write failed: %w", err)
	}

	return nil
}

// Close finalizes the wav header and closes the file.
func (w *WavWriter) Close() error {
	if w.encoder == nil {
		return nil
	}

	err := w.encoder.Close()
	w.file.Close()
	w.encoder = nil
	w.file = nil

	if err != nil {
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return nil
}
