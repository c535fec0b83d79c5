// ABOUTME: Oto-based speaker sink implementation
// ABOUTME: Plays decoded PCM frames through the system audio device
package sink

import (
	"fmt"
	"io"
	"log"

	"github.com/ebitengine/oto/v3"

	"github.com/harperreed/pcmfeed/pkg/audio"
)

// Speaker plays decoded frames through the default audio device using oto.
type Speaker struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	format     audio.Format
	ready      bool
}

// NewSpeaker creates a speaker sink. The device is opened lazily in Open.
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// Open initializes the audio device for the given format.
func (s *Speaker) Open(format audio.Format) error {
	// oto only supports 16-bit output
	if format.BitDepth != 16 {
		log.Printf("Warning: speaker only supports 16-bit output, ignoring requested bitDepth=%d", format.BitDepth)
	}

	// If already initialized with same format, reuse the existing context
	if s.otoCtx != nil && s.format.SampleRate == format.SampleRate && s.format.Channels == format.Channels {
		return nil
	}

	// oto only allows one context per process; a format change after the
	// first Open keeps the existing context.
	if s.otoCtx != nil {
		log.Printf("Warning: format change (%dHz %dch -> %dHz %dch) but the audio context cannot be reinitialized. Continuing with existing context.",
			s.format.SampleRate, s.format.Channels, format.SampleRate, format.Channels)
		return nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-readyChan

	s.otoCtx = ctx
	s.format = format

	// Persistent player fed through a pipe so writes stream continuously.
	s.pipeReader, s.pipeWriter = io.Pipe()
	s.player = s.otoCtx.NewPlayer(s.pipeReader)
	s.player.Play()

	s.ready = true

	log.Printf("Speaker initialized: %dHz, %d channels", format.SampleRate, format.Channels)

	return nil
}

// Write plays one interleaved frame (blocks until buffered by the device).
func (s *Speaker) Write(samples []int16) error {
	if !s.ready {
		return fmt.Errorf("speaker not initialized")
	}

	if _, err := s.pipeWriter.Write(audio.Int16ToBytes(samples)); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Close releases the audio device.
func (s *Speaker) Close() error {
	if s.pipeWriter != nil {
		s.pipeWriter.Close()
		s.pipeWriter = nil
	}
	if s.player != nil {
		s.player.Close()
		s.player = nil
	}
	if s.pipeReader != nil {
		s.pipeReader.Close()
		s.pipeReader = nil
	}
	if s.otoCtx != nil {
		s.otoCtx.Suspend()
		s.ready = false
	}
	return nil
}
