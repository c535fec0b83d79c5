// ABOUTME: Core streaming decode pipeline with double-buffered PCM output
// ABOUTME: Coordinates ring refills, sync scanning, probing and frame decodes
package stream

import (
	"fmt"
	"io"

	"github.com/harperreed/pcmfeed/pkg/audio"
	"github.com/harperreed/pcmfeed/pkg/audio/framedec"
)

// syncMargin is the unread tail kept when skipping a garbage window, so a
// sync pattern split across a refill boundary is not lost.
const syncMargin = 16

// Config holds optional Stream construction parameters.
type Config struct {
	// Output supplies backing storage for both frame buffers. When it
	// holds at least two frames' worth of samples, both regions are
	// carved from it and nothing is allocated; the caller keeps
	// ownership. Smaller (or nil) buffers are ignored and two regions
	// are allocated instead.
	Output []int16

	// InputBufferSize overrides the input ring capacity in bytes.
	// Defaults to 2048.
	InputBufferSize int
}

// BufferInfo describes the delivery contract of a Stream for an audio
// output driver.
type BufferInfo struct {
	SingleBuffer bool // always false: per-channel views into one buffer
	Signed       bool // always true: 16-bit signed PCM
	MaxSize      int  // one frame's byte length
	Spacing      int  // sample distance for single-channel reads
}

// Stream is a streaming decode pipeline: compressed bytes are pulled from a
// seekable source through a fixed input ring, frame boundaries are
// recovered by sync scanning, and each frame is decoded into one of two
// equally sized PCM regions so a consumer can drain one frame while the
// next is produced.
//
// A Stream is single-threaded and non-reentrant: every operation blocks the
// caller until the source read or the decode completes, and no internal
// synchronization exists. Treat each instance as exclusively owned by one
// logical caller.
type Stream struct {
	src  io.ReadSeeker
	dec  framedec.Decoder
	ring *inputRing

	format       audio.Format
	frameSamples int

	out      [2][]int16
	borrowed bool

	// bufferIndex names the most recently decoded region (the back
	// buffer holding the next frame); the other region is the front
	// being drained. readCount counts completed decode periods and
	// progress counts reads per channel; a decode triggers when a
	// channel's progress catches up to readCount.
	bufferIndex int
	readCount   int
	progress    [2]int

	// finalStatus latches the first non-More decode outcome so every
	// channel observes the end of the stream, not just the one whose
	// read triggered the failing decode. Cleared by Reset.
	finalStatus Status
	finalErr    error

	closed bool
}

// New constructs a pipeline over src using dec to locate and decode frames.
// The stream takes ownership of dec and closes it with Close. Construction
// synchronizes to the first frame, probes its metadata to size the output
// regions, and decodes it so the first GetBuffer call hands out real data.
func New(src io.ReadSeeker, dec framedec.Decoder, cfg Config) (*Stream, error) {
	size := cfg.InputBufferSize
	if size <= 0 {
		size = defaultInputSize
	}

	s := &Stream{src: src, dec: dec, ring: newInputRing(size)}

	found, err := s.findSync()
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("initial sync: %w", err)
	}
	if !found {
		dec.Close()
		return nil, fmt.Errorf("%w: no frame sync found", ErrMalformedStream)
	}

	info, err := dec.PeekInfo(s.ring.window())
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: probe failed: %v", ErrMalformedStream, err)
	}
	if info.Channels < 1 || info.Channels > 2 {
		dec.Close()
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrMalformedStream, info.Channels)
	}
	if info.FrameSamples <= 0 {
		dec.Close()
		return nil, fmt.Errorf("%w: frame decodes to no samples", ErrMalformedStream)
	}

	s.format = audio.Format{
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
		BitDepth:   16,
	}
	s.frameSamples = info.FrameSamples

	if len(cfg.Output) >= 2*info.FrameSamples {
		// Region length rounds down to a frame multiple so a frame
		// never straddles the halves.
		half := len(cfg.Output) / 2 / info.FrameSamples * info.FrameSamples
		s.out[0] = cfg.Output[:half]
		s.out[1] = cfg.Output[half : 2*half]
		s.borrowed = true
	} else {
		s.out[0] = make([]int16, info.FrameSamples)
		s.out[1] = make([]int16, info.FrameSamples)
	}

	// Prime region 0 with the first frame.
	n, err := dec.DecodeFrame(s.ring.window(), s.out[0][:s.frameSamples])
	s.ring.consume(n)
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("%w: first frame undecodable: %v", ErrMalformedStream, err)
	}

	return s, nil
}

// findSync aligns the read cursor on the next frame sync pattern, skipping
// garbage windows until the decoder reports a hit or the stream ends. On a
// hit the ring is refilled once more so the decoder has lookahead.
func (s *Stream) findSync() (bool, error) {
	for {
		if _, err := s.ring.refill(s.src); err != nil {
			return false, err
		}
		if off := s.dec.FindSync(s.ring.window()); off >= 0 {
			s.ring.consume(off)
			if _, err := s.ring.refill(s.src); err != nil {
				return false, err
			}
			return true, nil
		}
		s.ring.consume(s.ring.bytesLeft() - syncMargin)
		if s.ring.eof {
			return false, nil
		}
	}
}

// decodeNext swaps the output regions, re-synchronizes the input and
// decodes one frame into the new back region.
func (s *Stream) decodeNext() (Status, error) {
	s.bufferIndex = 1 - s.bufferIndex

	found, err := s.findSync()
	if err != nil {
		return StatusError, err
	}
	if !found {
		if s.ring.eof {
			return StatusDone, nil
		}
		return StatusError, ErrDesync
	}

	n, err := s.dec.DecodeFrame(s.ring.window(), s.out[s.bufferIndex][:s.frameSamples])
	s.ring.consume(n)
	if err != nil {
		// Undecodable after a good sync marks the end of playable data.
		return StatusDone, nil
	}
	return StatusMore, nil
}

// GetBuffer hands the front region to the consumer as a strided view of
// channel. With singleChannel false the whole interleaved frame is returned
// and channel is ignored. A decode of the next frame is triggered exactly
// when every active channel has drained the current one, so a frame is
// produced once per frame period rather than once per channel read.
//
// Status is StatusMore with a valid view, or StatusDone/StatusError with an
// empty one. A terminal status sticks: once the stream ends, every later
// call on any channel reports it, until a Reset.
func (s *Stream) GetBuffer(singleChannel bool, channel int) (ChannelView, Status, error) {
	if s.closed {
		return ChannelView{}, StatusError, fmt.Errorf("stream is closed")
	}
	if !singleChannel {
		channel = 0
	}
	if channel < 0 || channel >= s.format.Channels {
		return ChannelView{}, StatusError, fmt.Errorf("channel %d out of range for %d-channel stream", channel, s.format.Channels)
	}
	if s.finalStatus != StatusMore {
		return ChannelView{}, s.finalStatus, s.finalErr
	}

	prev := s.progress[channel]
	s.progress[channel]++
	need := prev == s.readCount

	// The trigger call promotes the back region to front and decodes
	// the next frame into the other one; later calls in the same frame
	// period must read that same front, not the freshly filled back.
	front := s.bufferIndex
	if !need {
		front = 1 - s.bufferIndex
	}
	view := ChannelView{
		Samples: s.out[front][channel:s.frameSamples],
		Stride:  s.spacing(singleChannel),
	}

	if need {
		s.readCount++
		if st, err := s.decodeNext(); st != StatusMore {
			s.finalStatus, s.finalErr = st, err
			return ChannelView{}, st, err
		}
	}
	return view, StatusMore, nil
}

// Reset rewinds the source and re-synchronizes so playback restarts from
// the beginning; usable mid-stream for looping. In single-channel mode only
// channel 0 performs the rewind, keeping the operation idempotent when each
// channel's reset is invoked independently. Buffer parity and read progress
// deliberately survive a rewind: a loop boundary may land after an odd
// number of region swaps.
func (s *Stream) Reset(singleChannel bool, channel int) error {
	if singleChannel && channel != 0 {
		return nil
	}
	if _, err := s.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind source: %w", err)
	}
	s.ring.reset()
	s.finalStatus, s.finalErr = StatusMore, nil
	if err := s.dec.Reset(); err != nil {
		return fmt.Errorf("reset decoder: %w", err)
	}
	if _, err := s.findSync(); err != nil {
		return err
	}
	return nil
}

// Close releases the decoder and the owned output regions. Safe to call
// more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.dec != nil {
		err = s.dec.Close()
		s.dec = nil
	}
	s.out[0], s.out[1] = nil, nil
	return err
}

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool { return s.closed }

// SampleRate returns the probed (or overridden) sample rate in Hz.
func (s *Stream) SampleRate() int { return s.format.SampleRate }

// SetSampleRate overrides the sample rate reported to consumers. The value
// is a metadata hint only; decoding is not affected.
func (s *Stream) SetSampleRate(rate int) { s.format.SampleRate = rate }

// Channels returns the decoded channel count.
func (s *Stream) Channels() int { return s.format.Channels }

// BitDepth returns the PCM sample width in bits, always 16.
func (s *Stream) BitDepth() int { return 16 }

// Signed reports whether samples are signed, always true.
func (s *Stream) Signed() bool { return true }

// Format returns the decoded PCM stream format.
func (s *Stream) Format() audio.Format { return s.format }

func (s *Stream) spacing(singleChannel bool) int {
	if singleChannel {
		return s.format.Channels
	}
	return 1
}

// BufferStructure describes the delivery contract for an output driver.
func (s *Stream) BufferStructure(singleChannel bool) BufferInfo {
	return BufferInfo{
		SingleBuffer: false,
		Signed:       true,
		MaxSize:      s.frameSamples * 2,
		Spacing:      s.spacing(singleChannel),
	}
}
