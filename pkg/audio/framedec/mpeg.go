// ABOUTME: MPEG audio Layer III frame decoder adapter
// ABOUTME: Native header sync scanning with PCM synthesis via go-mp3
package framedec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// ErrNoFrameHeader is returned by PeekInfo when the window does not start
// with a valid MPEG audio frame header.
var ErrNoFrameHeader = errors.New("no valid frame header")

// MPEG audio version IDs from the frame header.
const (
	mpegVersion25 = 0
	mpegVersion2  = 2
	mpegVersion1  = 3
)

// Layer III bitrates in bits per second, indexed by header bitrate index.
var mpegBitrates = map[int][15]int{
	mpegVersion1: {
		0, 32000, 40000, 48000, 56000, 64000, 80000, 96000,
		112000, 128000, 160000, 192000, 224000, 256000, 320000,
	},
	mpegVersion2: {
		0, 8000, 16000, 24000, 32000, 40000, 48000, 56000,
		64000, 80000, 96000, 112000, 128000, 144000, 160000,
	},
	mpegVersion25: {
		0, 8000, 16000, 24000, 32000, 40000, 48000, 56000,
		64000, 80000, 96000, 112000, 128000, 144000, 160000,
	},
}

// Sample rates in Hz, indexed by header sample rate index.
var mpegSampleRates = map[int][3]int{
	mpegVersion1:  {44100, 48000, 32000},
	mpegVersion2:  {22050, 24000, 16000},
	mpegVersion25: {11025, 12000, 8000},
}

// mpegHeader is one parsed 4-byte MPEG audio frame header.
type mpegHeader struct {
	version     int
	sampleRate  int
	frameLength int // whole frame in bytes, header included
}

// samplesPerFrame returns the per-channel PCM sample count of one
// Layer III frame.
func (h mpegHeader) samplesPerFrame() int {
	if h.version == mpegVersion1 {
		return 1152
	}
	return 576
}

// parseMPEGHeader validates and parses a 4-byte Layer III frame header.
func parseMPEGHeader(b []byte) (mpegHeader, bool) {
	if len(b) < 4 {
		return mpegHeader{}, false
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return mpegHeader{}, false
	}

	version := int(b[1]>>3) & 0x3
	if version == 1 { // reserved
		return mpegHeader{}, false
	}
	layer := int(b[1]>>1) & 0x3
	if layer != 1 { // only Layer III
		return mpegHeader{}, false
	}

	bitrateIdx := int(b[2] >> 4)
	if bitrateIdx == 0 || bitrateIdx == 15 { // free-format and invalid
		return mpegHeader{}, false
	}
	sampleRateIdx := int(b[2]>>2) & 0x3
	if sampleRateIdx == 3 {
		return mpegHeader{}, false
	}
	padding := int(b[2]>>1) & 0x1

	bitrate := mpegBitrates[version][bitrateIdx]
	sampleRate := mpegSampleRates[version][sampleRateIdx]

	// Layer III frame size: 144 (MPEG-1) or 72 (MPEG-2/2.5) slots per
	// bitrate unit, plus an optional padding slot.
	slots := 144
	if version != mpegVersion1 {
		slots = 72
	}

	return mpegHeader{
		version:     version,
		sampleRate:  sampleRate,
		frameLength: slots*bitrate/sampleRate + padding,
	}, true
}

// windowSource feeds go-mp3 from the caller's current byte window and
// records how many bytes were handed out.
type windowSource struct {
	window []byte
	pos    int
}

func (s *windowSource) Read(p []byte) (int, error) {
	if s.pos >= len(s.window) {
		return 0, io.EOF
	}
	n := copy(p, s.window[s.pos:])
	s.pos += n
	return n, nil
}

// MPEG decodes MPEG-1/2/2.5 Audio Layer III frames. Sync scanning and
// metadata peeking use native header parsing; PCM synthesis is delegated to
// go-mp3 over the supplied windows.
//
// go-mp3 always emits two interleaved output channels, so mono sources are
// reported (and decoded) as two identical channels.
type MPEG struct {
	src    windowSource
	stream *mp3.Decoder
	pcm    []byte
}

// NewMPEG creates an MPEG Layer III frame decoder.
func NewMPEG() *MPEG {
	return &MPEG{}
}

// FindSync returns the offset of the next valid frame header, or -1. The
// 11-bit sync word alone misfires on random data, so a hit also requires a
// plausible header one frame length ahead.
func (d *MPEG) FindSync(window []byte) int {
	for i := 0; i+4 <= len(window); i++ {
		h, ok := parseMPEGHeader(window[i:])
		if !ok {
			continue
		}
		if nextHeaderPlausible(window[i:], h.frameLength) {
			return i
		}
	}
	return -1
}

// nextHeaderPlausible checks the bytes one frame ahead of a candidate
// header. Positions past the window end, or inside the zeroed padding after
// the last frame of a stream, cannot be checked and pass.
func nextHeaderPlausible(b []byte, frameLength int) bool {
	if frameLength+4 > len(b) {
		return true
	}
	next := b[frameLength : frameLength+4]
	if next[0] == 0 && next[1] == 0 && next[2] == 0 && next[3] == 0 {
		return true
	}
	_, ok := parseMPEGHeader(next)
	return ok
}

// PeekInfo parses the frame header at the window start.
func (d *MPEG) PeekInfo(window []byte) (Info, error) {
	h, ok := parseMPEGHeader(window)
	if !ok {
		return Info{}, ErrNoFrameHeader
	}
	return Info{
		SampleRate:   h.sampleRate,
		Channels:     2, // go-mp3 output is always stereo
		FrameSamples: 2 * h.samplesPerFrame(),
	}, nil
}

// DecodeFrame decodes one frame into dst. The window must start at a frame
// header located by FindSync.
func (d *MPEG) DecodeFrame(window []byte, dst []int16) (int, error) {
	d.src.window = window
	d.src.pos = 0

	if d.stream == nil {
		stream, err := mp3.NewDecoder(&d.src)
		if err != nil {
			return d.src.pos, fmt.Errorf("open mp3 stream: %w", err)
		}
		d.stream = stream
	}

	want := len(dst) * 2
	if len(d.pcm) != want {
		d.pcm = make([]byte, want)
	}
	if _, err := io.ReadFull(d.stream, d.pcm); err != nil {
		return d.src.pos, fmt.Errorf("decode mp3 frame: %w", err)
	}
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(d.pcm[i*2:]))
	}
	return d.src.pos, nil
}

// Reset drops the internal stream state so the next DecodeFrame starts a
// fresh pass over the rewound input.
func (d *MPEG) Reset() error {
	d.stream = nil
	return nil
}

// Close releases decoder resources
func (d *MPEG) Close() error {
	d.stream = nil
	d.pcm = nil
	return nil
}
