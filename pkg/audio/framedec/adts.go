// ABOUTME: AAC ADTS frame decoder adapter
// ABOUTME: Native ADTS header sync scanning with decoding via go-aac
package framedec

import (
	"fmt"

	aac "github.com/llehouerou/go-aac"
)

// ADTS sample rate index table (ISO 14496-3).
var adtsSampleRates = [...]int{
	96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050,
	16000, 12000, 11025, 8000, 7350,
}

const adtsHeaderSize = 7

// adtsHeader is the fixed part of one parsed ADTS frame header.
type adtsHeader struct {
	sampleRate  int
	channels    int
	frameLength int // whole ADTS frame in bytes, header included
	numBlocks   int // raw data blocks per frame, usually 1
}

// parseADTSHeader validates and parses an ADTS frame header.
func parseADTSHeader(b []byte) (adtsHeader, bool) {
	if len(b) < adtsHeaderSize {
		return adtsHeader{}, false
	}
	// Sync word 0xFFF with layer bits zero.
	if b[0] != 0xFF || b[1]&0xF0 != 0xF0 || (b[1]>>1)&0x3 != 0 {
		return adtsHeader{}, false
	}

	sampleRateIdx := int(b[2]>>2) & 0xF
	if sampleRateIdx >= len(adtsSampleRates) {
		return adtsHeader{}, false
	}
	channelCfg := int(b[2]&0x1)<<2 | int(b[3]>>6)
	if channelCfg == 0 { // channel config carried in-stream, not peekable
		return adtsHeader{}, false
	}

	frameLength := int(b[3]&0x3)<<11 | int(b[4])<<3 | int(b[5]>>5)
	if frameLength < adtsHeaderSize {
		return adtsHeader{}, false
	}

	return adtsHeader{
		sampleRate:  adtsSampleRates[sampleRateIdx],
		channels:    channelCfg,
		frameLength: frameLength,
		numBlocks:   int(b[6]&0x3) + 1,
	}, true
}

// ADTS decodes AAC frames carried in ADTS framing, using the pure Go FAAD2
// port for PCM synthesis. The underlying decoder is initialized lazily from
// the first synchronized window.
type ADTS struct {
	dec         *aac.Decoder
	initialized bool
}

// NewADTS creates an AAC/ADTS frame decoder.
func NewADTS() *ADTS {
	return &ADTS{dec: aac.NewDecoder()}
}

// FindSync returns the offset of the next valid ADTS header, or -1.
func (d *ADTS) FindSync(window []byte) int {
	for i := 0; i+adtsHeaderSize <= len(window); i++ {
		if _, ok := parseADTSHeader(window[i:]); ok {
			return i
		}
	}
	return -1
}

// PeekInfo parses the ADTS header at the window start.
func (d *ADTS) PeekInfo(window []byte) (Info, error) {
	h, ok := parseADTSHeader(window)
	if !ok {
		return Info{}, ErrNoFrameHeader
	}
	return Info{
		SampleRate:   h.sampleRate,
		Channels:     h.channels,
		FrameSamples: 1024 * h.numBlocks * h.channels,
	}, nil
}

// DecodeFrame decodes one ADTS frame into dst. The window must start at a
// header located by FindSync.
func (d *ADTS) DecodeFrame(window []byte, dst []int16) (int, error) {
	if !d.initialized {
		if _, err := d.dec.Init(window); err != nil {
			return 0, fmt.Errorf("init aac decoder: %w", err)
		}
		d.initialized = true
	}

	samples, info, err := d.dec.Decode(window)
	if err != nil {
		return 0, fmt.Errorf("decode aac frame: %w", err)
	}
	pcm, err := pcmSamples(samples)
	if err != nil {
		return int(info.BytesConsumed), err
	}
	copy(dst, pcm)
	return int(info.BytesConsumed), nil
}

// pcmSamples narrows the decoder's output to the int16 format this adapter
// configures. Any other format means the decoder was set up differently
// than NewADTS promises.
func pcmSamples(samples interface{}) ([]int16, error) {
	pcm, ok := samples.([]int16)
	if !ok {
		return nil, fmt.Errorf("unexpected aac sample format %T", samples)
	}
	return pcm, nil
}

// Reset reinitializes the decoder for a rewound stream.
func (d *ADTS) Reset() error {
	d.dec.Close()
	d.dec = aac.NewDecoder()
	d.initialized = false
	return nil
}

// Close releases decoder resources
func (d *ADTS) Close() error {
	if d.dec != nil {
		d.dec.Close()
		d.dec = nil
	}
	return nil
}
