// ABOUTME: Frame decoder interface definition
// ABOUTME: Common window-based capability implemented by all codec adapters
package framedec

// Info describes one compressed frame's decoded output, reported by
// PeekInfo without consuming input.
type Info struct {
	// SampleRate of the decoded PCM in Hz.
	SampleRate int

	// Channels in the decoded output. At most 2 are supported by the
	// stream pipeline.
	Channels int

	// FrameSamples is the total number of interleaved int16 samples one
	// frame decodes to, across all channels.
	FrameSamples int
}

// Decoder is the window-based frame decoding capability consumed by the
// stream pipeline. Implementations operate on a caller-managed byte window
// positioned somewhere in the compressed stream; they never read from the
// backing store themselves.
type Decoder interface {
	// FindSync returns the byte offset of the next frame sync pattern
	// within window, or -1 when none is present.
	FindSync(window []byte) int

	// PeekInfo extracts frame metadata at a synchronized window start
	// without consuming input.
	PeekInfo(window []byte) (Info, error)

	// DecodeFrame decodes one frame at a synchronized window start into
	// dst and returns the number of window bytes consumed. The consumed
	// count is valid even when err is non-nil.
	DecodeFrame(window []byte, dst []int16) (consumed int, err error)

	// Reset tells the decoder the stream was rewound to its start.
	Reset() error

	// Close releases decoder resources
	Close() error
}
