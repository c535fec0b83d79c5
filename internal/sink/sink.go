// ABOUTME: PCM sink interface definition
// ABOUTME: Common interface for consumers of decoded interleaved frames
package sink

import "github.com/harperreed/pcmfeed/pkg/audio"

// Sink consumes decoded interleaved PCM frames.
type Sink interface {
	// Open prepares the sink for the given stream format.
	Open(format audio.Format) error

	// Write consumes one interleaved frame (blocks until consumed).
	Write(samples []int16) error

	// Close releases sink resources.
	Close() error
}
