// ABOUTME: Frame decoder package for window-based codec adapters
// ABOUTME: Provides the Decoder interface plus MPEG Layer III and AAC/ADTS adapters
// Package framedec defines the frame decoding capability consumed by the
// stream pipeline and provides adapters for self-synchronizing codecs.
//
// A Decoder works on byte windows supplied by the caller: it locates frame
// sync patterns, peeks frame metadata without consuming input, and decodes
// exactly one frame per call while reporting how many bytes it consumed.
//
// Adapters:
//   - MPEG: MPEG-1/2/2.5 Audio Layer III, decoded with hajimehoshi/go-mp3
//   - ADTS: AAC in ADTS framing, decoded with llehouerou/go-aac
//
// Example:
//
//	dec := framedec.NewMPEG()
//	off := dec.FindSync(window)
//	info, err := dec.PeekInfo(window[off:])
package framedec
