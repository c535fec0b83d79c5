// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the Format type and PCM sample conversion functions
// Package audio provides fundamental audio types shared across the pcmfeed
// library.
//
// This package defines the Format type describing a decoded PCM stream and
// conversion helpers between int16 samples, little-endian bytes and the
// widened int form used by go-audio buffers.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitDepth:   16,
//	}
//	raw := audio.Int16ToBytes(samples)
package audio
