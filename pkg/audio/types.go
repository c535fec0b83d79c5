// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats and int16 PCM sample conversions
package audio

import "encoding/binary"

// Format describes a decoded PCM stream format.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// BytesPerFrame returns the byte size of one interleaved sample frame
// (one sample for every channel).
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitDepth / 8
}

// Int16ToBytes converts interleaved int16 samples to little-endian bytes.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// BytesToInt16 converts little-endian PCM bytes to int16 samples.
// A trailing odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// Int16ToInt converts int16 samples to the widened form used by
// go-audio buffers.
func Int16ToInt(samples []int16) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(s)
	}
	return out
}
