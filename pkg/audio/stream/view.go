// ABOUTME: Strided per-channel view into an interleaved PCM buffer
// ABOUTME: Gives no-copy access to one channel of the front output region
package stream

// ChannelView is a strided view into the front output region. Samples
// starts at the viewed channel's first sample; successive samples of that
// channel are Stride positions apart, so a stereo buffer viewed with
// channel 1 yields the right channel without copying.
type ChannelView struct {
	Samples []int16
	Stride  int
}

// Len returns the number of samples belonging to the viewed channel.
func (v ChannelView) Len() int {
	if v.Stride <= 0 {
		return 0
	}
	return (len(v.Samples) + v.Stride - 1) / v.Stride
}

// At returns the i-th sample of the viewed channel.
func (v ChannelView) At(i int) int16 {
	return v.Samples[i*v.Stride]
}

// Copy deinterleaves the viewed channel into dst and returns the number of
// samples copied.
func (v ChannelView) Copy(dst []int16) int {
	n := v.Len()
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = v.Samples[i*v.Stride]
	}
	return n
}
