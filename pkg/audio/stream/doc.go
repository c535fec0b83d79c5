// ABOUTME: Streaming decode pipeline package
// ABOUTME: Turns compressed bytes into double-buffered ready-to-play PCM frames
// Package stream turns a compressed audio byte stream into a continuous
// sequence of fixed-size, ready-to-play PCM frame buffers using bounded
// memory regardless of source length.
//
// The pipeline coordinates four pieces: a fixed input ring refilled from a
// slow, chunked backing store without ever exposing uninitialized memory; a
// sync scan that recovers frame boundaries from arbitrary byte offsets; a
// double-buffered output pair letting a realtime consumer drain one decoded
// frame while the next is produced; and strided per-channel views so the
// same physical buffer serves mono-from-stereo reads without copying.
//
// The backing store is any io.ReadSeeker (os.File, bytes.Reader); the codec
// is any framedec.Decoder.
//
// Example:
//
//	f, _ := os.Open("song.mp3")
//	s, err := stream.New(f, framedec.NewMPEG(), stream.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	for {
//	    view, status, err := s.GetBuffer(false, 0)
//	    if status != stream.StatusMore {
//	        break
//	    }
//	    play(view.Samples)
//	}
//
// Streams are not safe for concurrent use; every operation blocks until the
// underlying store read or decode completes.
package stream
