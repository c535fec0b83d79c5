// ABOUTME: Command-line frame decode pipeline driver
// ABOUTME: Decodes an MP3 or ADTS file to a wav file or the speaker
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/pcmfeed/internal/sink"
	"github.com/harperreed/pcmfeed/pkg/audio"
	"github.com/harperreed/pcmfeed/pkg/audio/framedec"
	"github.com/harperreed/pcmfeed/pkg/audio/stream"
)

func main() {
	// Parse command-line flags
	inPath := flag.String("in", "", "Input file (.mp3 or .aac/.adts)")
	codec := flag.String("codec", "auto", "Input codec: mp3, aac or auto (by extension)")
	wavPath := flag.String("wav", "", "Write decoded PCM to this wav file")
	play := flag.Bool("play", false, "Play decoded PCM through the speaker")
	loops := flag.Int("loop", 1, "Number of passes over the input")
	mono := flag.Int("mono", -1, "Extract a single channel (0-based) instead of interleaved output")
	rate := flag.Int("rate", 0, "Override the reported sample rate")
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *wavPath == "" && !*play {
		log.Fatal("Nothing to do: pass -wav and/or -play")
	}

	dec, err := newDecoder(*codec, *inPath)
	if err != nil {
		log.Fatalf("Failed to pick codec: %v", err)
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	defer f.Close()

	st, err := stream.New(f, dec, stream.Config{})
	if err != nil {
		log.Fatalf("Failed to open stream: %v", err)
	}
	defer st.Close()

	if *rate > 0 {
		st.SetSampleRate(*rate)
	}

	singleChannel := *mono >= 0
	if singleChannel && *mono >= st.Channels() {
		log.Fatalf("Channel %d out of range: stream has %d channels", *mono, st.Channels())
	}

	format := st.Format()
	if singleChannel {
		format.Channels = 1
	}
	log.Printf("Stream: %dHz, %d channels, %d-bit", st.SampleRate(), st.Channels(), st.BitDepth())

	sinks, err := openSinks(format, *wavPath, *play)
	if err != nil {
		log.Fatalf("Failed to open output: %v", err)
	}
	defer func() {
		for _, sk := range sinks {
			if err := sk.Close(); err != nil {
				log.Printf("Close failed: %v", err)
			}
		}
	}()

	channel := 0
	if singleChannel {
		channel = *mono
	}

	var scratch []int16
	frames := 0
	for pass := 0; pass < *loops; pass++ {
		if pass > 0 {
			if err := st.Reset(singleChannel, 0); err != nil {
				log.Fatalf("Rewind failed: %v", err)
			}
		}

	drain:
		for {
			view, status, err := st.GetBuffer(singleChannel, channel)
			switch status {
			case stream.StatusMore:
				samples := view.Samples
				if view.Stride > 1 {
					if len(scratch) < view.Len() {
						scratch = make([]int16, view.Len())
					}
					samples = scratch[:view.Copy(scratch)]
				}
				for _, sk := range sinks {
					if err := sk.Write(samples); err != nil {
						log.Fatalf("Output failed: %v", err)
					}
				}
				frames++
			case stream.StatusDone:
				break drain
			case stream.StatusError:
				log.Fatalf("Decode failed: %v", err)
			}
		}
	}

	log.Printf("Done: %d frames delivered", frames)
}

// newDecoder picks the frame decoder for the requested codec, sniffing the
// file extension in auto mode.
func newDecoder(codec, path string) (framedec.Decoder, error) {
	if codec == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mp3":
			codec = "mp3"
		case ".aac", ".adts":
			codec = "aac"
		default:
			return nil, fmt.Errorf("cannot detect codec from %q, pass -codec", path)
		}
	}

	switch codec {
	case "mp3":
		return framedec.NewMPEG(), nil
	case "aac":
		return framedec.NewADTS(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}

// openSinks opens the requested outputs and returns those that succeeded.
func openSinks(format audio.Format, wavPath string, play bool) ([]sink.Sink, error) {
	var sinks []sink.Sink

	if wavPath != "" {
		w := sink.NewWavWriter(wavPath)
		if err := w.Open(format); err != nil {
			return nil, err
		}
		sinks = append(sinks, w)
	}
	if play {
		sp := sink.NewSpeaker()
		if err := sp.Open(format); err != nil {
			for _, sk := range sinks {
				sk.Close()
			}
			return nil, err
		}
		sinks = append(sinks, sp)
	}

	return sinks, nil
}
