// ABOUTME: Delivery status and error kinds for the decode pipeline
// ABOUTME: Defines the GetBuffer status enum and sentinel errors
package stream

import "errors"

// Status reports the outcome of one GetBuffer delivery.
type Status int

const (
	// StatusMore means a frame was delivered and more data is available.
	StatusMore Status = iota

	// StatusDone means the stream reached its clean end; no data was
	// delivered. Not an error.
	StatusDone

	// StatusError means an unrecoverable fault; the accompanying error
	// carries the cause.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusMore:
		return "more"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrMalformedStream marks construction failures: no frame sync or no
// parseable frame metadata in the source.
var ErrMalformedStream = errors.New("malformed stream")

// ErrDesync marks frame sync lost mid-stream before the end of data.
var ErrDesync = errors.New("lost frame sync mid-stream")
