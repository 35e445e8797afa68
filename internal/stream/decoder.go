package stream

import (
	"bytes"
)

// dataMarker prefixes every payload-bearing line of the event stream.
// Lines without it (blank keep-alives, ": ..." comments) carry no data.
const dataMarker = "data: "

// Decoder reassembles an arbitrarily-chunked byte stream into complete
// frame payloads. One pending buffer carries any partial line across
// chunk boundaries, so no split of the underlying stream can lose or
// duplicate a frame.
type Decoder struct {
	pending []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Push appends a chunk and returns every complete frame payload now
// available, in order. The trailing unterminated remainder, if any, stays
// buffered for the next chunk. Non-payload lines are dropped silently.
func (d *Decoder) Push(chunk []byte) []string {
	d.pending = append(d.pending, chunk...)

	var payloads []string
	for {
		i := bytes.IndexByte(d.pending, '\n')
		if i < 0 {
			break
		}
		line := d.pending[:i]
		d.pending = d.pending[i+1:]

		// Tolerate CRLF transports.
		line = bytes.TrimSuffix(line, []byte("\r"))

		payload, ok := bytes.CutPrefix(line, []byte(dataMarker))
		if !ok {
			continue
		}
		payloads = append(payloads, string(payload))
	}
	return payloads
}

// Flush discards any buffered partial line and reports how many bytes were
// dropped. Called once when the transport signals end-of-data: a line that
// never saw its newline is necessarily incomplete.
func (d *Decoder) Flush() int {
	n := len(d.pending)
	d.pending = nil
	return n
}
