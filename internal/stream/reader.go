package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/meridianhq/meridian-console/internal/event"
)

// readBufSize is small enough to exercise chunked reassembly under real
// network fragmentation and large enough to not matter for throughput.
const readBufSize = 4096

// Pump reads successive chunks from r until EOF or cancellation, decodes
// frames, parses each payload, and hands events to handle in arrival
// order. A payload that fails to parse is dropped and the stream
// continues; only transport-level read failures terminate with an error.
func Pump(ctx context.Context, r io.Reader, logger *log.Logger, handle func(event.Event)) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	dec := NewDecoder()
	buf := make([]byte, readBufSize)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			for _, payload := range dec.Push(buf[:n]) {
				ev, err := event.Parse([]byte(payload))
				if err != nil {
					logger.Printf("dropping malformed frame: %v", err)
					continue
				}
				handle(ev)
			}
		}

		if readErr != nil {
			if dropped := dec.Flush(); dropped > 0 {
				logger.Printf("discarding %d bytes of incomplete trailing frame", dropped)
			}
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read stream: %w", readErr)
		}
	}
}
