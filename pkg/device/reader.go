package device

import (
	"context"
	"time"

	"github.com/foxis/trackcore/internal/clock"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// readTimeout bounds each transport read so the reader loop can notice
// cancellation promptly.
const readTimeout = 500 * time.Millisecond

// maxTransientRetries bounds consecutive transient I/O failures before
// the reader goroutine exits cleanly, leaving the device serving its
// last-known relation.
const maxTransientRetries = 5

// reader runs a device's raw-sample ingestion loop on its own
// goroutine, with errgroup handling the start/join lifecycle.
type reader struct {
	transport Transport
	decoder   Decoder
	clock     *ClockSync
	log       zerolog.Logger

	group  *errgroup.Group
	cancel context.CancelFunc
}

// startReader launches the reader goroutine. Stop cancels it and waits
// for the loop to exit.
func startReader(transport Transport, decoder Decoder, clk *ClockSync, log zerolog.Logger) *reader {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	r := &reader{transport: transport, decoder: decoder, clock: clk, log: log, group: g, cancel: cancel}
	g.Go(func() error { return r.run(gctx) })
	return r
}

func (r *reader) run(ctx context.Context) error {
	retries := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		packet, err := r.transport.Read(readTimeout)
		if err != nil {
			retries++
			if retries > maxTransientRetries {
				r.log.Warn().Err(err).Msg("device: reader exiting after repeated transport errors")
				return nil
			}
			continue
		}
		retries = 0

		hwTs, err := r.decoder.Decode(packet)
		if err != nil {
			r.log.Debug().Err(err).Msg("device: dropping undecodable packet")
			continue
		}
		r.clock.Update(hwTs, clock.NowNanos())
	}
}

// Stop cancels the reader goroutine and waits for it to exit.
func (r *reader) Stop() error {
	r.cancel()
	return r.group.Wait()
}
