// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/go-daq/tdaq/log"
	"github.com/tarm/serial"
	"golang.org/x/xerrors"
)

// Sink consumes converted readings, one per successfully decoded
// frame. Write errors are fatal to the readout: a reading must never
// be silently dropped.
type Sink interface {
	Write(r Reading) error
}

type rconfig struct {
	baud    int
	timeout time.Duration
	flen    int
	backoff time.Duration
	lvl     log.Level
}

// Option configures a Readout.
type Option func(*rconfig)

// WithBaud sets the serial baud rate.
func WithBaud(v int) Option {
	return func(cfg *rconfig) { cfg.baud = v }
}

// WithReadTimeout sets the serial read timeout.
func WithReadTimeout(d time.Duration) Option {
	return func(cfg *rconfig) { cfg.timeout = d }
}

// WithFrameLen sets the expected frame length in bytes.
func WithFrameLen(n int) Option {
	return func(cfg *rconfig) { cfg.flen = n }
}

// WithBackoff sets the sleep between empty serial reads.
func WithBackoff(d time.Duration) Option {
	return func(cfg *rconfig) { cfg.backoff = d }
}

// WithLogLevel sets the verbosity of the readout message stream.
func WithLogLevel(lvl log.Level) Option {
	return func(cfg *rconfig) { cfg.lvl = lvl }
}

var serialOpen = serialOpenImpl

func serialOpenImpl(cfg *serial.Config) (io.ReadCloser, error) {
	return serial.OpenPort(cfg)
}

// Readout owns the serial connection to the potentiostat and drives
// the decode pipeline: raw bytes -> frames -> samples -> readings.
// Readings are numbered from 1 and handed to the sink.
type Readout struct {
	msg  log.MsgStream
	port io.ReadCloser
	brd  *blockingReader
	dec  *Decoder
	cnv  *Converter
	sink Sink

	n int // last sample number handed to the sink
}

// NewReadout opens the serial port and readies the decode pipeline.
// The sink receives one reading per valid frame.
func NewReadout(port string, cnv *Converter, sink Sink, opts ...Option) (*Readout, error) {
	cfg := rconfig{
		baud:    9600,
		timeout: 500 * time.Millisecond,
		flen:    DefaultFrameLen,
		backoff: 50 * time.Millisecond,
		lvl:     log.LvlInfo,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn, err := serialOpen(&serial.Config{
		Name:        port,
		Baud:        cfg.baud,
		ReadTimeout: cfg.timeout,
	})
	if err != nil {
		return nil, xerrors.Errorf("pot: could not open serial port %q: %w", port, err)
	}

	brd := &blockingReader{r: conn, backoff: cfg.backoff}
	ro := &Readout{
		msg:  log.NewMsgStream("pot-readout", cfg.lvl, os.Stdout),
		port: conn,
		brd:  brd,
		dec:  NewDecoder(cfg.flen, brd),
		cnv:  cnv,
		sink: sink,
	}
	return ro, nil
}

// Run decodes frames until the context is cancelled or a fatal error
// occurs. Invalid frames are skipped; transport and sink errors abort
// the loop.
func (ro *Readout) Run(ctx context.Context) error {
	ro.brd.done = ctx.Done()

	var frame Frame
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		err := ro.dec.Decode(&frame)
		switch {
		case err == nil:
			// ok.
		case xerrors.Is(err, context.Canceled):
			return nil
		default:
			return xerrors.Errorf("pot: readout failed: %w", err)
		}

		if !frame.Valid() {
			ro.msg.Debugf("invalid frame (total=%d)", ro.dec.Invalid())
			continue
		}

		r := ro.cnv.Convert(Samples(frame.Payload()))
		ro.n++
		r.N = ro.n
		r.Time = time.Now()

		err = ro.sink.Write(r)
		if err != nil {
			return xerrors.Errorf("pot: could not record reading %d: %w", r.N, err)
		}
		ro.msg.Debugf("reading %d: chans=%v temp=%v", r.N, r.Chans, r.Temp)
	}
}

// Invalid returns the number of invalid frames seen so far.
func (ro *Readout) Invalid() int { return ro.dec.Invalid() }

// Close closes the underlying serial port.
func (ro *Readout) Close() error { return ro.port.Close() }

// blockingReader turns the timeout-based reads of the serial port into
// genuinely blocking ones: an empty read sleeps for the configured
// backoff instead of spinning, until data arrives or done is closed.
type blockingReader struct {
	r       io.Reader
	backoff time.Duration
	done    <-chan struct{}
}

func (br *blockingReader) Read(p []byte) (int, error) {
	for {
		n, err := br.r.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
		if br.done != nil {
			select {
			case <-br.done:
				return 0, context.Canceled
			default:
			}
		}
		time.Sleep(br.backoff)
	}
}
