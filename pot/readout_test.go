// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/tarm/serial"
)

// fakePort replays scripted reads, then returns io.EOF. A zero-length
// script entry simulates a serial read timeout.
type fakePort struct {
	script [][]byte
	closed bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.script) == 0 {
		return 0, io.EOF
	}
	chunk := p.script[0]
	p.script = p.script[1:]
	return copy(b, chunk), nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

type memSink struct {
	rs  []Reading
	err error
}

func (s *memSink) Write(r Reading) error {
	if s.err != nil {
		return s.err
	}
	s.rs = append(s.rs, r)
	return nil
}

func withFakePort(t *testing.T, port *fakePort) {
	t.Helper()
	orig := serialOpen
	serialOpen = func(cfg *serial.Config) (io.ReadCloser, error) {
		return port, nil
	}
	t.Cleanup(func() { serialOpen = orig })
}

func TestReadout(t *testing.T) {
	var (
		payload = encPayload([]int16{32767, 0, 0, 0, 0, 0, 32, 0, 0})
		wire    = mkWire(mkWindow(payload))
	)

	port := &fakePort{script: [][]byte{
		wire[:10], // partial read: readout must keep accumulating
		nil,       // timeout
		wire[10:],
		make([]byte, DefaultFrameLen), // noise chunk
		wire,
	}}
	withFakePort(t, port)

	cnv, err := NewConverter()
	if err != nil {
		t.Fatalf("could not create converter: %+v", err)
	}

	sink := new(memSink)
	ro, err := NewReadout("/dev/ttyUSB0", cnv, sink, WithBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("could not create readout: %+v", err)
	}
	defer ro.Close()

	err = ro.Run(context.Background())
	if err == nil {
		t.Fatalf("expected a transport error")
	}

	if got, want := len(sink.rs), 2; got != want {
		t.Fatalf("readings: got=%d, want=%d", got, want)
	}
	for i, r := range sink.rs {
		if got, want := r.N, i+1; got != want {
			t.Fatalf("reading %d: sample number got=%d, want=%d", i, got, want)
		}
		if got, want := r.Chans[0], 50.0; got != want {
			t.Fatalf("reading %d: chan0 got=%v, want=%v", i, got, want)
		}
		if got, want := r.Temp, 2.0; got != want {
			t.Fatalf("reading %d: temp got=%v, want=%v", i, got, want)
		}
		if r.Time.IsZero() {
			t.Fatalf("reading %d: missing timestamp", i)
		}
	}
	if got, want := ro.Invalid(), 1; got != want {
		t.Fatalf("invalid count: got=%d, want=%d", got, want)
	}
}

func TestReadoutCancel(t *testing.T) {
	// a port that always times out: Run must return promptly on
	// cancellation instead of spinning.
	port := &fakePort{script: func() [][]byte {
		var s [][]byte
		for i := 0; i < 10000; i++ {
			s = append(s, nil)
		}
		return s
	}()}
	withFakePort(t, port)

	cnv, err := NewConverter()
	if err != nil {
		t.Fatalf("could not create converter: %+v", err)
	}

	ro, err := NewReadout("/dev/ttyUSB0", cnv, new(memSink), WithBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("could not create readout: %+v", err)
	}
	defer ro.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- ro.Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("could not stop readout: %+v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("readout did not stop on cancellation")
	}
}

func TestReadoutSinkError(t *testing.T) {
	wire := mkWire(mkWindow(encPayload([]int16{1, 2, 3, 4, 5, 6, 7, 8, 9})))
	port := &fakePort{script: [][]byte{wire}}
	withFakePort(t, port)

	cnv, err := NewConverter()
	if err != nil {
		t.Fatalf("could not create converter: %+v", err)
	}

	sink := &memSink{err: io.ErrClosedPipe}
	ro, err := NewReadout("/dev/ttyUSB0", cnv, sink, WithBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("could not create readout: %+v", err)
	}
	defer ro.Close()

	err = ro.Run(context.Background())
	if err == nil {
		t.Fatalf("expected a sink error")
	}
	if got, want := err.Error(), "pot: could not record reading 1: io: read/write on closed pipe"; got != want {
		t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
	}
}
