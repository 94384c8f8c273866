// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import (
	"io"

	"golang.org/x/xerrors"
)

// Decoder reads the unsynchronized potentiostat byte stream from an
// underlying data source and assembles it into checksummed frames.
//
// Decoder absorbs the stream one full chunk (= frame length) at a
// time: each byte of the chunk shifts through the window front-first,
// so a stream that is not frame-aligned realigns itself across
// successive chunks. Validation runs once per chunk, after the whole
// chunk has been absorbed.
type Decoder struct {
	r io.Reader

	win  *window
	buf  []byte
	err  error
	nbad int
}

// NewDecoder creates a decoder that reads frames of n bytes from r.
// A non-positive or too small n selects DefaultFrameLen.
func NewDecoder(n int, r io.Reader) *Decoder {
	if n < minFrameLen {
		n = DefaultFrameLen
	}
	return &Decoder{
		r:   r,
		win: newWindow(n),
		buf: make([]byte, n),
	}
}

// Decode absorbs the next chunk from the stream and stores the
// resulting frame, valid or not, into frame.
//
// An invalid frame is not an error: it means "no reading this cycle"
// and bumps the invalid-frame counter. Transport errors are returned
// to the caller and are fatal to the decoder.
func (dec *Decoder) Decode(frame *Frame) error {
	dec.load()
	if dec.err != nil {
		return xerrors.Errorf("pot: could not read frame chunk: %w", dec.err)
	}

	for _, v := range dec.buf {
		dec.win.push(v)
	}

	frame.raw = append(frame.raw[:0], dec.win.bytes()...)
	frame.valid = validate(frame.raw)
	if !frame.valid {
		dec.nbad++
	}
	return nil
}

// Invalid returns the number of invalid frames seen so far.
func (dec *Decoder) Invalid() int { return dec.nbad }

func (dec *Decoder) load() {
	if dec.err != nil {
		return
	}
	_, dec.err = io.ReadFull(dec.r, dec.buf)
}
