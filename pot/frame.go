// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

// Frame is a snapshot of the decoder window, classified valid or
// invalid. A valid frame starts with the start marker, ends with the
// 5-byte trailer and carries a correct checksum.
type Frame struct {
	raw   []byte
	valid bool
}

// Valid reports whether the frame passed validation.
func (f *Frame) Valid() bool { return f.valid }

// Bytes returns the raw window snapshot backing the frame.
func (f *Frame) Bytes() []byte { return f.raw }

// Payload returns the bytes strictly between the checksum byte and the
// trailer. It returns nil for an invalid frame.
func (f *Frame) Payload() []byte {
	if !f.valid {
		return nil
	}
	return f.raw[headerLen : len(f.raw)-trailerLen]
}

// validate applies the frame validation pass:
//   - p[0] is the start marker,
//   - the last 5 bytes are the trailer marker sequence,
//   - the sum (mod 256) of the payload bytes equals p[1].
func validate(p []byte) bool {
	if len(p) < minFrameLen {
		return false
	}

	if p[0] != frStart {
		return false
	}

	t := p[len(p)-trailerLen:]
	if t[0] != frTrailer0 || t[1] != frTrailer1 ||
		t[2] != frTrailer2 || t[3] != frTrailer3 || t[4] != frTrailer4 {
		return false
	}

	var cks uint8
	for _, v := range p[headerLen : len(p)-trailerLen] {
		cks += v
	}
	return cks == p[1]
}
