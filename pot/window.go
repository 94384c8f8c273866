// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

// window is a fixed-length byte window over the wire stream.
// New bytes enter at the front, the oldest byte falls off the back.
// Its length is an invariant: always exactly the configured frame
// length, zero-filled at start-up.
type window struct {
	buf []byte
}

func newWindow(n int) *window {
	return &window{buf: make([]byte, n)}
}

func (w *window) len() int { return len(w.buf) }

// push inserts v at the front of the window and evicts the back byte.
func (w *window) push(v byte) {
	copy(w.buf[1:], w.buf[:len(w.buf)-1])
	w.buf[0] = v
}

func (w *window) bytes() []byte { return w.buf }
