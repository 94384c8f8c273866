// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import "encoding/binary"

// Samples reconstructs the signed 16-bit samples carried by a frame
// payload. The payload is reversed back to wire order, then consumed
// two bytes at a time, each pair a big-endian signed 16-bit integer.
// An odd trailing byte is dropped.
func Samples(payload []byte) []int16 {
	rev := make([]byte, len(payload))
	for i, v := range payload {
		rev[len(payload)-1-i] = v
	}

	out := make([]int16, 0, len(rev)/2)
	for i := 0; i+1 < len(rev); i += 2 {
		out = append(out, int16(binary.BigEndian.Uint16(rev[i:i+2])))
	}
	return out
}
