// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import (
	"encoding/binary"
	"reflect"
	"testing"
)

// encPayload encodes samples to a window-order payload: big-endian
// pairs in wire order, then the whole payload reversed.
func encPayload(vs []int16) []byte {
	wire := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.BigEndian.PutUint16(wire[2*i:], uint16(v))
	}
	p := make([]byte, len(wire))
	for i, v := range wire {
		p[len(wire)-1-i] = v
	}
	return p
}

func TestSamples(t *testing.T) {
	for _, tc := range []struct {
		name string
		vs   []int16
	}{
		{
			name: "zeros",
			vs:   []int16{0, 0, 0},
		},
		{
			name: "channels-and-temperature",
			vs:   []int16{1, -1, 32767, -32768, 1234, -1234, 32},
		},
		{
			name: "full-frame-payload",
			vs:   []int16{5, 10, 15, 20, 25, 30, 512, 1024, 2048},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Samples(encPayload(tc.vs))
			if !reflect.DeepEqual(got, tc.vs) {
				t.Fatalf("got=%v, want=%v", got, tc.vs)
			}
		})
	}
}

func TestSamplesOddPayload(t *testing.T) {
	p := encPayload([]int16{42, -7})
	p = append([]byte{0xff}, p...) // stray byte, reversed to the back
	got := Samples(p)
	if want := []int16{42, -7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v, want=%v", got, want)
	}
}

func TestSamplesRoundTrip(t *testing.T) {
	for v := -32768; v <= 32767; v++ {
		got := Samples(encPayload([]int16{int16(v)}))
		if len(got) != 1 || got[0] != int16(v) {
			t.Fatalf("v=%d: got=%v", v, got)
		}
	}
}
