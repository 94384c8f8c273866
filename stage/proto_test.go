// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"testing"
)

func TestMethod(t *testing.T) {
	for _, tc := range []struct {
		name string
		locs []int
		secs int
		want string
		err  string
	}{
		{
			name: "single-loc",
			locs: []int{1},
			secs: 15,
			want: "0015,01,",
		},
		{
			name: "multi-loc",
			locs: []int{1, 5, 13, 71},
			secs: 15,
			want: "0015,01,05,13,71,",
		},
		{
			name: "max-time",
			locs: []int{96},
			secs: 9999,
			want: "9999,96,",
		},
		{
			name: "zero-time",
			locs: []int{8},
			secs: 0,
			want: "0000,08,",
		},
		{
			name: "no-locs",
			locs: nil,
			secs: 15,
			err:  "stage: method needs at least one location",
		},
		{
			name: "negative-time",
			locs: []int{1},
			secs: -1,
			err:  "stage: method time -1 out of range [0, 9999]",
		},
		{
			name: "too-long",
			locs: []int{1},
			secs: 10000,
			err:  "stage: method time 10000 out of range [0, 9999]",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMethod(tc.locs, tc.secs)
			switch {
			case tc.err != "":
				if err == nil {
					t.Fatalf("expected an error, got none")
				}
				if got, want := err.Error(), tc.err; got != want {
					t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
				}
			default:
				if err != nil {
					t.Fatalf("could not build method: %+v", err)
				}
				if got, want := m.String(), tc.want; got != want {
					t.Fatalf("invalid encoding: got=%q, want=%q", got, want)
				}
			}
		})
	}
}

func TestSequence(t *testing.T) {
	m1, err := NewMethod([]int{1, 9}, 91)
	if err != nil {
		t.Fatalf("could not build method: %+v", err)
	}
	m2, err := NewMethod([]int{96}, 120)
	if err != nil {
		t.Fatalf("could not build method: %+v", err)
	}

	seq, err := NewSequence(m1, m2)
	if err != nil {
		t.Fatalf("could not build sequence: %+v", err)
	}
	if got, want := seq.String(), "@P,M1,0091,01,09,M2,0120,96,\n\n"; got != want {
		t.Fatalf("invalid encoding: got=%q, want=%q", got, want)
	}

	_, err = NewSequence()
	if err == nil {
		t.Fatalf("expected an error, got none")
	}
	if got, want := err.Error(), "stage: sequence needs at least one method"; got != want {
		t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
	}
}
