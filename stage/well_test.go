// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"reflect"
	"testing"
)

func TestParseWell(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want Well
		err  string
	}{
		{
			name: "a1",
			in:   "A1",
			want: Well{Row: 'A', Col: 1},
		},
		{
			name: "h12",
			in:   "H12",
			want: Well{Row: 'H', Col: 12},
		},
		{
			name: "c7",
			in:   "C7",
			want: Well{Row: 'C', Col: 7},
		},
		{
			name: "too-short",
			in:   "A",
			err:  `stage: invalid well "A"`,
		},
		{
			name: "bad-row",
			in:   "I1",
			err:  `stage: invalid well row "I1"`,
		},
		{
			name: "lowercase-row",
			in:   "a1",
			err:  `stage: invalid well row "a1"`,
		},
		{
			name: "bad-column",
			in:   "A13",
			err:  `stage: invalid well column "A13"`,
		},
		{
			name: "zero-column",
			in:   "B0",
			err:  `stage: invalid well column "B0"`,
		},
		{
			name: "junk-column",
			in:   "Axy",
			err:  `stage: invalid well column "Axy"`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWell(tc.in)
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
					t.Fatalf("could not parse well: %+v", err)
				}
				if got != tc.want {
					t.Fatalf("invalid well: got=%v, want=%v", got, tc.want)
				}
				if got, want := got.String(), tc.in; got != want {
					t.Fatalf("invalid well string: got=%q, want=%q", got, want)
				}
			}
		})
	}
}

func TestWellLocation(t *testing.T) {
	for _, tc := range []struct {
		well string
		want int
	}{
		{"A1", 1},
		{"B1", 2},
		{"H1", 8},
		{"A2", 9},
		{"D3", 20},
		{"A12", 89},
		{"H12", 96},
	} {
		t.Run(tc.well, func(t *testing.T) {
			w, err := ParseWell(tc.well)
			if err != nil {
				t.Fatalf("could not parse well: %+v", err)
			}
			if got, want := w.Location(), tc.want; got != want {
				t.Fatalf("invalid location: got=%d, want=%d", got, want)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	wells := func(names ...string) []Well {
		ws := make([]Well, len(names))
		for i, name := range names {
			w, err := ParseWell(name)
			if err != nil {
				t.Fatalf("could not parse well %q: %+v", name, err)
			}
			ws[i] = w
		}
		return ws
	}

	in := wells("B1", "A10", "A2", "H12", "A1")
	got := Order(in)
	want := wells("A1", "A2", "A10", "B1", "H12")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid order:\ngot= %v\nwant=%v", got, want)
	}

	// input untouched.
	if !reflect.DeepEqual(in, wells("B1", "A10", "A2", "H12", "A1")) {
		t.Fatalf("input was modified: %v", in)
	}

	if got, want := Locations(got), []int{1, 9, 73, 2, 96}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid locations:\ngot= %v\nwant=%v", got, want)
	}
}
