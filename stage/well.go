// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	numRows = 8  // rows A..H
	numCols = 12 // columns 1..12
)

// Well identifies one well of the 96-well plate: a row letter A-H and
// a column number 1-12.
type Well struct {
	Row byte // 'A'..'H'
	Col int  // 1..12
}

// ParseWell parses a well identifier such as "A2" or "H12".
func ParseWell(s string) (Well, error) {
	if len(s) < 2 {
		return Well{}, fmt.Errorf("stage: invalid well %q", s)
	}
	row := s[0]
	if row < 'A' || row >= 'A'+numRows {
		return Well{}, fmt.Errorf("stage: invalid well row %q", s)
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 || col > numCols {
		return Well{}, fmt.Errorf("stage: invalid well column %q", s)
	}
	return Well{Row: row, Col: col}, nil
}

func (w Well) String() string {
	return string(w.Row) + strconv.Itoa(w.Col)
}

// Location returns the stage location number of the well. The stage
// counts column-major: A1=1, B1=2, ... H1=8, A2=9, ... H12=96.
func (w Well) Location() int {
	return (w.Col-1)*numRows + int(w.Row-'A') + 1
}

// Order returns the wells in canonical run order: row letter first,
// then column as an integer, so "A2" comes before "A10" which comes
// before "B1". The input is not modified.
func Order(wells []Well) []Well {
	ws := append([]Well(nil), wells...)
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].Row != ws[j].Row {
			return ws[i].Row < ws[j].Row
		}
		return ws[i].Col < ws[j].Col
	})
	return ws
}

// Locations maps wells to their stage location numbers, in order.
func Locations(wells []Well) []int {
	locs := make([]int, len(wells))
	for i, w := range wells {
		locs[i] = w.Location()
	}
	return locs
}
