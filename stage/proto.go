// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"fmt"
	"strings"
)

// stage command set. Every command line ends with '\n'.
const (
	cmdHello  = "@?\n" // handshake
	cmdQuery  = "@Q\n" // status query
	cmdInsert = "@Z\n" // insert the tray
	cmdEject  = "@Y\n" // eject the tray
	cmdStop   = "@T\n" // stop the current operation
)

// Method is one stage program step: a list of location numbers and the
// dwell time, in seconds, spent at each of them.
type Method struct {
	Locs []int
	Secs int
}

// NewMethod validates and builds a method. The dwell time must fit the
// 4-digit wire field (0-9999) and at least one location is required.
func NewMethod(locs []int, secs int) (Method, error) {
	if len(locs) == 0 {
		return Method{}, fmt.Errorf("stage: method needs at least one location")
	}
	if secs < 0 || secs > 9999 {
		return Method{}, fmt.Errorf("stage: method time %d out of range [0, 9999]", secs)
	}
	return Method{Locs: locs, Secs: secs}, nil
}

// String encodes the method in wire form: the dwell time zero-padded
// to 4 digits and each location zero-padded to 2, comma-terminated.
func (m Method) String() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "%04d,", m.Secs)
	for _, loc := range m.Locs {
		fmt.Fprintf(o, "%02d,", loc)
	}
	return o.String()
}

// Sequence is an ordered stage program of one or more methods.
type Sequence struct {
	Methods []Method
}

// NewSequence validates and builds a sequence.
func NewSequence(methods ...Method) (Sequence, error) {
	if len(methods) == 0 {
		return Sequence{}, fmt.Errorf("stage: sequence needs at least one method")
	}
	return Sequence{Methods: methods}, nil
}

// String encodes the sequence as a move command: "@P," followed by the
// numbered methods and a blank line.
func (s Sequence) String() string {
	o := new(strings.Builder)
	o.WriteString("@P,")
	for i, m := range s.Methods {
		fmt.Fprintf(o, "M%d,%s", i+1, m)
	}
	o.WriteString("\n\n")
	return o.String()
}
