// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pot holds functions to decode the wire stream of the
// six-channel potentiostat and to convert its raw samples to
// physical units.
package pot // import "github.com/go-amp/six/pot"

const (
	frStart = 0x16 // frame start marker

	// trailer marker bytes, in window order
	frTrailer0 = 0x04
	frTrailer1 = 0x68
	frTrailer2 = 0x13
	frTrailer3 = 0x13
	frTrailer4 = 0x68

	trailerLen = 5
	headerLen  = 2 // start marker + checksum

	// DefaultFrameLen is the expected byte length of one frame on the
	// wire, start marker to trailer included.
	DefaultFrameLen = 25

	minFrameLen = headerLen + trailerLen
)

// NumChans is the number of amperometric channels carried by a frame.
const NumChans = 6
