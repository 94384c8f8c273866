// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runlog writes acquisition readings to the legacy append-only
// tab-separated run-log format, byte-for-byte.
package runlog // import "github.com/go-amp/six/internal/runlog"

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-amp/six/pot"
)

// stamp is the layout of the Created/Start lines. Fixed layout, not
// locale-dependent.
const stamp = "01/02/2006\t03:04:05 PM"

// header names up to 4 hardware units of 16 channels each, wider than
// the 8 columns a reading actually fills.
func header() string {
	o := new(strings.Builder)
	o.WriteString("counter\tt[min]")
	for unit := 1; unit <= 4; unit++ {
		for ch := 1; ch <= 16; ch++ {
			fmt.Fprintf(o, "\t#%dch%d", unit, ch)
		}
	}
	o.WriteString("\n")
	return o.String()
}

// Writer appends readings to w. The first reading is preceded by the
// "Created:" line, the channel header and the "Start:" line.
// Writer is single-writer: no concurrent appends to the same file.
type Writer struct {
	w   io.Writer
	n   int
	now func() time.Time
}

// New creates a run-log writer on top of w.
func New(w io.Writer) *Writer {
	return &Writer{w: w, now: time.Now}
}

// Write appends one reading. I/O errors propagate to the caller:
// a reading must not be silently dropped.
func (w *Writer) Write(r pot.Reading) error {
	if w.n == 0 {
		err := w.preamble()
		if err != nil {
			return err
		}
	}

	o := new(strings.Builder)
	o.WriteString(strconv.Itoa(r.N))
	for _, v := range r.Chans {
		o.WriteString("\t")
		o.WriteString(formatValue(v))
	}
	o.WriteString("\t")
	if r.HasTemp {
		o.WriteString(formatValue(r.Temp))
	} else {
		o.WriteString("0")
	}
	o.WriteString("\n")

	_, err := io.WriteString(w.w, o.String())
	if err != nil {
		return fmt.Errorf("runlog: could not append reading %d: %w", r.N, err)
	}
	w.n++
	return nil
}

func (w *Writer) preamble() error {
	now := w.now()
	_, err := fmt.Fprintf(w.w, "Created: %s\n%sStart: %s\n",
		now.Format(stamp), header(), now.Format(stamp),
	)
	if err != nil {
		return fmt.Errorf("runlog: could not write preamble: %w", err)
	}
	return nil
}

// formatValue renders v the way the legacy collector did: shortest
// decimal form, integral values with a trailing ".0".
func formatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
