// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pot

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultGain maps a full-scale raw sample to 50 (gain-scaled
	// current units).
	DefaultGain = 50.0 / 32767

	// DefaultTempDiv converts the raw temperature sample to degrees.
	DefaultTempDiv = 16.0
)

// Reading is one converted acquisition cycle: six channel currents
// plus the temperature, tagged with a strictly increasing sample
// number and a capture timestamp.
type Reading struct {
	N       int       // sample number, starts at 1
	Time    time.Time // capture timestamp
	Chans   [NumChans]float64
	Temp    float64
	HasTemp bool // false when the frame carried no temperature sample
}

// Converter maps raw integer samples to physical units, with one
// configurable gain per channel and a temperature divisor.
type Converter struct {
	gains [NumChans]float64
	tdiv  float64
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithGain sets the gain of channel ch (0-based).
func WithGain(ch int, gain float64) ConverterOption {
	return func(cnv *Converter) {
		if ch >= 0 && ch < NumChans {
			cnv.gains[ch] = gain
		}
	}
}

// WithGains sets all channel gains at once.
func WithGains(gains [NumChans]float64) ConverterOption {
	return func(cnv *Converter) {
		cnv.gains = gains
	}
}

// WithTempDiv sets the raw-to-degrees temperature divisor.
func WithTempDiv(div float64) ConverterOption {
	return func(cnv *Converter) {
		cnv.tdiv = div
	}
}

// NewConverter creates a converter with the default shared gain and
// temperature divisor, then applies opts. The resulting configuration
// is validated: gains must be finite and non-zero, the temperature
// divisor non-zero.
func NewConverter(opts ...ConverterOption) (*Converter, error) {
	cnv := &Converter{tdiv: DefaultTempDiv}
	for i := range cnv.gains {
		cnv.gains[i] = DefaultGain
	}

	for _, opt := range opts {
		opt(cnv)
	}

	for i, gain := range cnv.gains {
		if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
			return nil, fmt.Errorf("pot: invalid gain %v for channel %d", gain, i)
		}
	}
	if cnv.tdiv == 0 || math.IsNaN(cnv.tdiv) || math.IsInf(cnv.tdiv, 0) {
		return nil, fmt.Errorf("pot: invalid temperature divisor %v", cnv.tdiv)
	}
	return cnv, nil
}

// Convert maps raw samples to a Reading. The first NumChans samples
// become channel currents; a 7th sample, when present, becomes the
// temperature. A short sample list degrades to a zero temperature.
// Values are rounded to 3 decimal places.
func (cnv *Converter) Convert(samples []int16) Reading {
	var r Reading
	for i := 0; i < NumChans && i < len(samples); i++ {
		r.Chans[i] = round3(float64(samples[i]) * cnv.gains[i])
	}
	if len(samples) > NumChans {
		r.Temp = round3(float64(samples[NumChans]) / cnv.tdiv)
		r.HasTemp = true
	}
	return r
}

func round3(v float64) float64 {
	return math.Round(v*1e3) / 1e3
}
