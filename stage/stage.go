// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stage drives the robotic plate-handling stage: well
// addressing, the stage wire commands and a cancellable timed
// sequencer that walks a selection of wells.
package stage // import "github.com/go-amp/six/stage"
