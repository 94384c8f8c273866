// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-daq/tdaq/log"
)

// SeqState is the lifecycle state of a sequencer run.
type SeqState int

const (
	StateIdle SeqState = iota
	StateRunning
	StateComplete
	StateCancelled
)

func (st SeqState) String() string {
	switch st {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("SeqState(%d)", int(st))
}

// EventKind tags a sequencer notification.
type EventKind int

const (
	EventMoved EventKind = iota
	EventComplete
	EventCancelled
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventMoved:
		return "moved"
	case EventComplete:
		return "complete"
	case EventCancelled:
		return "cancelled"
	case EventError:
		return "error"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a sequencer notification. Moved events carry the well the
// stage just reached; Error events carry the failure.
type Event struct {
	Kind EventKind
	Well Well
	Err  error
}

type seqConfig struct {
	buffer  time.Duration
	settle  time.Duration
	timeout time.Duration
	temp    float64
	notify  func(Event)
}

func newSeqConfig(opts ...SeqOption) seqConfig {
	cfg := seqConfig{
		buffer:  65 * time.Second,
		settle:  9 * time.Second,
		timeout: 30 * time.Second,
		temp:    6,
		notify:  func(Event) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// SeqOption configures a sequencer.
type SeqOption func(*seqConfig)

// WithBuffer sets the delay before the first move, so the readout can
// settle on the starting well.
func WithBuffer(d time.Duration) SeqOption {
	return func(cfg *seqConfig) { cfg.buffer = d }
}

// WithSettle sets the extra per-well delay added to the dwell time to
// absorb the stage travel.
func WithSettle(d time.Duration) SeqOption {
	return func(cfg *seqConfig) { cfg.settle = d }
}

// WithMoveTimeout sets the timeout on individual stage commands.
func WithMoveTimeout(d time.Duration) SeqOption {
	return func(cfg *seqConfig) { cfg.timeout = d }
}

// WithPreTemp sets the temperature target applied before the run
// starts.
func WithPreTemp(t float64) SeqOption {
	return func(cfg *seqConfig) { cfg.temp = t }
}

// WithNotify sets the event callback. The callback runs on the
// sequencer timer goroutine and must not block.
func WithNotify(f func(Event)) SeqOption {
	return func(cfg *seqConfig) { cfg.notify = f }
}

// Sequencer walks the stage through a list of wells on a timer, one
// dwell period per well. A sequencer runs at most one plate walk at a
// time; a cancelled or completed run is terminal for that walk, and a
// new walk may be started afterwards.
type Sequencer struct {
	ctl Controller
	cfg seqConfig
	msg log.MsgStream

	mu      sync.Mutex
	state   SeqState
	wells   []Well
	idx     int
	dwell   time.Duration
	visited []Well
	timer   *time.Timer
}

// NewSequencer creates a sequencer driving the given stage controller.
func NewSequencer(ctl Controller, opts ...SeqOption) *Sequencer {
	return &Sequencer{
		ctl:   ctl,
		cfg:   newSeqConfig(opts...),
		msg:   log.NewMsgStream("sequencer", log.LvlInfo, os.Stdout),
		state: StateIdle,
	}
}

// Start begins a plate walk over the given wells, visiting them in
// canonical plate order and holding each for the dwell duration. The
// first move fires after the buffer delay. Start fails if a walk is
// already running.
func (seq *Sequencer) Start(wells []Well, dwell time.Duration) error {
	if len(wells) == 0 {
		return fmt.Errorf("stage: no wells to sequence")
	}
	if dwell <= 0 {
		return fmt.Errorf("stage: invalid dwell %v", dwell)
	}

	seq.mu.Lock()
	if seq.state == StateRunning {
		seq.mu.Unlock()
		return fmt.Errorf("stage: sequencer already running")
	}
	seq.state = StateRunning
	seq.wells = Order(wells)
	seq.idx = 0
	seq.dwell = dwell
	seq.visited = nil
	seq.mu.Unlock()

	err := seq.call(func() error { return seq.ctl.AdjustTemp(seq.cfg.temp) })
	if err != nil {
		seq.fail(fmt.Errorf("stage: could not set temperature: %w", err))
		return fmt.Errorf("stage: could not set temperature: %w", err)
	}

	seq.mu.Lock()
	defer seq.mu.Unlock()
	if seq.state != StateRunning { // cancelled during the temp command
		return fmt.Errorf("stage: sequencer cancelled")
	}
	seq.msg.Infof("starting walk over %d wells, dwell=%v", len(seq.wells), dwell)
	seq.timer = time.AfterFunc(seq.cfg.buffer, seq.tick)
	return nil
}

func (seq *Sequencer) tick() {
	seq.mu.Lock()
	if seq.state != StateRunning {
		seq.mu.Unlock()
		return
	}
	if seq.idx >= len(seq.wells) {
		seq.state = StateComplete
		seq.msg.Infof("walk complete, %d wells visited", len(seq.visited))
		seq.mu.Unlock()
		seq.cfg.notify(Event{Kind: EventComplete})
		return
	}
	well := seq.wells[seq.idx]
	dwell := seq.dwell
	seq.mu.Unlock()

	mv, err := NewMethod([]int{well.Location()}, int(dwell.Seconds()))
	if err == nil {
		var prog Sequence
		prog, err = NewSequence(mv)
		if err == nil {
			err = seq.call(func() error { return seq.ctl.Move(prog) })
		}
	}
	if err != nil {
		seq.fail(fmt.Errorf("stage: could not move to %v: %w", well, err))
		return
	}

	seq.mu.Lock()
	if seq.state != StateRunning { // cancelled during the move
		seq.mu.Unlock()
		return
	}
	seq.visited = append(seq.visited, well)
	seq.idx++
	seq.timer.Reset(dwell + seq.cfg.settle)
	seq.mu.Unlock()

	seq.msg.Debugf("moved to %v", well)
	seq.cfg.notify(Event{Kind: EventMoved, Well: well})
}

// Cancel aborts the current walk. Cancelling an idle or finished
// sequencer is a no-op.
func (seq *Sequencer) Cancel() {
	seq.mu.Lock()
	if seq.state != StateRunning {
		seq.mu.Unlock()
		return
	}
	seq.state = StateCancelled
	if seq.timer != nil {
		seq.timer.Stop()
	}
	seq.mu.Unlock()

	seq.msg.Infof("walk cancelled")
	seq.cfg.notify(Event{Kind: EventCancelled})
}

// State returns the sequencer lifecycle state.
func (seq *Sequencer) State() SeqState {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	return seq.state
}

// Visited returns the wells reached so far, in visit order.
func (seq *Sequencer) Visited() []Well {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	out := make([]Well, len(seq.visited))
	copy(out, seq.visited)
	return out
}

func (seq *Sequencer) fail(err error) {
	seq.mu.Lock()
	if seq.state != StateRunning {
		seq.mu.Unlock()
		return
	}
	seq.state = StateCancelled
	if seq.timer != nil {
		seq.timer.Stop()
	}
	seq.mu.Unlock()

	seq.msg.Errorf("%+v", err)
	seq.cfg.notify(Event{Kind: EventError, Err: err})
}

// call runs a stage command under the move timeout. A command that
// overruns the timeout is treated as a stage fault.
func (seq *Sequencer) call(f func() error) error {
	done := make(chan error, 1)
	go func() { done <- f() }()

	select {
	case err := <-done:
		return err
	case <-time.After(seq.cfg.timeout):
		return fmt.Errorf("stage: command timed out after %v", seq.cfg.timeout)
	}
}
