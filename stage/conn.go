// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tarm/serial"
)

// Controller is the stage surface the sequencer drives. All commands
// are synchronous: they return once the command has been handed to the
// device, or an error.
type Controller interface {
	AdjustTemp(target float64) error
	Insert() error
	Eject() error
	Stop() error
	Move(seq Sequence) error
}

var _ Controller = (*Conn)(nil)

var stageOpen = stageOpenImpl

func stageOpenImpl(port string) (io.ReadWriteCloser, error) {
	return serial.OpenPort(&serial.Config{
		Name:        port,
		Baud:        9600,
		ReadTimeout: 500 * time.Millisecond,
	})
}

// Conn is a session with the stage controller. The stage is a single
// physical device with no concurrent-access guarantee: every command
// is serialized through the connection mutex.
type Conn struct {
	mu  sync.Mutex
	rwc io.ReadWriteCloser
	r   *bufio.Reader
	msg *log.Logger
}

// Connect opens a session with the stage controller on the given port
// and performs the wake-up handshake.
func Connect(port string) (*Conn, error) {
	rwc, err := stageOpen(port)
	if err != nil {
		return nil, fmt.Errorf("stage: could not open %q: %w", port, err)
	}

	c := &Conn{
		rwc: rwc,
		r:   bufio.NewReader(&pollReader{r: rwc, backoff: 50 * time.Millisecond}),
		msg: log.New(os.Stdout, "stage: ", 0),
	}

	for _, cmd := range []string{cmdHello, cmdQuery} {
		err = c.send(cmd)
		if err != nil {
			_ = rwc.Close()
			return nil, fmt.Errorf("stage: could not handshake: %w", err)
		}
	}
	return c, nil
}

// Close closes the session.
func (c *Conn) Close() error { return c.rwc.Close() }

// AdjustTemp sets the stage temperature target, in degrees.
func (c *Conn) AdjustTemp(target float64) error {
	if target < 0 || target > 99.9 {
		return fmt.Errorf("stage: temperature %v out of range [0, 99.9]", target)
	}
	cmd := "@V," + strconv.FormatFloat(target, 'g', -1, 64) + "\n"
	err := c.send(cmd)
	if err != nil {
		return err
	}
	c.msg.Printf("temperature target set to %v", target)
	return nil
}

// Insert inserts the tray.
func (c *Conn) Insert() error { return c.send(cmdInsert) }

// Eject ejects the tray.
func (c *Conn) Eject() error { return c.send(cmdEject) }

// Stop aborts the current stage operation.
func (c *Conn) Stop() error { return c.send(cmdStop) }

// Move sends a move program to the stage. The motion itself is
// asynchronous on the device side; Move returns once the command is
// on the wire.
func (c *Conn) Move(seq Sequence) error {
	err := c.send(seq.String())
	if err != nil {
		return err
	}
	c.msg.Printf("move command sent: %q", strings.TrimSpace(seq.String()))
	return nil
}

func (c *Conn) send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.rwc, cmd)
	if err != nil {
		return fmt.Errorf("stage: could not send %q: %w", strings.TrimSpace(cmd), err)
	}
	return nil
}

// Status is a decoded "@q" query reply.
type Status struct {
	State  int  // device state id
	Busy   bool // a method is in progress
	Method int  // running method number, 0 when idle
	Well   int  // current well location
	Left   int  // seconds left at the current well
}

// StateName returns the human name of the device state id.
func (st Status) StateName() string {
	switch st.State {
	case 1:
		return "Resting"
	case 2:
		return "Ejected Tray"
	case 5:
		return "Moving Tray"
	case 10:
		return "Moving"
	default:
		return "Unknown"
	}
}

// Query polls the stage for its status and decodes the reply.
func (c *Conn) Query() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(c.rwc, cmdQuery)
	if err != nil {
		return Status{}, fmt.Errorf("stage: could not send query: %w", err)
	}

	// the device interleaves unsolicited lines (e.g. "@E,..." exit
	// reports) with query replies: skip until a "@q" line.
	for i := 0; i < 32; i++ {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return Status{}, fmt.Errorf("stage: could not read query reply: %w", err)
		}
		if !strings.HasPrefix(line, "@q") {
			c.msg.Printf("skipping reply %q", strings.TrimSpace(line))
			continue
		}
		return parseStatus(line)
	}
	return Status{}, fmt.Errorf("stage: no query reply")
}

func parseStatus(line string) (Status, error) {
	toks := strings.Split(strings.TrimSpace(strings.TrimPrefix(line, "@q,")), ",")
	if len(toks) < 4 {
		return Status{}, fmt.Errorf("stage: invalid query reply %q", strings.TrimSpace(line))
	}

	var (
		st  Status
		err error
	)
	st.State, err = strconv.Atoi(toks[0])
	if err != nil {
		return Status{}, fmt.Errorf("stage: invalid state in query reply %q: %w", strings.TrimSpace(line), err)
	}
	st.Method, err = strconv.Atoi(toks[1])
	if err != nil {
		return Status{}, fmt.Errorf("stage: invalid method in query reply %q: %w", strings.TrimSpace(line), err)
	}
	st.Busy = st.Method != 0
	if st.Busy {
		st.Well, _ = strconv.Atoi(toks[2])
		st.Left, _ = strconv.Atoi(toks[3])
	}
	return st, nil
}

// pollReader sleeps between empty reads so that status polling does
// not spin on the serial read timeout.
type pollReader struct {
	r       io.Reader
	backoff time.Duration
}

func (pr *pollReader) Read(p []byte) (int, error) {
	for {
		n, err := pr.r.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
		time.Sleep(pr.backoff)
	}
}
