// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command six-ctl is an interactive console to the plate stage: it
// drives tray motion, temperature and timed well walks.
package main // import "github.com/go-amp/six/cmd/six-ctl"

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-amp/six/stage"
	"github.com/peterh/liner"
)

func main() {
	var (
		port = flag.String("port", "/dev/rfcomm0", "serial port of the plate stage")
	)

	flag.Parse()

	log.SetPrefix("six-ctl: ")
	log.SetFlags(0)

	err := run(*port)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(port string) error {
	conn, err := stage.Connect(port)
	if err != nil {
		return fmt.Errorf("could not connect to stage: %w", err)
	}
	defer conn.Close()

	seq := stage.NewSequencer(conn, stage.WithNotify(func(evt stage.Event) {
		switch evt.Kind {
		case stage.EventMoved:
			log.Printf("moved to well %v", evt.Well)
		case stage.EventComplete:
			log.Printf("walk complete")
		case stage.EventCancelled:
			log.Printf("walk cancelled")
		case stage.EventError:
			log.Printf("walk error: %+v", evt.Err)
		}
	}))

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	log.Printf("connected to stage on %q (type 'help' for commands)", port)

	for {
		line, err := term.Prompt("six> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			seq.Cancel()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		quit, err := dispatch(conn, seq, line)
		if err != nil {
			log.Printf("%+v", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func dispatch(conn *stage.Conn, seq *stage.Sequencer, line string) (bool, error) {
	toks := strings.Fields(line)
	switch strings.ToLower(toks[0]) {
	case "help":
		fmt.Print(usage)

	case "exit", "quit":
		seq.Cancel()
		return true, nil

	case "temp":
		if len(toks) != 2 {
			return false, fmt.Errorf("usage: temp <degrees>")
		}
		t, err := strconv.ParseFloat(toks[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid temperature %q: %w", toks[1], err)
		}
		return false, conn.AdjustTemp(t)

	case "insert":
		return false, conn.Insert()

	case "eject":
		return false, conn.Eject()

	case "stop":
		seq.Cancel()
		return false, conn.Stop()

	case "status":
		st, err := conn.Query()
		if err != nil {
			return false, err
		}
		switch {
		case st.Busy:
			log.Printf("state=%s method=%d well=%d left=%ds",
				st.StateName(), st.Method, st.Well, st.Left,
			)
		default:
			log.Printf("state=%s", st.StateName())
		}
		log.Printf("sequencer: %v (visited %d wells)", seq.State(), len(seq.Visited()))

	case "run":
		if len(toks) < 3 {
			return false, fmt.Errorf("usage: run <dwell-seconds> <well> [well...]")
		}
		secs, err := strconv.Atoi(toks[1])
		if err != nil {
			return false, fmt.Errorf("invalid dwell %q: %w", toks[1], err)
		}
		wells := make([]stage.Well, 0, len(toks)-2)
		for _, name := range toks[2:] {
			w, err := stage.ParseWell(strings.ToUpper(name))
			if err != nil {
				return false, err
			}
			wells = append(wells, w)
		}
		return false, seq.Start(wells, time.Duration(secs)*time.Second)

	case "cancel":
		seq.Cancel()

	default:
		return false, fmt.Errorf("unknown command %q (type 'help')", toks[0])
	}
	return false, nil
}

const usage = `commands:
  help                             display this help
  status                           query the stage and sequencer state
  temp <degrees>                   set the temperature target
  insert                           insert the tray
  eject                            eject the tray
  run <dwell-seconds> <well>...    walk the given wells
  cancel                           cancel the current walk
  stop                             cancel the walk and halt the stage
  exit                             quit
`
