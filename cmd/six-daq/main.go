// Copyright 2025 The go-amp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command six-daq acquires sensor readings from the potentiostat and
// appends them to a run log file.
package main // import "github.com/go-amp/six/cmd/six-daq"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-amp/six"
	"github.com/go-amp/six/internal/runlog"
	"github.com/go-amp/six/pot"
	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		port    = flag.String("port", "/dev/ttyUSB0", "serial port of the potentiostat")
		baud    = flag.Int("baud", 9600, "serial baud rate")
		timeout = flag.Duration("timeout", 500*time.Millisecond, "serial read timeout")
		flen    = flag.Int("len", pot.DefaultFrameLen, "frame length in bytes")
		oname   = flag.String("o", "", "path to the output run log file")
	)

	flag.Parse()

	log.SetPrefix("six-daq: ")
	log.SetFlags(0)

	err := run(*port, *baud, *timeout, *flen, *oname)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(port string, baud int, timeout time.Duration, flen int, oname string) error {
	version, sum := six.Version()
	log.Printf("six-daq version=%s sum=%s", version, sum)

	if oname == "" {
		oname = time.Now().Format("run_2006-01-02_15h04m05s.txt")
	}

	f, err := os.OpenFile(oname, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("could not open run log file %q: %w", oname, err)
	}
	defer f.Close()

	cnv, err := pot.NewConverter()
	if err != nil {
		return fmt.Errorf("could not create converter: %w", err)
	}

	ro, err := pot.NewReadout(port, cnv, runlog.New(f),
		pot.WithBaud(baud),
		pot.WithReadTimeout(timeout),
		pot.WithFrameLen(flen),
	)
	if err != nil {
		return fmt.Errorf("could not create readout: %w", err)
	}
	defer ro.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("acquiring from %q to %q...", port, oname)

	var grp errgroup.Group
	grp.Go(func() error {
		return ro.Run(ctx)
	})

	err = grp.Wait()
	if err != nil {
		return fmt.Errorf("could not run readout: %w", err)
	}

	log.Printf("acquisition done (%d invalid frames)", ro.Invalid())

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close run log file %q: %w", oname, err)
	}
	return nil
}
