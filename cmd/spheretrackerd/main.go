/*
DESCRIPTION
  spheretrackerd wires a camera, an LED driver, a file-backed signature
  store and a structured logger into a tracker.Tracker and runs the
  tracking loop, in the same spirit as cmd/rv wiring revid.Revid in the
  teacher repository.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command spheretrackerd runs the sphere tracker against a live or
// file-replayed camera, persisting color signatures between sessions.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/spheretracker/camera"
	"github.com/ausocean/spheretracker/led"
	"github.com/ausocean/spheretracker/store"
	"github.com/ausocean/spheretracker/tracehtml"
	"github.com/ausocean/spheretracker/tracker"
	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration, matching cmd/rv's convention.
const (
	logPath      = "/var/log/spheretrackerd/spheretrackerd.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	replayDir := flag.String("replay-dir", "", "replay frames from this directory instead of opening a live camera")
	cameraIdx := flag.Int("camera", 0, "camera index (overridden by PSMOVE_TRACKER_CAMERA)")
	storeDir := flag.String("store-dir", "./spheretracker-store", "directory for persisted color signatures")
	traceDir := flag.String("trace-dir", "", "directory for HTML/PNG debug trace output; disabled if empty")
	ids := flag.String("controllers", "m1", "comma-separated controller ids to enable")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting spheretrackerd", "version", version)

	cfg := config.Default()
	cfg.Logger = log

	sigStore, err := store.NewFileStore(*storeDir, log)
	if err != nil {
		log.Fatal("failed to open signature store", "error", err)
	}

	var trace *tracehtml.Sink
	if *traceDir != "" {
		trace, err = tracehtml.New(*traceDir, log)
		if err != nil {
			log.Fatal("failed to open trace sink", "error", err)
		}
	}

	ldDriver := led.NewLogDriver(log)

	var t *tracker.Tracker
	if *replayDir != "" {
		cam, err := camera.NewFileCamera(*replayDir, 640, 480, log)
		if err != nil {
			log.Fatal("failed to open replay camera", "error", err)
		}
		t, err = tracker.New(cam, ldDriver, sigStore, cfg)
		if err != nil {
			log.Fatal("failed to construct tracker", "error", err)
		}
	} else {
		t, err = tracker.NewWithCamera(*cameraIdx, ldDriver, sigStore, cfg)
		if err != nil {
			log.Fatal("failed to open camera", "error", err)
		}
	}
	if trace != nil {
		t.SetTrace(trace)
	}
	defer func() {
		if trace != nil {
			trace.Flush()
		}
		if err := t.Free(); err != nil {
			log.Warning("failed to release tracker cleanly", "error", err)
		}
	}()

	for _, id := range splitIDs(*ids) {
		status := t.Enable(tracker.ControllerID(id))
		log.Info("enable", "controller", id, "status", status)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-sig:
			log.Info("shutting down")
			return
		case <-ticker.C:
			if err := t.UpdateImage(); err != nil {
				log.Warning("failed to acquire frame", "error", err)
				continue
			}
			found := t.Update("")
			log.Debug("update", "found", found)
		}
	}
}

func splitIDs(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
