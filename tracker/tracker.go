/*
NAME
  tracker.go

DESCRIPTION
  tracker.go provides Tracker, the sphere tracker's top-level session
  object, and its public API per spec.md §6.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tracker implements the sphere tracker: per-controller color
// calibration by LED blink-differencing and per-frame ROI tracking with
// adaptive smoothing, quality scoring, and color adaptation.
package tracker

import (
	"fmt"
	"os"
	"time"

	"github.com/ausocean/spheretracker/camera"
	"github.com/ausocean/spheretracker/led"
	"github.com/ausocean/spheretracker/store"
	"github.com/ausocean/spheretracker/tracehtml"
	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/spheretracker/vision"
)

var osGetenv = os.Getenv

// Tracker is the sphere tracker's top-level session object. It is not safe
// for concurrent use from multiple goroutines; per spec.md §5, callers
// serialize calls.
type Tracker struct {
	cfg config.Config

	cam   camera.Camera
	leds  led.Driver
	store store.Store

	palette *palette
	records *recordStore
	pyr     *roiPyramid
	kernel  vision.Mat

	frame          vision.Mat
	haveFrame      bool
	fpsEWMA        float64
	frameW, frameH int
	frameIndex     int

	// trace is an optional debug trace sink (spec.md §1's "HTML/debug
	// trace sink" collaborator); nil-safe.
	trace *tracehtml.Sink

	now   func() time.Time
	sleep func(time.Duration)
}

// SetTrace attaches sink as the tracker's debug trace sink. Every Update
// call after this appends one row per updated controller to sink. Passing
// nil detaches the sink.
func (t *Tracker) SetTrace(sink *tracehtml.Sink) {
	t.trace = sink
}

// nopStore is used when no store.Store is supplied; every read misses and
// every write is discarded, matching a fresh, unpersisted session.
type nopStore struct{}

func (nopStore) LoadSignature(string) (store.Signature, bool, error) {
	return store.Signature{}, false, nil
}
func (nopStore) SaveSignature(string, store.Signature) error { return nil }
func (nopStore) RemoveSignature(string) error                 { return nil }
func (nopStore) LoadCameraBackup() ([]byte, bool, error)       { return nil, false, nil }
func (nopStore) SaveCameraBackup([]byte) error                 { return nil }

// New constructs a Tracker around cam, which must already be open. ld and
// st may be nil, in which case a logging-only LED driver and a store that
// finds nothing and discards every write are used respectively.
func New(cam camera.Camera, ld led.Driver, st store.Store, cfg config.Config) (*Tracker, error) {
	if cam == nil {
		return nil, fmt.Errorf("tracker: nil camera")
	}
	if ld == nil {
		ld = led.NewLogDriver(cfg.Logger)
	}
	if st == nil {
		st = nopStore{}
	}

	t := &Tracker{
		cfg:     cfg,
		cam:     cam,
		leds:    ld,
		store:   st,
		palette: newPalette(),
		records: newRecordStore(),
		now:     time.Now,
		sleep:   time.Sleep,
	}

	t.frameW, t.frameH = cam.FrameSize()
	t.pyr = newROIPyramid(t.frameW, t.frameH, t.cfg.ROILevels, t.cfg.ROIShrink)
	t.kernel = vision.Kernel(t.cfg.KernelSize)

	if err := cam.SetExposure(t.cfg.DefaultExposure); err != nil && t.cfg.Logger != nil {
		t.cfg.Logger.Warning("tracker: failed to set default exposure", "error", err)
	}

	return t, nil
}

// NewWithCamera resolves the camera index from the PSMOVE_TRACKER_CAMERA
// environment variable, falling back to idx, opens it via camera.Open, and
// constructs a Tracker around it. camera.Open requires a build tagged
// withcv; without it, construct a Camera directly (e.g. a
// camera.FileCamera) and call New instead.
func NewWithCamera(idx int, ld led.Driver, st store.Store, cfg config.Config) (*Tracker, error) {
	resolved := config.ResolveCameraIndex(osGetenv, idx, cfg.Logger)
	cam, err := camera.Open(resolved, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("tracker: open camera %d: %w", resolved, err)
	}
	return New(cam, ld, st, cfg)
}

// Enable picks the first free palette color and calibrates controller id
// against it.
func (t *Tracker) Enable(id ControllerID) Status {
	rgb, ok := t.palette.pickFree()
	if !ok {
		return NotCalibrated
	}
	return t.enableWith(id, rgb)
}

// EnableWithColor calibrates controller id against the fixed color (r,g,b).
// If id is already enabled, it returns Calibrated (or Tracking, if it was
// already tracking) without recalibrating.
func (t *Tracker) EnableWithColor(id ControllerID, r, g, b uint8) Status {
	if rec := t.records.find(id); rec != nil {
		if rec.IsTracked {
			return Tracking
		}
		return Calibrated
	}
	return t.enableWith(id, RGB{r, g, b})
}

func (t *Tracker) enableWith(id ControllerID, rgb RGB) Status {
	entry := t.palette.find(rgb)
	if entry == nil || entry.used {
		return NotCalibrated
	}

	rec, err := doCalibrate(id, rgb, t.cam, t.leds, t.store, t.pyr, t.cfg, t.now, t.sleep)
	if err != nil {
		return NotCalibrated
	}

	t.palette.mark(rgb, true)
	t.records.insert(rec)
	t.store.SaveSignature(string(id), store.Signature{
		R: rgb.R, G: rgb.G, B: rgb.B,
		EFirstBGR: rec.EFirstBGR,
		EFirstHSV: rec.EFirstHSV,
	})
	return Calibrated
}

// Disable removes controller id's record and frees its palette color.
func (t *Tracker) Disable(id ControllerID) {
	rec := t.records.find(id)
	if rec == nil {
		return
	}
	t.palette.mark(rec.AssignedRGB, false)
	t.records.remove(id)
}

// Status returns controller id's current tracking state.
func (t *Tracker) Status(id ControllerID) Status {
	rec := t.records.find(id)
	if rec == nil {
		return NotCalibrated
	}
	if rec.IsTracked {
		return Tracking
	}
	return Calibrated
}

// Color returns controller id's assigned illumination color, post-dimming.
func (t *Tracker) Color(id ControllerID) (r, g, b uint8, ok bool) {
	rec := t.records.find(id)
	if rec == nil {
		return 0, 0, 0, false
	}
	dimmed := dimColor(rec.AssignedRGB, t.cfg.LEDDimFactor)
	return dimmed.R, dimmed.G, dimmed.B, true
}

// UpdateImage acquires a new frame from the camera for use by the next
// Update call.
func (t *Tracker) UpdateImage() error {
	frame, err := t.cam.AcquireFrame()
	if err != nil {
		t.haveFrame = false
		return err
	}
	t.frame = frame
	t.haveFrame = true
	return nil
}

// Update runs the tracking engine. If id is empty, every enabled
// controller is updated, in insertion order; otherwise only the named
// controller is. It returns the number of controllers for which the sphere
// was found this frame.
func (t *Tracker) Update(id ControllerID) int {
	start := t.now()
	defer t.updateFPS(start)

	if !t.haveFrame {
		return 0
	}

	var targets []*ControllerRecord
	if id == "" {
		targets = t.records.all()
	} else if rec := t.records.find(id); rec != nil {
		targets = []*ControllerRecord{rec}
	}

	found := 0
	for _, rec := range targets {
		if trackFrame(rec, t.frame, t.kernel, t.pyr, t.cfg, t.fpsEWMA, t.now()) {
			found++
		}
	}

	if t.trace != nil {
		for _, rec := range targets {
			t.trace.Record(string(rec.ID), tracehtml.Sample{
				FrameIndex: t.frameIndex,
				Q1:         rec.Q1,
				Q2:         rec.Q2,
				Q3:         rec.Q3,
				FPS:        t.fpsEWMA,
				IsTracked:  rec.IsTracked,
			})
		}
	}
	t.frameIndex++

	return found
}

func (t *Tracker) updateFPS(start time.Time) {
	durationMS := float64(t.now().Sub(start).Milliseconds())
	if durationMS <= 0 {
		return
	}
	t.fpsEWMA = 0.85*t.fpsEWMA + 0.15*(1000/durationMS)
}

// Position returns controller id's current smoothed position and radius.
func (t *Tracker) Position(id ControllerID) (x, y, r float64, ok bool) {
	rec := t.records.find(id)
	if rec == nil {
		return 0, 0, 0, false
	}
	return rec.X, rec.Y, rec.R, true
}

// Distance estimates controller id's physical distance from the camera, in
// millimetres, from its current apparent radius.
func (t *Tracker) Distance(id ControllerID) (float64, bool) {
	rec := t.records.find(id)
	if rec == nil {
		return 0, false
	}
	return estimateDistance(2*rec.R, t.cfg.Dist), true
}

// Image returns the most recently acquired frame, borrowed from the
// camera driver. It must not be retained past the next UpdateImage call.
func (t *Tracker) Image() (vision.Mat, bool) {
	return t.frame, t.haveFrame
}

// Free releases the tracker's camera, persisting every enabled
// controller's assigned color and calibrated (first) color signature first.
func (t *Tracker) Free() error {
	for _, rec := range t.records.all() {
		t.store.SaveSignature(string(rec.ID), store.Signature{
			R: rec.AssignedRGB.R, G: rec.AssignedRGB.G, B: rec.AssignedRGB.B,
			EFirstBGR: rec.EFirstBGR,
			EFirstHSV: rec.EFirstHSV,
		})
	}
	return t.cam.Close()
}
