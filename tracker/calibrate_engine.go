/*
NAME
  calibrate_engine.go

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package tracker

import (
	"image"
	"time"

	"github.com/ausocean/spheretracker/camera"
	"github.com/ausocean/spheretracker/led"
	"github.com/ausocean/spheretracker/store"
	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/spheretracker/vision"
)

const pollInterval = 10 * time.Millisecond

// calibrateFunc is the signature of the calibration entry point, factored
// out so tests can substitute a stub calibration outcome without driving a
// real (or stubbed) camera and LED pipeline through blink capture.
type calibrateFunc func(id ControllerID, rgb RGB, cam camera.Camera, leds led.Driver, st store.Store, pyr *roiPyramid, cfg config.Config, now func() time.Time, sleep func(time.Duration)) (*ControllerRecord, error)

// doCalibrate is the calibration entry point a Tracker invokes; it defaults
// to calibrate but may be swapped by tests.
var doCalibrate calibrateFunc = calibrate

// calibrate implements spec.md §4.3: try the fast path against a persisted
// signature first, falling back to a fresh blink capture.
func calibrate(id ControllerID, rgb RGB, cam camera.Camera, leds led.Driver, st store.Store, pyr *roiPyramid, cfg config.Config, now func() time.Time, sleep func(time.Duration)) (*ControllerRecord, error) {
	if sig, ok, _ := st.LoadSignature(string(id)); ok {
		rec := &ControllerRecord{ID: id, AssignedRGB: rgb}
		rec.setFirstColor(sig.EFirstBGR)
		rec.setColor(sig.EFirstBGR)
		if tryFastPath(rec, leds, cam, pyr, cfg, now, sleep) {
			return rec, nil
		}
	}
	return blinkCalibrate(id, rgb, cam, leds, pyr, cfg, now, sleep)
}

// tryFastPath runs the tracking engine cfg.FastPathTries times, driving the
// sphere to rec.AssignedRGB between tries, and reports whether every try
// cleared the fast-path thresholds.
func tryFastPath(rec *ControllerRecord, leds led.Driver, cam camera.Camera, pyr *roiPyramid, cfg config.Config, now func() time.Time, sleep func(time.Duration)) bool {
	kernel := vision.Kernel(cfg.KernelSize)
	tries := make([]qualityScores, 0, cfg.FastPathTries)
	for i := 0; i < cfg.FastPathTries; i++ {
		dimmed := dimColor(rec.AssignedRGB, cfg.LEDDimFactor)
		leds.SetLEDs(string(rec.ID), dimmed.R, dimmed.G, dimmed.B)
		leds.Commit()
		sleep(time.Duration(cfg.FastPathIntervalMS) * time.Millisecond)

		frame, err := cam.AcquireFrame()
		if err != nil {
			return false
		}
		trackFrame(rec, frame, kernel, pyr, cfg, 0, now())
		tries = append(tries, qualityScores{q1: rec.Q1, q2: rec.Q2, q3: rec.Q3})
	}
	return fastPathAccepted(tries, cfg)
}

// pollFrame polls the camera for up to delayMS milliseconds, in pollInterval
// steps, and returns an owned copy of the last frame seen.
func pollFrame(cam camera.Camera, delayMS int, sleep func(time.Duration)) vision.Mat {
	deadline := time.Duration(delayMS) * time.Millisecond
	var elapsed time.Duration
	var last vision.Mat
	for elapsed < deadline {
		if frame, err := cam.AcquireFrame(); err == nil {
			last = frame.Clone()
		}
		sleep(pollInterval)
		elapsed += pollInterval
	}
	return last
}

// blinkCalibrate implements the blink-difference capture and cross-check of
// spec.md §4.3 steps 2-7.
func blinkCalibrate(id ControllerID, rgb RGB, cam camera.Camera, leds led.Driver, pyr *roiPyramid, cfg config.Config, now func() time.Time, sleep func(time.Duration)) (*ControllerRecord, error) {
	w, h := cam.FrameSize()
	full := image.Rect(0, 0, w, h)
	kernel := vision.Kernel(cfg.KernelSize)
	dimmed := dimColor(rgb, cfg.LEDDimFactor)

	onFrames := make([]vision.Mat, cfg.Blinks)
	offFrames := make([]vision.Mat, cfg.Blinks)
	for i := 0; i < cfg.Blinks; i++ {
		leds.SetLEDs(string(id), dimmed.R, dimmed.G, dimmed.B)
		leds.Commit()
		onFrames[i] = pollFrame(cam, cfg.BlinkDelayMS, sleep)

		leds.SetLEDs(string(id), 0, 0, 0)
		leds.Commit()
		offFrames[i] = pollFrame(cam, cfg.BlinkDelayMS, sleep)
	}

	diffs := make([]vision.Mat, cfg.Blinks)
	for i := 0; i < cfg.Blinks; i++ {
		var greyOn, greyOff, diff, thresh vision.Mat
		vision.ToGray(onFrames[i], &greyOn)
		vision.ToGray(offFrames[i], &greyOff)
		vision.AbsDiff(greyOn, greyOff, &diff)
		vision.ThresholdBinary(diff, &thresh, float32(cfg.CalibDiffThreshold))
		var cleaned vision.Mat
		vision.ErodeDilate(thresh, &cleaned, kernel)
		diffs[i] = cleaned
		greyOn.Close()
		greyOff.Close()
		diff.Close()
		thresh.Close()
	}

	mask := diffs[0]
	for i := 1; i < cfg.Blinks; i++ {
		var combined vision.Mat
		vision.BitwiseAnd(mask, diffs[i], &combined)
		mask.Close()
		diffs[i].Close()
		mask = combined
	}
	defer mask.Close()

	pts, _, ok := vision.BiggestContour(mask)
	if !ok {
		closeFrames(onFrames, offFrames)
		return nil, ErrCalibration
	}

	var redrawn vision.Mat
	vision.FillPoly(mask, pts, &redrawn)
	defer redrawn.Close()
	if vision.CountNonZero(redrawn) < int(cfg.CalibMinBlobSize) {
		if cfg.Logger != nil {
			cfg.Logger.Warning("calibration blob smaller than minimum", "controller", id)
		}
	}

	avgBGR := vision.MaskedMeanBGR(onFrames[0], redrawn)
	avgHSV := vision.BGRToHSV(avgBGR)
	assignedHSV := vision.BGRToHSV(vision.Scalar3{float64(rgb.B), float64(rgb.G), float64(rgb.R)})
	if hueDrifted(avgHSV, assignedHSV[0]) && cfg.Logger != nil {
		cfg.Logger.Warning("calibration color hue drifted from assigned color", "controller", id)
	}

	band := hsvBand(cfg)
	var samples [4]blinkSample
	for i := 0; i < cfg.Blinks; i++ {
		det := detectInROI(onFrames[i], full, kernel, avgHSV, band)
		bounds := vision.BoundingRect(det.pts)
		samples[i] = blinkSample{found: det.found, area: float64(det.pixelsInMask), boundsOrigin: bounds.Min}
	}
	if err := evaluateBlinks(samples, cfg.CalibMaxDisplacement, cfg.CalibMaxSizeStdFrac, cfg.CalibMinBlobSize); err != nil {
		closeFrames(onFrames, offFrames)
		return nil, err
	}

	closeFrames(onFrames, offFrames)

	rec := &ControllerRecord{ID: id, AssignedRGB: rgb}
	rec.setFirstColor(avgBGR)
	return rec, nil
}

// closeFrames releases every Mat in onFrames and offFrames. It is called on
// every blinkCalibrate return path (success and failure alike) so a failed
// calibration does not leak the blink capture's scratch Mats.
func closeFrames(onFrames, offFrames []vision.Mat) {
	for i := range onFrames {
		onFrames[i].Close()
	}
	for i := range offFrames {
		offFrames[i].Close()
	}
}

// dimColor applies the configured LED dim factor to each channel,
// clamping to [0,255], matching the fixed scaling factor of spec.md §6.
func dimColor(rgb RGB, factor float64) RGB {
	return RGB{R: scaleByte(rgb.R, factor), G: scaleByte(rgb.G, factor), B: scaleByte(rgb.B, factor)}
}

func scaleByte(v uint8, factor float64) uint8 {
	s := float64(v) * factor
	if s > 255 {
		s = 255
	}
	if s < 0 {
		s = 0
	}
	return uint8(s)
}
