/*
NAME
  track_test.go

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
	"math"
	"testing"
	"time"

	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/spheretracker/vision"
)

// circlePoints synthesizes the contour of a circle of the given radius
// centred at (cx,cy), for use as a stand-in detection result.
func circlePoints(cx, cy, radius float64, n int) []image.Point {
	pts := make([]image.Point, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = image.Pt(
			int(math.Round(cx+radius*math.Cos(theta))),
			int(math.Round(cy+radius*math.Sin(theta))),
		)
	}
	return pts
}

// circleAt returns a detection whose contour, expressed in the ROI-local
// coordinates detectInROI is documented to return, places a circle of the
// given radius at the absolute frame position (absX,absY) regardless of
// where roi currently sits.
func circleAt(roi image.Rectangle, absX, absY, radius float64, pixels int, meanBGR vision.Scalar3) detection {
	pts := circlePoints(absX-float64(roi.Min.X), absY-float64(roi.Min.Y), radius, 64)
	return detection{found: true, pts: pts, pixelsInMask: pixels, meanBGR: meanBGR}
}

// withDetect overrides detectInROI for the duration of fn, restoring the
// previous implementation afterwards.
func withDetect(t *testing.T, fn func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection) {
	t.Helper()
	prev := detectInROI
	detectInROI = fn
	t.Cleanup(func() { detectInROI = prev })
}

func newTestRecord() *ControllerRecord {
	return &ControllerRecord{
		ID:          "m1",
		AssignedRGB: RGB{255, 0, 255},
	}
}

// TestTrackFrameAcceptsCleanCircle covers scenario 3: a clean circular
// contour of radius 20 centred at (100,100), on the first frame (r_old==0),
// should be accepted and, because q1 clears the snap-to-mass threshold,
// reported at the mass centre.
func TestTrackFrameAcceptsCleanCircle(t *testing.T) {
	cfg := config.Default()
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)
	rec := newTestRecord()

	radius := 20.0
	pixels := int(math.Pi * radius * radius)
	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		return circleAt(roi, 100, 100, 20, pixels, vision.Scalar3{})
	})

	found := trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now())
	if !found {
		t.Fatalf("trackFrame() = false, want true (q1=%v q2=%v q3=%v)", rec.Q1, rec.Q2, rec.Q3)
	}
	if !rec.IsTracked {
		t.Fatal("IsTracked = false after a successful frame")
	}
	if math.Abs(rec.X-100) > 1.5 || math.Abs(rec.Y-100) > 1.5 {
		t.Fatalf("reported centre = (%v,%v), want close to (100,100)", rec.X, rec.Y)
	}
}

// TestTrackFrameSmoothsPositionTowardsNewCentre covers scenario 4: two
// consecutive frames whose true centre moves from (100,100) to (104,100) by
// less than the ~6px displacement (d/7+0.15 >= 1) that saturates the blend
// factor to 1, with adaptive XY smoothing enabled, should report an
// intermediate position strictly between the old and new centres rather than
// snapping straight to the new one. The blob fills only 60% of its circle,
// so q1 stays below the snap-to-mass threshold and the smoothed position is
// the one reported.
func TestTrackFrameSmoothsPositionTowardsNewCentre(t *testing.T) {
	cfg := config.Default()
	cfg.AdaptiveXY = true
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)
	rec := newTestRecord()

	radius := 20.0
	pixels := int(0.6 * math.Pi * radius * radius)
	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		return circleAt(roi, 100, 100, 20, pixels, vision.Scalar3{})
	})
	if !trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now()) {
		t.Fatal("first frame: trackFrame() = false, want true")
	}

	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		return circleAt(roi, 104, 100, 20, pixels, vision.Scalar3{})
	})
	if !trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now()) {
		t.Fatal("second frame: trackFrame() = false, want true")
	}

	if rec.X <= 100 || rec.X >= 104 {
		t.Fatalf("smoothed X = %v, want strictly between 100 and 104", rec.X)
	}
}

// TestTrackFrameRevertsOnColorDrift covers scenario 5: color adaptation
// driven far enough that the current estimate's hue diverges from the first
// calibrated color by more than the configured maximum reverts to the first
// color and reports the frame as not tracked.
func TestTrackFrameRevertsOnColorDrift(t *testing.T) {
	cfg := config.Default()
	// The default adaptation rate is kept: the first frame has no r_old, so
	// q2 is skipped and adaptation waits; the second frame passes every gate
	// because no color update has been recorded yet.
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)

	rec := newTestRecord()
	firstBGR := vision.Scalar3{0, 0, 255} // pure red: h=0.
	rec.setFirstColor(firstBGR)

	// A detection mean color far enough in hue from firstBGR that, averaged
	// in over successive accepted frames, e_hsv eventually drifts beyond
	// cfg.Adapt.MaxHSVDiff (35) from e_first_hsv.
	driftBGR := vision.Scalar3{255, 0, 0} // pure blue: h=120.
	radius := 20.0
	pixels := int(math.Pi * radius * radius)

	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		return circleAt(roi, 100, 100, 20, pixels, driftBGR)
	})

	reverted := false
	for i := 0; i < 10 && !reverted; i++ {
		trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now())
		if rec.EHSV == rec.EFirstHSV && !rec.IsTracked {
			reverted = true
		}
	}
	if !reverted {
		t.Fatalf("color never reverted after repeated drift; final EHSV=%v EFirstHSV=%v", rec.EHSV, rec.EFirstHSV)
	}
}

// TestTrackFrameWidensThroughAllLevelsThenSweepsInOneFrame covers spec.md
// §4.4(d): the widen branch ("decrement roi_level, clamp, and loop")
// re-detects within the same frame, so a controller that misses at every
// pyramid level exhausts the widen chain down to level 0 and performs one
// quadrant-sweep attempt, all within a single trackFrame call, rather than
// widening by only one level per frame.
func TestTrackFrameWidensThroughAllLevelsThenSweepsInOneFrame(t *testing.T) {
	cfg := config.Default()
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)
	rec := newTestRecord()
	startLevel := pyr.levels() - 1
	rec.ROILevel = startLevel

	calls := 0
	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		calls++
		return detection{found: false}
	})

	found := trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now())
	if found {
		t.Fatal("trackFrame() = true for a missed detection, want false")
	}
	if rec.IsTracked {
		t.Fatal("IsTracked = true for a missed detection, want false")
	}
	if wantCalls := startLevel + 1; calls != wantCalls {
		t.Fatalf("detectInROI called %d times, want %d (one per level widened through, down to 0)", calls, wantCalls)
	}
	if rec.ROILevel != 0 {
		t.Fatalf("ROILevel after exhausting the widen chain = %d, want 0", rec.ROILevel)
	}
	if rec.SearchQuadrant != 1 {
		t.Fatalf("SearchQuadrant after one sweep attempt = %d, want 1", rec.SearchQuadrant)
	}
}

// TestTrackFrameReacquiresAtWiderLevelWithinSameFrame covers the other half
// of spec.md §4.4(d): if a wider level's detect succeeds, the sphere is
// reacquired in the same frame that first missed at the narrower level,
// without waiting for a subsequent trackFrame call.
func TestTrackFrameReacquiresAtWiderLevelWithinSameFrame(t *testing.T) {
	cfg := config.Default()
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)
	rec := newTestRecord()
	rec.ROILevel = 2

	radius := 20.0
	pixels := int(math.Pi * radius * radius)
	calls := 0
	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		calls++
		if calls == 1 {
			return detection{found: false}
		}
		return circleAt(roi, 100, 100, 20, pixels, vision.Scalar3{})
	})

	found := trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, 0, time.Now())
	if !found {
		t.Fatalf("trackFrame() = false, want true (reacquired at the widened level within the same frame)")
	}
	if !rec.IsTracked {
		t.Fatal("IsTracked = false after reacquiring within the same frame")
	}
	if calls != 2 {
		t.Fatalf("detectInROI called %d times, want 2 (miss at level 2, hit after widening to level 1)", calls)
	}
}

// TestROIRecenterGatedByFPS confirms that the recenter helper of spec.md
// §4.6 only runs (calling detectInROI an extra time, ahead of the ordinary
// per-frame detect) once fps_ewma exceeds the configured threshold.
func TestROIRecenterGatedByFPS(t *testing.T) {
	cfg := config.Default()
	pyr := newROIPyramid(640, 480, cfg.ROILevels, cfg.ROIShrink)

	calls := 0
	withDetect(t, func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
		calls++
		return detection{found: false}
	})

	rec := newTestRecord()
	trackFrame(rec, vision.Mat{}, vision.Mat{}, pyr, cfg, cfg.ROIRecenterFPS-1, time.Now())
	if calls != 1 {
		t.Fatalf("detectInROI called %d times below the recenter fps threshold, want 1 (no recenter pass)", calls)
	}

	calls = 0
	rec2 := newTestRecord()
	trackFrame(rec2, vision.Mat{}, vision.Mat{}, pyr, cfg, cfg.ROIRecenterFPS+1, time.Now())
	if calls != 2 {
		t.Fatalf("detectInROI called %d times above the recenter fps threshold, want 2 (recenter pass + detect)", calls)
	}
}
