/*
NAME
  track.go

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
	"time"

	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/spheretracker/vision"
)

// hsvBand returns the fixed HSV in-range half-widths from cfg as a
// vision.Scalar3, in the (H,S,V) channel order BGRToHSV produces.
func hsvBand(cfg config.Config) vision.Scalar3 {
	return vision.Scalar3{cfg.HSVBandH, cfg.HSVBandS, cfg.HSVBandV}
}

// proposeRecenter runs the ROI recenter helper of spec.md §4.6 against the
// given rectangle: detect, compute the mass centre, and return the shift
// that would re-centre the ROI on it.
func proposeRecenter(rec *ControllerRecord, frame, kernel vision.Mat, cfg config.Config, roi image.Rectangle) (image.Point, bool) {
	det := detectInROI(frame, roi, kernel, rec.EHSV, hsvBand(cfg))
	if !det.found {
		return image.Point{}, false
	}
	m00, m10, m01 := vision.ContourMoments(det.pts)
	cx, cy, ok := vision.Centroid(m00, m10, m01)
	if !ok {
		return image.Point{}, false
	}
	mxGlobal := roi.Min.X + int(cx)
	myGlobal := roi.Min.Y + int(cy)
	return image.Pt(mxGlobal-(roi.Min.X+roi.Dx()/2), myGlobal-(roi.Min.Y+roi.Dy()/2)), true
}

// currentROI returns rec's current ROI rectangle at its current pyramid
// level.
func currentROI(rec *ControllerRecord, pyr *roiPyramid) image.Rectangle {
	size := pyr.sizes[rec.ROILevel]
	return image.Rect(rec.ROIX, rec.ROIY, rec.ROIX+size.X, rec.ROIY+size.Y)
}

// smallestLevelFitting returns the smallest pyramid level index whose
// buffer is at least side×side, or the coarsest (largest-buffer) level if
// none is big enough.
func smallestLevelFitting(pyr *roiPyramid, side int) int {
	for i := 0; i < pyr.levels(); i++ {
		if pyr.sizes[i].X >= side && pyr.sizes[i].Y >= side {
			continue
		}
		if i == 0 {
			continue
		}
		return i - 1
	}
	return pyr.levels() - 1
}

// trackFrame runs the tracking engine of spec.md §4.4 for one controller
// for one frame, mutating rec in place, and returns whether the sphere was
// found this frame.
//
// Per spec.md §4.4, the widen branch of step (d) ("decrement roi_level,
// clamp, and loop") re-detects within the same frame at the widened ROI;
// only the quadrant-sweep branch ("next frame continues the sweep") exits
// to the caller. The loop terminates in at most roi_level+2 iterations:
// one detect per pyramid level widened through, from the starting level
// down to 0, plus one final quadrant-sweep attempt. A frame in which color
// adaptation is reverted counts as lost: the ROI is widened (or the sweep
// advanced) once and the search stops for this frame.
func trackFrame(rec *ControllerRecord, frame, kernel vision.Mat, pyr *roiPyramid, cfg config.Config, fpsEWMA float64, now time.Time) bool {
	// (a) ROI recenter.
	if fpsEWMA > cfg.ROIRecenterFPS {
		roi := currentROI(rec, pyr)
		if shift, ok := proposeRecenter(rec, frame, kernel, cfg, roi); ok {
			size := pyr.sizes[rec.ROILevel]
			x, y := vision.ClampOrigin(rec.ROIX+shift.X, rec.ROIY+shift.Y, size.X, size.Y, pyr.frameW, pyr.frameH)
			rec.ROIX, rec.ROIY = x, y
		}
	}

	maxIters := rec.ROILevel + 2
	for iter := 0; iter < maxIters; iter++ {
		roi := currentROI(rec, pyr)
		levelBeforeStep := rec.ROILevel

		// (b) Detect.
		det := detectInROI(frame, roi, kernel, rec.EHSV, hsvBand(cfg))

		reverted := false
		if det.found {
			var accepted bool
			accepted, reverted = trackContour(rec, pyr, roi, det, cfg, now)
			if accepted {
				rec.IsTracked = true
				return true
			}
		}

		// (d) No contour, or contour found but not accepted: widen and
		// keep searching this frame, unless already at the coarsest
		// level, in which case advance the quadrant sweep and leave
		// acquisition to a subsequent frame.
		widenOrSweep(rec, pyr, roi)
		if levelBeforeStep == 0 || reverted {
			break
		}
	}

	rec.IsTracked = false
	return false
}

// trackContour implements spec.md §4.4(c): given a detected contour in roi,
// compute position/radius, apply smoothing, score quality, decide
// acceptance, snap-to-mass, and (gated) color adaptation. On acceptance it
// also performs step 9 (next ROI) and returns true; otherwise rec's ROI is
// left untouched for the caller to widen or sweep. The second result reports
// whether color adaptation drifted too far and was reverted.
func trackContour(rec *ControllerRecord, pyr *roiPyramid, roi image.Rectangle, det detection, cfg config.Config, now time.Time) (bool, bool) {
	m00, m10, m01 := vision.ContourMoments(det.pts)
	cx, cy, ok := vision.Centroid(m00, m10, m01)
	var mx, my int
	if ok {
		mx = roi.Min.X + int(cx)
		my = roi.Min.Y + int(cy)
	}

	stride := vision.ContourStride(len(det.pts))
	xc, yc, r := vision.MaxChordRadius(det.pts, stride)

	rOld := rec.R

	// Step 3: adaptive Z-smoothing.
	if cfg.AdaptiveZ {
		dr := math.Abs(rec.RS - r)
		f := math.Min(dr/4+0.15, 1)
		rec.RS = rec.RS*(1-f) + r*f
		r = rec.RS
	} else {
		rec.RS = r
	}

	// Step 4: adaptive XY-smoothing.
	oldMX, oldMY := rec.MX, rec.MY
	if cfg.AdaptiveXY {
		d := vision.Dist(float64(oldMX), float64(oldMY), float64(mx), float64(my))
		f := math.Min(d/7+0.15, 1)
		rec.X = rec.X*(1-f) + (xc+float64(roi.Min.X))*f
		rec.Y = rec.Y*(1-f) + (yc+float64(roi.Min.Y))*f
	} else {
		rec.X = xc + float64(roi.Min.X)
		rec.Y = yc + float64(roi.Min.Y)
	}
	rec.MX, rec.MY = mx, my
	rec.R = r

	// Step 5: quality scores.
	evaluateQ2 := rOld > 0 && rec.SearchQuadrant == 0
	q := scoreQuality(det.pixelsInMask, r, rOld, evaluateQ2)
	rec.Q1, rec.Q2, rec.Q3 = q.q1, q.q2, q.q3

	// Step 6: acceptance.
	found := q.accepted(cfg.Track)
	reverted := false

	if found {
		// Step 7: snap-to-mass.
		if q.snapToMass(cfg.SnapToMassQ1) {
			rec.X, rec.Y = float64(mx), float64(my)
		}

		// Step 8: color adaptation.
		elapsed := math.Inf(1)
		if !rec.LastColorUpdate.IsZero() {
			elapsed = now.Sub(rec.LastColorUpdate).Seconds()
		}
		if colorAdaptGate(found, elapsed, q, cfg.Adapt) {
			avg := vision.Scalar3{
				0.5 * (rec.EBGR[0] + det.meanBGR[0]),
				0.5 * (rec.EBGR[1] + det.meanBGR[1]),
				0.5 * (rec.EBGR[2] + det.meanBGR[2]),
			}
			rec.setColor(avg)
			rec.LastColorUpdate = now

			if vision.HSVDiff(rec.EFirstHSV, rec.EHSV) > cfg.Adapt.MaxHSVDiff {
				rec.setColor(rec.EFirstBGR)
				found = false
				reverted = true
			}
		}
	}

	if !found {
		return false, reverted
	}

	// Step 9: next ROI.
	bounds := vision.BoundingRect(det.pts)
	side := 3 * maxInt(bounds.Dx(), bounds.Dy())
	rec.ROILevel = smallestLevelFitting(pyr, side)
	size := pyr.sizes[rec.ROILevel]
	x, y := vision.ClampOrigin(int(rec.X)-size.X/2, int(rec.Y)-size.Y/2, size.X, size.Y, pyr.frameW, pyr.frameH)
	rec.ROIX, rec.ROIY = x, y
	rec.SearchQuadrant = 0
	return true, false
}

// widenOrSweep implements spec.md §4.4(d): widen the ROI by one pyramid
// level if possible, otherwise advance the quadrant sweep at the coarsest
// level.
func widenOrSweep(rec *ControllerRecord, pyr *roiPyramid, roi image.Rectangle) {
	if rec.ROILevel > 0 {
		size := pyr.sizes[rec.ROILevel-1]
		x, y := vision.ClampOrigin(roi.Min.X+roi.Dx()/2, roi.Min.Y+roi.Dy()/2, size.X, size.Y, pyr.frameW, pyr.frameH)
		rec.ROILevel--
		rec.ROIX, rec.ROIY = x, y
		return
	}
	x, y := pyr.quadrantOrigin(rec.SearchQuadrant)
	rec.SearchQuadrant = (rec.SearchQuadrant + 1) % 4
	rec.ROILevel = 0
	rec.ROIX, rec.ROIY = x, y
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
