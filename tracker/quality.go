/*
NAME
  quality.go

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
	"math"

	"github.com/ausocean/spheretracker/tracker/config"
)

const qualityEpsilon = 1.1920929e-7

// qualityScores holds the three per-frame quality scores defined in
// spec.md §4.4 step 5: q1 is the pixel-ratio (blob area over circle area),
// q2 is the relative radius change (only meaningful when evaluated), and q3
// is the current radius, used as a minimum-radius proxy.
type qualityScores struct {
	q1, q2    float64
	q2Skipped bool
	q3        float64
}

// scoreQuality computes q1/q2/q3 for a candidate detection. pixelsInMask is
// the count of mask pixels inside the redrawn (contour-only) mask; r is the
// new candidate radius; rOld is the radius carried over from the previous
// frame; evaluateQ2 gates q2 per spec.md §4.4 step 5 ("only evaluated when
// r_old > 0 and search_quadrant == 0").
func scoreQuality(pixelsInMask int, r, rOld float64, evaluateQ2 bool) qualityScores {
	var q qualityScores
	q.q3 = r

	circleArea := math.Pi * r * r
	if circleArea > 0 {
		q.q1 = float64(pixelsInMask) / circleArea
	}
	if pixelsInMask < 20 {
		q.q1 /= 2
	}

	if evaluateQ2 && rOld > 0 {
		q.q2 = math.Abs(rOld-r) / (rOld + qualityEpsilon)
	} else {
		q.q2Skipped = true
	}
	return q
}

// accepted applies the acceptance test of spec.md §4.4 step 6:
// found ← (q1 > q1min) ∧ (q3 > q3min) ∧ (q2 < q2max when evaluated).
func (q qualityScores) accepted(t config.Quality) bool {
	if q.q1 <= t.MinPixelRatio {
		return false
	}
	if q.q3 <= t.MinRadius {
		return false
	}
	if !q.q2Skipped && q.q2 >= t.MaxRadiusDelta {
		return false
	}
	return true
}

// snapToMass reports whether q1 clears the snap-to-mass threshold of
// spec.md §4.4 step 7.
func (q qualityScores) snapToMass(threshold float64) bool {
	return q.q1 > threshold
}

// colorAdaptGate reports whether the color adaptation of spec.md §4.4 step
// 8 should run this frame, given that the contour was accepted (found),
// the elapsed time since the last update, and the configured gate.
func colorAdaptGate(found bool, elapsedSeconds float64, q qualityScores, g config.ColorAdapt) bool {
	if !found || g.Rate <= 0 {
		return false
	}
	if elapsedSeconds < g.Rate {
		return false
	}
	if q.q1 <= g.MinPixelRatio {
		return false
	}
	if q.q2Skipped || q.q2 >= g.MaxRadiusDelta {
		return false
	}
	if q.q3 <= g.MinRadius {
		return false
	}
	return true
}
