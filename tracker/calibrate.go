/*
NAME
  calibrate.go

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
	"errors"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/spheretracker/tracker/config"
	"github.com/ausocean/spheretracker/vision"
)

// ErrCalibration is returned by calibration when the blink capture finds no
// blob or fails any of the cross-blink consistency checks. Enable and
// EnableWithColor report it to callers as NotCalibrated; a missing free
// palette color is reported the same way without calling calibration.
var ErrCalibration = errors.New("tracker: calibration error")

// blinkSample is one of the 4 blink contours gathered during calibration.
type blinkSample struct {
	found       bool
	area        float64
	boundsOrigin image.Point
}

// evaluateBlinks applies the cross-check and accept conditions of spec.md
// §4.3 steps 5-6 to 4 blink samples: each must be found, larger than
// minBlobSize and within maxDisplacement of the first, and the population
// standard deviation of their sizes must not exceed maxSizeStdFrac of their
// mean. It returns nil on success or ErrCalibration otherwise.
func evaluateBlinks(samples [4]blinkSample, maxDisplacement, maxSizeStdFrac, minBlobSize float64) error {
	first := samples[0].boundsOrigin
	sizes := make([]float64, 4)
	for i, s := range samples {
		if !s.found || s.area <= minBlobSize {
			return ErrCalibration
		}
		d := vision.Dist(float64(first.X), float64(first.Y), float64(s.boundsOrigin.X), float64(s.boundsOrigin.Y))
		if d > maxDisplacement {
			return ErrCalibration
		}
		sizes[i] = s.area
	}

	mean := stat.Mean(sizes, nil)
	var sumSq float64
	for _, s := range sizes {
		sumSq += (s - mean) * (s - mean)
	}
	std := math.Sqrt(sumSq / float64(len(sizes)))
	if mean == 0 || std/mean > maxSizeStdFrac {
		return ErrCalibration
	}
	return nil
}

// hueDrifted reports whether the estimated average color's hue differs
// from the assigned illumination color's hue by more than the fixed
// 12-unit warning threshold of spec.md §4.3 step 4. It is not a failure
// condition; callers log a warning and continue.
func hueDrifted(avgHSV vision.Scalar3, assignedHue float64) bool {
	return math.Abs(avgHSV[0]-assignedHue) > 12
}

// fastPathAccepted applies the fast-path acceptance test of spec.md §4.3
// step 1. Per the Open Question in spec.md §9, q2 is deliberately not
// checked here, even though the tracking engine's ordinary acceptance test
// does check it.
func fastPathAccepted(tries []qualityScores, cfg config.Config) bool {
	if len(tries) == 0 {
		return false
	}
	for _, q := range tries {
		if q.q1 <= cfg.FastPathMinQ1 || q.q3 <= cfg.FastPathMinQ3 {
			return false
		}
	}
	return true
}
