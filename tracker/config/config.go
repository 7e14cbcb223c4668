/*
NAME
  config.go

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration and numeric policy used by the
// sphere tracker.
package config

import (
	"strconv"

	"github.com/ausocean/utils/logging"
)

// Quality is a threshold triple used by the tracking engine's acceptance
// test (spec q1/q2/q3).
type Quality struct {
	MinPixelRatio  float64 // q1 accept threshold.
	MaxRadiusDelta float64 // q2 accept threshold.
	MinRadius      float64 // q3 accept threshold, in pixels.
}

// ColorAdapt holds the gating thresholds and rate for online color
// adaptation.
type ColorAdapt struct {
	MinPixelRatio float64 // q1 gate.
	MaxRadiusDelta float64 // q2 gate.
	MinRadius      float64 // q3 gate.
	MaxHSVDiff     float64 // revert threshold.
	Rate           float64 // Minimum seconds between color updates; 0 disables adaptation.
}

// Distance holds the pin-hole constants used by the distance estimator.
type Distance struct {
	FocalDeg        float64 // Camera focal constant, degrees.
	SphereDiamMM    float64 // Physical sphere diameter, millimetres.
	SensorPixelUM   float64 // Sensor pixel height, micrometres.
	UserFactor      float64 // User distance calibration factor.
}

// Config carries the numeric policy and collaborators used by a Tracker.
// A zero Config is not valid; use Default() and override as required.
type Config struct {
	// Logger is used throughout the tracker, calibration and tracking
	// engines. It must be set before use.
	Logger logging.Logger

	// HSVBandH, HSVBandS, HSVBandV are the fixed HSV half-widths used to
	// build an in-range filter around an estimated color.
	HSVBandH, HSVBandS, HSVBandV float64

	// ROILevels is the depth of the ROI pyramid (fixed at 4 by spec).
	ROILevels int

	// ROIShrink is the factor by which each pyramid level's minimum side
	// shrinks relative to the previous level.
	ROIShrink float64

	// ROIRecenterFPS is the fps_ewma threshold above which the ROI
	// recenter helper (§4.6) runs each frame.
	ROIRecenterFPS float64

	// Blinks is the number of on/off blink cycles used during calibration.
	Blinks int

	// BlinkDelayMS is the wait, in milliseconds, for each on/off phase of a
	// blink.
	BlinkDelayMS int

	// CalibDiffThreshold binarizes the blink difference image.
	CalibDiffThreshold float64

	// CalibMinBlobSize is the minimum contour area, in pixels, accepted
	// during calibration.
	CalibMinBlobSize float64

	// CalibMaxSizeStdFrac is the maximum standard deviation of the four
	// blink blob sizes, as a fraction of their mean.
	CalibMaxSizeStdFrac float64

	// CalibMaxDisplacement is the maximum permitted displacement, in
	// pixels, of a blink contour's bounding box from the first blink's.
	CalibMaxDisplacement float64

	// KernelSize is the side length of the square morphological kernel
	// used for erode/dilate (fixed at 5 by spec, centred at (3,3)).
	KernelSize int

	// FastPathTries is the number of tracking attempts run against a
	// persisted color signature before falling back to a fresh blink
	// calibration.
	FastPathTries int

	// FastPathIntervalMS is the spacing, in milliseconds, between fast
	// path tracking attempts.
	FastPathIntervalMS int

	// FastPathMinQ1, FastPathMinQ3 gate fast path acceptance. Per spec.md
	// §4.3 step 1 (and the Open Questions in §9), q2 is deliberately not
	// checked here.
	FastPathMinQ1, FastPathMinQ3 float64

	// Track holds the tracking engine's acceptance thresholds.
	Track Quality

	// SnapToMassQ1 is the q1 threshold above which the reported centre is
	// replaced by the mass centre.
	SnapToMassQ1 float64

	// Adapt holds the color adaptation gate and rate.
	Adapt ColorAdapt

	// Dist holds the distance estimator's physical constants.
	Dist Distance

	// LEDDimFactor is applied to every LED write.
	LEDDimFactor float64

	// DefaultExposure is the camera exposure set at tracker construction.
	DefaultExposure int

	// AdaptiveZ enables Z (radius) smoothing in the tracking engine.
	AdaptiveZ bool

	// AdaptiveXY enables XY (position) smoothing in the tracking engine.
	// Per the Open Question in spec.md §9, the original source gates this
	// on the same flag as AdaptiveZ; both are exposed independently here
	// but default to the same value so the common case reproduces that
	// coupling.
	AdaptiveXY bool
}

// CameraEnvVar is the environment variable used to select a camera index.
const CameraEnvVar = "PSMOVE_TRACKER_CAMERA"

// Default returns a Config populated with the fixed numeric policy from
// the sphere tracker specification (§6 Constants). The caller must still
// set Logger before use.
func Default() Config {
	return Config{
		HSVBandH: 12, HSVBandS: 85, HSVBandV: 85,
		ROILevels:      4,
		ROIShrink:      0.7,
		ROIRecenterFPS: 160,

		Blinks:       4,
		BlinkDelayMS: 50,

		CalibDiffThreshold:   20,
		CalibMinBlobSize:     50,
		CalibMaxSizeStdFrac:  0.10,
		CalibMaxDisplacement: 30,

		KernelSize: 5,

		FastPathTries:      3,
		FastPathIntervalMS: 100,
		FastPathMinQ1:      0.83,
		FastPathMinQ3:      8,

		Track: Quality{
			MinPixelRatio:  0.3,
			MaxRadiusDelta: 0.7,
			MinRadius:      4,
		},
		SnapToMassQ1: 0.85,

		Adapt: ColorAdapt{
			MinPixelRatio:  0.8,
			MaxRadiusDelta: 0.2,
			MinRadius:      6,
			MaxHSVDiff:     35,
			Rate:           1, // seconds
		},

		Dist: Distance{
			FocalDeg:      28.3,
			SphereDiamMM:  47,
			SensorPixelUM: 5,
			UserFactor:    1.05,
		},

		LEDDimFactor:    1,
		DefaultExposure: 2051,

		AdaptiveZ:  true,
		AdaptiveXY: true,
	}
}

// ResolveCameraIndex resolves the camera index to open from the environment,
// using getenv so that the resolution is testable without touching the real
// process environment. An invalid or absent value yields def unchanged, and
// an invalid (but present) value is logged at Info level via
// LogInvalidField.
func ResolveCameraIndex(getenv func(string) string, def int, log logging.Logger) int {
	v := getenv(CameraEnvVar)
	if v == "" {
		return def
	}
	idx, err := strconv.Atoi(v)
	if err != nil {
		(&Config{Logger: log}).LogInvalidField(CameraEnvVar, def)
		return def
	}
	return idx
}

// LogInvalidField logs that a configuration field was bad or unset and that
// def is being substituted, matching the convention used throughout the
// revid configuration package this was adapted from.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
