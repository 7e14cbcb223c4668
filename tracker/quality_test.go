/*
NAME
  quality_test.go

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
	"testing"

	"github.com/ausocean/spheretracker/tracker/config"
)

// TestQualityAcceptConcreteScenario covers scenario 3: a clean circular
// contour of radius 20 filling its circle almost exactly, first frame (no
// r_old), should be accepted with near-perfect q1 and a skipped q2.
func TestQualityAcceptConcreteScenario(t *testing.T) {
	r := 20.0
	pixels := int(math.Pi * r * r)
	q := scoreQuality(pixels, r, 0, false)

	if q.q1 < 0.95 || q.q1 > 1.05 {
		t.Fatalf("q1 = %v, want close to 1.0", q.q1)
	}
	if !q.q2Skipped {
		t.Fatal("q2Skipped = false on first frame (r_old == 0), want true")
	}
	if q.q3 != r {
		t.Fatalf("q3 = %v, want %v", q.q3, r)
	}

	cfg := config.Default()
	def := cfg.Track
	if !q.accepted(def) {
		t.Fatal("accepted() = false, want true for a clean full circle")
	}
	if !q.snapToMass(cfg.SnapToMassQ1) {
		t.Fatalf("snapToMass(%v) = false for q1=%v, want true", cfg.SnapToMassQ1, q.q1)
	}
}

func TestQualityHalvesQ1BelowPixelFloor(t *testing.T) {
	r := 5.0
	full := scoreQuality(int(math.Pi*r*r), r, 0, false)
	sparse := scoreQuality(10, r, 0, false)

	if sparse.q1 >= full.q1 {
		t.Fatalf("sparse q1 = %v, want less than full q1 = %v", sparse.q1, full.q1)
	}
}

func TestQualityQ2SkippedOffCoarsestQuadrant(t *testing.T) {
	q := scoreQuality(400, 20, 18, false)
	if !q.q2Skipped {
		t.Fatal("q2Skipped = false with evaluateQ2=false, want true")
	}

	q2 := scoreQuality(400, 20, 18, true)
	if q2.q2Skipped {
		t.Fatal("q2Skipped = true with evaluateQ2=true and r_old>0, want false")
	}
	want := math.Abs(18-20) / (18 + qualityEpsilon)
	if math.Abs(q2.q2-want) > 1e-9 {
		t.Fatalf("q2 = %v, want %v", q2.q2, want)
	}
}

func TestAcceptedRejectsBelowEachThreshold(t *testing.T) {
	def := config.Default().Track

	lowQ1 := qualityScores{q1: def.MinPixelRatio - 0.01, q3: def.MinRadius + 1, q2Skipped: true}
	if lowQ1.accepted(def) {
		t.Fatal("accepted() = true with q1 below threshold, want false")
	}

	lowQ3 := qualityScores{q1: def.MinPixelRatio + 0.1, q3: def.MinRadius - 1, q2Skipped: true}
	if lowQ3.accepted(def) {
		t.Fatal("accepted() = true with q3 below threshold, want false")
	}

	highQ2 := qualityScores{q1: def.MinPixelRatio + 0.1, q3: def.MinRadius + 1, q2: def.MaxRadiusDelta + 0.1}
	if highQ2.accepted(def) {
		t.Fatal("accepted() = true with q2 above threshold, want false")
	}
}

func TestColorAdaptGateRequiresElapsedRateAndQuality(t *testing.T) {
	g := config.Default().Adapt
	good := qualityScores{q1: g.MinPixelRatio + 0.1, q3: g.MinRadius + 1, q2: g.MaxRadiusDelta / 2}

	if colorAdaptGate(false, g.Rate+1, good, g) {
		t.Fatal("gate = true with found=false, want false")
	}
	if colorAdaptGate(true, g.Rate-0.01, good, g) {
		t.Fatal("gate = true with elapsed below rate, want false")
	}
	if !colorAdaptGate(true, g.Rate+1, good, g) {
		t.Fatal("gate = false for a clean, rate-elapsed, good-quality frame, want true")
	}

	skippedQ2 := good
	skippedQ2.q2Skipped = true
	if colorAdaptGate(true, g.Rate+1, skippedQ2, g) {
		t.Fatal("gate = true with q2 skipped, want false (q2 must be evaluated to gate adaptation)")
	}
}
