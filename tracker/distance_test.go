/*
NAME
  distance_test.go

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

func TestEstimateDistanceConcreteScenario(t *testing.T) {
	d := config.Default().Dist
	got := estimateDistance(47, d)
	want := 594.3
	if math.Abs(got-want) > 0.5 {
		t.Fatalf("estimateDistance(47, ...) = %v, want within 0.5 of %v", got, want)
	}
}

func TestEstimateDistanceMonotoneDecreasing(t *testing.T) {
	d := config.Default().Dist
	prev := estimateDistance(1, d)
	for px := 2.0; px <= 200; px++ {
		cur := estimateDistance(px, d)
		if cur >= prev {
			t.Fatalf("estimateDistance not monotone decreasing at px=%v: prev=%v cur=%v", px, prev, cur)
		}
		prev = cur
	}
}

func TestEstimateDistanceZeroDiameterDoesNotPanic(t *testing.T) {
	d := config.Default().Dist
	got := estimateDistance(0, d)
	if math.IsInf(got, 0) || math.IsNaN(got) {
		t.Fatalf("estimateDistance(0, ...) = %v, want a finite value (epsilon guard)", got)
	}
}
