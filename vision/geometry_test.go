/*
DESCRIPTION
  geometry_test.go tests the pure-math image primitives: colour conversion,
  contour moments, chord-based radius estimation, and ROI clamping.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vision

import (
	"image"
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestBGRToHSVPrimaries(t *testing.T) {
	cases := []struct {
		name string
		bgr  Scalar3
		h, s, v float64
	}{
		{"red", Scalar3{0, 0, 255}, 0, 255, 255},
		{"green", Scalar3{0, 255, 0}, 60, 255, 255},
		{"blue", Scalar3{255, 0, 0}, 120, 255, 255},
		{"white", Scalar3{255, 255, 255}, 0, 0, 255},
		{"black", Scalar3{0, 0, 0}, 0, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BGRToHSV(c.bgr)
			if !approxEqual(got[0], c.h, 1e-6) || !approxEqual(got[1], c.s, 1e-6) || !approxEqual(got[2], c.v, 1e-6) {
				t.Errorf("BGRToHSV(%v) = %v, want (%v,%v,%v)", c.bgr, got, c.h, c.s, c.v)
			}
		})
	}
}

func TestHSVDiff(t *testing.T) {
	first := Scalar3{100, 200, 200}
	current := Scalar3{140, 170, 170}
	got := HSVDiff(first, current)
	want := 40*1 + 30*0.5 + 30*0.5
	if !approxEqual(got, want, 1e-9) {
		t.Fatalf("HSVDiff = %v, want %v", got, want)
	}
}

// square returns the contour of an axis-aligned square so that its area and
// centroid are known exactly.
func square(x0, y0, side int) []image.Point {
	return []image.Point{
		{x0, y0},
		{x0 + side, y0},
		{x0 + side, y0 + side},
		{x0, y0 + side},
	}
}

func TestContourMomentsAndCentroid(t *testing.T) {
	pts := square(80, 80, 40) // [80,120)x[80,120)
	m00, m10, m01 := ContourMoments(pts)
	wantArea := 40.0 * 40.0
	if !approxEqual(m00, wantArea, 1e-6) {
		t.Fatalf("m00 = %v, want %v", m00, wantArea)
	}
	cx, cy, ok := Centroid(m00, m10, m01)
	if !ok {
		t.Fatal("Centroid reported not ok for a valid contour")
	}
	if !approxEqual(cx, 100, 1e-6) || !approxEqual(cy, 100, 1e-6) {
		t.Fatalf("centroid = (%v,%v), want (100,100)", cx, cy)
	}
}

func TestCentroidDegenerate(t *testing.T) {
	if _, _, ok := Centroid(0, 0, 0); ok {
		t.Fatal("expected Centroid to report not ok for zero area")
	}
}

func TestMaxChordRadiusCircle(t *testing.T) {
	const (
		cx0, cy0 = 100.0, 100.0
		radius   = 20.0
		n        = 64
	)
	pts := make([]image.Point, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = image.Pt(
			int(math.Round(cx0+radius*math.Cos(theta))),
			int(math.Round(cy0+radius*math.Sin(theta))),
		)
	}
	cx, cy, r := MaxChordRadius(pts, ContourStride(n))
	if !approxEqual(cx, cx0, 1.5) || !approxEqual(cy, cy0, 1.5) {
		t.Errorf("centre = (%v,%v), want close to (%v,%v)", cx, cy, cx0, cy0)
	}
	if !approxEqual(r, radius, 1.5) {
		t.Errorf("radius = %v, want close to %v", r, radius)
	}
}

func TestMaxChordRadiusDegenerate(t *testing.T) {
	if _, _, r := MaxChordRadius(nil, 1); r != 0 {
		t.Fatalf("empty contour: r = %v, want 0", r)
	}
	if _, _, r := MaxChordRadius([]image.Point{{1, 1}}, 1); r != 0 {
		t.Fatalf("single-point contour: r = %v, want 0", r)
	}
}

func TestContourStride(t *testing.T) {
	cases := map[int]int{0: 1, 5: 1, 19: 1, 20: 1, 40: 2, 200: 10}
	for total, want := range cases {
		if got := ContourStride(total); got != want {
			t.Errorf("ContourStride(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestClampOrigin(t *testing.T) {
	cases := []struct {
		name                   string
		x, y, w, h, bw, bh     int
		wantX, wantY           int
	}{
		{"inside", 10, 10, 50, 50, 640, 480, 10, 10},
		{"negative", -5, -5, 50, 50, 640, 480, 0, 0},
		{"overflow right/bottom", 620, 460, 50, 50, 640, 480, 590, 430},
		{"wider than frame", 0, 0, 700, 50, 640, 480, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x, y := ClampOrigin(c.x, c.y, c.w, c.h, c.bw, c.bh)
			if x != c.wantX || y != c.wantY {
				t.Errorf("ClampOrigin(...) = (%d,%d), want (%d,%d)", x, y, c.wantX, c.wantY)
			}
		})
	}
}

func TestPyramidLevelSize(t *testing.T) {
	sizes := PyramidLevelSize(640, 480, 4, 0.7)
	if len(sizes) != 4 {
		t.Fatalf("len(sizes) = %d, want 4", len(sizes))
	}
	if sizes[0] != image.Pt(320, 240) {
		t.Fatalf("level 0 = %v, want (320,240)", sizes[0])
	}
	prevMin := 240
	for i := 1; i < 4; i++ {
		want := int(0.7 * float64(prevMin))
		if sizes[i].X != want || sizes[i].Y != want {
			t.Fatalf("level %d = %v, want square of side %d", i, sizes[i], want)
		}
		prevMin = want
	}
}

func TestDist(t *testing.T) {
	if got := Dist(0, 0, 3, 4); !approxEqual(got, 5, 1e-9) {
		t.Fatalf("Dist = %v, want 5", got)
	}
}
