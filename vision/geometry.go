/*
NAME
  geometry.go

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package vision provides image primitives used by the sphere tracker: colour
// space conversion, masked averaging, contour moments and chord-based radius
// estimation, and the morphological / thresholding operations backed by
// gocv. The numeric routines in this file operate on plain Go values
// ([]image.Point, float64 triples) so that they can be exercised without an
// OpenCV installation; the Mat-backed routines that do the actual per-pixel
// work live in mat.go (build tag withcv) and mat_circleci.go.
package vision

import (
	"image"
	"math"
)

// Scalar3 is a 3-channel pixel value. Its channel order is meaningful only
// by convention of the caller (BGR or HSV).
type Scalar3 [3]float64

// BGRToHSV converts a BGR triple (0-255 per channel) to HSV with H in
// [0,180), S and V in [0,255], matching OpenCV's 8-bit HSV convention (the
// same convention gocv.CvtColor uses with gocv.ColorBGRToHSV) so that values
// computed here and values read back from a converted Mat agree.
func BGRToHSV(bgr Scalar3) Scalar3 {
	b, g, r := bgr[0], bgr[1], bgr[2]
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	v := max

	var s float64
	if max > 0 {
		s = delta / max * 255
	}

	var h float64
	switch {
	case delta == 0:
		h = 0
	case max == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case max == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	// OpenCV halves hue to fit a byte.
	h /= 2

	return Scalar3{h, s, v}
}

// HSVDiff computes the weighted HSV distance used to gate color adaptation
// reversion: |ΔH|*1 + |ΔS|*0.5 + |ΔV|*0.5.
func HSVDiff(a, b Scalar3) float64 {
	return math.Abs(a[0]-b[0]) + 0.5*math.Abs(a[1]-b[1]) + 0.5*math.Abs(a[2]-b[2])
}

// ContourMoments computes the zeroth and first raw moments (M00, M10, M01)
// of the filled polygon described by pts, using the standard Green's-theorem
// polygon moment formulas. For a filled, simply-connected contour this is
// equivalent to summing over the rasterized mask, which is what the source
// implementation does with cv::moments on a filled-contour mask.
func ContourMoments(pts []image.Point) (m00, m10, m01 float64) {
	n := len(pts)
	if n < 3 {
		return 0, 0, 0
	}
	for i := 0; i < n; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%n]
		cross := float64(p0.X)*float64(p1.Y) - float64(p1.X)*float64(p0.Y)
		m00 += cross
		m10 += (float64(p0.X) + float64(p1.X)) * cross
		m01 += (float64(p0.Y) + float64(p1.Y)) * cross
	}
	m00 /= 2
	m10 /= 6
	m01 /= 6
	// Normalize sign; cross-product area can be negative depending on winding.
	if m00 < 0 {
		m00, m10, m01 = -m00, -m10, -m01
	}
	return m00, m10, m01
}

// Centroid returns the mass centre (m10/m00, m01/m00) of a moment set, and
// false if m00 is zero (degenerate/empty contour).
func Centroid(m00, m10, m01 float64) (x, y float64, ok bool) {
	if m00 == 0 {
		return 0, 0, false
	}
	return m10 / m00, m01 / m00, true
}

// MaxChordRadius estimates a blob's centre and radius by scanning contour
// points with the given stride and finding the pair of maximum squared
// Euclidean distance; the returned centre is the midpoint of that pair and
// the returned radius is half that distance. It returns (0,0,0) for fewer
// than two sampled points, matching the spec's requirement that a
// degenerate or empty contour yields a zero radius without panicking.
func MaxChordRadius(pts []image.Point, stride int) (cx, cy, r float64) {
	if stride < 1 {
		stride = 1
	}
	var sampled []image.Point
	for i := 0; i < len(pts); i += stride {
		sampled = append(sampled, pts[i])
	}
	if len(sampled) < 2 {
		return 0, 0, 0
	}

	var bestI, bestJ int
	bestD := -1.0
	for i := 0; i < len(sampled); i++ {
		for j := i + 1; j < len(sampled); j++ {
			dx := float64(sampled[i].X - sampled[j].X)
			dy := float64(sampled[i].Y - sampled[j].Y)
			d := dx*dx + dy*dy
			if d > bestD {
				bestD = d
				bestI, bestJ = i, j
			}
		}
	}

	p1, p2 := sampled[bestI], sampled[bestJ]
	cx = float64(p1.X+p2.X) / 2
	cy = float64(p1.Y+p2.Y) / 2
	r = math.Sqrt(bestD) / 2
	return cx, cy, r
}

// ContourStride returns the stride used to sample a contour of the given
// point count for MaxChordRadius, matching the spec's "stride =
// max(1, total/20)".
func ContourStride(total int) int {
	s := total / 20
	if s < 1 {
		return 1
	}
	return s
}

// ClampOrigin clamps a w×h rectangle's top-left corner so that the rectangle
// stays fully within a boundsW×boundsH frame. If the rectangle is larger
// than the frame in either dimension, that dimension's origin is clamped to
// 0, matching the shared clamping rule of spec.md §4.8.
func ClampOrigin(x, y, w, h, boundsW, boundsH int) (cx, cy int) {
	cx, cy = x, y
	if w >= boundsW {
		cx = 0
	} else {
		if cx < 0 {
			cx = 0
		}
		if cx > boundsW-w {
			cx = boundsW - w
		}
	}
	if h >= boundsH {
		cy = 0
	} else {
		if cy < 0 {
			cy = 0
		}
		if cy > boundsH-h {
			cy = boundsH - h
		}
	}
	return cx, cy
}

// PyramidLevelSize returns the dimensions of every level of a levels-deep ROI
// pyramid built on top of a frame of size frameW×frameH, per spec.md §3:
// level 0 is frameW/2 × frameH/2; each subsequent level is square with side
// shrink×min(prevW,prevH).
func PyramidLevelSize(frameW, frameH, levels int, shrink float64) []image.Point {
	sizes := make([]image.Point, levels)
	if levels == 0 {
		return sizes
	}
	w, h := frameW/2, frameH/2
	sizes[0] = image.Pt(w, h)
	for i := 1; i < levels; i++ {
		side := int(shrink * float64(min(w, h)))
		if side < 1 {
			side = 1
		}
		sizes[i] = image.Pt(side, side)
		w, h = side, side
	}
	return sizes
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Dist returns the Euclidean distance between two points given as float64
// pairs.
func Dist(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// BoundingRect returns the axis-aligned bounding rectangle of pts. It
// returns the zero Rectangle for an empty contour.
func BoundingRect(pts []image.Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	// image.Rectangle is half-open; widen by one so Dx/Dy reflect the
	// inclusive point spread.
	r.Max.X++
	r.Max.Y++
	return r
}
