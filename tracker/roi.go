/*
NAME
  roi.go

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

	"github.com/ausocean/spheretracker/vision"
)

// roiPyramid is the per-frame-size cache of ROI level dimensions described
// by spec.md §3: level 0 is half the frame in each dimension, and each
// subsequent level shrinks the previous level's minimum side by a fixed
// factor.
type roiPyramid struct {
	frameW, frameH int
	sizes          []image.Point
}

func newROIPyramid(frameW, frameH, levels int, shrink float64) *roiPyramid {
	return &roiPyramid{
		frameW: frameW,
		frameH: frameH,
		sizes:  vision.PyramidLevelSize(frameW, frameH, levels, shrink),
	}
}

// levels returns the pyramid depth.
func (p *roiPyramid) levels() int { return len(p.sizes) }

// rect returns the clamped ROI rectangle for the given level, centred as
// closely as possible on (cx,cy).
func (p *roiPyramid) rect(level int, cx, cy float64) image.Rectangle {
	size := p.sizes[level]
	x := int(cx) - size.X/2
	y := int(cy) - size.Y/2
	x, y = vision.ClampOrigin(x, y, size.X, size.Y, p.frameW, p.frameH)
	return image.Rect(x, y, x+size.X, y+size.Y)
}

// quadrantOrigin returns the origin of search quadrant q (0-3: top-left,
// top-right, bottom-right, bottom-left), used by the tracking engine's
// recovery sweep in spec.md §4.4(d) when the sphere is lost at the
// coarsest level. The widen/sweep step always resets to pyramid level 0
// (the largest, W/2×H/2) before the sweep, so the quadrant corners are
// sized from level 0 too, landing exactly on spec.md §4.4(d)'s
// {(0,0),(W/2,0),(W/2,H/2),(0,H/2)}.
func (p *roiPyramid) quadrantOrigin(q int) (x, y int) {
	size := p.sizes[0]
	switch q % 4 {
	case 0:
		x, y = 0, 0
	case 1:
		x, y = p.frameW-size.X, 0
	case 2:
		x, y = p.frameW-size.X, p.frameH-size.Y
	default:
		x, y = 0, p.frameH-size.Y
	}
	return vision.ClampOrigin(x, y, size.X, size.Y, p.frameW, p.frameH)
}
