/*
NAME
  detect.go

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

// detection is the result of searching one ROI for a blob matching a color
// band. It carries enough information for the pure tracking logic in
// track.go to score and accept a candidate without itself touching gocv.
type detection struct {
	found bool

	// contour points, in ROI-local pixel coordinates.
	pts []image.Point

	// pixelsInMask is the non-zero pixel count of the mask redrawn from
	// pts alone (spec.md §4.4 step 4: "the contour is redrawn into a
	// fresh mask so that pixel counts reflect the filled blob, not stray
	// noise outside it").
	pixelsInMask int

	// meanBGR is the mean color, in BGR, of the source frame under the
	// redrawn mask; used for color adaptation.
	meanBGR vision.Scalar3
}

// detectInROI is implemented per build configuration: detect_cv.go when
// built with gocv (tag withcv), detect_stub.go otherwise. Both share this
// declaration so track.go's orchestration logic never depends on gocv
// directly. frame and kernel are vision.Mat; roi is in frame coordinates;
// center and band describe the HSV in-range filter.
var detectInROI func(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection
