//go:build !withcv
// +build !withcv

/*
NAME
  detect_stub.go

DESCRIPTION
  Stand-in for detect_cv.go when built without OpenCV. Mirrors
  vision/mat_circleci.go: no pixel data is available so no contour can ever
  be found, but the package still builds and the pure orchestration logic
  in track.go remains exercisable with hand-built detection values.

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

func init() {
	detectInROI = detectInROIStub
}

func detectInROIStub(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
	return detection{}
}
