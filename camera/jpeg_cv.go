//go:build withcv
// +build withcv

/*
NAME
  jpeg_cv.go

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/spheretracker/vision"
)

func decodeJPEG(path string) (vision.Mat, error) {
	m := gocv.IMRead(path, gocv.IMReadColor)
	if m.Empty() {
		return vision.Mat{}, fmt.Errorf("camera: decode %s: empty image", path)
	}
	return m, nil
}
