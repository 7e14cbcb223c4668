//go:build !withcv
// +build !withcv

/*
NAME
  jpeg_stub.go

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

import "github.com/ausocean/spheretracker/vision"

func decodeJPEG(path string) (vision.Mat, error) {
	return vision.NewMat(), nil
}
