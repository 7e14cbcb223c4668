//go:build !withcv
// +build !withcv

/*
NAME
  open_stub.go

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

	"github.com/ausocean/utils/logging"
)

// Open is unavailable without gocv; use NewFileCamera for a replay source
// in this build configuration.
func Open(idx int, log logging.Logger) (Camera, error) {
	return nil, fmt.Errorf("camera: Open(%d) requires a build with -tags withcv", idx)
}
