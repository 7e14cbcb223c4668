/*
NAME
  camera.go

DESCRIPTION
  camera.go describes Camera, the narrow capability set the sphere tracker
  needs from a camera driver: frame acquisition, exposure/parameter
  setting, and settings backup/restore. Concrete implementations live in
  gocv_webcam.go (build tag withcv) and file.go.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package camera provides Camera, the tracker's video source abstraction.
package camera

import "github.com/ausocean/spheretracker/vision"

// Camera is the capability set a tracker needs from a video source,
// matching spec.md §9's "narrow capability set... {acquire_frame,
// set_params, set_exposure, backup/restore}".
type Camera interface {
	// AcquireFrame blocks until a new frame is available and returns it.
	// The returned Mat is borrowed; callers must not retain it past the
	// next call to AcquireFrame.
	AcquireFrame() (vision.Mat, error)

	// FrameSize returns the camera's frame dimensions in pixels.
	FrameSize() (w, h int)

	// SetExposure sets the camera's exposure parameter.
	SetExposure(v int) error

	// Backup returns an opaque blob describing the camera's current
	// settings, suitable for later Restore.
	Backup() ([]byte, error)

	// Restore applies a blob previously returned by Backup.
	Restore(blob []byte) error

	// Close releases the underlying device.
	Close() error
}
