//go:build withcv
// +build withcv

/*
NAME
  gocv_webcam.go

DESCRIPTION
  gocv_webcam.go implements Camera on top of gocv.VideoCapture, in the style
  of the av module's device/webcam package: a thin wrapper that logs
  configuration problems instead of panicking.

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
	"encoding/json"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/spheretracker/vision"
	"github.com/ausocean/utils/logging"
)

// pkg is used to prefix log entries, matching the av module's convention.
const pkg = "camera: "

// Webcam is a Camera backed by gocv.VideoCapture.
type Webcam struct {
	log logging.Logger
	cap *gocv.VideoCapture
	buf gocv.Mat
	w, h int
}

// backupSettings is the opaque blob persisted and restored by Backup and
// Restore.
type backupSettings struct {
	Exposure  float64 `json:"exposure"`
	Brightness float64 `json:"brightness"`
}

// Open opens the camera at the given device index.
func Open(idx int, log logging.Logger) (Camera, error) {
	cap, err := gocv.OpenVideoCapture(idx)
	if err != nil {
		return nil, fmt.Errorf("%sopen video capture %d: %w", pkg, idx, err)
	}
	w := &Webcam{
		log: log,
		cap: cap,
		buf: gocv.NewMat(),
		w:   int(cap.Get(gocv.VideoCaptureFrameWidth)),
		h:   int(cap.Get(gocv.VideoCaptureFrameHeight)),
	}
	return w, nil
}

// AcquireFrame blocks until a new frame is read.
func (w *Webcam) AcquireFrame() (vision.Mat, error) {
	if ok := w.cap.Read(&w.buf); !ok {
		return vision.Mat{}, fmt.Errorf("%sread: device closed", pkg)
	}
	if w.buf.Empty() {
		return vision.Mat{}, fmt.Errorf("%sread: empty frame", pkg)
	}
	return w.buf, nil
}

// FrameSize returns the camera's configured frame dimensions.
func (w *Webcam) FrameSize() (int, int) { return w.w, w.h }

// SetExposure sets the camera exposure property.
func (w *Webcam) SetExposure(v int) error {
	if ok := w.cap.Set(gocv.VideoCaptureExposure, float64(v)); !ok {
		w.log.Warning(pkg + "failed to set exposure")
	}
	return nil
}

// Backup captures the current exposure and brightness as a JSON blob.
func (w *Webcam) Backup() ([]byte, error) {
	s := backupSettings{
		Exposure:   w.cap.Get(gocv.VideoCaptureExposure),
		Brightness: w.cap.Get(gocv.VideoCaptureBrightness),
	}
	return json.Marshal(s)
}

// Restore applies a blob previously returned by Backup.
func (w *Webcam) Restore(blob []byte) error {
	var s backupSettings
	if err := json.Unmarshal(blob, &s); err != nil {
		return fmt.Errorf("%srestore: %w", pkg, err)
	}
	w.cap.Set(gocv.VideoCaptureExposure, s.Exposure)
	w.cap.Set(gocv.VideoCaptureBrightness, s.Brightness)
	return nil
}

// Close releases the underlying video capture device.
func (w *Webcam) Close() error {
	w.buf.Close()
	return w.cap.Close()
}
