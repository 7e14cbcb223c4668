/*
NAME
  file.go

DESCRIPTION
  file.go implements Camera by replaying a directory of numbered JPEG
  frames, for testing and for offline debugging without a physical camera.
  Modeled on the av module's device/file package (replay a fixed input
  instead of a live device, looping back to the first frame when exhausted).

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
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ausocean/spheretracker/vision"
	"github.com/ausocean/utils/logging"
)

// FileCamera is a Camera that replays a fixed sequence of JPEG frames from
// a directory, looping when exhausted. It never fails SetExposure/Backup/
// Restore; there is no real device behind it.
type FileCamera struct {
	log   logging.Logger
	paths []string
	idx   int
	w, h  int
	mu    sync.Mutex
}

// NewFileCamera globs dir for *.jpg frames, sorted by name, and returns a
// FileCamera that replays them in order, looping.
func NewFileCamera(dir string, w, h int, log logging.Logger) (*FileCamera, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("camera: glob %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("camera: no frames found in %s", dir)
	}
	sort.Strings(matches)
	return &FileCamera{log: log, paths: matches, w: w, h: h}, nil
}

// AcquireFrame decodes and returns the next frame in the sequence, wrapping
// back to the first frame after the last.
func (f *FileCamera) AcquireFrame() (vision.Mat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := f.paths[f.idx]
	f.idx = (f.idx + 1) % len(f.paths)

	if _, err := os.Stat(path); err != nil {
		return vision.Mat{}, fmt.Errorf("camera: stat %s: %w", path, err)
	}
	return decodeJPEG(path)
}

// FrameSize returns the configured replay frame dimensions.
func (f *FileCamera) FrameSize() (int, int) { return f.w, f.h }

// SetExposure is a no-op for a replay source.
func (f *FileCamera) SetExposure(int) error { return nil }

// Backup returns an empty blob; there are no real settings to save.
func (f *FileCamera) Backup() ([]byte, error) { return nil, nil }

// Restore is a no-op for a replay source.
func (f *FileCamera) Restore([]byte) error { return nil }

// Close releases no resources.
func (f *FileCamera) Close() error { return nil }
