/*
NAME
  store.go

DESCRIPTION
  store.go describes Store, the persistence facade of spec.md §4.2: per-
  controller color signatures and an opaque camera-settings backup blob.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package store implements the sphere tracker's persistence facade: reading
// and writing per-controller color signatures and a camera settings backup
// blob.
package store

// Signature is the persisted color signature of one controller, keyed by
// controller identity at the call site.
type Signature struct {
	R, G, B uint8

	EFirstBGR [3]float64
	EFirstHSV [3]float64
}

// Store is the persistence facade a Tracker is constructed with.
type Store interface {
	// LoadSignature returns the persisted signature for id, and false if
	// none exists.
	LoadSignature(id string) (Signature, bool, error)

	// SaveSignature persists sig for id.
	SaveSignature(id string, sig Signature) error

	// RemoveSignature deletes the persisted signature for id, if any.
	RemoveSignature(id string) error

	// LoadCameraBackup returns the persisted camera settings blob, and
	// false if none exists.
	LoadCameraBackup() ([]byte, bool, error)

	// SaveCameraBackup persists blob as the camera settings backup.
	SaveCameraBackup(blob []byte) error
}
