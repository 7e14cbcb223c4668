/*
NAME
  record.go

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
	"time"

	"github.com/ausocean/spheretracker/vision"
)

// ControllerID identifies an enabled controller. The tracker treats it as
// opaque.
type ControllerID string

// Status is the externally visible state of a controller's tracking
// session.
type Status int

const (
	NotCalibrated Status = iota
	Calibrated
	Tracking
)

func (s Status) String() string {
	switch s {
	case Calibrated:
		return "CALIBRATED"
	case Tracking:
		return "TRACKING"
	default:
		return "NOT_CALIBRATED"
	}
}

// ControllerRecord is the per-controller tracking state described by
// spec.md §3.
type ControllerRecord struct {
	ID          ControllerID
	AssignedRGB RGB

	// Color signature as observed at calibration, and as currently
	// (possibly adapted) estimated. EFirstHSV and EHSV are always
	// vision.BGRToHSV(EFirstBGR) and vision.BGRToHSV(EBGR) respectively;
	// see (*ControllerRecord).setColor.
	EFirstBGR, EFirstHSV vision.Scalar3
	EBGR, EHSV           vision.Scalar3

	// Smoothed image-plane centre, in pixels.
	X, Y float64

	// Last mass-centre, in integer pixels.
	MX, MY int

	// Current and smoothed radius, in pixels.
	R, RS float64

	// ROI origin and pyramid level (0 = largest).
	ROIX, ROIY, ROILevel int

	// Quadrant sweep index used when the sphere is lost at the coarsest
	// level (0-3).
	SearchQuadrant int

	// Last-frame quality scores.
	Q1, Q2, Q3 float64

	IsTracked bool

	LastColorUpdate time.Time
}

// setColor sets EBGR and recomputes EHSV so the two never drift apart,
// maintaining the invariant e_hsv == bgr_to_hsv(e_bgr) required by spec.md
// §3 and §8.
func (c *ControllerRecord) setColor(bgr vision.Scalar3) {
	c.EBGR = bgr
	c.EHSV = vision.BGRToHSV(bgr)
}

// setFirstColor sets both the first and current color signature to bgr,
// used at calibration time.
func (c *ControllerRecord) setFirstColor(bgr vision.Scalar3) {
	c.EFirstBGR = bgr
	c.EFirstHSV = vision.BGRToHSV(bgr)
	c.setColor(bgr)
}

// recordStore is an ordered collection of ControllerRecords, addressable by
// controller identity. Like palette, this replaces the source's intrusive
// linked list (spec.md §9) with a slice that preserves insertion order.
type recordStore struct {
	records []*ControllerRecord
}

func newRecordStore() *recordStore {
	return &recordStore{}
}

// find returns the record for id, or nil.
func (s *recordStore) find(id ControllerID) *ControllerRecord {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// insert appends r to the store. It does not check for duplicates; callers
// must check find first to preserve the "at most one record per controller"
// invariant.
func (s *recordStore) insert(r *ControllerRecord) {
	s.records = append(s.records, r)
}

// remove deletes the record for id, if any, preserving the order of the
// remaining records.
func (s *recordStore) remove(id ControllerID) {
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return
		}
	}
}

// all returns the records in insertion order. The returned slice aliases
// the store's internal slice and must not be retained past the next
// insert/remove.
func (s *recordStore) all() []*ControllerRecord {
	return s.records
}
