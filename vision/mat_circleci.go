//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the gocv-backed Mat operations when the sphere tracker is built
  without OpenCV installed. Mirrors the approach
  taken by filter/filters_circleci.go in the av module: CI does not have a
  copy of OpenCV installed, so the Mat-backed primitives are stubbed out.
  None of the tracking or calibration engines are expected to locate a real
  sphere in this configuration; it exists so the module still builds and so
  the pure-math parts of the package (geometry.go) remain testable.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vision

import "image"

// Mat is a stand-in for gocv.Mat with no backing pixel storage.
type Mat struct {
	rows, cols int
}

func NewMat() Mat { return Mat{} }

func (m Mat) Empty() bool       { return m.rows == 0 || m.cols == 0 }
func (m Mat) Rows() int         { return m.rows }
func (m Mat) Cols() int         { return m.cols }
func (m Mat) Clone() Mat        { return m }
func (m Mat) Close() error      { return nil }
func (m Mat) Region(image.Rectangle) Mat { return m }

func Kernel(size int) Mat { return Mat{size, size} }

func ToHSV(src Mat, dst *Mat)         { *dst = src }
func ToGray(src Mat, dst *Mat)        { *dst = src }
func AbsDiff(a, b Mat, dst *Mat)      { *dst = Mat{} }
func ThresholdBinary(Mat, *Mat, float32) {}
func ErodeDilate(Mat, *Mat, Mat)      {}
func InRangeHSV(Mat, Scalar3, Scalar3, *Mat) {}
func CountNonZero(Mat) int            { return 0 }
func BitwiseAnd(a, b Mat, dst *Mat)   { *dst = Mat{} }

// BiggestContour always reports no contour found; there is no pixel data to
// search without gocv.
func BiggestContour(Mat) (pts []image.Point, area float64, ok bool) {
	return nil, 0, false
}

func FillPoly(like Mat, pts []image.Point, dst *Mat) { *dst = like }

func MaskedMeanBGR(Mat, Mat) Scalar3 { return Scalar3{} }

func Region(src Mat, r image.Rectangle) Mat { return src }
