//go:build withcv
// +build withcv

/*
DESCRIPTION
  mat.go provides the gocv-backed image operations the sphere tracker needs:
  colour space conversion, masked averaging, absolute difference,
  morphological erode/dilate with a fixed rectangular kernel, in-range
  thresholding and largest-contour extraction.

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

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Mat is an alias for gocv.Mat so that callers outside this package don't
// need a build-tag-specific import of gocv themselves.
type Mat = gocv.Mat

// NewMat returns a new, empty Mat.
func NewMat() Mat { return gocv.NewMat() }

// Kernel returns the fixed size×size rectangular structuring element used
// for erode/dilate throughout the tracker (spec.md §6: 5×5, centred at
// (3,3), which is OpenCV's default anchor for an odd-sized kernel).
func Kernel(size int) Mat {
	return gocv.GetStructuringElement(gocv.MorphRect, image.Pt(size, size))
}

// ToHSV converts a BGR Mat to HSV in place of dst.
func ToHSV(src Mat, dst *Mat) {
	gocv.CvtColor(src, dst, gocv.ColorBGRToHSV)
}

// ToGray converts a BGR Mat to greyscale in place of dst.
func ToGray(src Mat, dst *Mat) {
	gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
}

// AbsDiff writes |a-b| into dst.
func AbsDiff(a, b Mat, dst *Mat) {
	gocv.AbsDiff(a, b, dst)
}

// ThresholdBinary binarizes src at thresh, writing 0/255 into dst.
func ThresholdBinary(src Mat, dst *Mat, thresh float32) {
	gocv.Threshold(src, dst, thresh, 255, gocv.ThresholdBinary)
}

// ErodeDilate applies an erode then a dilate to src using the given square
// kernel, writing the result into dst. This is the fixed noise-reduction
// pass used both by calibration's blink differencing and by contour
// extraction during tracking.
func ErodeDilate(src Mat, dst *Mat, kernel Mat) {
	gocv.Erode(src, dst, kernel)
	gocv.Dilate(*dst, dst, kernel)
}

// InRangeHSV builds a binary mask of pixels in src (assumed already HSV)
// within center±band per channel, writing into dst.
func InRangeHSV(src Mat, center, band Scalar3, dst *Mat) {
	lb := gocv.NewScalar(center[0]-band[0], center[1]-band[1], center[2]-band[2], 0)
	ub := gocv.NewScalar(center[0]+band[0], center[1]+band[1], center[2]+band[2], 0)
	gocv.InRangeWithScalar(src, lb, ub, dst)
}

// CountNonZero returns the number of non-zero pixels in a mask.
func CountNonZero(mask Mat) int {
	return gocv.CountNonZero(mask)
}

// BitwiseAnd writes a&b into dst.
func BitwiseAnd(a, b Mat, dst *Mat) {
	gocv.BitwiseAnd(a, b, dst)
}

// BiggestContour finds the largest contour in a binary mask and returns its
// points, its area, and whether any contour was found at all.
func BiggestContour(mask Mat) (pts []image.Point, area float64, ok bool) {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best := -1
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		a := gocv.ContourArea(contours.At(i))
		if a > bestArea {
			bestArea = a
			best = i
		}
	}
	if best < 0 {
		return nil, 0, false
	}
	return contours.At(best).ToPoints(), bestArea, true
}

// FillPoly redraws dst as a binary mask containing only the filled polygon
// described by pts, the same size as like.
func FillPoly(like Mat, pts []image.Point, dst *Mat) {
	*dst = gocv.NewMatWithSize(like.Rows(), like.Cols(), gocv.MatTypeCV8U)
	if len(pts) == 0 {
		return
	}
	pvs := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pvs.Close()
	gocv.FillPoly(dst, pvs, color.RGBA{255, 255, 255, 0})
}

// MaskedMeanBGR returns the mean BGR value of img where mask is non-zero.
func MaskedMeanBGR(img, mask Mat) Scalar3 {
	mean := img.MeanWithMask(mask)
	return Scalar3{mean.Val1, mean.Val2, mean.Val3}
}

// Region crops src to r without copying pixel data.
func Region(src Mat, r image.Rectangle) Mat {
	return src.Region(r)
}
