//go:build withcv
// +build withcv

/*
NAME
  detect_cv.go

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
	"image"

	"github.com/ausocean/spheretracker/vision"
)

func init() {
	detectInROI = detectInROICV
}

// detectInROICV implements spec.md §4.4 steps 2-4: crop to the ROI, convert
// to HSV, build an in-range mask around center±band, erode/dilate to
// suppress noise, extract the largest contour, then redraw that contour
// alone into a fresh mask so pixelsInMask reflects only the accepted blob.
func detectInROICV(frame vision.Mat, roi image.Rectangle, kernel vision.Mat, center, band vision.Scalar3) detection {
	crop := vision.Region(frame, roi)

	hsv := vision.NewMat()
	defer hsv.Close()
	vision.ToHSV(crop, &hsv)

	mask := vision.NewMat()
	defer mask.Close()
	vision.InRangeHSV(hsv, center, band, &mask)

	cleaned := vision.NewMat()
	defer cleaned.Close()
	vision.ErodeDilate(mask, &cleaned, kernel)

	pts, _, ok := vision.BiggestContour(cleaned)
	if !ok {
		return detection{}
	}

	redrawn := vision.NewMat()
	defer redrawn.Close()
	vision.FillPoly(cleaned, pts, &redrawn)

	meanBGR := vision.MaskedMeanBGR(crop, redrawn)

	return detection{
		found:        true,
		pts:          pts,
		pixelsInMask: vision.CountNonZero(redrawn),
		meanBGR:      meanBGR,
	}
}
