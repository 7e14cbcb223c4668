/*
NAME
  distance.go

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

import "github.com/ausocean/spheretracker/tracker/config"

// distanceEpsilon guards the denominator at zero blob diameter, matching the
// source's FLT_EPSILON guard (spec.md §9).
const distanceEpsilon = 1.1920929e-7

// estimateDistance applies the pin-hole formula of spec.md §4.7 to a blob
// diameter in pixels, returning a distance in millimetres.
func estimateDistance(blobDiameterPx float64, d config.Distance) float64 {
	return (d.FocalDeg * d.SphereDiamMM * d.UserFactor) /
		(blobDiameterPx*d.SensorPixelUM/100 + distanceEpsilon)
}
