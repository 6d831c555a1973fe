package jseries

import (
	"fmt"
	"math"
)

// Fixed-point scale factors for the squish-encoded fields. Latitude and
// longitude map linearly onto the full 19-bit code space; altitude is
// stored in 25-foot steps.
const (
	latLonCodeMax = 1<<19 - 1 // 524287
	altCodeMax    = 1<<14 - 1 // 16383

	metersToFeet = 3.28084
	altStepFeet  = 25.0

	// MaxAltitudeM is the highest altitude in meters that still fits the
	// 14-bit code, about 124838 m.
	MaxAltitudeM = altCodeMax * altStepFeet / metersToFeet
)

// OverflowError reports a physical input whose scaled value does not fit
// the target field width.
type OverflowError struct {
	Field string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("quantization overflow: %s", e.Field)
}

// packLatitude maps degrees in [-90, 90] onto the 19-bit code space.
// Rounding is half away from zero.
func packLatitude(deg float64) (uint32, error) {
	code := math.Round((deg + 90.0) * latLonCodeMax / 180.0)
	if code < 0 || code > latLonCodeMax {
		return 0, &OverflowError{Field: "latitude"}
	}
	return uint32(code), nil
}

// packLongitude maps degrees in [-180, 180] onto the 19-bit code space.
func packLongitude(deg float64) (uint32, error) {
	code := math.Round((deg + 180.0) * latLonCodeMax / 360.0)
	if code < 0 || code > latLonCodeMax {
		return 0, &OverflowError{Field: "longitude"}
	}
	return uint32(code), nil
}

// packAltitude maps meters in [0, MaxAltitudeM] onto 25-foot steps.
func packAltitude(m float64) (uint16, error) {
	code := math.Round(m * metersToFeet / altStepFeet)
	if code < 0 || code > altCodeMax {
		return 0, &OverflowError{Field: "altitude"}
	}
	return uint16(code), nil
}

// HeadingCdeg converts a heading in degrees to centidegrees, wrapping into
// [0, 36000). The codec itself stores heading verbatim; this helper is for
// callers converting telemetry input.
func HeadingCdeg(deg float64) uint16 {
	wrapped := math.Mod(deg, 360.0)
	if wrapped < 0 {
		wrapped += 360.0
	}
	cdeg := math.Round(wrapped * 100.0)
	if cdeg >= 36000 {
		cdeg = 0
	}
	return uint16(cdeg)
}

// latitudeDeg is the approximate inverse of packLatitude. Quantization is
// one way: the result is the center of the code's bucket, not the
// original input.
func latitudeDeg(code uint32) float64 {
	return float64(code)*180.0/latLonCodeMax - 90.0
}

func longitudeDeg(code uint32) float64 {
	return float64(code)*360.0/latLonCodeMax - 180.0
}

func altitudeM(code uint16) float64 {
	return float64(code) * altStepFeet / metersToFeet
}
