// Package units provides shared constants and conversions for distance
// and angle units
package units

import "math"

// Distance unit constants
const (
	M  = "m"
	CM = "cm"
	MM = "mm"
)

// ValidUnits contains all valid distance unit values
var ValidUnits = []string{M, CM, MM}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "m, cm, mm"
}

// ConvertDistance converts a distance from meters to the target units.
// The event database stores distances in meters.
func ConvertDistance(meters float64, targetUnits string) float64 {
	switch targetUnits {
	case CM:
		return meters * 100
	case MM:
		return meters * 1000
	case M:
		return meters
	default:
		return meters
	}
}

// DegToRad converts an angle from degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts an angle from radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
