// Package units provides shared constants and validation for length units
package units

// Unit constants
const (
	PX = "px"
	MM = "mm"
	CM = "cm"
	M  = "m"
	IN = "in"
	FT = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{PX, MM, CM, M, IN, FT}

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
	return "px, mm, cm, m, in, ft"
}

// ToMeters converts a length in the given unit to meters. Pixel lengths
// have no physical size and are returned unchanged.
func ToMeters(length float64, unit string) float64 {
	switch unit {
	case MM:
		return length / 1000
	case CM:
		return length / 100
	case IN:
		return length * 0.0254
	case FT:
		return length * 0.3048
	default:
		return length
	}
}

// ConvertLength converts a length in meters to the target units
func ConvertLength(lengthM float64, targetUnits string) float64 {
	switch targetUnits {
	case MM:
		return lengthM * 1000
	case CM:
		return lengthM * 100
	case IN:
		return lengthM / 0.0254 // meters to inches
	case FT:
		return lengthM / 0.3048 // meters to feet
	case M:
		return lengthM // no conversion needed
	default:
		return lengthM // default to meters if unknown unit
	}
}
