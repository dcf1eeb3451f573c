package writer

import "math"

// pointsToInternal converts a probability or change in points (e.g. 52.3)
// to integer thousandths of a point (52300).
func pointsToInternal(points float64) int {
	// Round to avoid floating point errors (e.g., 0.7 * 1000 = 699.999...)
	return int(math.Round(points * 1000))
}

// optionalPoints converts a nullable change.
func optionalPoints(points *float64) *int {
	if points == nil {
		return nil
	}
	v := pointsToInternal(*points)
	return &v
}

// optionalString returns nil for the empty string.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
