package vision

// ratioThreshold is how much brighter a channel must be than the other two
// combined before the surface counts as that color.
const ratioThreshold = 1.5

// RedDetected reports whether the red channel dominates the green and blue
// channels. Inputs are channel means as returned by RGB. The comparison is
// strict, so a ratio of exactly 1.5 is not a detection, and a zero
// denominator counts as not detected rather than a division error.
func RedDetected(r, g, b float64) bool {
	return ratioExceeds(r, g+b)
}

// BlueDetected is the blue-channel counterpart of RedDetected.
func BlueDetected(r, g, b float64) bool {
	return ratioExceeds(b, r+g)
}

func ratioExceeds(channel, rest float64) bool {
	if rest <= 0 {
		return false
	}
	return channel/rest > ratioThreshold
}
