// Package control holds the line-tracking decision core. It is purely
// reactive bang-bang steering: each cycle is decided from the current
// reflectance reading alone, with no hysteresis, no dead zone around the
// threshold and no memory of previous cycles. Readings that oscillate around
// the threshold therefore chatter between the two pivots; that is a known
// limitation of the controller, kept as-is.
package control

// Steering is one drive command for both wheels, in simulation speed units.
// Opposite signs pivot the chassis in place.
type Steering struct {
	Left  float64
	Right float64
}

// Config tunes the decision core. Threshold is a reflectance percentage;
// Fast and Slow are the wheel speeds of a pivot, with Fast driving the wheel
// that sweeps the sensor back toward the line.
type Config struct {
	Threshold float64
	Fast      float64
	Slow      float64
}

// DefaultConfig matches the stock track: threshold 40 is the midpoint
// between black tape and white floor reflectance.
func DefaultConfig() Config {
	return Config{Threshold: 40, Fast: 4, Slow: -1}
}

// Decide maps a reflectance percentage to a pivot command. A dark reading
// (sensor over the line) pivots left; a bright reading (sensor off the line)
// pivots right. The comparison is strict, so a reading exactly at the
// threshold resolves to the right pivot.
func (c Config) Decide(reflection float64) Steering {
	if reflection < c.Threshold {
		return Steering{Left: c.Slow, Right: c.Fast}
	}
	return Steering{Left: c.Fast, Right: c.Slow}
}

// Decide applies DefaultConfig.
func Decide(reflection float64) Steering {
	return DefaultConfig().Decide(reflection)
}
