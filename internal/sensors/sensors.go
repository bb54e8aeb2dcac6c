// Package sensors binds the rover's sensor and actuator signals. Reads
// follow the simulator's contract of substituting sentinel values for
// missing data instead of surfacing errors: a silent bumper is a zero force
// vector and a silent sonar is -1. Downstream logic must tolerate those
// sentinels.
package sensors

import (
	"context"
	"time"

	"simrover-go/internal/transport"
	"simrover-go/internal/vision"
)

// Signal names exposed by the simulation scenes.
const (
	LineCameraSignal  = "Sensors"
	SmallCameraSignal = "small_cam_image"
	TopCameraSignal   = "top_cam_image"

	BumperSignal   = "bumper_sensor"
	SonarSignal    = "sonar_sensor"
	BatterySignal  = "battery"
	CompressSignal = "compress"
)

// Bumper returns the bumper force vector. Any transport or decode problem
// yields the zero vector, indistinguishable from "no contact".
func Bumper(ctx context.Context, sig transport.Signals) [3]float64 {
	var out [3]float64
	payload, err := sig.ReadSignal(ctx, BumperSignal)
	if err != nil {
		return out
	}
	values, err := transport.UnpackFloats(payload)
	if err != nil || len(values) < 3 {
		return out
	}
	copy(out[:], values[:3])
	return out
}

// Sonar returns the distance to the closest detected object, or -1 when the
// sonar has no reading.
func Sonar(ctx context.Context, sig transport.Signals) float64 {
	payload, err := sig.ReadSignal(ctx, SonarSignal)
	if err != nil {
		return -1
	}
	values, err := transport.UnpackFloats(payload)
	if err != nil || len(values) == 0 {
		return -1
	}
	return values[0]
}

// Battery returns the raw battery status string.
func Battery(ctx context.Context, sig transport.Signals) (string, error) {
	payload, err := sig.ReadSignal(ctx, BatterySignal)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// Camera reads square RGB frames from one of the rover's image signals.
type Camera struct {
	Signal string
}

// Frame fetches and decodes the current image.
func (c Camera) Frame(ctx context.Context, sig transport.Signals) (vision.Frame, error) {
	payload, err := sig.ReadSignal(ctx, c.Signal)
	if err != nil {
		return vision.Frame{}, err
	}
	samples, err := transport.UnpackFloats(payload)
	if err != nil {
		return vision.Frame{}, err
	}
	return vision.Decode(samples)
}

// Compress fires the compression actuator.
func Compress(ctx context.Context, sig transport.Signals) error {
	return sig.WriteIntSignal(ctx, CompressSignal, 1)
}

// PollBattery reads the battery signal at the given interval and reports
// each reading. An unavailable battery reports "unavailable" rather than
// stopping the poll.
func PollBattery(ctx context.Context, sig transport.Signals, interval time.Duration, update func(string)) {
	if update == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		reading, err := Battery(ctx, sig)
		if err != nil {
			reading = "unavailable"
		}
		update(reading)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
