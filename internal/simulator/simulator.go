// Package simulator is an in-process stand-in for the simulation transport.
// It serves synthetic camera frames of a dark line sweeping across a bright
// floor, plus bumper, sonar and battery readings, and records the motor and
// compression commands it receives. The binaries use it for -debug runs and
// package tests use it instead of a live simulator.
package simulator

import (
	"context"
	"fmt"
	"math"
	"sync"

	"simrover-go/internal/sensors"
	"simrover-go/internal/transport"
)

// linePeriod is the number of camera reads for one full sweep of the line
// across the image.
const linePeriod = 40

// Rover implements transport.Signals without any I/O.
type Rover struct {
	mu           sync.Mutex
	res          int
	reads        int
	left, right  float64
	compressions int
}

func NewRover(res int) *Rover {
	if res < 1 {
		res = 16
	}
	return &Rover{res: res}
}

func (r *Rover) ReadSignal(_ context.Context, name string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch name {
	case sensors.LineCameraSignal, sensors.SmallCameraSignal, sensors.TopCameraSignal:
		buf := r.cameraBuffer()
		r.reads++
		return transport.PackFloats(buf), nil
	case sensors.BumperSignal:
		force := [3]float64{}
		if r.reads%97 < 3 {
			force = [3]float64{0.2, 0, 1.8}
		}
		return transport.PackFloats(force[:]), nil
	case sensors.SonarSignal:
		dist := 1.2 + 0.8*math.Sin(float64(r.reads)/15)
		return transport.PackFloats([]float64{dist}), nil
	case sensors.BatterySignal:
		charge := 100 - r.reads/200
		if charge < 0 {
			charge = 0
		}
		return []byte(fmt.Sprintf("%d%%", charge)), nil
	default:
		return nil, transport.ErrNotAvailable
	}
}

func (r *Rover) WriteSignal(_ context.Context, name string, value []byte) error {
	if name != "motors" {
		return transport.ErrNotAvailable
	}
	speeds, err := transport.UnpackFloats(value)
	if err != nil {
		return err
	}
	if len(speeds) < 2 {
		return fmt.Errorf("motors signal carries %d speeds, want 2", len(speeds))
	}
	r.mu.Lock()
	r.left, r.right = speeds[0], speeds[1]
	r.mu.Unlock()
	return nil
}

func (r *Rover) WriteIntSignal(_ context.Context, name string, value int64) error {
	if name != sensors.CompressSignal {
		return transport.ErrNotAvailable
	}
	if value != 0 {
		r.mu.Lock()
		r.compressions++
		r.mu.Unlock()
	}
	return nil
}

// LastCommand returns the most recent packed motor speeds.
func (r *Rover) LastCommand() (left, right float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.left, r.right
}

// Compressions returns how many times the compression actuator fired.
func (r *Rover) Compressions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compressions
}

// cameraBuffer produces a raw sample buffer in the simulator's bottom-up,
// channel-interleaved layout. The dark line covers a column fraction that
// oscillates with each read, so the decoded reflectance sweeps through both
// sides of the line-following threshold.
func (r *Rover) cameraBuffer() []float64 {
	coverage := 0.5 + 0.45*math.Sin(2*math.Pi*float64(r.reads)/linePeriod)
	darkCols := int(coverage * float64(r.res))

	buf := make([]float64, r.res*r.res*3)
	for row := 0; row < r.res; row++ {
		for col := 0; col < r.res; col++ {
			sample := 0.9
			if col < darkCols {
				sample = 0.05
			}
			base := (row*r.res + col) * 3
			buf[base] = sample
			buf[base+1] = sample
			buf[base+2] = sample
		}
	}
	return buf
}
