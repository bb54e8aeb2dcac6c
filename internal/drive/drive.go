// Package drive owns the two differential motors. The simulator takes both
// wheel speeds in a single packed "motors" signal, so commanding one wheel
// must be composed with the last speed of the other; the Registry keeps those
// last speeds in an explicit two-slot table indexed by mounting position.
package drive

import (
	"context"

	"simrover-go/internal/control"
	"simrover-go/internal/transport"
)

// Port is a motor's fixed mounting position. PortA is the left wheel slot in
// the packed signal, PortB the right.
type Port int

const (
	PortA Port = iota
	PortB
)

// Direction is a motor's rotation polarity, applied to every requested speed
// before it goes on the wire.
type Direction int

const (
	Clockwise        Direction = 1
	Counterclockwise Direction = -1
)

const motorsSignal = "motors"

// Compose turns one motor command into the packed (left, right) speed pair.
// The invoking motor's speed and the other motor's last commanded speed each
// get their own polarity applied, and the pair is ordered by mounting
// position, not by which motor issued the command.
func Compose(port Port, speed, otherLast float64, dirSelf, dirOther Direction) (left, right float64) {
	self := speed * float64(dirSelf)
	other := otherLast * float64(dirOther)
	if port == PortA {
		return self, other
	}
	return other, self
}

// Registry tracks both motors' polarities and last commanded speeds and
// sends packed motor signals through the transport.
type Registry struct {
	sig  transport.Signals
	dirs [2]Direction
	last [2]float64
}

func NewRegistry(sig transport.Signals, dirA, dirB Direction) *Registry {
	return &Registry{sig: sig, dirs: [2]Direction{dirA, dirB}}
}

// Run commands a single motor. Only the invoking motor's stored speed is
// updated; the other motor keeps whatever it was last told to do.
func (r *Registry) Run(ctx context.Context, port Port, speed float64) error {
	other := otherPort(port)
	r.last[port] = speed
	left, right := Compose(port, speed, r.last[other], r.dirs[port], r.dirs[other])
	return r.send(ctx, left, right)
}

// Drive commands both wheels in one message.
func (r *Registry) Drive(ctx context.Context, left, right float64) error {
	r.last[PortA] = left
	r.last[PortB] = right
	return r.send(ctx, left*float64(r.dirs[PortA]), right*float64(r.dirs[PortB]))
}

// Apply sends a steering decision from the control core.
func (r *Registry) Apply(ctx context.Context, s control.Steering) error {
	return r.Drive(ctx, s.Left, s.Right)
}

// LastSpeed returns the most recent requested speed for a motor, before
// polarity is applied.
func (r *Registry) LastSpeed(port Port) float64 {
	return r.last[port]
}

func (r *Registry) send(ctx context.Context, left, right float64) error {
	return r.sig.WriteSignal(ctx, motorsSignal, transport.PackFloats([]float64{left, right}))
}

func otherPort(port Port) Port {
	if port == PortA {
		return PortB
	}
	return PortA
}
