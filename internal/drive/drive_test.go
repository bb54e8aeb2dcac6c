package drive

import (
	"context"
	"testing"

	"simrover-go/internal/control"
	"simrover-go/internal/transport"
)

type fakeSignals struct {
	name    string
	payload []byte
	writes  int
}

func (f *fakeSignals) ReadSignal(context.Context, string) ([]byte, error) {
	return nil, transport.ErrNotAvailable
}

func (f *fakeSignals) WriteSignal(_ context.Context, name string, value []byte) error {
	f.name = name
	f.payload = value
	f.writes++
	return nil
}

func (f *fakeSignals) WriteIntSignal(context.Context, string, int64) error {
	return nil
}

func (f *fakeSignals) speeds(t *testing.T) (float64, float64) {
	t.Helper()
	values, err := transport.UnpackFloats(f.payload)
	if err != nil {
		t.Fatalf("unpack motor payload: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("motor payload carries %d values, want 2", len(values))
	}
	return values[0], values[1]
}

func TestCompose(t *testing.T) {
	cases := []struct {
		port                Port
		speed, otherLast    float64
		dirSelf, dirOther   Direction
		wantLeft, wantRight float64
	}{
		{PortA, 5, 3, Clockwise, Clockwise, 5, 3},
		{PortB, 5, 3, Clockwise, Clockwise, 3, 5},
		{PortA, 5, 3, Counterclockwise, Clockwise, -5, 3},
		{PortB, 4, -1, Clockwise, Counterclockwise, 1, 4},
	}
	for _, tc := range cases {
		left, right := Compose(tc.port, tc.speed, tc.otherLast, tc.dirSelf, tc.dirOther)
		if left != tc.wantLeft || right != tc.wantRight {
			t.Fatalf("Compose(%v, %v, %v, %v, %v) = (%v, %v), want (%v, %v)",
				tc.port, tc.speed, tc.otherLast, tc.dirSelf, tc.dirOther,
				left, right, tc.wantLeft, tc.wantRight)
		}
	}
}

func TestRunPersistsOtherMotorSpeed(t *testing.T) {
	fake := &fakeSignals{}
	reg := NewRegistry(fake, Clockwise, Clockwise)
	ctx := context.Background()

	if err := reg.Run(ctx, PortB, 3); err != nil {
		t.Fatalf("run B: %v", err)
	}
	if err := reg.Run(ctx, PortA, 5); err != nil {
		t.Fatalf("run A: %v", err)
	}
	if fake.name != "motors" {
		t.Fatalf("wrote signal %q, want motors", fake.name)
	}
	left, right := fake.speeds(t)
	if left != 5 || right != 3 {
		t.Fatalf("packed (%v, %v), want (5, 3)", left, right)
	}

	// Commanding B afterwards must keep A's last speed in the left slot.
	if err := reg.Run(ctx, PortB, -2); err != nil {
		t.Fatalf("run B again: %v", err)
	}
	left, right = fake.speeds(t)
	if left != 5 || right != -2 {
		t.Fatalf("packed (%v, %v), want (5, -2)", left, right)
	}
	if reg.LastSpeed(PortA) != 5 || reg.LastSpeed(PortB) != -2 {
		t.Fatalf("stored speeds (%v, %v), want (5, -2)",
			reg.LastSpeed(PortA), reg.LastSpeed(PortB))
	}
}

func TestRunAppliesPolarity(t *testing.T) {
	fake := &fakeSignals{}
	reg := NewRegistry(fake, Counterclockwise, Clockwise)

	if err := reg.Run(context.Background(), PortA, 5); err != nil {
		t.Fatalf("run: %v", err)
	}
	left, right := fake.speeds(t)
	if left != -5 || right != 0 {
		t.Fatalf("packed (%v, %v), want (-5, 0)", left, right)
	}
	// The stored speed stays as requested; polarity applies on the wire only.
	if reg.LastSpeed(PortA) != 5 {
		t.Fatalf("stored speed %v, want 5", reg.LastSpeed(PortA))
	}
}

func TestDriveAndApply(t *testing.T) {
	fake := &fakeSignals{}
	reg := NewRegistry(fake, Clockwise, Clockwise)
	ctx := context.Background()

	if err := reg.Drive(ctx, 0, 0); err != nil {
		t.Fatalf("drive: %v", err)
	}
	left, right := fake.speeds(t)
	if left != 0 || right != 0 {
		t.Fatalf("packed (%v, %v), want (0, 0)", left, right)
	}

	if err := reg.Apply(ctx, control.Steering{Left: -1, Right: 4}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	left, right = fake.speeds(t)
	if left != -1 || right != 4 {
		t.Fatalf("packed (%v, %v), want (-1, 4)", left, right)
	}
	if fake.writes != 2 {
		t.Fatalf("wrote %d messages, want 2", fake.writes)
	}
}
