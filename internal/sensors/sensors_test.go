package sensors

import (
	"context"
	"errors"
	"testing"

	"simrover-go/internal/transport"
)

type fakeSignals struct {
	readings map[string][]byte
	readErr  error

	intName  string
	intValue int64
}

func (f *fakeSignals) ReadSignal(_ context.Context, name string) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	payload, ok := f.readings[name]
	if !ok {
		return nil, transport.ErrNotAvailable
	}
	return payload, nil
}

func (f *fakeSignals) WriteSignal(context.Context, string, []byte) error {
	return nil
}

func (f *fakeSignals) WriteIntSignal(_ context.Context, name string, value int64) error {
	f.intName = name
	f.intValue = value
	return nil
}

func TestBumperSentinel(t *testing.T) {
	// An unavailable bumper reads as the zero vector, not an error.
	fake := &fakeSignals{readErr: transport.ErrNotAvailable}
	if got := Bumper(context.Background(), fake); got != [3]float64{} {
		t.Fatalf("got %v, want zero vector", got)
	}

	// Short payloads are treated the same way.
	fake = &fakeSignals{readings: map[string][]byte{
		BumperSignal: transport.PackFloats([]float64{1}),
	}}
	if got := Bumper(context.Background(), fake); got != [3]float64{} {
		t.Fatalf("got %v, want zero vector", got)
	}
}

func TestBumperReading(t *testing.T) {
	fake := &fakeSignals{readings: map[string][]byte{
		BumperSignal: transport.PackFloats([]float64{0.5, 0, 2}),
	}}
	got := Bumper(context.Background(), fake)
	if got != [3]float64{0.5, 0, 2} {
		t.Fatalf("got %v, want (0.5, 0, 2)", got)
	}
}

func TestSonarSentinel(t *testing.T) {
	fake := &fakeSignals{readErr: transport.ErrNotAvailable}
	if got := Sonar(context.Background(), fake); got != -1 {
		t.Fatalf("got %v, want -1", got)
	}

	fake = &fakeSignals{readings: map[string][]byte{
		SonarSignal: {},
	}}
	if got := Sonar(context.Background(), fake); got != -1 {
		t.Fatalf("empty payload: got %v, want -1", got)
	}
}

func TestSonarReading(t *testing.T) {
	fake := &fakeSignals{readings: map[string][]byte{
		SonarSignal: transport.PackFloats([]float64{1.5}),
	}}
	if got := Sonar(context.Background(), fake); got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
}

func TestBattery(t *testing.T) {
	fake := &fakeSignals{readings: map[string][]byte{
		BatterySignal: []byte("87%"),
	}}
	got, err := Battery(context.Background(), fake)
	if err != nil {
		t.Fatalf("battery error: %v", err)
	}
	if got != "87%" {
		t.Fatalf("got %q, want 87%%", got)
	}

	fake = &fakeSignals{readErr: transport.ErrNotAvailable}
	if _, err := Battery(context.Background(), fake); !errors.Is(err, transport.ErrNotAvailable) {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
}

func TestCameraFrame(t *testing.T) {
	// 1x1 pure red image, bottom-up order is irrelevant at this size.
	fake := &fakeSignals{readings: map[string][]byte{
		SmallCameraSignal: transport.PackFloats([]float64{1, 0, 0}),
	}}
	frame, err := Camera{Signal: SmallCameraSignal}.Frame(context.Background(), fake)
	if err != nil {
		t.Fatalf("frame error: %v", err)
	}
	if frame.Res != 1 {
		t.Fatalf("got resolution %d, want 1", frame.Res)
	}
	r, g, b := frame.At(0, 0)
	if r != 255 || g != 0 || b != 0 {
		t.Fatalf("got pixel (%d, %d, %d), want (255, 0, 0)", r, g, b)
	}
}

func TestCameraFrameBadBuffer(t *testing.T) {
	fake := &fakeSignals{readings: map[string][]byte{
		TopCameraSignal: transport.PackFloats([]float64{1, 0}),
	}}
	if _, err := (Camera{Signal: TopCameraSignal}).Frame(context.Background(), fake); err == nil {
		t.Fatal("expected decode error for malformed buffer")
	}
}

func TestCompress(t *testing.T) {
	fake := &fakeSignals{}
	if err := Compress(context.Background(), fake); err != nil {
		t.Fatalf("compress error: %v", err)
	}
	if fake.intName != CompressSignal || fake.intValue != 1 {
		t.Fatalf("wrote %q=%d, want %q=1", fake.intName, fake.intValue, CompressSignal)
	}
}
