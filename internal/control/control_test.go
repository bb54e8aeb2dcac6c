package control

import "testing"

func TestDecidePivots(t *testing.T) {
	cfg := DefaultConfig()

	// Dark reading: the sensor is over the line, pivot left.
	left := cfg.Decide(10)
	if left.Left != -1 || left.Right != 4 {
		t.Fatalf("Decide(10) = %+v, want left pivot (-1, 4)", left)
	}

	// Bright reading: off the line, pivot right.
	right := cfg.Decide(90)
	if right.Left != 4 || right.Right != -1 {
		t.Fatalf("Decide(90) = %+v, want right pivot (4, -1)", right)
	}
}

func TestDecideExactThreshold(t *testing.T) {
	// Strict less-than: a reading exactly at the threshold takes the
	// right-pivot branch.
	got := DefaultConfig().Decide(40)
	if got.Left != 4 || got.Right != -1 {
		t.Fatalf("Decide(40) = %+v, want right pivot (4, -1)", got)
	}
}

func TestDecideCustomConfig(t *testing.T) {
	cfg := Config{Threshold: 25, Fast: 2, Slow: -0.5}
	if got := cfg.Decide(24.9); got.Right != 2 {
		t.Fatalf("Decide(24.9) = %+v, want fast right wheel", got)
	}
	if got := cfg.Decide(25); got.Left != 2 {
		t.Fatalf("Decide(25) = %+v, want fast left wheel", got)
	}
}
