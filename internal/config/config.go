package config

import "time"

type AppConfig struct {
	Port           int
	Endpoint       string
	CameraSignal   string
	Threshold      float64
	PivotFast      float64
	PivotSlow      float64
	Rate           time.Duration
	Debug          bool
	DebugRes       int
	RawLogEnabled  bool
	RawLogDir      string
	LogEvery       int
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	Retries        int

	// rover-sort only
	CompressOnContact bool
	BumperThreshold   float64
	BatteryInterval   time.Duration
}
