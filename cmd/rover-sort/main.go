package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"simrover-go/internal/config"
	"simrover-go/internal/drive"
	"simrover-go/internal/output"
	"simrover-go/internal/sensors"
	"simrover-go/internal/server"
	"simrover-go/internal/simulator"
	"simrover-go/internal/transport"
	"simrover-go/internal/types"
	"simrover-go/internal/vision"
)

type metrics struct {
	cycles        atomic.Uint64
	readErrors    atomic.Uint64
	commandsSent  atomic.Uint64
	commandErrors atomic.Uint64
	compressions  atomic.Uint64
}

func (m *metrics) snapshot() map[string]any {
	return map[string]any{
		"cycles_total":         m.cycles.Load(),
		"read_errors_total":    m.readErrors.Load(),
		"commands_sent_total":  m.commandsSent.Load(),
		"command_errors_total": m.commandErrors.Load(),
		"compressions_total":   m.compressions.Load(),
	}
}

func main() {
	var (
		port              = flag.Int("port", 8889, "HTTP port for the telemetry UI")
		endpoint          = flag.String("endpoint", "tcp://localhost:19999", "Simulation server endpoint")
		rate              = flag.Duration("rate", 100*time.Millisecond, "Sensor cycle interval")
		debug             = flag.Bool("debug", false, "Run against the built-in simulator instead of a live scene")
		debugRes          = flag.Int("debug-res", 16, "Camera resolution of the built-in simulator")
		rawLogEnabled     = flag.Bool("raw-log", false, "Write raw signal payloads to disk")
		rawLogDir         = flag.String("raw-log-dir", "rawlog", "Directory for raw signal logs")
		logEvery          = flag.Int("log-every", 50, "Log every Nth per-cycle error")
		connectTimeout    = flag.Duration("connect-timeout", 5*time.Second, "Handshake timeout")
		requestTimeout    = flag.Duration("request-timeout", 2*time.Second, "Per round-trip timeout")
		retries           = flag.Int("retries", 2, "Retries per round-trip before the error surfaces")
		compressOnContact = flag.Bool("compress-on-contact", false, "Fire the compression actuator on bumper contact")
		bumperThreshold   = flag.Float64("bumper-threshold", 1.0, "Bumper force magnitude that counts as contact")
		batteryInterval   = flag.Duration("battery-interval", 5*time.Second, "Battery poll interval")
	)
	flag.Parse()

	cfg := config.AppConfig{
		Port:              *port,
		Endpoint:          *endpoint,
		CameraSignal:      sensors.SmallCameraSignal,
		Rate:              *rate,
		Debug:             *debug,
		DebugRes:          *debugRes,
		RawLogEnabled:     *rawLogEnabled,
		RawLogDir:         *rawLogDir,
		LogEvery:          *logEvery,
		ConnectTimeout:    *connectTimeout,
		RequestTimeout:    *requestTimeout,
		Retries:           *retries,
		CompressOnContact: *compressOnContact,
		BumperThreshold:   *bumperThreshold,
		BatteryInterval:   *batteryInterval,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sig transport.Signals
	if cfg.Debug {
		sig = simulator.NewRover(cfg.DebugRes)
		log.Printf("Connected (built-in simulator, %dx%d cameras)", cfg.DebugRes, cfg.DebugRes)
	} else {
		var recorder transport.Recorder
		var rawLog *output.RawLogWriter
		if cfg.RawLogEnabled {
			writer, err := output.NewRawLogWriter(cfg.RawLogDir, "signals")
			if err != nil {
				log.Fatalf("failed to start raw log: %v", err)
			}
			rawLog = writer
			recorder = writer
			go func() {
				<-ctx.Done()
				if err := writer.Close(); err != nil {
					log.Printf("raw log close failed: %v", err)
				}
			}()
		}
		client, err := transport.Connect(ctx, cfg.Endpoint, transport.Options{
			ConnectTimeout: cfg.ConnectTimeout,
			RequestTimeout: cfg.RequestTimeout,
			Retries:        cfg.Retries,
			Recorder:       recorder,
		})
		if err != nil {
			log.Printf("Failed connecting to remote API server: %v", err)
			if rawLog != nil {
				_ = rawLog.Close()
			}
			log.Printf("Program ended")
			os.Exit(1)
		}
		defer client.Close()
		sig = client
		log.Printf("Connected to %s", cfg.Endpoint)
	}

	var m metrics
	registry := drive.NewRegistry(sig, drive.Clockwise, drive.Clockwise)
	smallCam := sensors.Camera{Signal: sensors.SmallCameraSignal}
	topCam := sensors.Camera{Signal: sensors.TopCameraSignal}

	var batteryMu sync.Mutex
	battery := ""
	go sensors.PollBattery(ctx, sig, cfg.BatteryInterval, func(reading string) {
		batteryMu.Lock()
		battery = reading
		batteryMu.Unlock()
	})

	uiMessages := make(chan any, 16)
	var latestMu sync.Mutex
	var latest types.Telemetry
	var hasLatest bool

	go func() {
		defer close(uiMessages)
		ticker := time.NewTicker(cfg.Rate)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			cycle := m.cycles.Add(1)
			bumper := sensors.Bumper(ctx, sig)
			sonar := sensors.Sonar(ctx, sig)

			telemetry := types.Telemetry{
				Type:   "telemetry",
				Cycle:  cycle,
				Bumper: bumper,
				Sonar:  sonar,
			}
			batteryMu.Lock()
			telemetry.Battery = battery
			batteryMu.Unlock()

			// The sorting policy itself is still open; the small camera's
			// color summary is computed and reported so a policy can be
			// developed against live readings.
			if frame, err := smallCam.Frame(ctx, sig); err != nil {
				m.readErrors.Add(1)
				logEveryN(cfg.LogEvery, "small camera read failed: %v", err)
			} else {
				red, green, blue := vision.RGB(frame)
				telemetry.Reflection = vision.Reflection(frame)
				telemetry.Ambient = vision.Ambient(frame)
				telemetry.Red, telemetry.Green, telemetry.Blue = red, green, blue
				telemetry.RedSeen = vision.RedDetected(red, green, blue)
				telemetry.BlueSeen = vision.BlueDetected(red, green, blue)
			}
			if _, err := topCam.Frame(ctx, sig); err != nil {
				m.readErrors.Add(1)
				logEveryN(cfg.LogEvery, "top camera read failed: %v", err)
			}

			if cfg.CompressOnContact && forceMagnitude(bumper) > cfg.BumperThreshold {
				if err := sensors.Compress(ctx, sig); err != nil {
					logEveryN(cfg.LogEvery, "compress failed: %v", err)
				} else {
					m.compressions.Add(1)
				}
			}

			// Hold the rover stationary until a sorting policy drives it.
			if err := registry.Drive(ctx, 0, 0); err != nil {
				m.commandErrors.Add(1)
				logEveryN(cfg.LogEvery, "motor command failed: %v", err)
			} else {
				m.commandsSent.Add(1)
			}

			latestMu.Lock()
			latest = telemetry
			hasLatest = true
			latestMu.Unlock()
			select {
			case uiMessages <- telemetry:
			default:
			}
		}
	}()

	statusFn := func() map[string]any {
		batteryMu.Lock()
		reading := battery
		batteryMu.Unlock()
		return map[string]any{
			"mode":    mode(cfg.Debug),
			"battery": reading,
			"metrics": m.snapshot(),
		}
	}
	snapshotFn := func() any {
		latestMu.Lock()
		defer latestMu.Unlock()
		if !hasLatest {
			return nil
		}
		return latest
	}

	log.Printf("Telemetry UI at http://localhost:%d", cfg.Port)
	if err := server.Run(ctx, cfg, uiMessages, statusFn, snapshotFn, nil); err != nil {
		log.Printf("server stopped: %v", err)
	}
	log.Printf("Program ended")
}

func forceMagnitude(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func mode(debug bool) string {
	if debug {
		return "simulator"
	}
	return "live"
}

var logCounter int

func logEveryN(n int, format string, args ...any) {
	if n < 1 {
		n = 1
	}
	logCounter++
	if logCounter%n == 0 {
		log.Printf(format, args...)
	}
}
