package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"simrover-go/internal/config"
	"simrover-go/internal/control"
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
	cycles         atomic.Uint64
	readErrors     atomic.Uint64
	decodeFailures atomic.Uint64
	commandsSent   atomic.Uint64
	commandErrors  atomic.Uint64
}

func (m *metrics) snapshot() map[string]any {
	return map[string]any{
		"cycles_total":          m.cycles.Load(),
		"read_errors_total":     m.readErrors.Load(),
		"decode_failures_total": m.decodeFailures.Load(),
		"commands_sent_total":   m.commandsSent.Load(),
		"command_errors_total":  m.commandErrors.Load(),
	}
}

func main() {
	var (
		port           = flag.Int("port", 8888, "HTTP port for the telemetry UI")
		endpoint       = flag.String("endpoint", "tcp://localhost:19999", "Simulation server endpoint")
		cameraSignal   = flag.String("camera-signal", sensors.LineCameraSignal, "Signal name of the downward color sensor")
		threshold      = flag.Float64("threshold", 40, "Reflectance threshold between line and floor (percent)")
		pivotFast      = flag.Float64("pivot-fast", 4, "Speed of the faster wheel during a pivot")
		pivotSlow      = flag.Float64("pivot-slow", -1, "Speed of the slower wheel during a pivot")
		rate           = flag.Duration("rate", 50*time.Millisecond, "Control cycle interval")
		debug          = flag.Bool("debug", false, "Run against the built-in simulator instead of a live scene")
		debugRes       = flag.Int("debug-res", 16, "Camera resolution of the built-in simulator")
		rawLogEnabled  = flag.Bool("raw-log", false, "Write raw signal payloads to disk")
		rawLogDir      = flag.String("raw-log-dir", "rawlog", "Directory for raw signal logs")
		logEvery       = flag.Int("log-every", 50, "Log every Nth per-cycle error")
		connectTimeout = flag.Duration("connect-timeout", 5*time.Second, "Handshake timeout")
		requestTimeout = flag.Duration("request-timeout", 2*time.Second, "Per round-trip timeout")
		retries        = flag.Int("retries", 2, "Retries per round-trip before the error surfaces")
	)
	flag.Parse()

	cfg := config.AppConfig{
		Port:           *port,
		Endpoint:       *endpoint,
		CameraSignal:   *cameraSignal,
		Threshold:      *threshold,
		PivotFast:      *pivotFast,
		PivotSlow:      *pivotSlow,
		Rate:           *rate,
		Debug:          *debug,
		DebugRes:       *debugRes,
		RawLogEnabled:  *rawLogEnabled,
		RawLogDir:      *rawLogDir,
		LogEvery:       *logEvery,
		ConnectTimeout: *connectTimeout,
		RequestTimeout: *requestTimeout,
		Retries:        *retries,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sig transport.Signals
	if cfg.Debug {
		sig = simulator.NewRover(cfg.DebugRes)
		log.Printf("Connected (built-in simulator, %dx%d camera)", cfg.DebugRes, cfg.DebugRes)
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
	camera := sensors.Camera{Signal: cfg.CameraSignal}
	decider := control.Config{Threshold: cfg.Threshold, Fast: cfg.PivotFast, Slow: cfg.PivotSlow}

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
			frame, err := camera.Frame(ctx, sig)
			if err != nil {
				if _, ok := err.(*vision.FormatError); ok {
					m.decodeFailures.Add(1)
				} else {
					m.readErrors.Add(1)
				}
				logEveryN(cfg.LogEvery, "sensor read failed: %v", err)
				continue
			}

			reflection := vision.Reflection(frame)
			steering := decider.Decide(reflection)
			if err := registry.Apply(ctx, steering); err != nil {
				m.commandErrors.Add(1)
				logEveryN(cfg.LogEvery, "motor command failed: %v", err)
				continue
			}
			m.commandsSent.Add(1)

			red, green, blue := vision.RGB(frame)
			telemetry := types.Telemetry{
				Type:       "telemetry",
				Cycle:      cycle,
				Reflection: reflection,
				Ambient:    vision.Ambient(frame),
				Red:        red,
				Green:      green,
				Blue:       blue,
				RedSeen:    vision.RedDetected(red, green, blue),
				BlueSeen:   vision.BlueDetected(red, green, blue),
				Left:       steering.Left,
				Right:      steering.Right,
				Sonar:      -1,
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
		return map[string]any{
			"mode":    mode(cfg.Debug),
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
