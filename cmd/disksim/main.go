package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/diskscan/diskscan/internal/disk"
	"github.com/diskscan/diskscan/internal/domain"
	"github.com/diskscan/diskscan/internal/generator"
	"github.com/diskscan/diskscan/internal/harness"
	"github.com/diskscan/diskscan/internal/infra/config"
	"github.com/diskscan/diskscan/internal/infra/logging"
	"github.com/diskscan/diskscan/internal/live"
	"github.com/diskscan/diskscan/internal/report"
	"github.com/diskscan/diskscan/internal/scheduler"
	"github.com/diskscan/diskscan/internal/units"
	"github.com/diskscan/diskscan/metrics"
)

// activeRun tracks whichever disk/tick pair is currently being simulated, so
// the live server's StatusProvider has something to poll between runs (the
// menu and headless flags both run one simulation at a time).
type activeRun struct {
	mu   sync.RWMutex
	disk *disk.Disk
	tick int64
}

func (a *activeRun) set(d *disk.Disk) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disk = d
	a.tick = 0
}

func (a *activeRun) advance() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tick++
}

func (a *activeRun) snapshot() domain.DiskStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.disk == nil {
		return domain.DiskStatus{}
	}
	return a.disk.Snapshot(a.tick)
}

// tickingDriver wraps a scheduler.Driver so activeRun's tick counter stays
// in step with the harness's own tick loop, without the harness needing to
// know the live server exists.
type tickingDriver struct {
	scheduler.Driver
	run *activeRun
}

func (t tickingDriver) Step() int {
	defer t.run.advance()
	return t.Driver.Step()
}

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		slog.Error("failed to initialize configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel)

	naive := flag.Bool("naive", false, "run a headless FCFS simulation and exit")
	elevator := flag.Bool("elevator", false, "run a headless elevator simulation and exit")
	requests := flag.Int("requests", cfg.DefaultRequestCount, "number of requests to simulate")
	forwardHz := flag.Float64("forward-hz", 0, "forward-seek frequency in Hz (overrides DEFAULT_FORWARD_SPEED)")
	spinRPM := flag.Float64("spin-rpm", 0, "spindle speed in RPM (overrides DEFAULT_SPIN_SPEED)")
	maxTrack := flag.Int("max-track", cfg.MaxTrack, "highest addressable track")
	watch := flag.Bool("watch", false, "start the live status/metrics server alongside the simulation")
	flag.Parse()

	if *forwardHz > 0 {
		cfg.ForwardSpeed = units.ForwardSpeedTicks(*forwardHz)
	}
	if *spinRPM > 0 {
		cfg.SpinSpeed = units.SpinSpeedTicks(*spinRPM)
	}
	cfg.MaxTrack = *maxTrack

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		slog.InfoContext(ctx, "received shutdown signal")
		cancel()
	}()

	run := &activeRun{}

	var liveServer *live.Server
	if *watch && (cfg.WebSocketEnabled || cfg.MetricsEnabled) {
		liveServer = live.NewServer(cfg, run.snapshot, slog.With(slog.String("component", "live-server")))
		go func() {
			if err := liveServer.ListenAndServe(); err != nil {
				slog.ErrorContext(ctx, "live server stopped", slog.String("error", err.Error()))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer shutdownCancel()
			_ = liveServer.Shutdown(shutdownCtx)
		}()
	}

	switch {
	case *naive:
		runHeadless(ctx, cfg, report.Naive, *requests, run)
		return
	case *elevator:
		runHeadless(ctx, cfg, report.Elevator, *requests, run)
		return
	}

	runInteractiveMenu(ctx, cfg, run)
}

func runHeadless(ctx context.Context, cfg *config.Config, algo report.Algorithm, requestCount int, run *activeRun) {
	logger := slog.With(slog.String("component", "disksim"))

	driver := newDriver(cfg, algo, run)
	result, path, err := simulateAndReport(ctx, cfg, driver, algo, requestCount, logger)
	if err != nil {
		logger.Error("simulation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("simulation complete",
		slog.String("algorithm", string(algo)),
		slog.Int("completions", len(result.Completions)),
		slog.Int64("ticks", result.Ticks),
		slog.String("report", path))
}

func newDriver(cfg *config.Config, algo report.Algorithm, run *activeRun) scheduler.Driver {
	d := disk.New(cfg.ForwardSpeed, cfg.SpinSpeed)
	run.set(d)

	var driver scheduler.Driver
	if algo == report.Elevator {
		driver = scheduler.NewElevatorDriver(d)
	} else {
		driver = scheduler.NewSimpleDriver(d)
	}
	return tickingDriver{Driver: driver, run: run}
}

func simulateAndReport(ctx context.Context, cfg *config.Config, driver scheduler.Driver, algo report.Algorithm, requestCount int, logger *slog.Logger) (harness.Result, string, error) {
	gen := generator.New(cfg.MaxTrack)
	tasks, err := gen.NextN(requestCount)
	if err != nil {
		return harness.Result{}, "", err
	}

	submissionOrder := make([]int, len(tasks))
	for i, t := range tasks {
		submissionOrder[i] = t.ID()
	}

	h := harness.New(logger)
	threshold := float64(requestCount) / 1e7

	result, err := h.RunProbabilistic(ctx, driver, tasks, threshold)
	if err != nil {
		return result, "", err
	}

	for _, c := range result.Completions {
		metrics.RecordCompletion(string(algo), c.ResponseTime())
	}

	reportCfg := report.Config{ForwardSpeed: cfg.ForwardSpeed, SpinSpeed: cfg.SpinSpeed, MaxTrack: cfg.MaxTrack}
	path, err := report.WriteFile(cfg.ReportDir, time.Now().UnixMilli(), algo, reportCfg, result, submissionOrder)
	return result, path, err
}

func runInteractiveMenu(ctx context.Context, cfg *config.Config, run *activeRun) {
	logger := slog.With(slog.String("component", "disksim"))
	reader := bufio.NewReader(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		printMainMenu()
		choice, err := readInt(reader)
		if err != nil {
			fmt.Println("Invalid input! Please check your input and try again.")
			continue
		}

		switch choice {
		case 1:
			simulateFromPrompt(ctx, cfg, report.Naive, reader, logger, run)
		case 2:
			simulateFromPrompt(ctx, cfg, report.Elevator, reader, logger, run)
		case 3:
			logAllConfigs(ctx, cfg, logger, run)
		case 4:
			printInfo()
		case 5:
			return
		default:
			fmt.Println("Invalid input! Please check your input and try again.")
		}
	}
}

func printMainMenu() {
	fmt.Println("Welcome to the disk scheduling simulator.\nPlease enter your command:")
	fmt.Println("1- Simulate Naive\n2- Simulate Elevator\n3- Log All Configs\n4- Info\n5- Exit")
	fmt.Print(">> ")
}

func printInfo() {
	fmt.Println(
		"Discrete-event simulator of a rotating disk head serving read\n" +
			"requests under first-come-first-served and elevator (SCAN)\n" +
			"scheduling. Run a simulation from the menu, or pass -naive/-elevator\n" +
			"for a headless run; -watch exposes live status over a websocket.")
}

func simulateFromPrompt(ctx context.Context, cfg *config.Config, algo report.Algorithm, reader *bufio.Reader, logger *slog.Logger, run *activeRun) {
	fmt.Printf("Enter the number of requests to simulate (default %d): ", cfg.DefaultRequestCount)
	requestCount, err := readInt(reader)
	if err != nil || requestCount <= 0 {
		requestCount = cfg.DefaultRequestCount
	}

	runCfg := *cfg
	driver := newDriver(&runCfg, algo, run)
	result, path, err := simulateAndReport(ctx, &runCfg, driver, algo, requestCount, logger)
	if err != nil {
		fmt.Printf("simulation failed: %v\n", err)
		return
	}

	fmt.Printf("Completed %d requests in %d ticks. Report written to %s\n", len(result.Completions), result.Ticks, path)
}

// logAllConfigs runs both scheduling policies across a small matrix of
// hardware profiles, one report file per run.
func logAllConfigs(ctx context.Context, cfg *config.Config, logger *slog.Logger, run *activeRun) {
	profiles := []report.Config{
		{ForwardSpeed: cfg.ForwardSpeed, SpinSpeed: cfg.SpinSpeed, MaxTrack: cfg.MaxTrack},
		{ForwardSpeed: cfg.ForwardSpeed * 2, SpinSpeed: cfg.SpinSpeed, MaxTrack: cfg.MaxTrack},
		{ForwardSpeed: cfg.ForwardSpeed, SpinSpeed: cfg.SpinSpeed * 2, MaxTrack: cfg.MaxTrack},
	}

	for _, profile := range profiles {
		for _, algo := range []report.Algorithm{report.Naive, report.Elevator} {
			runCfg := *cfg
			runCfg.ForwardSpeed = profile.ForwardSpeed
			runCfg.SpinSpeed = profile.SpinSpeed
			runCfg.MaxTrack = profile.MaxTrack

			driver := newDriver(&runCfg, algo, run)
			_, path, err := simulateAndReport(ctx, &runCfg, driver, algo, cfg.DefaultRequestCount, logger)
			if err != nil {
				logger.Error("profile run failed", slog.String("algorithm", string(algo)), slog.String("error", err.Error()))
				continue
			}
			fmt.Printf("algorithm=%s forward_speed=%d spin_speed=%d max_track=%d -> %s\n",
				algo, profile.ForwardSpeed, profile.SpinSpeed, profile.MaxTrack, path)
		}
	}
}

func readInt(reader *bufio.Reader) (int, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(line))
}
