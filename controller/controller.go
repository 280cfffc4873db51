// Package controller runs the elevator from the host: either in-process on the simulator, or as a
// bridge to a board's console over USB serial. Both modes feed the metrics and the journal.
package controller

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/calvinmclean/autolift/console"
	"github.com/calvinmclean/autolift/journal"
	"github.com/calvinmclean/autolift/logger"
	"github.com/calvinmclean/autolift/metrics"
	"github.com/calvinmclean/autolift/scheduler"
	"github.com/calvinmclean/autolift/sim"
)

type Controller struct {
	cfg      Config
	schedCfg scheduler.Config
	log      zerolog.Logger

	metrics  *metrics.Recorder
	exporter *metrics.Exporter
	journal  journal.Journal
	recorder *journal.Recorder
}

// NewFromEnv creates a Controller configured from the environment
func NewFromEnv() (*Controller, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	return New(cfg, logger.Get(logger.ParseLevel(cfg.LogLevel)))
}

func New(cfg Config, log zerolog.Logger) (*Controller, error) {
	err := cfg.setDefaults()
	if err != nil {
		return nil, err
	}

	schedCfg, err := scheduler.LoadConfig(cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error loading controller config: %w", err)
	}

	var j journal.Journal = journal.Noop{}
	if cfg.JournalAddr != "" {
		j = journal.NewClient(cfg.JournalAddr)
	}

	c := &Controller{
		cfg:      cfg,
		schedCfg: schedCfg,
		log:      log,
		metrics:  metrics.NewRecorder(time.Now()),
		journal:  j,
		recorder: journal.NewRecorder(j, log.With().Str("component", "journal").Logger()),
	}

	if cfg.MetricsAddr != "" {
		c.exporter = metrics.NewExporter(cfg.MetricsAddr, c.metrics)
	}

	return c, nil
}

// Run reads console commands from r and writes console output to w until ctx is done
func (c *Controller) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.exporter != nil {
		go func() {
			err := c.exporter.Start(ctx)
			if err != nil {
				c.log.Error().Err(err).Msg("metrics exporter stopped")
			}
		}()
	}

	id, err := c.journal.CreateSession(ctx, c.cfg.SessionName, time.Now())
	if err != nil {
		return fmt.Errorf("error creating journal session: %w", err)
	}
	if id != "" {
		c.log.Info().Str("session_id", id).Msg("journal session created")
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.recorder.Run(ctx)
	}()

	if c.cfg.SerialPort == SerialPortNone {
		err = c.runSim(ctx, r, w)
	} else {
		err = c.runSerial(ctx, r, w)
	}

	cancel()
	wg.Wait()

	doneErr := c.journal.Done(context.Background(), time.Now())
	if doneErr != nil {
		c.log.Error().Err(doneErr).Msg("error finishing journal session")
	}

	return err
}

// Close stops the metrics exporter
func (c *Controller) Close() error {
	if c.exporter == nil {
		return nil
	}
	return c.exporter.Stop()
}

func (c *Controller) runSim(ctx context.Context, r io.Reader, w io.Writer) error {
	cfg := c.schedCfg
	// the simulated motor is always wired with forward as up
	cfg.ReverseMotor = false

	board := sim.NewBoard(sim.ShaftConfig{}, cfg.StepMode(), time.Now)

	s, err := scheduler.New(scheduler.Hardware{
		Buttons: board.Panel.Readers(),
		Beams:   board.Shaft,
		Coils:   board.Shaft,
		Servo:   board.Servo,
		Bar:     board.Outputs,
		Digits:  board.Outputs,
		Console: w,
	}, cfg, c.log.With().Str("component", "scheduler").Logger(), time.Now())
	if err != nil {
		return fmt.Errorf("error creating scheduler: %w", err)
	}

	board.Shaft.OnEdge(s.Notify)
	s.Subscribe(c.metrics)
	s.Subscribe(c.recorder)

	go pump(r, s.Rx(), c.log)

	interval := cfg.TickInterval
	if interval <= 0 {
		interval = scheduler.DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.log.Info().Dur("tick", interval).Msg("running simulator")
	s.Start()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// pump copies input into the console receive ring
func pump(r io.Reader, rx *console.Ring, log zerolog.Logger) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if rx.Put(b) != nil {
				log.Warn().Msg("console input overflow")
				break
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("error reading console input")
			}
			return
		}
	}
}

func (c *Controller) runSerial(ctx context.Context, r io.Reader, w io.Writer) error {
	baudRate, err := c.cfg.baudRate()
	if err != nil {
		return err
	}

	port, err := serial.Open(c.cfg.SerialPort, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return fmt.Errorf("error opening serial port %q: %w", c.cfg.SerialPort, err)
	}
	defer port.Close()

	c.log.Info().Str("port", c.cfg.SerialPort).Int("baud_rate", baudRate).Msg("connected to board")

	go func() {
		_, err := io.Copy(port, r)
		if err != nil {
			c.log.Error().Err(err).Msg("error writing to serial port")
		}
	}()

	errs := make(chan error, 1)
	go func() {
		errs <- c.readBoard(port, w)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

// readBoard copies the board's console output to w and records every pushed floor reading
func (c *Controller) readBoard(r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			_, writeErr := io.WriteString(w, line)
			if writeErr != nil {
				return fmt.Errorf("error writing console output: %w", writeErr)
			}
			c.observe(line, time.Now())
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("error reading serial port: %w", err)
		}
	}
}

func (c *Controller) observe(line string, now time.Time) {
	line = strings.TrimSpace(line)
	if !isPushLine(line) {
		return
	}
	c.metrics.ObserveLine(line)
	c.recorder.Note(line, now)
}

// isPushLine matches the unprompted floor readings, which are the only lines a board sends on its own
func isPushLine(line string) bool {
	return line == "MOVING" || line == "ERROR" || (strings.HasPrefix(line, "FLOOR=") && len(line) == len("FLOOR=")+1)
}
