package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"

	"github.com/calvinmclean/autolift/controller"
	"github.com/calvinmclean/autolift/logger"
	"github.com/calvinmclean/autolift/ui"
)

func main() {
	var configFile, serialPort, sessionName string
	flag.StringVar(&configFile, "config", "", "YAML file with timing and actuator settings. Overrides CONFIG_FILE")
	flag.StringVar(&serialPort, "port", "", "Serial port of the board, or \"none\" to run the simulator. Overrides SERIAL_PORT")
	flag.StringVar(&sessionName, "session", "", "Session name for the journal. Overrides SESSION_NAME")
	flag.Parse()

	cfg, err := controller.ConfigFromEnv()
	if err != nil {
		panic(err)
	}
	if configFile != "" {
		cfg.ConfigFile = configFile
	}
	if serialPort != "" {
		cfg.SerialPort = serialPort
	}
	if sessionName != "" {
		cfg.SessionName = sessionName
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if os.Getenv("ENABLE_UI") == "true" {
		runUI(ctx, cancel, cfg)
		return
	}

	runCLI(ctx, cfg)
}

func runUI(ctx context.Context, cancel context.CancelFunc, cfg controller.Config) {
	log := logger.Get(logger.ParseLevel(cfg.LogLevel))

	liftUI := ui.NewLiftUI()
	liftUI.OnStart = func(cfg controller.Config, commands io.Reader) {
		defer cancel()

		c, err := controller.New(cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("error creating controller")
			return
		}
		defer c.Close()

		r, w := io.Pipe()

		// read from Stdin also
		go func() {
			_, _ = io.Copy(w, os.Stdin)
		}()
		go func() {
			defer w.Close()
			_, _ = io.Copy(w, commands)
		}()

		err = c.Run(ctx, r, io.MultiWriter(os.Stdout, liftUI))
		if err != nil {
			log.Error().Err(err).Msg("controller stopped")
		}
	}

	liftUI.Run(ctx, &cfg)
}

func runCLI(ctx context.Context, cfg controller.Config) {
	log := logger.Get(logger.ParseLevel(cfg.LogLevel))

	c, err := controller.New(cfg, log)
	if err != nil {
		panic(err)
	}
	defer c.Close()

	err = c.Run(ctx, os.Stdin, os.Stdout)
	if err != nil {
		panic(err)
	}
}
