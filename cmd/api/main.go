package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/JackWithOneEye/flowcanvas/internal/config"
	"github.com/JackWithOneEye/flowcanvas/internal/engine"
	"github.com/JackWithOneEye/flowcanvas/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "flowcanvas",
		Short: "Serves the canvas viewport and its websocket session",
		RunE:  run,
	}
)

func init() {
	logrus.SetOutput(os.Stderr)
	rootCmd.Flags().StringVarP(&configFile, "config", "c", ".env", "env file with configuration")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logrus.SetLevel(cfg.LogLevel())
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := context.WithCancel(cmd.Context())
	defer stop()

	e := engine.NewEngine(cfg, ctx)
	s := server.NewServer(cfg, e, ctx)

	errChan := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s", s.Addr)
		errChan <- s.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("could not serve: %v", err)
		}
	case sig := <-sigChan:
		logrus.Infof("terminating: %v", sig)
	}

	ctx2, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return s.Shutdown(ctx2)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
