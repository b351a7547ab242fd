package main

import (
	"fmt"
	"os"

	"github.com/JackWithOneEye/flowcanvas/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	apiHost string

	rootCmd = &cobra.Command{
		Use:   "flowcanvas-terminal",
		Short: "Terminal client for a flowcanvas server",
		RunE:  run,
	}
)

func init() {
	rootCmd.Flags().StringVar(&apiHost, "host", "localhost:8080", "host:port of the flowcanvas server")
}

func run(*cobra.Command, []string) error {
	if len(os.Getenv("DEBUG")) > 0 {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("fatal: %w", err)
		}
		defer f.Close()
		logrus.SetOutput(f)
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		// the alt screen owns the terminal
		logrus.SetLevel(logrus.PanicLevel)
	}

	p := tea.NewProgram(tui.NewUIModel(apiHost), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running terminal UI: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
