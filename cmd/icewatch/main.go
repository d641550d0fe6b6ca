// Command icewatch runs the live Antarctic conditions dashboard: one
// synthetic sensor reading per refresh interval, a rolling window of the
// most recent readings, and a temperature trend fit, rendered in the
// terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soren/icewatch/internal/config"
	"github.com/soren/icewatch/internal/dashboard"
	"github.com/soren/icewatch/internal/history"
	"github.com/soren/icewatch/internal/logging"
	"github.com/soren/icewatch/internal/publish"
	"github.com/soren/icewatch/internal/reading"
	"github.com/soren/icewatch/internal/store"
)

func main() {
	configPath := "icewatch.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "icewatch: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logging.OpenLogFile(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "icewatch: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.New(logFile, cfg.LogLevel)

	opts := dashboard.Options{
		Interval: cfg.Interval,
		Generator: reading.NewGenerator(reading.Bounds{
			TempLow:      cfg.TempLow,
			TempHigh:     cfg.TempHigh,
			PressureLow:  cfg.PressureLow,
			PressureHigh: cfg.PressureHigh,
		}),
		Store:  history.NewStore(cfg.Capacity),
		Logger: logger,
	}

	if cfg.Record {
		rec, err := store.New(cfg.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "icewatch: %v\n", err)
			os.Exit(1)
		}
		opts.Recorder = rec
	}

	if cfg.MQTTBroker != "" {
		client := publish.NewClient(publish.Options{
			Broker:      cfg.MQTTBroker,
			Port:        cfg.MQTTPort,
			ClientID:    cfg.MQTTClientID,
			TopicPrefix: cfg.MQTTTopic,
		}, logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := client.Connect(ctx); err != nil {
			// Paho keeps retrying in the background; publishing starts
			// once the broker becomes reachable.
			logger.Warn("mqtt not reachable at startup", "error", err)
		}
		cancel()
		opts.Publisher = client
	}

	logger.Info("starting dashboard",
		"interval", cfg.Interval,
		"capacity", cfg.Capacity,
		"record", cfg.Record,
		"mqtt", cfg.MQTTBroker != "")

	p := tea.NewProgram(dashboard.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "icewatch: %v\n", err)
		os.Exit(1)
	}
}
