package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing"
	smtpclient "github.com/fixbroin/wecanfix-backend/pkg/smtp-client"
)

func main() {
	slog.Info("Starting marketing automation job")
	start := time.Now()

	engine := marketing.NewEngine(marketing.EngineConfig{
		Settings:        marketingDBService,
		Users:           storefrontDBService,
		Catalog:         catalogDBService,
		Sender:          smtpclient.NewSmtpClient(),
		RunLock:         marketingDBService,
		SentLog:         marketingDBService,
		DispatchTimeout: conf.Intervals.DispatchTimeout,
		RunLockTTL:      conf.Intervals.RunLockTTL,
	})

	report, err := engine.Run(context.Background())
	if err != nil {
		if errors.Is(err, marketing.ErrRunAlreadyActive) {
			slog.Warn("Another automation run is still active, exiting")
			return
		}
		slog.Error("Marketing automation job failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Marketing automation job completed",
		slog.Int("processed", report.Processed),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.String("duration", time.Since(start).String()))
}
