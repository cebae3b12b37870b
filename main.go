package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"liquefy/app"
	"liquefy/internal/config"
	"liquefy/internal/errors"
	"liquefy/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// main runs the whole batch from environment configuration: extract, save, chart
func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).WithField("code", errors.GetCode(err)).Fatal("failed to load configuration")
	}

	log := logging.New(cfg.Log)
	if envErr != nil && !os.IsNotExist(envErr) {
		log.WithError(envErr).Warn(".env not loaded")
	}

	p, err := app.NewPipeline(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize pipeline")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := p.Run(ctx)
	if err != nil {
		log.WithError(err).WithField("code", errors.GetCode(err)).Error("batch failed")
		stop()
		os.Exit(1)
	}

	app.WriteExtractReport(os.Stdout, out.Extract.Report)
	if out.Charts != nil {
		app.WriteChartReport(os.Stdout, out.Charts)
	}
	log.WithField("elapsed", out.Elapsed.Round(time.Millisecond)).Info("batch complete")
}
