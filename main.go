package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sekarsister/energi-dashboard/internal/chart"
	"github.com/sekarsister/energi-dashboard/internal/config"
	"github.com/sekarsister/energi-dashboard/internal/dashboard"
	"github.com/sekarsister/energi-dashboard/internal/energy"
	"github.com/sekarsister/energi-dashboard/internal/logger"
	"github.com/sekarsister/energi-dashboard/internal/web"
	"github.com/sirupsen/logrus"
)

const configPath = "config.yaml"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init logger")
	}

	data, err := energy.Load(cfg.Data.Path)
	if err != nil {
		log.WithError(err).WithField("path", cfg.Data.Path).Fatal("failed to load dataset")
	}
	log.WithFields(logrus.Fields{
		"path":    cfg.Data.Path,
		"records": data.Len(),
		"years":   data.Bounds().String(),
	}).Info("dataset loaded")

	dash, err := dashboard.New(data, chart.NewRenderer(cfg.Chart.DPI), log)
	if err != nil {
		log.WithError(err).Fatal("failed to compute headline metrics")
	}

	srv, err := web.NewServer(dash, log)
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, cfg.Server); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}
