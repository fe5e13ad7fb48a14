package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/delivery"
	"github.com/MariamShamia2002/amana-marketing/internal/infrastructure"
	"github.com/MariamShamia2002/amana-marketing/internal/usecase"
	"github.com/MariamShamia2002/amana-marketing/pkg/config"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting amana-marketing analytics service")

	if cfg.Upstream.DataURL == "" {
		log.Warn("MARKETING_DATA_URL is not set, views will fail until it is configured")
	}

	m := metrics.New()

	client := infrastructure.NewHTTPClient(cfg.Upstream, log)
	geocoder := infrastructure.NewStaticGeocoder(infrastructure.DefaultCityTable())

	overviewService := usecase.NewOverviewService(client, log, m)
	weeklyService := usecase.NewWeeklyService(client, log, m)
	demographicsService := usecase.NewDemographicsService(client, log, m)
	devicesService := usecase.NewDevicesService(client, log, m)
	regionsService := usecase.NewRegionsService(client, geocoder, cfg.Map, log, m)

	exportService := usecase.NewExportService(
		client,
		overviewService,
		weeklyService,
		demographicsService,
		devicesService,
		regionsService,
		log,
		m,
	)

	handlers := delivery.NewHTTPHandlers(
		overviewService,
		weeklyService,
		demographicsService,
		devicesService,
		regionsService,
		exportService,
		log,
		m,
	)

	router := delivery.NewHTTPRouter(handlers, log, m)

	views := []interface {
		Refresh(ctx context.Context) error
		Close()
	}{
		overviewService,
		weeklyService,
		demographicsService,
		devicesService,
		regionsService,
	}

	// Warm every view concurrently at startup. A failed warm leaves that view
	// in its error state until an explicit refresh; it never kills the process.
	go func() {
		var wg sync.WaitGroup
		for _, view := range views {
			view := view
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := view.Refresh(ctx); err != nil {
					log.WithError(err).Warn("Initial view refresh failed")
				}
			}()
		}
		wg.Wait()
		log.Info("Initial view warm-up completed")
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}

	for _, view := range views {
		view.Close()
	}

	log.Info("Server stopped")
}
