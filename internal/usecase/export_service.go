package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

var (
	// ErrUnknownView rejects an export for a view that does not exist.
	ErrUnknownView = errors.New("unknown view")

	// ErrViewNotReady rejects an export while the view has no ready document.
	ErrViewNotReady = errors.New("view is not ready")
)

// ExportService pushes a view's merged rows to the configured report sink.
type ExportService struct {
	exportClient domain.ExportClient
	overview     *OverviewService
	weekly       *WeeklyService
	demographics *DemographicsService
	devices      *DevicesService
	regions      *RegionsService
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewExportService(
	exportClient domain.ExportClient,
	overview *OverviewService,
	weekly *WeeklyService,
	demographics *DemographicsService,
	devices *DevicesService,
	regions *RegionsService,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *ExportService {
	return &ExportService{
		exportClient: exportClient,
		overview:     overview,
		weekly:       weekly,
		demographics: demographics,
		devices:      devices,
		regions:      regions,
		logger:       logger,
		metrics:      metrics,
	}
}

// ExportView builds the named view's current rows and posts them to the sink.
// The view must hold a ready document; exports never trigger a fetch.
func (s *ExportService) ExportView(ctx context.Context, view string) (int, error) {
	log := s.logger.WithContext(ctx).WithField("view", view)
	log.Info("Starting report export")

	start := time.Now()

	payload, records, err := s.buildPayload(ctx, view)
	if err != nil {
		log.WithError(err).Warn("Report export rejected")
		return 0, err
	}

	if err := s.exportClient.Export(ctx, view, payload); err != nil {
		s.metrics.RecordExport(view, "failed", time.Since(start))
		log.WithError(err).Error("Report export failed")
		return 0, fmt.Errorf("failed to export %s report: %w", view, err)
	}

	s.metrics.RecordExport(view, "success", time.Since(start))
	log.WithField("records", records).Info("Report export completed successfully")

	return records, nil
}

func (s *ExportService) buildPayload(ctx context.Context, view string) (any, int, error) {
	switch view {
	case "overview":
		snap := s.overview.Snapshot()
		if snap.State != StateReady {
			return nil, 0, fmt.Errorf("%w: %s", ErrViewNotReady, view)
		}
		cards, rows := s.overview.BuildReport(ctx, snap.Doc)
		return map[string]any{"summary": cards, "campaigns": rows}, len(rows), nil

	case "weekly":
		snap := s.weekly.Snapshot()
		if snap.State != StateReady {
			return nil, 0, fmt.Errorf("%w: %s", ErrViewNotReady, view)
		}
		points := s.weekly.BuildSeries(ctx, snap.Doc)
		return points, len(points), nil

	case "demographics":
		snap := s.demographics.Snapshot()
		if snap.State != StateReady {
			return nil, 0, fmt.Errorf("%w: %s", ErrViewNotReady, view)
		}
		rows := s.demographics.BuildRows(ctx, snap.Doc)
		return rows, len(rows), nil

	case "devices":
		snap := s.devices.Snapshot()
		if snap.State != StateReady {
			return nil, 0, fmt.Errorf("%w: %s", ErrViewNotReady, view)
		}
		points := s.devices.BuildSplit(ctx, snap.Doc)
		return points, len(points), nil

	case "regions":
		snap := s.regions.Snapshot()
		if snap.State != StateReady {
			return nil, 0, fmt.Errorf("%w: %s", ErrViewNotReady, view)
		}
		points, err := s.regions.BuildMap(ctx, snap.Doc, MetricImpressions)
		if err != nil {
			return nil, 0, err
		}
		return points, len(points), nil

	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
}
