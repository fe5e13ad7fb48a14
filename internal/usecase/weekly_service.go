package usecase

import (
	"context"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// WeeklyService serves the weekly trends page: every campaign's weekly
// allocations merged by week start into one chronological series.
type WeeklyService struct {
	assembler *ViewAssembler
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewWeeklyService(client domain.MarketingClient, logger *logger.Logger, metrics *metrics.Metrics) *WeeklyService {
	return &WeeklyService{
		assembler: NewViewAssembler("weekly", client, logger, metrics),
		logger:    logger,
		metrics:   metrics,
	}
}

// Refresh re-fetches the view's document.
func (s *WeeklyService) Refresh(ctx context.Context) error {
	return s.assembler.Refresh(ctx)
}

// Snapshot returns the view's current state.
func (s *WeeklyService) Snapshot() Snapshot {
	return s.assembler.Snapshot()
}

// Close tears the view down.
func (s *WeeklyService) Close() {
	s.assembler.Close()
}

// BuildSeries merges the weekly allocations of every campaign in a ready
// document and returns the series sorted ascending by week start. Week starts
// are ISO dates, so the key sort is chronological.
func (s *WeeklyService) BuildSeries(ctx context.Context, doc *domain.MarketingData) []domain.WeeklyPoint {
	start := time.Now()

	buckets := MergeReduce(doc.Campaigns, weeklyAllocations, SortKeyAscending, func(key BucketKey) {
		s.logger.WithContext(ctx).Warn("Dropping weekly entry without a week start")
		s.metrics.RecordEntryDropped("weekly", "empty_key")
	})

	points := make([]domain.WeeklyPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, domain.WeeklyPoint{
			WeekStart:      b.Key.Primary,
			Impressions:    b.Impressions,
			Clicks:         b.Clicks,
			Conversions:    b.Conversions,
			Spend:          displayAmount(b.Spend),
			Revenue:        displayAmount(b.Revenue),
			CTR:            round2(b.CTR()),
			ConversionRate: round2(b.ConversionRate()),
		})
	}

	s.metrics.RecordBucketsMerged("weekly", len(buckets))
	s.metrics.RecordViewRender("weekly", time.Since(start))

	return points
}

func weeklyAllocations(c domain.Campaign) []Allocation {
	allocations := make([]Allocation, 0, len(c.WeeklyPerformance))
	for _, w := range c.WeeklyPerformance {
		allocations = append(allocations, Allocation{
			Key:        BucketKey{Primary: w.WeekStart},
			Percentage: w.PercentageOfAudience,
		})
	}
	return allocations
}
