package usecase

import (
	"context"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// DemographicsService serves the demographic breakdown page: every campaign's
// age/gender allocations merged into one table.
type DemographicsService struct {
	assembler *ViewAssembler
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewDemographicsService(client domain.MarketingClient, logger *logger.Logger, metrics *metrics.Metrics) *DemographicsService {
	return &DemographicsService{
		assembler: NewViewAssembler("demographics", client, logger, metrics),
		logger:    logger,
		metrics:   metrics,
	}
}

// Refresh re-fetches the view's document.
func (s *DemographicsService) Refresh(ctx context.Context) error {
	return s.assembler.Refresh(ctx)
}

// Snapshot returns the view's current state.
func (s *DemographicsService) Snapshot() Snapshot {
	return s.assembler.Snapshot()
}

// Close tears the view down.
func (s *DemographicsService) Close() {
	s.assembler.Close()
}

// BuildRows merges the demographic allocations of every campaign in a ready
// document. Rows sort by age-group label, with gender as the tiebreak, so the
// table order is stable across fetches.
func (s *DemographicsService) BuildRows(ctx context.Context, doc *domain.MarketingData) []domain.DemographicRow {
	start := time.Now()

	buckets := MergeReduce(doc.Campaigns, demographicAllocations, SortKeyAscending, func(key BucketKey) {
		s.logger.WithContext(ctx).WithField("gender", key.Secondary).Warn("Dropping demographic entry without an age group")
		s.metrics.RecordEntryDropped("demographic", "empty_key")
	})

	rows := make([]domain.DemographicRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, domain.DemographicRow{
			AgeGroup:       b.Key.Primary,
			Gender:         b.Key.Secondary,
			Impressions:    b.Impressions,
			Clicks:         b.Clicks,
			Conversions:    b.Conversions,
			Spend:          displayAmount(b.Spend),
			Revenue:        displayAmount(b.Revenue),
			CTR:            round2(b.CTR()),
			ConversionRate: round2(b.ConversionRate()),
		})
	}

	s.metrics.RecordBucketsMerged("demographic", len(buckets))
	s.metrics.RecordViewRender("demographics", time.Since(start))

	return rows
}

func demographicAllocations(c domain.Campaign) []Allocation {
	allocations := make([]Allocation, 0, len(c.DemographicBreakdown))
	for _, d := range c.DemographicBreakdown {
		allocations = append(allocations, Allocation{
			Key:        BucketKey{Primary: d.AgeGroup, Secondary: d.Gender},
			Percentage: d.PercentageOfAudience,
		})
	}
	return allocations
}
