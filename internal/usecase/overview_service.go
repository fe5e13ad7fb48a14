package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// OverviewService serves the dashboard's landing page: summary metric cards
// plus the per-campaign table. Cards sum the campaigns' ground-truth scalar
// totals directly; the audience breakdowns are never involved here.
type OverviewService struct {
	assembler *ViewAssembler
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewOverviewService(client domain.MarketingClient, logger *logger.Logger, metrics *metrics.Metrics) *OverviewService {
	return &OverviewService{
		assembler: NewViewAssembler("overview", client, logger, metrics),
		logger:    logger,
		metrics:   metrics,
	}
}

// Refresh re-fetches the view's document.
func (s *OverviewService) Refresh(ctx context.Context) error {
	return s.assembler.Refresh(ctx)
}

// Snapshot returns the view's current state.
func (s *OverviewService) Snapshot() Snapshot {
	return s.assembler.Snapshot()
}

// Close tears the view down.
func (s *OverviewService) Close() {
	s.assembler.Close()
}

// BuildReport assembles the summary cards and the campaign table rows from a
// ready document.
func (s *OverviewService) BuildReport(ctx context.Context, doc *domain.MarketingData) (domain.SummaryCards, []domain.CampaignRow) {
	start := time.Now()

	cards := buildSummaryCards(doc.Campaigns)
	rows := buildCampaignRows(doc.Campaigns)

	s.metrics.RecordViewRender("overview", time.Since(start))
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"view":      "overview",
		"campaigns": len(rows),
	}).Debug("Overview report built")

	return cards, rows
}

func buildSummaryCards(campaigns []domain.Campaign) domain.SummaryCards {
	cards := domain.SummaryCards{Campaigns: len(campaigns)}

	var spend, revenue decimal.Decimal
	for _, c := range campaigns {
		cards.Totals.Impressions += c.Impressions
		cards.Totals.Clicks += c.Clicks
		cards.Totals.Conversions += c.Conversions
		spend = spend.Add(c.Spend)
		revenue = revenue.Add(c.Revenue)
	}
	cards.Totals.Spend = displayAmount(spend)
	cards.Totals.Revenue = displayAmount(revenue)

	if cards.Totals.Impressions > 0 {
		cards.Rates.CTR = round2(float64(cards.Totals.Clicks) / float64(cards.Totals.Impressions) * 100)
	}
	if cards.Totals.Clicks > 0 {
		cards.Rates.ConversionRate = round2(float64(cards.Totals.Conversions) / float64(cards.Totals.Clicks) * 100)
		cards.Rates.CPC = displayAmount(spend.Div(decimal.NewFromInt(cards.Totals.Clicks)))
	}
	if cards.Totals.Conversions > 0 {
		cards.Rates.CPA = displayAmount(spend.Div(decimal.NewFromInt(cards.Totals.Conversions)))
	}
	if !spend.IsZero() {
		cards.Rates.ROAS = round2(revenue.Div(spend).InexactFloat64())
	}

	return cards
}

func buildCampaignRows(campaigns []domain.Campaign) []domain.CampaignRow {
	rows := make([]domain.CampaignRow, 0, len(campaigns))
	for _, c := range campaigns {
		rows = append(rows, domain.CampaignRow{
			ID:             c.ID,
			Name:           c.Name,
			Impressions:    c.Impressions,
			Clicks:         c.Clicks,
			Conversions:    c.Conversions,
			Spend:          displayAmount(c.Spend),
			Revenue:        displayAmount(c.Revenue),
			CTR:            round2(c.CTR()),
			ConversionRate: round2(c.ConversionRate()),
			ROAS:           round2(c.ROAS()),
		})
	}
	return rows
}
