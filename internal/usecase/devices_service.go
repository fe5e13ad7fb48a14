package usecase

import (
	"context"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// Baseline weights for synthesized device splits. They deliberately do not sum
// to 100; renormalization divides them by their own sum.
var defaultDeviceWeights = map[string]float64{
	"Mobile":  58,
	"Desktop": 36,
	"Tablet":  11,
}

// fallbackDeviceWeight covers device types outside the baseline table.
const fallbackDeviceWeight = 10

// defaultDeviceTypes is the device set synthesized for campaigns whose payload
// predates the device breakdown.
var defaultDeviceTypes = []string{"Mobile", "Desktop", "Tablet"}

// DevicesService serves the device breakdown page. Older upstream payloads
// ship campaigns without a device breakdown, or with entries missing their
// percentages; the service synthesizes those before reducing.
type DevicesService struct {
	assembler *ViewAssembler
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewDevicesService(client domain.MarketingClient, logger *logger.Logger, metrics *metrics.Metrics) *DevicesService {
	return &DevicesService{
		assembler: NewViewAssembler("devices", client, logger, metrics),
		logger:    logger,
		metrics:   metrics,
	}
}

// Refresh re-fetches the view's document.
func (s *DevicesService) Refresh(ctx context.Context) error {
	return s.assembler.Refresh(ctx)
}

// Snapshot returns the view's current state.
func (s *DevicesService) Snapshot() Snapshot {
	return s.assembler.Snapshot()
}

// Close tears the view down.
func (s *DevicesService) Close() {
	s.assembler.Close()
}

// BuildSplit enriches the document's device breakdowns where needed, then
// merges them by device type in first-appearance order.
func (s *DevicesService) BuildSplit(ctx context.Context, doc *domain.MarketingData) []domain.DevicePoint {
	start := time.Now()

	enriched := EnrichDeviceBreakdowns(doc)

	buckets := MergeReduce(enriched.Campaigns, deviceAllocations, SortFirstAppearance, func(key BucketKey) {
		s.logger.WithContext(ctx).Warn("Dropping device entry without a device type")
		s.metrics.RecordEntryDropped("device", "empty_key")
	})

	points := make([]domain.DevicePoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, domain.DevicePoint{
			DeviceType:     b.Key.Primary,
			Impressions:    b.Impressions,
			Clicks:         b.Clicks,
			Conversions:    b.Conversions,
			Spend:          displayAmount(b.Spend),
			Revenue:        displayAmount(b.Revenue),
			CTR:            round2(b.CTR()),
			ConversionRate: round2(b.ConversionRate()),
		})
	}

	s.metrics.RecordBucketsMerged("device", len(buckets))
	s.metrics.RecordViewRender("devices", time.Since(start))

	return points
}

func deviceAllocations(c domain.Campaign) []Allocation {
	allocations := make([]Allocation, 0, len(c.DeviceBreakdown))
	for _, d := range c.DeviceBreakdown {
		allocations = append(allocations, Allocation{
			Key:        BucketKey{Primary: d.DeviceType},
			Percentage: d.PercentageOfAudience,
		})
	}
	return allocations
}

// EnrichDeviceBreakdowns returns a copy of the document whose campaigns all
// carry a device breakdown with usable percentages. Campaigns without the
// breakdown get the default device set; campaigns whose entries carry no
// positive percentage get baseline weights per device type. Either way the
// weights are divided by their own sum so they total 100. The input document
// is never mutated.
func EnrichDeviceBreakdowns(doc *domain.MarketingData) *domain.MarketingData {
	enriched := &domain.MarketingData{Campaigns: make([]domain.Campaign, len(doc.Campaigns))}
	copy(enriched.Campaigns, doc.Campaigns)

	for i := range enriched.Campaigns {
		c := &enriched.Campaigns[i]
		switch {
		case len(c.DeviceBreakdown) == 0:
			c.DeviceBreakdown = synthesizeDeviceEntries()
		case !hasDevicePercentages(c.DeviceBreakdown):
			c.DeviceBreakdown = renormalizeDeviceEntries(c.DeviceBreakdown)
		}
	}

	return enriched
}

func hasDevicePercentages(entries []domain.DeviceEntry) bool {
	for _, e := range entries {
		if e.PercentageOfAudience > 0 {
			return true
		}
	}
	return false
}

func synthesizeDeviceEntries() []domain.DeviceEntry {
	entries := make([]domain.DeviceEntry, len(defaultDeviceTypes))
	for i, device := range defaultDeviceTypes {
		entries[i] = domain.DeviceEntry{DeviceType: device}
	}
	return renormalizeDeviceEntries(entries)
}

// renormalizeDeviceEntries assigns each entry its baseline weight and divides
// by the weight sum, yielding percentages that total 100.
func renormalizeDeviceEntries(entries []domain.DeviceEntry) []domain.DeviceEntry {
	weights := make([]float64, len(entries))
	var sum float64
	for i, e := range entries {
		weight, ok := defaultDeviceWeights[e.DeviceType]
		if !ok {
			weight = fallbackDeviceWeight
		}
		weights[i] = weight
		sum += weight
	}

	normalized := make([]domain.DeviceEntry, len(entries))
	for i, e := range entries {
		normalized[i] = domain.DeviceEntry{
			DeviceType:           e.DeviceType,
			PercentageOfAudience: weights[i] / sum * 100,
		}
	}
	return normalized
}
