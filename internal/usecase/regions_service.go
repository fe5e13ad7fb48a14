package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
	"github.com/MariamShamia2002/amana-marketing/pkg/config"
	"github.com/MariamShamia2002/amana-marketing/pkg/logger"
	"github.com/MariamShamia2002/amana-marketing/pkg/metrics"
)

// Metrics selectable for the regional map bubbles.
const (
	MetricImpressions = "impressions"
	MetricClicks      = "clicks"
	MetricConversions = "conversions"
	MetricSpend       = "spend"
	MetricRevenue     = "revenue"
)

// ErrUnknownMetric rejects a map metric outside the selectable set.
var ErrUnknownMetric = errors.New("unknown map metric")

// RegionsService serves the regional map page: every campaign's regional
// allocations merged by region and country, geocoded, and scaled into bubbles.
type RegionsService struct {
	assembler *ViewAssembler
	geo       domain.GeoResolver
	mapCfg    config.MapConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewRegionsService(client domain.MarketingClient, geo domain.GeoResolver, mapCfg config.MapConfig, logger *logger.Logger, metrics *metrics.Metrics) *RegionsService {
	return &RegionsService{
		assembler: NewViewAssembler("regions", client, logger, metrics),
		geo:       geo,
		mapCfg:    mapCfg,
		logger:    logger,
		metrics:   metrics,
	}
}

// Refresh re-fetches the view's document.
func (s *RegionsService) Refresh(ctx context.Context) error {
	return s.assembler.Refresh(ctx)
}

// Snapshot returns the view's current state.
func (s *RegionsService) Snapshot() Snapshot {
	return s.assembler.Snapshot()
}

// Close tears the view down.
func (s *RegionsService) Close() {
	s.assembler.Close()
}

// BuildMap merges the regional allocations of a ready document and returns
// one bubble per geocodable region. Regions without coordinates are excluded
// with a diagnostic; they never fail the build. Bubble radius and color are
// interpolated across the observed range of the selected metric.
func (s *RegionsService) BuildMap(ctx context.Context, doc *domain.MarketingData, metric string) ([]domain.GeoPoint, error) {
	if !validMapMetric(metric) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	start := time.Now()
	log := s.logger.WithContext(ctx)

	buckets := MergeReduce(doc.Campaigns, regionalAllocations, SortFirstAppearance, func(key BucketKey) {
		log.WithField("country", key.Secondary).Warn("Dropping regional entry without a region name")
		s.metrics.RecordEntryDropped("regional", "empty_key")
	})

	points := make([]domain.GeoPoint, 0, len(buckets))
	for _, b := range buckets {
		coords, ok := s.geo.Resolve(b.Key.Primary)
		if !ok {
			log.WithField("region", b.Key.Primary).Warn("No coordinates for region, excluding from map")
			s.metrics.RecordEntryDropped("regional", "unresolved_region")
			continue
		}

		points = append(points, domain.GeoPoint{
			Region:    b.Key.Primary,
			Country:   b.Key.Secondary,
			Latitude:  coords.Latitude,
			Longitude: coords.Longitude,
			Value:     bucketValue(b, metric),
			AdditionalData: domain.GeoMetrics{
				Impressions:    b.Impressions,
				Clicks:         b.Clicks,
				Conversions:    b.Conversions,
				Spend:          displayAmount(b.Spend),
				Revenue:        displayAmount(b.Revenue),
				CTR:            round2(b.CTR()),
				ConversionRate: round2(b.ConversionRate()),
			},
		})
	}

	s.scaleBubbles(points)

	s.metrics.RecordBucketsMerged("regional", len(buckets))
	s.metrics.RecordViewRender("regions", time.Since(start))

	return points, nil
}

func regionalAllocations(c domain.Campaign) []Allocation {
	allocations := make([]Allocation, 0, len(c.RegionalPerformance))
	for _, r := range c.RegionalPerformance {
		allocations = append(allocations, Allocation{
			Key:        BucketKey{Primary: r.Region, Secondary: r.Country},
			Percentage: r.PercentageOfAudience,
		})
	}
	return allocations
}

func validMapMetric(metric string) bool {
	switch metric {
	case MetricImpressions, MetricClicks, MetricConversions, MetricSpend, MetricRevenue:
		return true
	default:
		return false
	}
}

func bucketValue(b *Bucket, metric string) float64 {
	switch metric {
	case MetricClicks:
		return float64(b.Clicks)
	case MetricConversions:
		return float64(b.Conversions)
	case MetricSpend:
		return displayAmount(b.Spend)
	case MetricRevenue:
		return displayAmount(b.Revenue)
	default:
		return float64(b.Impressions)
	}
}

// scaleBubbles interpolates each point's radius and color between the observed
// minimum and maximum values. A degenerate range collapses every bubble to the
// midpoint radius and the default color.
func (s *RegionsService) scaleBubbles(points []domain.GeoPoint) {
	if len(points) == 0 {
		return
	}

	min, max := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}

	for i := range points {
		if max == min {
			points[i].Radius = (s.mapCfg.MinRadius + s.mapCfg.MaxRadius) / 2
			points[i].Color = s.mapCfg.DefaultColor
			continue
		}
		t := (points[i].Value - min) / (max - min)
		points[i].Radius = s.mapCfg.MinRadius + (s.mapCfg.MaxRadius-s.mapCfg.MinRadius)*t
		points[i].Color = lerpHexColor(s.mapCfg.LowColor, s.mapCfg.HighColor, t)
	}
}

// lerpHexColor blends two #RRGGBB colors channel by channel. Falls back to the
// low endpoint when either color fails to parse.
func lerpHexColor(low, high string, t float64) string {
	lr, lg, lb, lok := parseHexColor(low)
	hr, hg, hb, hok := parseHexColor(high)
	if !lok || !hok {
		return low
	}

	blend := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}

	return fmt.Sprintf("#%02X%02X%02X", blend(lr, hr), blend(lg, hg), blend(lb, hb))
}

func parseHexColor(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}

	rv, errR := strconv.ParseUint(s[1:3], 16, 8)
	gv, errG := strconv.ParseUint(s[3:5], 16, 8)
	bv, errB := strconv.ParseUint(s[5:7], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return 0, 0, 0, false
	}

	return uint8(rv), uint8(gv), uint8(bv), true
}
