package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
)

func newTestWeeklyService() *WeeklyService {
	return NewWeeklyService(&stubClient{}, testLogger, testMetrics)
}

func TestBuildSeriesApportionsAndDerives(t *testing.T) {
	c := testCampaign("c1", 1000, 100, 10, "500.50", "1200.25")
	c.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-01", PercentageOfAudience: 60},
		{WeekStart: "2024-01-08", PercentageOfAudience: 40},
	}

	svc := newTestWeeklyService()
	defer svc.Close()

	points := svc.BuildSeries(context.Background(), &domain.MarketingData{Campaigns: []domain.Campaign{c}})
	require.Len(t, points, 2)

	first := points[0]
	assert.Equal(t, "2024-01-01", first.WeekStart)
	assert.Equal(t, int64(600), first.Impressions)
	assert.Equal(t, int64(60), first.Clicks)
	assert.Equal(t, int64(6), first.Conversions)
	assert.Equal(t, 300.3, first.Spend)
	assert.Equal(t, 720.15, first.Revenue)
	assert.Equal(t, 10.0, first.CTR)
	assert.Equal(t, 10.0, first.ConversionRate)

	second := points[1]
	assert.Equal(t, "2024-01-08", second.WeekStart)
	assert.Equal(t, int64(400), second.Impressions)
	assert.Equal(t, 200.2, second.Spend)
}

func TestBuildSeriesSortedByWeekStart(t *testing.T) {
	c := testCampaign("c1", 900, 90, 9, "90", "180")
	c.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-15", PercentageOfAudience: 30},
		{WeekStart: "2024-01-01", PercentageOfAudience: 40},
		{WeekStart: "2024-01-08", PercentageOfAudience: 30},
	}

	svc := newTestWeeklyService()
	defer svc.Close()

	points := svc.BuildSeries(context.Background(), &domain.MarketingData{Campaigns: []domain.Campaign{c}})
	require.Len(t, points, 3)
	assert.Equal(t, "2024-01-01", points[0].WeekStart)
	assert.Equal(t, "2024-01-08", points[1].WeekStart)
	assert.Equal(t, "2024-01-15", points[2].WeekStart)
}

func TestBuildSeriesOrderIndependent(t *testing.T) {
	a := testCampaign("a", 1000, 100, 10, "100", "300")
	a.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-01", PercentageOfAudience: 50},
		{WeekStart: "2024-01-08", PercentageOfAudience: 50},
	}
	b := testCampaign("b", 500, 50, 5, "50", "150")
	b.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-08", PercentageOfAudience: 100},
	}

	svc := newTestWeeklyService()
	defer svc.Close()

	forward := svc.BuildSeries(context.Background(), &domain.MarketingData{Campaigns: []domain.Campaign{a, b}})
	reversed := svc.BuildSeries(context.Background(), &domain.MarketingData{Campaigns: []domain.Campaign{b, a}})

	assert.Equal(t, forward, reversed)
}

func TestBuildSeriesMergesSameWeekAcrossCampaigns(t *testing.T) {
	a := testCampaign("a", 100, 10, 0, "0", "0")
	a.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}
	b := testCampaign("b", 200, 10, 0, "0", "0")
	b.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}

	svc := newTestWeeklyService()
	defer svc.Close()

	points := svc.BuildSeries(context.Background(), &domain.MarketingData{Campaigns: []domain.Campaign{a, b}})
	require.Len(t, points, 1)
	assert.Equal(t, int64(300), points[0].Impressions)
	assert.Equal(t, int64(20), points[0].Clicks)
	assert.Equal(t, 6.67, points[0].CTR)
}
