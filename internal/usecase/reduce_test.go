package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
)

func testCampaign(id string, impressions, clicks, conversions int64, spend, revenue string) domain.Campaign {
	return domain.Campaign{
		ID:          id,
		Name:        "Campaign " + id,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Spend:       decimal.RequireFromString(spend),
		Revenue:     decimal.RequireFromString(revenue),
	}
}

func TestApportion(t *testing.T) {
	assert.Equal(t, 100.0, Apportion(200, 50))
	assert.Equal(t, 0.0, Apportion(200, 0))
	assert.Equal(t, 200.0, Apportion(200, 100))

	// Out-of-range percentages pass through unvalidated.
	assert.Equal(t, 300.0, Apportion(200, 150))
	assert.Equal(t, -100.0, Apportion(200, -50))
}

func TestMergeReduceReproducesTotalsWhenPercentagesSumTo100(t *testing.T) {
	c := testCampaign("c1", 1000, 100, 10, "500.50", "1200.25")
	c.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-01", PercentageOfAudience: 60},
		{WeekStart: "2024-01-08", PercentageOfAudience: 40},
	}

	buckets := MergeReduce([]domain.Campaign{c}, weeklyAllocations, SortKeyAscending, nil)
	require.Len(t, buckets, 2)

	var impressions, clicks, conversions int64
	spend := decimal.Zero
	revenue := decimal.Zero
	for _, b := range buckets {
		impressions += b.Impressions
		clicks += b.Clicks
		conversions += b.Conversions
		spend = spend.Add(b.Spend)
		revenue = revenue.Add(b.Revenue)
	}

	assert.Equal(t, c.Impressions, impressions)
	assert.Equal(t, c.Clicks, clicks)
	assert.Equal(t, c.Conversions, conversions)
	assert.True(t, spend.Equal(c.Spend), "spend %s != %s", spend, c.Spend)
	assert.True(t, revenue.Equal(c.Revenue), "revenue %s != %s", revenue, c.Revenue)
}

func TestMergeReduceSkewedPercentagesProduceSkewedSums(t *testing.T) {
	c := testCampaign("c1", 1000, 100, 10, "500.00", "1200.00")
	c.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "2024-01-01", PercentageOfAudience: 30},
		{WeekStart: "2024-01-08", PercentageOfAudience: 30},
	}

	buckets := MergeReduce([]domain.Campaign{c}, weeklyAllocations, SortKeyAscending, nil)
	require.Len(t, buckets, 2)

	var impressions int64
	for _, b := range buckets {
		impressions += b.Impressions
	}

	// 60% coverage apportions 60% of the total, not all of it.
	assert.Equal(t, int64(600), impressions)
	assert.NotEqual(t, c.Impressions, impressions)
}

func TestMergeReduceDerivedMetricsAssociativeUnderMerge(t *testing.T) {
	a := testCampaign("a", 100, 10, 0, "0", "0")
	a.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}

	b := testCampaign("b", 200, 10, 0, "0", "0")
	b.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}

	buckets := MergeReduce([]domain.Campaign{a, b}, weeklyAllocations, SortKeyAscending, nil)
	require.Len(t, buckets, 1)

	// 20 clicks over 300 impressions, never the average of 10% and 5%.
	assert.Equal(t, int64(300), buckets[0].Impressions)
	assert.Equal(t, int64(20), buckets[0].Clicks)
	assert.InDelta(t, 6.6667, buckets[0].CTR(), 0.001)
	assert.Equal(t, 6.67, round2(buckets[0].CTR()))
}

func TestBucketDerivedMetricsZeroDenominators(t *testing.T) {
	noImpressions := &Bucket{Impressions: 0, Clicks: 0, Conversions: 5}
	assert.Equal(t, 0.0, noImpressions.CTR())

	noClicks := &Bucket{Impressions: 100, Clicks: 0, Conversions: 5}
	assert.Equal(t, 0.0, noClicks.ConversionRate())
}

func TestMergeReduceFirstAppearanceOrder(t *testing.T) {
	a := testCampaign("a", 100, 10, 1, "10", "20")
	a.RegionalPerformance = []domain.RegionalEntry{
		{Region: "Dubai", Country: "UAE", PercentageOfAudience: 50},
		{Region: "Riyadh", Country: "KSA", PercentageOfAudience: 50},
	}

	b := testCampaign("b", 100, 10, 1, "10", "20")
	b.RegionalPerformance = []domain.RegionalEntry{
		{Region: "Doha", Country: "Qatar", PercentageOfAudience: 60},
		{Region: "Dubai", Country: "UAE", PercentageOfAudience: 40},
	}

	buckets := MergeReduce([]domain.Campaign{a, b}, regionalAllocations, SortFirstAppearance, nil)
	require.Len(t, buckets, 3)

	assert.Equal(t, "Dubai", buckets[0].Key.Primary)
	assert.Equal(t, "Riyadh", buckets[1].Key.Primary)
	assert.Equal(t, "Doha", buckets[2].Key.Primary)
}

func TestMergeReduceKeyAscendingSortsWithTiebreak(t *testing.T) {
	c := testCampaign("c1", 100, 10, 1, "10", "20")
	c.DemographicBreakdown = []domain.DemographicEntry{
		{AgeGroup: "25-34", Gender: "Male", PercentageOfAudience: 40},
		{AgeGroup: "18-24", Gender: "Male", PercentageOfAudience: 30},
		{AgeGroup: "18-24", Gender: "Female", PercentageOfAudience: 30},
	}

	buckets := MergeReduce([]domain.Campaign{c}, demographicAllocations, SortKeyAscending, nil)
	require.Len(t, buckets, 3)

	assert.Equal(t, BucketKey{Primary: "18-24", Secondary: "Female"}, buckets[0].Key)
	assert.Equal(t, BucketKey{Primary: "18-24", Secondary: "Male"}, buckets[1].Key)
	assert.Equal(t, BucketKey{Primary: "25-34", Secondary: "Male"}, buckets[2].Key)
}

func TestMergeReduceDropsEntriesWithoutPrimaryKey(t *testing.T) {
	c := testCampaign("c1", 1000, 100, 10, "100", "200")
	c.WeeklyPerformance = []domain.WeeklyEntry{
		{WeekStart: "", PercentageOfAudience: 50},
		{WeekStart: "2024-01-01", PercentageOfAudience: 50},
	}

	var dropped []BucketKey
	buckets := MergeReduce([]domain.Campaign{c}, weeklyAllocations, SortKeyAscending, func(key BucketKey) {
		dropped = append(dropped, key)
	})

	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-01-01", buckets[0].Key.Primary)
	assert.Len(t, dropped, 1)
}

func TestMergeReduceEmptyBreakdownContributesNothing(t *testing.T) {
	c := testCampaign("c1", 1000, 100, 10, "100", "200")

	buckets := MergeReduce([]domain.Campaign{c}, weeklyAllocations, SortKeyAscending, nil)
	assert.Empty(t, buckets)
}

func TestMergeReduceAccumulatesMonetaryMetricsExactly(t *testing.T) {
	campaigns := make([]domain.Campaign, 3)
	for i := range campaigns {
		c := testCampaign("c", 0, 0, 0, "0.10", "0.20")
		c.WeeklyPerformance = []domain.WeeklyEntry{{WeekStart: "2024-01-01", PercentageOfAudience: 100}}
		campaigns[i] = c
	}

	buckets := MergeReduce(campaigns, weeklyAllocations, SortKeyAscending, nil)
	require.Len(t, buckets, 1)

	// Binary floats would drift here; decimals must not.
	assert.True(t, buckets[0].Spend.Equal(decimal.RequireFromString("0.30")))
	assert.Equal(t, 0.3, displayAmount(buckets[0].Spend))
}
