package domain

import "github.com/shopspring/decimal"

// MarketingData is the document served by the upstream marketing API.
type MarketingData struct {
	Campaigns []Campaign `json:"campaigns"`
}

// Campaign carries the ground-truth totals plus the audience breakdowns that
// apportion them. Breakdown entries are fractional allocations of the totals,
// never independent measurements, so their raw metrics must always be derived
// through the entry's percentage of audience.
type Campaign struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Conversions int64 `json:"conversions"`

	Spend   decimal.Decimal `json:"spend"`
	Revenue decimal.Decimal `json:"revenue"`

	WeeklyPerformance    []WeeklyEntry      `json:"weekly_performance"`
	RegionalPerformance  []RegionalEntry    `json:"regional_performance"`
	DemographicBreakdown []DemographicEntry `json:"demographic_breakdown"`
	DeviceBreakdown      []DeviceEntry      `json:"device_breakdown"`
}

// WeeklyEntry allocates a share of the campaign to one week.
type WeeklyEntry struct {
	WeekStart            string  `json:"week_start"`
	PercentageOfAudience float64 `json:"percentage_of_audience"`
}

// RegionalEntry allocates a share of the campaign to one region. The rate
// fields are computed upstream for the region itself; they are carried through
// for display but never summed during aggregation.
type RegionalEntry struct {
	Region               string  `json:"region"`
	Country              string  `json:"country"`
	PercentageOfAudience float64 `json:"percentage_of_audience"`
	CTR                  float64 `json:"ctr"`
	ConversionRate       float64 `json:"conversion_rate"`
	CPC                  float64 `json:"cpc"`
	CPA                  float64 `json:"cpa"`
	ROAS                 float64 `json:"roas"`
}

// DemographicEntry allocates a share of the campaign to one age/gender bucket.
type DemographicEntry struct {
	AgeGroup             string  `json:"age_group"`
	Gender               string  `json:"gender"`
	PercentageOfAudience float64 `json:"percentage_of_audience"`
}

// DeviceEntry allocates a share of the campaign to one device type. Older
// payloads omit the device breakdown entirely, or ship entries without
// percentages; the device view synthesizes and renormalizes those cases.
type DeviceEntry struct {
	DeviceType           string  `json:"device_type"`
	PercentageOfAudience float64 `json:"percentage_of_audience"`
}

// CTR returns the campaign-level click-through rate in percent.
func (c Campaign) CTR() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return float64(c.Clicks) / float64(c.Impressions) * 100
}

// ConversionRate returns the campaign-level conversion rate in percent.
func (c Campaign) ConversionRate() float64 {
	if c.Clicks == 0 {
		return 0
	}
	return float64(c.Conversions) / float64(c.Clicks) * 100
}

// ROAS returns revenue per unit of spend, 0 when nothing was spent.
func (c Campaign) ROAS() float64 {
	if c.Spend.IsZero() {
		return 0
	}
	return c.Revenue.Div(c.Spend).InexactFloat64()
}
