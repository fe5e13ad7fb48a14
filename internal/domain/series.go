package domain

// Flat, chart-ready rows handed to the presentation widgets. The widgets do no
// aggregation of their own; every number here is final, with monetary values
// and rates rounded to two decimals at this boundary.

// WeeklyPoint is one point of the weekly trend series.
type WeeklyPoint struct {
	WeekStart      string  `json:"week_start"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Spend          float64 `json:"spend"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DemographicRow is one row of the demographic breakdown table.
type DemographicRow struct {
	AgeGroup       string  `json:"age_group"`
	Gender         string  `json:"gender"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Spend          float64 `json:"spend"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DevicePoint is one slice of the device breakdown.
type DevicePoint struct {
	DeviceType     string  `json:"device_type"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Spend          float64 `json:"spend"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
}

// GeoMetrics carries the merged metrics attached to a map bubble.
type GeoMetrics struct {
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Spend          float64 `json:"spend"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
}

// GeoPoint is one bubble of the regional map. Value holds the selected metric;
// Radius and Color are interpolated across the dataset's observed value range.
type GeoPoint struct {
	Region         string     `json:"region"`
	Country        string     `json:"country"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Value          float64    `json:"value"`
	Radius         float64    `json:"radius"`
	Color          string     `json:"color"`
	AdditionalData GeoMetrics `json:"additional_data"`
}

// SummaryTotals sums the campaigns' ground-truth scalar totals.
type SummaryTotals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
}

// SummaryRates holds the derived rates recomputed from the summed totals.
type SummaryRates struct {
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	CPC            float64 `json:"cpc"`
	CPA            float64 `json:"cpa"`
	ROAS           float64 `json:"roas"`
}

// SummaryCards feeds the overview page's metric cards.
type SummaryCards struct {
	Campaigns int           `json:"campaigns"`
	Totals    SummaryTotals `json:"totals"`
	Rates     SummaryRates  `json:"rates"`
}

// CampaignRow is one row of the overview page's campaign table.
type CampaignRow struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	Spend          float64 `json:"spend"`
	Revenue        float64 `json:"revenue"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	ROAS           float64 `json:"roas"`
}
