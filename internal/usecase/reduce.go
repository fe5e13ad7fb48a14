package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MariamShamia2002/amana-marketing/internal/domain"
)

// SortPolicy fixes the output order of a dimension's merged buckets.
type SortPolicy int

const (
	// SortFirstAppearance keeps buckets in the order their keys were first seen.
	SortFirstAppearance SortPolicy = iota
	// SortKeyAscending orders buckets by key tuple, primary then secondary.
	SortKeyAscending
)

// BucketKey identifies one merged bucket within a dimension. Secondary is
// empty for single-field keys such as the week start or the device type.
type BucketKey struct {
	Primary   string
	Secondary string
}

// Allocation is one breakdown entry reduced to its bucket key and its
// percentage of the campaign's audience.
type Allocation struct {
	Key        BucketKey
	Percentage float64
}

// AllocationFunc extracts one dimension's allocations from a campaign.
type AllocationFunc func(c domain.Campaign) []Allocation

// Bucket accumulates the apportioned metrics of every breakdown entry sharing
// a key. Buckets live for a single reduction pass and are never retained
// across renders.
type Bucket struct {
	Key         BucketKey
	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal
}

// CTR recomputes the click-through rate from the bucket's summed bases.
// Summed bases keep the rate consistent under merging; averaging the
// per-entry rates would not.
func (b *Bucket) CTR() float64 {
	if b.Impressions == 0 {
		return 0
	}
	return float64(b.Clicks) / float64(b.Impressions) * 100
}

// ConversionRate recomputes the conversion rate from the bucket's summed bases.
func (b *Bucket) ConversionRate() float64 {
	if b.Clicks == 0 {
		return 0
	}
	return float64(b.Conversions) / float64(b.Clicks) * 100
}

// MergeReduce folds every campaign's breakdown entries for one dimension into
// merged buckets. Each entry's share of the campaign totals is apportioned by
// its percentage of audience; integer metrics are rounded to the nearest whole
// unit as they accumulate, monetary metrics accumulate as exact decimals.
// Entries without a primary key are skipped and reported through drop, which
// may be nil.
func MergeReduce(campaigns []domain.Campaign, extract AllocationFunc, policy SortPolicy, drop func(key BucketKey)) []*Bucket {
	buckets := make(map[BucketKey]*Bucket)
	var order []BucketKey

	for _, c := range campaigns {
		for _, a := range extract(c) {
			if a.Key.Primary == "" {
				if drop != nil {
					drop(a.Key)
				}
				continue
			}

			b, ok := buckets[a.Key]
			if !ok {
				b = &Bucket{Key: a.Key}
				buckets[a.Key] = b
				order = append(order, a.Key)
			}

			b.Impressions += apportionCount(c.Impressions, a.Percentage)
			b.Clicks += apportionCount(c.Clicks, a.Percentage)
			b.Conversions += apportionCount(c.Conversions, a.Percentage)
			b.Spend = b.Spend.Add(apportionAmount(c.Spend, a.Percentage))
			b.Revenue = b.Revenue.Add(apportionAmount(c.Revenue, a.Percentage))
		}
	}

	merged := make([]*Bucket, 0, len(order))
	for _, key := range order {
		merged = append(merged, buckets[key])
	}

	if policy == SortKeyAscending {
		sort.Slice(merged, func(i, j int) bool {
			if merged[i].Key.Primary != merged[j].Key.Primary {
				return merged[i].Key.Primary < merged[j].Key.Primary
			}
			return merged[i].Key.Secondary < merged[j].Key.Secondary
		})
	}

	return merged
}
