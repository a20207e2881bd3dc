// Package analytics implements the aggregation engine for IntelliSort. It
// derives summary statistics from classification record collections: category
// and disposal distributions, a recent daily trend, and average confidence.
package analytics

import (
	"sort"
	"time"

	"github.com/intellisort/intellisort/internal/classifications"
)

// trendLimit caps the daily trend at the most recent distinct dates present in
// the collection, not the last calendar days.
const trendLimit = 7

// recyclableDisposal is the canonical disposal value counted separately in
// summaries. Matching is exact and case-sensitive.
const recyclableDisposal = "Recyclable"

// GroupCount is one distribution bucket. A nil Key groups records whose source
// field was absent; it is never merged with any literal string value.
type GroupCount struct {
	Key   *string `json:"key"`
	Count int     `json:"count"`
}

// DailyCount is one daily trend entry. Date is a calendar date formatted as
// YYYY-MM-DD in the configured timezone.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary holds the aggregate statistics derived from one record collection.
type Summary struct {
	TotalClassifications int          `json:"total_classifications"`
	CategoryDistribution []GroupCount `json:"category_distribution"`
	DisposalDistribution []GroupCount `json:"disposal_distribution"`
	DailyTrend           []DailyCount `json:"daily_trend"`
	AverageConfidence    float64      `json:"average_confidence"`
	DistinctCategories   int          `json:"distinct_categories"`
	RecyclableCount      int          `json:"recyclable_count"`
}

// Aggregate computes a Summary over the given records. It is pure: no I/O, no
// mutation of the input, and identical output for identical input. An empty
// collection yields zero counts, empty distributions, and an average
// confidence of exactly 0.
func Aggregate(records []classifications.Classification, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}

	categoryNulls := 0
	categories := make(map[string]int)
	disposalNulls := 0
	disposals := make(map[string]int)
	daily := make(map[string]int)

	var confidenceSum float64
	confidenceCount := 0
	recyclable := 0

	for _, r := range records {
		if r.WasteCategory == nil {
			categoryNulls++
		} else {
			categories[*r.WasteCategory]++
		}

		if r.DisposalType == nil {
			disposalNulls++
		} else {
			disposals[*r.DisposalType]++
			if *r.DisposalType == recyclableDisposal {
				recyclable++
			}
		}

		if r.Confidence != nil {
			confidenceSum += *r.Confidence
			confidenceCount++
		}

		daily[r.CreatedAt.In(loc).Format(time.DateOnly)]++
	}

	average := 0.0
	if confidenceCount > 0 {
		average = confidenceSum / float64(confidenceCount)
	}

	distinct := len(categories)
	if categoryNulls > 0 {
		distinct++
	}

	return Summary{
		TotalClassifications: len(records),
		CategoryDistribution: distribution(categories, categoryNulls),
		DisposalDistribution: distribution(disposals, disposalNulls),
		DailyTrend:           dailyTrend(daily),
		AverageConfidence:    average,
		DistinctCategories:   distinct,
		RecyclableCount:      recyclable,
	}
}

// distribution converts bucket counts to a stable slice: the null group first
// when present, then keys ascending. Zero-count groups never appear because
// buckets only exist for observed values.
func distribution(counts map[string]int, nulls int) []GroupCount {
	groups := make([]GroupCount, 0, len(counts)+1)

	if nulls > 0 {
		groups = append(groups, GroupCount{Key: nil, Count: nulls})
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		groups = append(groups, GroupCount{Key: &key, Count: counts[k]})
	}

	return groups
}

// dailyTrend returns the last trendLimit distinct dates present, ascending.
func dailyTrend(daily map[string]int) []DailyCount {
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	if len(dates) > trendLimit {
		dates = dates[len(dates)-trendLimit:]
	}

	trend := make([]DailyCount, 0, len(dates))
	for _, d := range dates {
		trend = append(trend, DailyCount{Date: d, Count: daily[d]})
	}

	return trend
}
