// Package analytics aggregates sales histories into the summaries consumed by
// the analysis and matching paths.
package analytics

import (
	"sort"
	"time"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// priceRange is a half-open unit price interval [lo, hi). hi <= 0 means unbounded.
type priceRange struct {
	label string
	lo    float64
	hi    float64
}

var priceRanges = []priceRange{
	{label: "0-10000", lo: 0, hi: 10000},
	{label: "10000-30000", lo: 10000, hi: 30000},
	{label: "30000-50000", lo: 30000, hi: 50000},
	{label: "50000-100000", lo: 50000, hi: 100000},
	{label: "100000+", lo: 100000, hi: 0},
}

// Season names in reporting order.
const (
	SeasonSpring = "spring"
	SeasonSummer = "summer"
	SeasonFall   = "fall"
	SeasonWinter = "winter"
)

var seasonOrder = []string{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// SeasonOf maps a timestamp to its (northern hemisphere) season.
func SeasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	case time.September, time.October, time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// PriceRangeOf returns the bucket label for a unit price.
func PriceRangeOf(price float64) string {
	for _, r := range priceRanges {
		if price >= r.lo && (r.hi <= 0 || price < r.hi) {
			return r.label
		}
	}
	return priceRanges[0].label
}

// Preprocess aggregates one creator's sales. products resolves a sale's
// product; a sale whose product is missing still counts toward the summary
// but is reported as unattributed revenue instead of a category.
func Preprocess(sales []models.Sale, products map[string]models.Product) models.Preprocessed {
	var out models.Preprocessed

	var totalRevenue int64
	for _, s := range sales {
		totalRevenue += s.Revenue
	}

	categoryIdx := make(map[string]int)
	bucketIdx := make(map[string]*models.PriceBucket)
	seasonIdx := make(map[string]*models.SeasonStat)

	for _, s := range sales {
		p, ok := products[s.ProductID]

		var listPrice int64
		if ok {
			listPrice = p.Price
			cat := string(p.Category)
			i, seen := categoryIdx[cat]
			if !seen {
				i = len(out.CategoryBreakdown)
				categoryIdx[cat] = i
				out.CategoryBreakdown = append(out.CategoryBreakdown, models.CategoryShare{Category: cat})
			}
			out.CategoryBreakdown[i].Count++
			out.CategoryBreakdown[i].Revenue += s.Revenue
		} else {
			out.Summary.UnattributedRevenue += s.Revenue
		}

		label := PriceRangeOf(s.UnitPrice(listPrice))
		b, seen := bucketIdx[label]
		if !seen {
			b = &models.PriceBucket{Range: label}
			bucketIdx[label] = b
		}
		b.Count++
		b.Revenue += s.Revenue

		season := SeasonOf(s.SoldAt)
		st, seen := seasonIdx[season]
		if !seen {
			st = &models.SeasonStat{Season: season}
			seasonIdx[season] = st
		}
		st.Count++
		st.Revenue += s.Revenue
	}

	for i := range out.CategoryBreakdown {
		if totalRevenue > 0 {
			out.CategoryBreakdown[i].Share = float64(out.CategoryBreakdown[i].Revenue) / float64(totalRevenue) * 100
		}
	}
	sort.SliceStable(out.CategoryBreakdown, func(i, j int) bool {
		return out.CategoryBreakdown[i].Share > out.CategoryBreakdown[j].Share
	})

	out.PriceDistribution = make([]models.PriceBucket, 0, len(bucketIdx))
	for _, r := range priceRanges {
		if b, ok := bucketIdx[r.label]; ok {
			out.PriceDistribution = append(out.PriceDistribution, *b)
		}
	}

	out.SeasonalPattern = make([]models.SeasonStat, 0, len(seasonIdx))
	for _, name := range seasonOrder {
		if st, ok := seasonIdx[name]; ok {
			out.SeasonalPattern = append(out.SeasonalPattern, *st)
		}
	}

	if out.CategoryBreakdown == nil {
		out.CategoryBreakdown = []models.CategoryShare{}
	}

	out.Summary.TotalSales = len(sales)
	out.Summary.TotalRevenue = totalRevenue
	if len(sales) > 0 {
		out.Summary.AverageOrderValue = float64(totalRevenue) / float64(len(sales))
	}
	return out
}
