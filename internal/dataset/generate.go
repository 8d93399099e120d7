package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/GTDGit/creator_match_api/internal/models"
)

// Sizes controls how much mock data Generate produces.
type Sizes struct {
	Creators        int
	Products        int
	MinSalesPerUser int
	MaxSalesPerUser int
}

// DefaultSizes is the size of the built-in demo dataset.
var DefaultSizes = Sizes{
	Creators:        50,
	Products:        200,
	MinSalesPerUser: 2,
	MaxSalesPerUser: 40,
}

var (
	audienceLabels = []string{"women", "men", "18-24", "25-34", "35-44", "parents", "students", "professionals"}
	seasonLabels   = []string{"spring", "summer", "fall", "winter"}

	epoch     = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	salesFrom = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	salesTo   = time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Generate builds a mock dataset. The same seed and sizes always produce the
// same dataset. Seed 0 picks a random seed.
func Generate(seed int64, sizes Sizes) *Dataset {
	f := gofakeit.New(seed)

	ds := &Dataset{
		Products: generateProducts(f, sizes.Products),
		Creators: generateCreators(f, sizes.Creators),
	}
	ds.Sales = generateSales(f, ds.Creators, ds.Products, sizes)
	return ds
}

func generateProducts(f *gofakeit.Faker, n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		price := int64(f.Number(5, 2000)) * 100
		original := price
		if f.Bool() {
			original = roundTo(float64(price)*f.Float64Range(1.05, 1.5), 100)
		}

		products = append(products, models.Product{
			ID:             fmt.Sprintf("product-%03d", i+1),
			Name:           f.ProductName(),
			Category:       models.Categories[f.Number(0, len(models.Categories)-1)],
			Brand:          f.Company(),
			Price:          price,
			OriginalPrice:  original,
			CommissionRate: round(f.Float64Range(5, 25), 1),
			Tags:           models.StringList{strings.ToLower(f.Adjective()), strings.ToLower(f.Noun())},
			Seasonality:    pick(f, seasonLabels, 0, 2),
			TargetAudience: pick(f, audienceLabels, 1, 2),
			CreatedAt:      f.DateRange(epoch, salesFrom).UTC(),
		})
	}
	return products
}

func generateCreators(f *gofakeit.Faker, n int) []models.Creator {
	categories := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = string(c)
	}

	creators := make([]models.Creator, 0, n)
	for i := 0; i < n; i++ {
		creators = append(creators, models.Creator{
			ID:             fmt.Sprintf("creator-%03d", i+1),
			Name:           f.Name(),
			Handle:         "@" + strings.ToLower(f.Username()),
			Platform:       models.Platforms[f.Number(0, len(models.Platforms)-1)],
			Followers:      int64(f.Number(1_000, 2_000_000)),
			EngagementRate: round(f.Float64Range(0.5, 12), 2),
			Categories:     pick(f, categories, 1, 3),
			Audience:       pick(f, audienceLabels, 1, 2),
			CreatedAt:      f.DateRange(epoch, salesFrom).UTC(),
		})
	}
	return creators
}

// generateSales gives each creator a history biased toward its declared
// categories and fills in the creator totals.
func generateSales(f *gofakeit.Faker, creators []models.Creator, products []models.Product, sizes Sizes) []models.Sale {
	if len(products) == 0 {
		return []models.Sale{}
	}

	byCategory := make(map[string][]int)
	for i, p := range products {
		byCategory[string(p.Category)] = append(byCategory[string(p.Category)], i)
	}

	sales := make([]models.Sale, 0, len(creators)*sizes.MaxSalesPerUser/2)
	for ci := range creators {
		c := &creators[ci]

		var affinity []int
		for _, cat := range c.Categories {
			affinity = append(affinity, byCategory[cat]...)
		}

		n := f.Number(sizes.MinSalesPerUser, sizes.MaxSalesPerUser)
		for j := 0; j < n; j++ {
			var p *models.Product
			if len(affinity) > 0 && f.Float64Range(0, 1) < 0.8 {
				p = &products[affinity[f.Number(0, len(affinity)-1)]]
			} else {
				p = &products[f.Number(0, len(products)-1)]
			}

			qty := f.Number(1, 20)
			revenue := p.Price * int64(qty)
			sales = append(sales, models.Sale{
				ID:             fmt.Sprintf("sale-%05d", len(sales)+1),
				CreatorID:      c.ID,
				ProductID:      p.ID,
				Quantity:       qty,
				Revenue:        revenue,
				Commission:     int64(math.Round(float64(revenue) * p.CommissionRate / 100)),
				ConversionRate: round(f.Float64Range(0.5, 8), 2),
				SoldAt:         f.DateRange(salesFrom, salesTo).UTC(),
			})
			c.TotalSales++
			c.TotalRevenue += revenue
		}
	}

	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].SoldAt.Before(sales[j].SoldAt)
	})
	return sales
}

// pick returns between lo and hi distinct labels, in source order.
func pick(f *gofakeit.Faker, labels []string, lo, hi int) models.StringList {
	n := f.Number(lo, hi)
	if n <= 0 {
		return models.StringList{}
	}
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}
	f.ShuffleInts(idx)
	idx = idx[:n]
	sort.Ints(idx)

	out := make(models.StringList, 0, n)
	for _, i := range idx {
		out = append(out, labels[i])
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func roundTo(v float64, step int64) int64 {
	return int64(math.Round(v/float64(step))) * step
}
