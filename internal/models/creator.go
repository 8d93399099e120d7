package models

import "time"

// Platform enumerates the social platforms a creator publishes on.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformBlog      Platform = "blog"
)

// Platforms lists every supported platform.
var Platforms = []Platform{PlatformInstagram, PlatformYouTube, PlatformTikTok, PlatformBlog}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

// Creator is a seller on a social platform. Reference data, never mutated
// while serving requests.
type Creator struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	Handle         string     `db:"handle" json:"handle"`
	Platform       Platform   `db:"platform" json:"platform"`
	Followers      int64      `db:"followers" json:"followers"`
	EngagementRate float64    `db:"engagement_rate" json:"engagementRate"`
	Categories     StringList `db:"categories" json:"categories"`
	Audience       StringList `db:"audience" json:"audience,omitempty"`
	TotalSales     int64      `db:"total_sales" json:"totalSales"`
	TotalRevenue   int64      `db:"total_revenue" json:"totalRevenue"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}

// HasCategory reports whether the creator declares an affinity for category.
func (c *Creator) HasCategory(category Category) bool {
	return c.Categories.Contains(string(category))
}

// CreatorSortKey is the closed set of fields a creator list can be sorted by.
type CreatorSortKey string

const (
	CreatorSortFollowers      CreatorSortKey = "followers"
	CreatorSortEngagementRate CreatorSortKey = "engagementRate"
	CreatorSortTotalSales     CreatorSortKey = "totalSales"
	CreatorSortTotalRevenue   CreatorSortKey = "totalRevenue"
	CreatorSortName           CreatorSortKey = "name"
	CreatorSortCreatedAt      CreatorSortKey = "createdAt"
)

// CreatorFilter holds list filters for creators. Empty fields are ignored.
type CreatorFilter struct {
	Platform Platform
	Category Category
	Sort     CreatorSortKey
	Order    SortOrder
	Page     int
	Limit    int
}

// CreatorStats is computed from a creator's sales history.
type CreatorStats struct {
	SalesCount            int     `json:"salesCount"`
	TotalQuantity         int     `json:"totalQuantity"`
	TotalRevenue          int64   `json:"totalRevenue"`
	TotalCommission       int64   `json:"totalCommission"`
	AverageOrderValue     float64 `json:"averageOrderValue"`
	AverageConversionRate float64 `json:"averageConversionRate"`
	TopCategory           string  `json:"topCategory,omitempty"`
	HasEnoughData         bool    `json:"hasEnoughData"`
}

// CreatorDetail is a creator together with its computed stats.
type CreatorDetail struct {
	Creator
	Stats CreatorStats `json:"stats"`
}

// DefaultCreatorSort is applied when a list request names no sort key.
const DefaultCreatorSort = CreatorSortFollowers

// CreatorSortKeys lists every valid creator sort key.
var CreatorSortKeys = []CreatorSortKey{
	CreatorSortFollowers, CreatorSortEngagementRate, CreatorSortTotalSales,
	CreatorSortTotalRevenue, CreatorSortName, CreatorSortCreatedAt,
}
