package llm

// CreatorProfile describes a creator in a prompt.
type CreatorProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Platform       string   `json:"platform"`
	Followers      int64    `json:"followers"`
	EngagementRate float64  `json:"engagementRate"`
	Categories     []string `json:"categories"`
	Audience       []string `json:"audience,omitempty"`
}

// ProductProfile describes a product in a prompt.
type ProductProfile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Brand          string   `json:"brand,omitempty"`
	Price          int64    `json:"price"`
	CommissionRate float64  `json:"commissionRate"`
	Seasonality    []string `json:"seasonality,omitempty"`
	TargetAudience []string `json:"targetAudience,omitempty"`
}

// Stat is one aggregate row (a category, price range or season).
type Stat struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Revenue int64   `json:"revenue"`
	Share   float64 `json:"share,omitempty"`
}

// SalesProfile is the aggregate sales history sent instead of raw sales.
type SalesProfile struct {
	TotalSales        int     `json:"totalSales"`
	TotalRevenue      int64   `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	Categories        []Stat  `json:"categories"`
	PriceRanges       []Stat  `json:"priceRanges"`
	Seasons           []Stat  `json:"seasons"`
}

// AnalyzeRequest asks for a narrative analysis of one creator.
type AnalyzeRequest struct {
	Creator CreatorProfile `json:"creator"`
	Sales   SalesProfile   `json:"sales"`
}

// ProductMatchRequest asks for products ranked for a creator.
type ProductMatchRequest struct {
	Creator  CreatorProfile   `json:"creator"`
	Sales    SalesProfile     `json:"sales"`
	Products []ProductProfile `json:"products"`
	Limit    int              `json:"limit"`
}

// CreatorCandidate is a creator offered for ranking against a product.
type CreatorCandidate struct {
	Creator CreatorProfile `json:"creator"`
	Sales   SalesProfile   `json:"sales"`
}

// CreatorMatchRequest asks for creators ranked for a product.
type CreatorMatchRequest struct {
	Product  ProductProfile     `json:"product"`
	Sales    SalesProfile       `json:"sales"`
	Creators []CreatorCandidate `json:"creators"`
	Limit    int                `json:"limit"`
}
