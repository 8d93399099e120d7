package models

// DefaultMatchLimit and MaxMatchLimit bound the number of matches returned.
const (
	DefaultMatchLimit = 10
	MaxMatchLimit     = 50
)

// ScoreBreakdown holds the sub-scores behind a composite match score.
// Every sub-score is in [0,100].
type ScoreBreakdown struct {
	CategoryFit float64 `json:"categoryFit"`
	PriceFit    float64 `json:"priceFit"`
	SeasonFit   float64 `json:"seasonFit"`
	AudienceFit float64 `json:"audienceFit"`
}

// PredictedRevenue is an expected revenue band with Min <= Expected <= Max.
type PredictedRevenue struct {
	Min        int64 `json:"min"`
	Expected   int64 `json:"expected"`
	Max        int64 `json:"max"`
	Quantity   int   `json:"quantity"`
	Commission int64 `json:"commission"`
}

// ProductMatch is a product ranked for a creator.
type ProductMatch struct {
	Product          Product          `json:"product"`
	Score            int              `json:"score"`
	Breakdown        ScoreBreakdown   `json:"breakdown"`
	PredictedRevenue PredictedRevenue `json:"predictedRevenue"`
	Reasoning        string           `json:"reasoning"`
	Confidence       int              `json:"confidence"`
	Source           ResultSource     `json:"source"`
}

// CreatorMatch is a creator ranked for a product.
type CreatorMatch struct {
	Creator          Creator          `json:"creator"`
	Score            int              `json:"score"`
	Breakdown        ScoreBreakdown   `json:"breakdown"`
	PredictedRevenue PredictedRevenue `json:"predictedRevenue"`
	Reasoning        string           `json:"reasoning"`
	Confidence       int              `json:"confidence"`
	Source           ResultSource     `json:"source"`
}
