package llm

// AnalysisResponse is the model's narrative analysis of a creator.
type AnalysisResponse struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Opportunities   []string `json:"opportunities"`
	Recommendations []string `json:"recommendations"`
	TopCategories   []string `json:"topCategories"`
}

// Match is one ranked candidate. ID refers to a product or creator from the
// request; callers must drop IDs they did not send.
type Match struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	CategoryFit float64 `json:"categoryFit"`
	PriceFit    float64 `json:"priceFit"`
	SeasonFit   float64 `json:"seasonFit"`
	AudienceFit float64 `json:"audienceFit"`
	Reasoning   string  `json:"reasoning"`
	Confidence  float64 `json:"confidence"`
}

// MatchResponse is a ranked candidate list, best first.
type MatchResponse struct {
	Matches []Match `json:"matches"`
}
