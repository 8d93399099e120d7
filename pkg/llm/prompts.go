package llm

import (
	"encoding/json"
	"fmt"
)

const jsonSystemPrompt = `You are an affiliate commerce analyst for a creator marketplace.
You MUST respond with ONLY a valid JSON object. No explanations, no markdown, no text before or after the JSON. Start your response with { and end with }.`

const analyzePrompt = `Analyze the sales performance of this creator.

Data:
%s

Respond with a JSON object of this shape:
{
  "summary": "two or three sentences on overall performance",
  "strengths": ["..."],
  "opportunities": ["..."],
  "recommendations": ["..."],
  "topCategories": ["up to three categories, strongest first"]
}
Reference concrete numbers from the data.`

const matchProductsPrompt = `Rank the candidate products for this creator by expected sales performance.

Data:
%s

Score each product from 0 to 100 on categoryFit (fit with the creator's sales categories), priceFit (closeness to the average order value), seasonFit and audienceFit, and give an overall score.
Return at most %d products, best first, using only ids from the candidate list:
{
  "matches": [
    {"id": "product id", "score": 0, "categoryFit": 0, "priceFit": 0, "seasonFit": 0, "audienceFit": 0, "reasoning": "one sentence", "confidence": 0}
  ]
}`

const matchCreatorsPrompt = `Rank the candidate creators for this product by expected sales performance.

Data:
%s

Score each creator from 0 to 100 on categoryFit (how much of their sales are in the product category), priceFit (closeness of the product price to their average order value), seasonFit and audienceFit, and give an overall score.
Return at most %d creators, best first, using only ids from the candidate list:
{
  "matches": [
    {"id": "creator id", "score": 0, "categoryFit": 0, "priceFit": 0, "seasonFit": 0, "audienceFit": 0, "reasoning": "one sentence", "confidence": 0}
  ]
}`

// BuildAnalyzePrompt renders the creator analysis prompt.
func BuildAnalyzePrompt(req AnalyzeRequest) (string, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(analyzePrompt, data), nil
}

// BuildMatchProductsPrompt renders the product ranking prompt.
func BuildMatchProductsPrompt(req ProductMatchRequest) (string, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(matchProductsPrompt, data, req.Limit), nil
}

// BuildMatchCreatorsPrompt renders the creator ranking prompt.
func BuildMatchCreatorsPrompt(req CreatorMatchRequest) (string, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(matchCreatorsPrompt, data, req.Limit), nil
}
