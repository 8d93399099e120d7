package llm

import "context"

// AnalyzeCreator asks the model for a narrative analysis of a creator.
func (c *Client) AnalyzeCreator(ctx context.Context, req AnalyzeRequest) (*AnalysisResponse, error) {
	prompt, err := BuildAnalyzePrompt(req)
	if err != nil {
		return nil, err
	}
	var out AnalysisResponse
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchProducts asks the model to rank products for a creator.
func (c *Client) MatchProducts(ctx context.Context, req ProductMatchRequest) (*MatchResponse, error) {
	prompt, err := BuildMatchProductsPrompt(req)
	if err != nil {
		return nil, err
	}
	var out MatchResponse
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MatchCreators asks the model to rank creators for a product.
func (c *Client) MatchCreators(ctx context.Context, req CreatorMatchRequest) (*MatchResponse, error) {
	prompt, err := BuildMatchCreatorsPrompt(req)
	if err != nil {
		return nil, err
	}
	var out MatchResponse
	if err := c.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
