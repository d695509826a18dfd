package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"bizdeck/internal/logging"
)

// ListingGenerator is the call surface the listing panel depends on.
type ListingGenerator interface {
	GenerateListingCopy(ctx context.Context, prompt string) (ListingCopy, error)
	GenerateProductImage(ctx context.Context, prompt string) (string, error)
}

const listingSystemPrompt = "You write e-commerce product listings. Given a product idea, produce a short punchy title and a persuasive description of 2-3 sentences."

// listingSchema constrains the response to the two-field listing shape.
func listingSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title":       map[string]interface{}{"type": "string"},
			"description": map[string]interface{}{"type": "string"},
		},
		"required": []string{"title", "description"},
	}
}

// GenerateListingCopy asks the model for a {title, description} JSON object.
// A response that is not valid JSON of that shape yields ErrMalformedResult;
// callers treat that as "generation failed" and keep their prior state.
func (c *Client) GenerateListingCopy(ctx context.Context, prompt string) (ListingCopy, error) {
	logging.APIDebug("[Gemini] GenerateListingCopy: prompt_len=%d", len(prompt))

	reqBody := Request{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		SystemInstruction: &Content{
			Parts: []Part{{Text: listingSystemPrompt}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:      1.0,
			MaxOutputTokens:  c.maxOutputTokens,
			ResponseMimeType: "application/json",
			ResponseSchema:   listingSchema(),
		},
	}

	resp, err := c.generate(ctx, c.model, reqBody)
	if err != nil {
		return ListingCopy{}, err
	}

	text, err := textOf(resp)
	if err != nil {
		return ListingCopy{}, err
	}

	var listing ListingCopy
	if err := json.Unmarshal([]byte(text), &listing); err != nil {
		return ListingCopy{}, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}
	if strings.TrimSpace(listing.Title) == "" || strings.TrimSpace(listing.Description) == "" {
		return ListingCopy{}, fmt.Errorf("%w: missing title or description", ErrMalformedResult)
	}

	return listing, nil
}

// GenerateProductImage asks the model for a single square product image and
// returns it as a data URI. When the response carries no inline image part
// the result is an empty string with a nil error: "no result", not a failure.
func (c *Client) GenerateProductImage(ctx context.Context, prompt string) (string, error) {
	logging.APIDebug("[Gemini] GenerateProductImage: prompt_len=%d", len(prompt))

	reqBody := Request{
		Contents: []Content{
			{Role: "user", Parts: []Part{{
				Text: fmt.Sprintf("Generate a single square product photo for: %s", prompt),
			}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:        1.0,
			MaxOutputTokens:    c.maxOutputTokens,
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	resp, err := c.generate(ctx, c.imageModel, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		mime := part.InlineData.MimeType
		if mime == "" {
			mime = "image/png"
		}
		// The API already base64-encodes inline data.
		return fmt.Sprintf("data:%s;base64,%s", mime, part.InlineData.Data), nil
	}

	logging.API("[Gemini] GenerateProductImage: response carried no inline image part")
	return "", nil
}
