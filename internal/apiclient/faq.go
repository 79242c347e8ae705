package apiclient

import (
	"context"
	"net/url"
)

// FAQItem question/answer pair
type FAQItem struct {
	ID       int    `json:"id"`
	Category string `json:"category,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQs GET /faq response grouped by category
type FAQs struct {
	FAQs map[string][]*FAQItem `json:"faqs"`
}

// FAQSearch GET /faq/search response
type FAQSearch struct {
	Results []*FAQItem `json:"results"`
}

// FAQs GET /faq
func (c *Client) FAQs(ctx context.Context) (*FAQs, error) {
	out := new(FAQs)
	if err := c.getJSON(ctx, "/faq", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchFAQs GET /faq/search?q=
func (c *Client) SearchFAQs(ctx context.Context, q string) (*FAQSearch, error) {
	out := new(FAQSearch)
	if err := c.getJSON(ctx, "/faq/search", url.Values{"q": []string{q}}, out); err != nil {
		return nil, err
	}
	return out, nil
}
