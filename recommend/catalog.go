package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// CourseListing is one course returned by the catalog API, passed through
// in the catalog's own ranking order.
type CourseListing struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	ImageURL string `json:"image_480x270"`
	Price    string `json:"price"`
}

// Catalog is the external course catalog contract.
type Catalog interface {
	SearchCourses(ctx context.Context, query string) ([]CourseListing, error)
}

type catalogResponse struct {
	Results []CourseListing `json:"results"`
}

// CatalogClient queries a Udemy-style course catalog over HTTP with a
// bearer credential.
type CatalogClient struct {
	client *resty.Client
}

func NewCatalogClient(baseURL, apiKey string) *CatalogClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json, text/plain, */*")

	return &CatalogClient{client: client}
}

func (c *CatalogClient) SearchCourses(ctx context.Context, query string) ([]CourseListing, error) {
	var body catalogResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search":    query,
			"page":      "1",
			"page_size": "10",
		}).
		SetResult(&body).
		Get("/courses/")
	if err != nil {
		return nil, fmt.Errorf("err query course catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("course catalog returned status %d", resp.StatusCode())
	}

	return body.Results, nil
}
