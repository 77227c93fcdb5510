package insuranceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches insurance-company records from the remote API.
type Client interface {
	FetchCompanies(ctx context.Context) ([]CompanyRecord, error)
}

// CompanyRecord is one element of the API's JSON array. The feed carries
// additional fields which are ignored on decode.
type CompanyRecord struct {
	RowNum       int64  `json:"rownum"`
	Name         string `json:"insurance_company_name"`
	Type         string `json:"insurance_company_type"`
	FoundedYear  int64  `json:"founded_year"`
	CoverageArea string `json:"coverage_area"`
}

type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient builds a client for the configured endpoint. The API key, when
// present, is passed as the `key` query parameter.
func NewClient(baseURL, apiKey string) *HTTPClient {
	endpoint := strings.TrimRight(baseURL, "/")
	if apiKey != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint = fmt.Sprintf("%s%skey=%s", endpoint, sep, url.QueryEscape(apiKey))
	}
	return &HTTPClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchCompanies performs the GET request. A non-2xx status, a decode
// failure or an empty payload are all reported as errors so the caller can
// fall back to the local snapshot.
func (c *HTTPClient) FetchCompanies(ctx context.Context) ([]CompanyRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("insurance api returned status %d", resp.StatusCode)
	}

	var records []CompanyRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode insurance api response: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("insurance api response was empty")
	}

	return records, nil
}
