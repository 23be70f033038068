// Package panelapp implements the catalog client against the Genomics
// England PanelApp REST API.
//
// The catalog walk follows the paginated /panels/ listing, keeps panels
// whose relevant disorders carry an NHS test-directory R code, and fetches
// each kept panel's detail for its gene content. Requests are proactively
// throttled; 429 responses surface as typed rate limit errors.
package panelapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CatalogClient = (*Client)(nil)

const (
	// DefaultBaseURL is the public PanelApp API root.
	DefaultBaseURL = "https://panelapp.genomicsengland.co.uk/api/v1"

	// ProactiveRate is the proactive throttle (requests per second). PanelApp
	// publishes no hard quota; this keeps full catalog walks polite.
	ProactiveRate = 5

	requestTimeout = 30 * time.Second
)

// Client talks to the PanelApp REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a PanelApp client. An empty baseURL uses the public API.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// panelListPage is one page of the /panels/ listing.
type panelListPage struct {
	Next    *string     `json:"next"`
	Results []panelItem `json:"results"`
}

// panelItem is a panel as it appears in the listing.
type panelItem struct {
	ID                json.Number `json:"id"`
	Name              string      `json:"name"`
	Version           string      `json:"version"`
	RelevantDisorders []string    `json:"relevant_disorders"`
}

// panelDetail is the /panels/{id}/ response.
type panelDetail struct {
	ID                json.Number `json:"id"`
	Name              string      `json:"name"`
	Version           string      `json:"version"`
	RelevantDisorders []string    `json:"relevant_disorders"`
	Genes             []struct {
		GeneData struct {
			GeneSymbol string `json:"gene_symbol"`
		} `json:"gene_data"`
	} `json:"genes"`
}

// rCodes filters a panel's relevant disorders down to valid R codes.
func rCodes(disorders []string) []string {
	var codes []string
	for _, d := range disorders {
		code := domain.CanonicalClinicalCode(d)
		if domain.ValidateClinicalCode(code) == nil {
			codes = append(codes, code)
		}
	}
	return codes
}

// FetchAllPanels walks the full paginated catalog. Panels without an R code
// are dropped; a panel carrying several R codes yields one PanelData per
// code, all sharing the panel's gene content.
func (c *Client) FetchAllPanels(ctx context.Context) ([]domain.PanelData, error) {
	var all []domain.PanelData
	pageURL := c.baseURL + "/panels/"
	page := 0

	for pageURL != "" {
		page++
		var listing panelListPage
		if err := c.getJSON(ctx, pageURL, &listing); err != nil {
			return nil, fmt.Errorf("fetching panel listing page %d: %w", page, err)
		}
		logger.Debug("Panel listing page %d: %d panels", page, len(listing.Results))

		for _, item := range listing.Results {
			codes := rCodes(item.RelevantDisorders)
			if len(codes) == 0 {
				continue
			}

			detail, err := c.fetchDetail(ctx, item.ID.String())
			if err != nil {
				return nil, fmt.Errorf("fetching panel %s (%s): %w", item.ID, item.Name, err)
			}

			genes := make([]string, 0, len(detail.Genes))
			for _, g := range detail.Genes {
				genes = append(genes, g.GeneData.GeneSymbol)
			}

			for _, code := range codes {
				all = append(all, domain.PanelData{
					ClinicalCode: code,
					Name:         detail.Name,
					PanelVersion: detail.Version,
					GeneIDs:      genes,
				})
			}
		}

		if listing.Next != nil {
			pageURL = *listing.Next
		} else {
			pageURL = ""
		}
	}

	logger.Info("Fetched %d coded panels from PanelApp", len(all))
	return all, nil
}

// FetchPanel returns the live panel for one clinical code. PanelApp resolves
// relevant disorder codes directly as panel identifiers.
func (c *Client) FetchPanel(ctx context.Context, clinicalCode string) (*domain.PanelData, error) {
	code := domain.CanonicalClinicalCode(clinicalCode)
	if err := domain.ValidateClinicalCode(code); err != nil {
		return nil, err
	}

	detail, err := c.fetchDetail(ctx, code)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPanelNotFound, code)
		}
		return nil, err
	}

	genes := make([]string, 0, len(detail.Genes))
	for _, g := range detail.Genes {
		genes = append(genes, g.GeneData.GeneSymbol)
	}

	return &domain.PanelData{
		ClinicalCode: code,
		Name:         detail.Name,
		PanelVersion: detail.Version,
		GeneIDs:      genes,
	}, nil
}

// fetchDetail fetches one panel's detail by panel id or R code.
func (c *Client) fetchDetail(ctx context.Context, id string) (*panelDetail, error) {
	var detail panelDetail
	if err := c.getJSON(ctx, c.baseURL+"/panels/"+id+"/", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// getJSON performs a throttled GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := 30 * time.Second
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			URL:        url,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}
