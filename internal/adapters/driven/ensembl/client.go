// Package ensembl implements coordinate lookup against the Ensembl REST API.
//
// A gene symbol is resolved to its Ensembl gene id, the gene's MANE Select
// transcript is located, and that transcript's exons become the gene's
// genomic intervals. Genes without a MANE Select transcript resolve to no
// intervals rather than an error.
package ensembl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Miladeb77/panelgenemapper/internal/core/domain"
	"github.com/Miladeb77/panelgenemapper/internal/core/ports/driven"
	"github.com/Miladeb77/panelgenemapper/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.CoordinateLookup = (*Client)(nil)

const (
	// DefaultBaseURL is the public Ensembl REST root.
	DefaultBaseURL = "https://rest.ensembl.org"

	// DefaultSpecies scopes symbol lookups.
	DefaultSpecies = "homo_sapiens"

	// ProactiveRate stays under Ensembl's published 15 req/s ceiling.
	ProactiveRate = 10

	// maneSelectTag marks the MANE Select transcript of a gene.
	maneSelectTag = "MANE_Select"

	requestTimeout = 30 * time.Second
)

// Client talks to the Ensembl REST API.
type Client struct {
	baseURL    string
	species    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSpecies overrides the species for symbol lookups.
func WithSpecies(species string) Option {
	return func(c *Client) { c.species = species }
}

// NewClient creates an Ensembl client. An empty baseURL uses the public API.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		species:    DefaultSpecies,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// geneInfo is the /lookup/symbol response.
type geneInfo struct {
	ID string `json:"id"`
}

// feature is one entry of an /overlap/id response, for both transcripts and
// exons.
type feature struct {
	ID            string   `json:"id"`
	SeqRegionName string   `json:"seq_region_name"`
	Start         int64    `json:"start"`
	End           int64    `json:"end"`
	Tags          []string `json:"tag"`
}

// Lookup resolves a gene symbol to the exon intervals of its MANE Select
// transcript. Exon coordinates are shifted to the 0-based half-open BED
// convention. An unknown symbol or a gene without a MANE Select transcript
// returns an empty slice.
func (c *Client) Lookup(ctx context.Context, geneID string) ([]domain.CoordinateRecord, error) {
	var gene geneInfo
	url := fmt.Sprintf("%s/lookup/symbol/%s/%s", c.baseURL, c.species, geneID)
	found, err := c.getJSON(ctx, url, &gene)
	if err != nil {
		return nil, fmt.Errorf("looking up symbol %s: %w", geneID, err)
	}
	if !found || gene.ID == "" {
		logger.Debug("Ensembl has no gene for symbol %s", geneID)
		return []domain.CoordinateRecord{}, nil
	}

	var transcripts []feature
	url = fmt.Sprintf("%s/overlap/id/%s?feature=transcript", c.baseURL, gene.ID)
	if _, err := c.getJSON(ctx, url, &transcripts); err != nil {
		return nil, fmt.Errorf("fetching transcripts of %s: %w", gene.ID, err)
	}

	var mane *feature
	for i := range transcripts {
		for _, tag := range transcripts[i].Tags {
			if tag == maneSelectTag {
				mane = &transcripts[i]
				break
			}
		}
		if mane != nil {
			break
		}
	}
	if mane == nil {
		logger.Debug("No MANE Select transcript for %s (%s)", geneID, gene.ID)
		return []domain.CoordinateRecord{}, nil
	}

	var exons []feature
	url = fmt.Sprintf("%s/overlap/id/%s?feature=exon", c.baseURL, mane.ID)
	if _, err := c.getJSON(ctx, url, &exons); err != nil {
		return nil, fmt.Errorf("fetching exons of %s: %w", mane.ID, err)
	}

	records := make([]domain.CoordinateRecord, 0, len(exons))
	for _, exon := range exons {
		records = append(records, domain.CoordinateRecord{
			Chromosome: exon.SeqRegionName,
			Start:      exon.Start - 1,
			End:        exon.End,
			GeneID:     geneID,
		})
	}
	return records, nil
}

// getJSON performs a throttled GET. The first result is false when the
// resource does not exist (404).
func (c *Client) getJSON(ctx context.Context, url string, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("ensembl: API error %d: %s (URL: %s)", resp.StatusCode, string(body), url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return true, nil
}
