// Package iotaxonomy implements taxonomy.Resolver against the eBird
// reference API. This is an impure I/O package that performs one HTTP
// GET per process and memoizes the result.
package iotaxonomy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gnames/ebirddb/pkg/config"
	"github.com/gnames/ebirddb/pkg/taxonomy"
)

// apiKeyHeader carries the eBird API token.
const apiKeyHeader = "X-eBirdApiToken"

type resolver struct {
	cfg    *config.Config
	client *http.Client

	once    sync.Once
	records []taxonomy.Species
	codeMap map[string]string
	err     error
}

// New creates a taxonomy Resolver that fetches from the endpoint in
// cfg.Taxonomy.URL with the API key from cfg.Taxonomy.APIKey.
func New(cfg *config.Config) taxonomy.Resolver {
	return &resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Records returns the full species record set, fetching the taxonomy
// on the first call. The fetch happens at most once per process; a
// failed fetch is cached too, because the species and observations
// stages treat it as fatal.
func (r *resolver) Records(
	ctx context.Context,
) ([]taxonomy.Species, error) {
	r.once.Do(func() { r.fetch(ctx) })
	return r.records, r.err
}

// CodeMap returns the scientific name to species code mapping derived
// from the cached records.
func (r *resolver) CodeMap(
	ctx context.Context,
) (map[string]string, error) {
	if _, err := r.Records(ctx); err != nil {
		return nil, err
	}
	return r.codeMap, nil
}

func (r *resolver) fetch(ctx context.Context) {
	if r.cfg.Taxonomy.APIKey == "" {
		r.err = MissingCredentialError()
		return
	}

	url := r.cfg.Taxonomy.URL + "?fmt=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.err = UpstreamError(url, err)
		return
	}
	req.Header.Set(apiKeyHeader, r.cfg.Taxonomy.APIKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.err = UpstreamError(url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		r.err = UpstreamStatusError(url, resp.StatusCode)
		return
	}

	var records []taxonomy.Species
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		r.err = DecodeError(url, err)
		return
	}

	codeMap := make(map[string]string, len(records))
	for _, rec := range records {
		codeMap[rec.ScientificName] = rec.SpeciesCode
	}

	r.records = records
	r.codeMap = codeMap
}
