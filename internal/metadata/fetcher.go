// Package metadata resolves content-addressed token metadata over an
// IPFS HTTP gateway.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/digitalpets/dognft/internal/faults"
	"github.com/digitalpets/dognft/internal/token"
)

const ipfsScheme = "ipfs://"

// Fetcher retrieves token metadata documents.
type Fetcher struct {
	gateway string
	client  *http.Client
}

// NewFetcher creates a Fetcher resolving ipfs:// URIs through gateway
// (e.g. "https://ipfs.io/ipfs/").
func NewFetcher(gateway string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return &Fetcher{gateway: gateway, client: client}
}

// ResolveURI rewrites a content-addressed URI to a gateway URL. Plain
// http(s) URIs pass through unchanged.
func (f *Fetcher) ResolveURI(uri string) string {
	if strings.HasPrefix(uri, ipfsScheme) {
		return f.gateway + strings.TrimPrefix(uri, ipfsScheme)
	}
	return uri
}

// Fetch retrieves the metadata document behind uri, rewriting its image
// URI to a directly fetchable URL. Failures classify as
// MetadataFetchFailure and degrade display only.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*token.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ResolveURI(uri), nil)
	if err != nil {
		return nil, faults.Wrap(faults.MetadataFetchFailure,
			fmt.Sprintf("build metadata request for %s", uri), err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, faults.Wrap(faults.MetadataFetchFailure,
			fmt.Sprintf("fetch metadata %s", uri), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, faults.New(faults.MetadataFetchFailure,
			fmt.Sprintf("fetch metadata %s: unexpected status %s", uri, resp.Status))
	}

	var md token.Metadata
	if err := json.NewDecoder(resp.Body).Decode(&md); err != nil {
		return nil, faults.Wrap(faults.MetadataFetchFailure,
			fmt.Sprintf("decode metadata %s", uri), err)
	}
	md.Image = f.ResolveURI(md.Image)
	return &md, nil
}
