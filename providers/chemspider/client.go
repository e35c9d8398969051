// Package chemspider enthält einen schlanken Client für die RSC Compounds API (ChemSpider).
package chemspider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Record ist die Antwort von /records/{id}/details.
type Record struct {
	ID       int    `json:"id"`
	InChIKey string `json:"inchiKey"`
	Formula  string `json:"formula"`
}

// Client kapselt eine ChemSpider-Sitzung mit festem API-Key.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient erstellt einen Client. httpClient darf nil sein.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// RecordURL liefert die URL, unter der ein Datensatz abgefragt wird.
func (c *Client) RecordURL(id string) string {
	return fmt.Sprintf("%s/records/%s/details?fields=InChIKey", c.baseURL, url.PathEscape(id))
}

// GetCompound holt einen Datensatz per ChemSpider-ID.
func (c *Client) GetCompound(ctx context.Context, id string) (*Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RecordURL(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chemspider request failed with status: %d", resp.StatusCode)
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
