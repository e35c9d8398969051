// Package npatlas löst IDs des Natural Products Atlas auf.
package npatlas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/models"
	"mibig-toxins/providers"
)

// CompoundResponse repräsentiert die JSON-Antwort von /compound/{id}.
// Viele Einträge haben keinen InChIKey; das ist kein Fehler.
type CompoundResponse struct {
	NPAID    string  `json:"npaid"`
	InChIKey *string `json:"inchikey"`
}

// Fetcher implementiert das Resolver-Interface für NPAtlas.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *providers.LookupClient
}

// NewFetcher erstellt einen neuen NPAtlas-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		Client: providers.NewLookupClient("npatlas", cfg, logger),
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "npatlas"
}

func (f *Fetcher) Source() models.Source {
	return models.SourceNPAtlas
}

func (f *Fetcher) ResolveStructuralKey(ctx context.Context, id string) (*providers.Resolution, error) {
	lookupURL := fmt.Sprintf("%s/compound/%s", f.Config.NPAtlasBaseURL, url.PathEscape(id))

	resp, err := f.Client.Get(ctx, id, lookupURL)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var cr CompoundResponse
	if err := json.Unmarshal(resp.Body, &cr); err != nil {
		return nil, fmt.Errorf("fehler beim Parsen der NPAtlas-Antwort: %w", err)
	}
	if cr.InChIKey == nil || *cr.InChIKey == "" {
		f.Logger.Debug("NPAtlas-Eintrag ohne InChIKey", zap.String("id", id))
		return nil, nil
	}
	return &providers.Resolution{InChIKey: *cr.InChIKey, URL: lookupURL}, nil
}
