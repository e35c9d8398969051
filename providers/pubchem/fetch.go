// Package pubchem löst PubChem-CIDs über PUG REST auf.
package pubchem

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/models"
	"mibig-toxins/providers"
)

// Fetcher implementiert das Resolver-Interface für PubChem.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *providers.LookupClient
}

// NewFetcher erstellt einen neuen PubChem-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		Client: providers.NewLookupClient("pubchem", cfg, logger),
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "pubchem"
}

func (f *Fetcher) Source() models.Source {
	return models.SourcePubChem
}

// ResolveStructuralKey fragt die InChIKey-Property als Klartext ab.
func (f *Fetcher) ResolveStructuralKey(ctx context.Context, id string) (*providers.Resolution, error) {
	lookupURL := fmt.Sprintf("%s/compound/cid/%s/property/InChIKey/TXT", f.Config.PubChemBaseURL, url.PathEscape(id))

	resp, err := f.Client.Get(ctx, id, lookupURL)
	if err != nil {
		return nil, err
	}
	// PUG REST liefert Fehlermeldungen ebenfalls als Text, die dürfen nicht als Key durchgehen.
	if err := resp.Err(); err != nil {
		return nil, err
	}

	key := strings.TrimRight(string(resp.Body), " \t\r\n")
	if key == "" {
		return nil, nil
	}
	return &providers.Resolution{InChIKey: key, URL: lookupURL}, nil
}
