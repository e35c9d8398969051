package chembl

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

// Fetcher implementiert das Resolver-Interface für ChEMBL.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *providers.LookupClient
}

// NewFetcher erstellt einen neuen ChEMBL-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		Client: providers.NewLookupClient("chembl", cfg, logger),
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "chembl"
}

func (f *Fetcher) Source() models.Source {
	return models.SourceChEMBL
}

// ResolveStructuralKey fragt das Molekül per exakter ChEMBL-ID ab und nimmt den
// Standard-InChIKey des ersten Treffers.
func (f *Fetcher) ResolveStructuralKey(ctx context.Context, id string) (*providers.Resolution, error) {
	lookupURL := fmt.Sprintf("%s/molecule?molecule_chembl_id__exact=%s&format=json",
		f.Config.ChEMBLBaseURL, url.QueryEscape(id))

	resp, err := f.Client.Get(ctx, id, lookupURL)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var mr MoleculeResponse
	if err := json.Unmarshal(resp.Body, &mr); err != nil {
		return nil, fmt.Errorf("fehler beim Parsen der ChEMBL-Antwort: %w", err)
	}
	if len(mr.Molecules) == 0 {
		return nil, fmt.Errorf("kein Molekül für %s: %w", id, providers.ErrNoIdentifier)
	}
	structures := mr.Molecules[0].MoleculeStructures
	if structures == nil || structures.StandardInChIKey == "" {
		return nil, fmt.Errorf("molecule_structures fehlt für %s: %w", id, providers.ErrNoIdentifier)
	}

	return &providers.Resolution{InChIKey: structures.StandardInChIKey, URL: lookupURL}, nil
}
