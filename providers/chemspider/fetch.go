package chemspider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/models"
	"mibig-toxins/providers"
)

// ErrNoAPIKey wird geliefert, wenn weder Konfiguration noch Eingabe einen Key ergeben.
var ErrNoAPIKey = errors.New("no ChemSpider API key available")

// KeyPrompt fragt den Benutzer nach einem API-Key.
type KeyPrompt func() (string, error)

// Fetcher implementiert das Resolver-Interface für ChemSpider.
// Die Abfrage läuft über den ChemSpider-Client, nicht über den LookupClient.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger

	// session wird beim ersten Lookup genau einmal aufgebaut, auch bei parallelen Aufrufen.
	session func() (*Client, error)
}

// NewFetcher erstellt einen neuen ChemSpider-Fetcher. Ist kein Key konfiguriert,
// wird prompt beim ersten Lookup einmalig aufgerufen und das Ergebnis eingefroren.
func NewFetcher(cfg *config.Config, logger *zap.Logger, prompt KeyPrompt) *Fetcher {
	f := &Fetcher{Config: cfg, Logger: logger}
	f.session = sync.OnceValues(func() (*Client, error) {
		key := strings.TrimSpace(cfg.ChemSpiderAPIKey)
		if key == "" {
			logger.Warn("Kein ChemSpider-API-Key gefunden")
			if prompt == nil {
				return nil, ErrNoAPIKey
			}
			entered, err := prompt()
			if err != nil {
				return nil, fmt.Errorf("ChemSpider-API-Key konnte nicht gelesen werden: %w", err)
			}
			key = strings.TrimSpace(entered)
			if key == "" {
				return nil, ErrNoAPIKey
			}
		}
		return NewClient(cfg.ChemSpiderBaseURL, key, &http.Client{Timeout: cfg.HTTPTimeout}), nil
	})
	return f
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "chemspider"
}

func (f *Fetcher) Source() models.Source {
	return models.SourceChemSpider
}

func (f *Fetcher) ResolveStructuralKey(ctx context.Context, id string) (*providers.Resolution, error) {
	client, err := f.session()
	if err != nil {
		return nil, err
	}

	rec, err := client.GetCompound(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.InChIKey == "" {
		return nil, fmt.Errorf("ChemSpider-Datensatz %s: %w", id, providers.ErrNoIdentifier)
	}
	return &providers.Resolution{InChIKey: rec.InChIKey, URL: client.RecordURL(id)}, nil
}
