// Package chebi löst ChEBI-IDs über den ChEBI-Webservice (getCompleteEntity) auf.
package chebi

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/models"
	"mibig-toxins/providers"
)

// Fetcher implementiert das Resolver-Interface für ChEBI.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
	Client *providers.LookupClient
}

// NewFetcher erstellt einen neuen ChEBI-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		Config: cfg,
		Logger: logger,
		Client: providers.NewLookupClient("chebi", cfg, logger),
	}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "chebi"
}

func (f *Fetcher) Source() models.Source {
	return models.SourceChEBI
}

// ResolveStructuralKey holt den vollständigen Eintrag und liest das erste inchiKey-Element.
func (f *Fetcher) ResolveStructuralKey(ctx context.Context, id string) (*providers.Resolution, error) {
	lookupURL := fmt.Sprintf("%s/getCompleteEntity?chebiId=%s", f.Config.ChEBIBaseURL, url.QueryEscape(id))

	resp, err := f.Client.Get(ctx, id, lookupURL)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	key, err := findElementText(resp.Body, "inchiKey")
	if err != nil {
		return nil, fmt.Errorf("ChEBI-Antwort für %s: %w", id, err)
	}
	return &providers.Resolution{InChIKey: key, URL: lookupURL}, nil
}

// findElementText liefert den Text des ersten Elements mit dem lokalen Namen name,
// unabhängig von Namespace und Verschachtelungstiefe der SOAP-Antwort.
func findElementText(body []byte, name string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", providers.ErrNoIdentifier
		}
		if err != nil {
			return "", fmt.Errorf("XML-Parsing fehlgeschlagen: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != name {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return "", fmt.Errorf("XML-Parsing fehlgeschlagen: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return "", providers.ErrNoIdentifier
		}
		return text, nil
	}
}
