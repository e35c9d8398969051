package providers

import (
	"context"
	"errors"

	"mibig-toxins/models"
)

// ErrNoIdentifier wird geliefert, wenn eine Antwort keinen verwertbaren InChIKey enthält.
var ErrNoIdentifier = errors.New("no structural identifier in response")

// Resolution ist das Ergebnis einer erfolgreichen Auflösung.
type Resolution struct {
	InChIKey string
	URL      string
}

// Resolver ist das Interface, das jede Strukturdatenbank (z.B. ChEMBL, PubChem) implementieren muss.
type Resolver interface {
	// ResolveStructuralKey sucht den InChIKey zu einer ID der Quelle.
	// (nil, nil) bedeutet: Eintrag gefunden, aber ohne InChIKey.
	ResolveStructuralKey(ctx context.Context, id string) (*Resolution, error)

	// Source gibt an, für welche Datenbank der Resolver zuständig ist.
	Source() models.Source

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "pubchem").
	Name() string
}
