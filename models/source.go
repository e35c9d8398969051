package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Source bezeichnet eine externe Strukturdatenbank, auf die ein MIBiG-Eintrag verweist.
// Die Reihenfolge der Konstanten ist zugleich die Suchpriorität.
type Source int

const (
	SourceChEMBL Source = iota
	SourceChEBI
	SourceNPAtlas
	SourceChemSpider
	SourcePubChem
)

var sourceNames = [...]string{"chembl", "chebi", "npatlas", "chemspider", "pubchem"}

// ErrUnknownSource wird für Datenbanknamen geliefert, die keiner bekannten Quelle entsprechen.
var ErrUnknownSource = errors.New("unknown database")

// AllSources liefert alle bekannten Quellen in Prioritätsreihenfolge.
func AllSources() []Source {
	return []Source{SourceChEMBL, SourceChEBI, SourceNPAtlas, SourceChemSpider, SourcePubChem}
}

// String gibt den Namen zurück, wie er in MIBiG-Verweisen ("pubchem:5280443") steht.
func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("source(%d)", int(s))
	}
	return sourceNames[s]
}

// Priority ist der Rang in der Suchreihenfolge, 0 wird zuerst gefragt.
func (s Source) Priority() int {
	return int(s)
}

// MarshalText sorgt dafür, dass Quellen in JSON als Name erscheinen.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSource wandelt einen Datenbanknamen in eine Source um.
func ParseSource(name string) (Source, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllSources() {
		if s.String() == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// CrossReference identifiziert eine Verbindung innerhalb einer externen Datenbank.
// Source und SourceID sind die Identität; ResolvedURL ist nur Zustand der Auflösung.
type CrossReference struct {
	Source      Source `json:"source"`
	SourceID    string `json:"source_id"`
	ResolvedURL string `json:"resolved_url,omitempty"`
}

// ParseCrossReference zerlegt einen MIBiG-Verweis der Form "datenbank:id".
// Getrennt wird am ersten Doppelpunkt, die ID darf also selbst Doppelpunkte enthalten.
func ParseCrossReference(raw string) (CrossReference, error) {
	db, id, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || strings.TrimSpace(id) == "" {
		return CrossReference{}, fmt.Errorf("malformed database id %q", raw)
	}
	src, err := ParseSource(db)
	if err != nil {
		return CrossReference{}, err
	}
	return CrossReference{Source: src, SourceID: strings.TrimSpace(id)}, nil
}

func (r CrossReference) String() string {
	return r.Source.String() + ":" + r.SourceID
}

// SortByPriority ordnet Verweise stabil nach Quellenpriorität.
// Verweise derselben Quelle behalten ihre Fundreihenfolge.
func SortByPriority(refs []CrossReference) {
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Source.Priority() < refs[j].Source.Priority()
	})
}
