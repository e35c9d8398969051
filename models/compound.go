package models

import "fmt"

// ToxinStatus ist das dreiwertige Klassifikationsergebnis einer Verbindung.
type ToxinStatus int

const (
	ToxinUnknown ToxinStatus = iota
	ToxinNegative
	ToxinPositive
)

func (s ToxinStatus) String() string {
	switch s {
	case ToxinUnknown:
		return "unknown"
	case ToxinNegative:
		return "not-toxin"
	case ToxinPositive:
		return "toxin"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText serialisiert den Status als lesbaren Namen.
func (s ToxinStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Compound repräsentiert eine chemische Verbindung innerhalb eines MIBiG-Eintrags.
type Compound struct {
	ClusterAccession string `json:"cluster_accession"`
	// Index ist die Position im Eintrag; Namen können mehrfach vorkommen.
	Index            int    `json:"index"`
	Name             string `json:"name"`
	Organism         string `json:"organism,omitempty"`
	MolecularFormula string `json:"molecular_formula,omitempty"`

	CrossReferences []CrossReference `json:"cross_references"`
	// HasCrossReferences ist false, wenn das Feld database_id im Eintrag ganz fehlt.
	HasCrossReferences bool `json:"has_cross_references"`

	// StructuralKey ist der aufgelöste InChIKey, leer solange keiner gefunden wurde.
	StructuralKey string      `json:"structural_key,omitempty"`
	ToxinStatus   ToxinStatus `json:"toxin_status"`
}

// Classified meldet, ob die Verbindung bereits klassifiziert wurde.
func (c *Compound) Classified() bool {
	return c.ToxinStatus != ToxinUnknown
}

// IsToxin ist true, wenn die Verbindung positiv klassifiziert wurde.
func (c *Compound) IsToxin() bool {
	return c.ToxinStatus == ToxinPositive
}
