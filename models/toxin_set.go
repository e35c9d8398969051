package models

import "strings"

// NameTier wählt aus, welche Stufe der Toxin-Namensliste verwendet wird.
type NameTier int

const (
	TierAll NameTier = iota
	TierHighConfidence
	TierExtended
)

func (t NameTier) String() string {
	switch t {
	case TierHighConfidence:
		return "high"
	case TierExtended:
		return "extended"
	default:
		return "all"
	}
}

// ParseNameTier akzeptiert "all", "high" und "extended".
func ParseNameTier(s string) (NameTier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return TierAll, true
	case "high":
		return TierHighConfidence, true
	case "extended":
		return TierExtended, true
	}
	return TierAll, false
}

// ToxinReferenceSet bündelt die Referenzdaten bekannter Toxine.
// Nach dem Laden wird es nur noch gelesen.
type ToxinReferenceSet struct {
	InChIKeys map[string]struct{}
	Formulas  map[string]struct{}

	HighConfidenceNames []string
	ExtendedNames       []string
}

// NewToxinReferenceSet erstellt ein leeres Set mit der eingebauten Mykotoxin-Namensliste.
func NewToxinReferenceSet() *ToxinReferenceSet {
	return &ToxinReferenceSet{
		InChIKeys:           make(map[string]struct{}),
		Formulas:            make(map[string]struct{}),
		HighConfidenceNames: append([]string(nil), HighConfidenceMycotoxinNames...),
		ExtendedNames:       append([]string(nil), ExtendedMycotoxinNames...),
	}
}

func (s *ToxinReferenceSet) AddInChIKey(key string) {
	if key = strings.TrimSpace(key); key != "" {
		s.InChIKeys[key] = struct{}{}
	}
}

func (s *ToxinReferenceSet) AddFormula(formula string) {
	if formula = strings.TrimSpace(formula); formula != "" {
		s.Formulas[formula] = struct{}{}
	}
}

// HasInChIKey prüft einen Strukturschlüssel; ein leerer Schlüssel ist nie enthalten.
func (s *ToxinReferenceSet) HasInChIKey(key string) bool {
	if key == "" {
		return false
	}
	_, ok := s.InChIKeys[key]
	return ok
}

func (s *ToxinReferenceSet) HasFormula(formula string) bool {
	_, ok := s.Formulas[formula]
	return ok
}

// Names liefert die Namensfragmente der gewählten Stufe.
func (s *ToxinReferenceSet) Names(tier NameTier) []string {
	switch tier {
	case TierHighConfidence:
		return s.HighConfidenceNames
	case TierExtended:
		return s.ExtendedNames
	default:
		all := make([]string, 0, len(s.HighConfidenceNames)+len(s.ExtendedNames))
		all = append(all, s.HighConfidenceNames...)
		return append(all, s.ExtendedNames...)
	}
}

// TierOf gibt an, in welcher Stufe ein Fragment geführt wird.
func (s *ToxinReferenceSet) TierOf(name string) NameTier {
	for _, n := range s.HighConfidenceNames {
		if n == name {
			return TierHighConfidence
		}
	}
	return TierExtended
}
