package services

import (
	"fmt"
	"regexp"
	"strings"

	"mibig-toxins/metrics"
	"mibig-toxins/models"
)

// MatchMode legt fest, wie Namensfragmente mit Verbindungsnamen verglichen werden.
type MatchMode int

const (
	// MatchSubstring sucht das Fragment irgendwo im Namen, z.B. "aflatoxin" in "Aflatoxin B1".
	MatchSubstring MatchMode = iota
	// MatchExact verlangt Gleichheit ohne Beachtung der Groß-/Kleinschreibung.
	MatchExact
)

func (m MatchMode) String() string {
	if m == MatchExact {
		return "exact"
	}
	return "substring"
}

// NameMatcher klassifiziert Verbindungen anhand einer Liste bekannter Toxin-Namen.
//
// Im Substring-Modus werden die Fragmente als reguläre Ausdrücke interpretiert und NICHT
// escaped. Ein Fragment wie "t-2" ist harmlos, Klammern oder "+" wirken aber als Operatoren.
type NameMatcher struct {
	fragments []string
	patterns  []*regexp.Regexp
	mode      MatchMode
}

// NewNameMatcher kompiliert die Fragmente. Ungültige Ausdrücke werden hier gemeldet.
func NewNameMatcher(fragments []string, mode MatchMode) (*NameMatcher, error) {
	m := &NameMatcher{fragments: append([]string(nil), fragments...), mode: mode}
	if mode == MatchSubstring {
		m.patterns = make([]*regexp.Regexp, len(fragments))
		for i, f := range fragments {
			re, err := regexp.Compile("(?i)" + f)
			if err != nil {
				return nil, fmt.Errorf("ungültiges Namensfragment %q: %w", f, err)
			}
			m.patterns[i] = re
		}
	}
	return m, nil
}

// Fragments liefert die Fragmente in der Reihenfolge, in der sie übergeben wurden.
func (m *NameMatcher) Fragments() []string {
	return m.fragments
}

func (m *NameMatcher) Mode() MatchMode {
	return m.mode
}

func (m *NameMatcher) matches(i int, name string) bool {
	if m.mode == MatchExact {
		return strings.EqualFold(m.fragments[i], name)
	}
	return m.patterns[i].MatchString(name)
}

// MatchingFragments liefert alle Fragmente, die auf name passen.
func (m *NameMatcher) MatchingFragments(name string) []string {
	var out []string
	for i := range m.fragments {
		if m.matches(i, name) {
			out = append(out, m.fragments[i])
		}
	}
	return out
}

// Matches meldet, ob irgendein Fragment auf name passt.
func (m *NameMatcher) Matches(name string) bool {
	for i := range m.fragments {
		if m.matches(i, name) {
			return true
		}
	}
	return false
}

// ClassifyByName setzt den Toxin-Status der Verbindung anhand ihres Namens.
func (m *NameMatcher) ClassifyByName(compound *models.Compound) models.ToxinStatus {
	if m.Matches(compound.Name) {
		compound.ToxinStatus = models.ToxinPositive
	} else {
		compound.ToxinStatus = models.ToxinNegative
	}
	metrics.CompoundsClassified.WithLabelValues("name", compound.ToxinStatus.String()).Inc()
	return compound.ToxinStatus
}

// Unmatched liefert die Fragmente, zu denen im ganzen Korpus keine Verbindung passt.
// Das dient der Vollständigkeitsprüfung, nicht der Klassifikation.
func (m *NameMatcher) Unmatched(compounds []*models.Compound) []string {
	seen := make([]bool, len(m.fragments))
	for _, c := range compounds {
		for i := range m.fragments {
			if !seen[i] && m.matches(i, c.Name) {
				seen[i] = true
			}
		}
	}
	var gaps []string
	for i, ok := range seen {
		if !ok {
			gaps = append(gaps, m.fragments[i])
		}
	}
	return gaps
}
