package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mibig-toxins/models"
)

func TestNameMatcher_SubstringVsExact(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		substring bool
		exact     bool
	}{
		{"Aflatoxin B1", "aflatoxin", true, false},
		{"Patulinol", "patulin", true, false},
		{"PATULIN", "patulin", true, true},
		{"T-2 toxin", "t-2", true, false},
		{"surfactin", "aflatoxin", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewNameMatcher([]string{tt.fragment}, MatchSubstring)
			require.NoError(t, err)
			exact, err := NewNameMatcher([]string{tt.fragment}, MatchExact)
			require.NoError(t, err)

			assert.Equal(t, tt.substring, sub.Matches(tt.name))
			assert.Equal(t, tt.exact, exact.Matches(tt.name))
		})
	}
}

func TestNameMatcher_ClassifyByName(t *testing.T) {
	m, err := NewNameMatcher(models.HighConfidenceMycotoxinNames, MatchSubstring)
	require.NoError(t, err)

	toxin := &models.Compound{Name: "Aflatoxin B1"}
	assert.Equal(t, models.ToxinPositive, m.ClassifyByName(toxin))
	assert.True(t, toxin.IsToxin())

	other := &models.Compound{Name: "Surfactin"}
	assert.Equal(t, models.ToxinNegative, m.ClassifyByName(other))
	assert.True(t, other.Classified())
}

func TestNameMatcher_MatchingFragments(t *testing.T) {
	m, err := NewNameMatcher([]string{"nivalenol", "deoxynivalenol", "zearalenone"}, MatchSubstring)
	require.NoError(t, err)
	assert.Equal(t, []string{"nivalenol", "deoxynivalenol"}, m.MatchingFragments("15-acetyl-deoxynivalenol"))
	assert.Empty(t, m.MatchingFragments("fumonisin B1"))
}

func TestNameMatcher_FragmentsAreRegex(t *testing.T) {
	m, err := NewNameMatcher([]string{"fumonisin b[1-3]"}, MatchSubstring)
	require.NoError(t, err)
	assert.True(t, m.Matches("Fumonisin B2"))
	assert.False(t, m.Matches("Fumonisin C"))

	_, err = NewNameMatcher([]string{"aflatoxin("}, MatchSubstring)
	require.Error(t, err)

	// Im exakten Modus werden Fragmente nicht kompiliert.
	exact, err := NewNameMatcher([]string{"aflatoxin("}, MatchExact)
	require.NoError(t, err)
	assert.True(t, exact.Matches("Aflatoxin("))
}

func TestNameMatcher_Unmatched(t *testing.T) {
	m, err := NewNameMatcher([]string{"aflatoxin", "patulin", "ochratoxin", "zearalenone"}, MatchSubstring)
	require.NoError(t, err)

	compounds := []*models.Compound{
		{Name: "aflatoxin B1"},
		{Name: "patulin"},
		{Name: "zearalenone"},
	}
	assert.Equal(t, []string{"ochratoxin"}, m.Unmatched(compounds))
	assert.Equal(t, m.Fragments(), m.Unmatched(nil))
}

func TestNameMatcher_GapReportListsUnmatched(t *testing.T) {
	m, err := NewNameMatcher([]string{"citrinin", "fumonisin", "sterigmatocystin"}, MatchSubstring)
	require.NoError(t, err)

	compounds := []*models.Compound{{Name: "Fumonisin B1"}, {Name: "bikaverin"}}
	assert.Equal(t, []string{"citrinin", "sterigmatocystin"}, m.Unmatched(compounds))
}
