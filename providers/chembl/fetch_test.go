package chembl

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mibig-toxins/config"
	"mibig-toxins/providers"
)

const moleculeURL = "https://www.ebi.ac.uk/chembl/api/data/molecule?molecule_chembl_id__exact=CHEMBL504715&format=json"

func setupFetcher(t *testing.T) *Fetcher {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewFetcher(config.Default(), zap.NewNop())
}

func TestResolveStructuralKey_Found(t *testing.T) {
	f := setupFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, moleculeURL, httpmock.NewStringResponder(http.StatusOK, `{
		"molecules": [{
			"molecule_chembl_id": "CHEMBL504715",
			"molecule_structures": {"standard_inchi_key": "OQIQSTLJSLGHID-WNWIJWBNSA-N"}
		}]
	}`))

	res, err := f.ResolveStructuralKey(context.Background(), "CHEMBL504715")
	require.NoError(t, err)
	assert.Equal(t, "OQIQSTLJSLGHID-WNWIJWBNSA-N", res.InChIKey)
	assert.Equal(t, moleculeURL, res.URL)
}

func TestResolveStructuralKey_NoMolecules(t *testing.T) {
	f := setupFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, moleculeURL, httpmock.NewStringResponder(http.StatusOK, `{"molecules": []}`))

	_, err := f.ResolveStructuralKey(context.Background(), "CHEMBL504715")
	require.ErrorIs(t, err, providers.ErrNoIdentifier)
}

func TestResolveStructuralKey_NullStructures(t *testing.T) {
	f := setupFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, moleculeURL, httpmock.NewStringResponder(http.StatusOK,
		`{"molecules": [{"molecule_chembl_id": "CHEMBL504715", "molecule_structures": null}]}`))

	_, err := f.ResolveStructuralKey(context.Background(), "CHEMBL504715")
	require.ErrorIs(t, err, providers.ErrNoIdentifier)
}

func TestResolveStructuralKey_HTTPError(t *testing.T) {
	f := setupFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, moleculeURL, httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	_, err := f.ResolveStructuralKey(context.Background(), "CHEMBL504715")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrNoIdentifier)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
