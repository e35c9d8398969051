package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"mibig-toxins/models"
	"mibig-toxins/providers"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// go-cache beendet seinen Janitor erst per Finalizer.
		goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"),
	)
}

const (
	aflatoxinB1Key = "OQIQSTLJSLGHID-WNWIJWBNSA-N"
	patulinKey     = "ZRWPUFFVAOMMNM-UHFFFAOYSA-N"
	otherKey       = "XLYOFNOQVPJJNP-UHFFFAOYSA-N"
)

// fakeResolver beantwortet Lookups aus einer festen Tabelle.
type fakeResolver struct {
	source models.Source
	name   string
	keys   map[string]string
	errs   map[string]error

	mu    sync.Mutex
	calls []string
}

func newFakeResolver(source models.Source, keys map[string]string) *fakeResolver {
	return &fakeResolver{source: source, keys: keys, errs: map[string]error{}}
}

func (f *fakeResolver) ResolveStructuralKey(_ context.Context, id string) (*providers.Resolution, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	key, ok := f.keys[id]
	if !ok {
		return nil, nil
	}
	return &providers.Resolution{InChIKey: key, URL: "https://" + f.source.String() + ".example.org/" + id}, nil
}

func (f *fakeResolver) Source() models.Source { return f.source }
func (f *fakeResolver) Name() string {
	if f.name != "" {
		return f.name
	}
	return f.source.String()
}

func (f *fakeResolver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func toxinSet(keys ...string) *models.ToxinReferenceSet {
	set := models.NewToxinReferenceSet()
	for _, k := range keys {
		set.AddInChIKey(k)
	}
	return set
}

func refs(t *testing.T, raw ...string) []models.CrossReference {
	t.Helper()
	out := make([]models.CrossReference, 0, len(raw))
	for _, r := range raw {
		ref, err := models.ParseCrossReference(r)
		require.NoError(t, err)
		out = append(out, ref)
	}
	return out
}

// writeCorpus legt MIBiG-Dateien (accession -> JSON) in einem temporären Verzeichnis ab.
func writeCorpus(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for accession, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, accession+".json"), []byte(doc), 0o644))
	}
	return dir
}
