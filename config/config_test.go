package config

import (
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv entfernt alle Konfigurationsvariablen für die Dauer des Tests.
func clearEnv(t *testing.T) {
	t.Helper()
	typ := reflect.TypeOf(Config{})
	for i := range typ.NumField() {
		key := typ.Field(i).Tag.Get("envconfig")
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "https://www.ebi.ac.uk/chembl/api/data", c.ChEMBLBaseURL)
	assert.Equal(t, 60*time.Second, c.HTTPTimeout)
	assert.Equal(t, time.Second, c.TransientBackoff)
	assert.Equal(t, 3, c.LookupMaxAttempts)
	assert.Zero(t, c.LookupRatePerSecond)
	assert.Equal(t, 24*time.Hour, c.ResolutionCacheTTL)
	assert.Equal(t, "4242", c.HTTPPort)
	assert.Equal(t, 4, c.KeepReports)
	assert.Empty(t, c.ChemSpiderAPIKey)
	assert.False(t, c.S3Enabled())
}

func TestDefault_MatchesLoad(t *testing.T) {
	clearEnv(t)

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), loaded)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WORKERS", "8")
	t.Setenv("TRANSIENT_BACKOFF", "250ms")
	t.Setenv("S3_URL", "https://s3.example.org")
	t.Setenv("S3_BUCKET", "toxins")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, c.Workers)
	assert.Equal(t, 250*time.Millisecond, c.TransientBackoff)
	assert.True(t, c.S3Enabled())
}

func TestLoad_NegativeKeepReports(t *testing.T) {
	clearEnv(t)
	t.Setenv("KEEP_REPORTS", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KEEP_REPORTS")
}
