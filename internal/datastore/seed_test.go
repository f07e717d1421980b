package datastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogue_Default(t *testing.T) {
	entries, err := LoadCatalogue("")
	require.NoError(t, err)

	assert.Len(t, entries, 20)
	assert.Equal(t, "Stripe", entries[0].Name)
	assert.Equal(t, "https://stripe.com/legal/ssa", entries[0].TermsURL)

	slugs := map[string]bool{}
	for _, e := range entries {
		assert.False(t, slugs[e.Slug], "duplicate slug %s", e.Slug)
		slugs[e.Slug] = true
	}
}

func TestLoadCatalogue_RejectsMissingSlug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - name: Acme\n"), 0644))

	_, err := LoadCatalogue(path)
	assert.Error(t, err)
}

func TestSeedServices_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := SeedServices(ctx, db.Repos(), "")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = SeedServices(ctx, db.Repos(), "")
	require.NoError(t, err)

	services, err := db.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 20)
}

func TestSeedServices_CustomFile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `services:
  - name: Acme
    slug: acme
    category: Testing
    tos_url: https://acme.example.com/terms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	n, err := SeedServices(ctx, db.Repos(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	services, err := db.Repos().Services.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Empty(t, services[0].PrivacyURL)
	assert.Len(t, services[0].Documents(), 1)
}

func TestLoadCatalogue_NormalizesURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `services:
  - name: Acme
    slug: acme
    tos_url: " HTTPS://Acme.Example.com/terms "
    privacy_url: https://acme.example.com/privacy?utm_source=newsletter
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	entries, err := LoadCatalogue(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "https://acme.example.com/terms", entries[0].TermsURL)
	assert.Equal(t, "https://acme.example.com/privacy", entries[0].PrivacyURL)
}

func TestLoadCatalogue_RejectsInvalidURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := "services:\n  - name: Acme\n    slug: acme\n    tos_url: acme.example.com/terms\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadCatalogue(path)
	assert.ErrorContains(t, err, "tos_url")
}
