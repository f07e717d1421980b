package datastore

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/aleister1102/tosmonitor/internal/urlhandler"
	"gopkg.in/yaml.v3"
)

//go:embed seed/services.yaml
var defaultCatalogue []byte

// SeedEntry is one service in a seed catalogue file.
type SeedEntry struct {
	Name       string `yaml:"name"`
	Slug       string `yaml:"slug"`
	Category   string `yaml:"category"`
	TermsURL   string `yaml:"tos_url"`
	PrivacyURL string `yaml:"privacy_url"`
}

type seedFile struct {
	Services []SeedEntry `yaml:"services"`
}

// LoadCatalogue parses a seed file, or the embedded default catalogue when
// path is empty.
func LoadCatalogue(path string) ([]SeedEntry, error) {
	data := defaultCatalogue
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
		}
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed YAML: %w", err)
	}
	for i := range f.Services {
		e := &f.Services[i]
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Slug) == "" {
			return nil, fmt.Errorf("seed entry %d: name and slug are required", i)
		}
		if err := normalizeDocumentURL(&e.TermsURL); err != nil {
			return nil, fmt.Errorf("seed entry %s: tos_url: %w", e.Slug, err)
		}
		if err := normalizeDocumentURL(&e.PrivacyURL); err != nil {
			return nil, fmt.Errorf("seed entry %s: privacy_url: %w", e.Slug, err)
		}
	}
	return f.Services, nil
}

// SeedServices upserts every catalogue entry by slug and returns how many
// were written. Existing services keep their ID and history.
func SeedServices(ctx context.Context, repos *Repositories, path string) (int, error) {
	entries, err := LoadCatalogue(path)
	if err != nil {
		return 0, err
	}

	for _, e := range entries {
		svc := &models.Service{
			Name:       e.Name,
			Slug:       e.Slug,
			Category:   e.Category,
			TermsURL:   e.TermsURL,
			PrivacyURL: e.PrivacyURL,
			IsActive:   true,
		}
		if err := repos.Services.Upsert(ctx, svc); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// normalizeDocumentURL rewrites a non-empty URL in canonical form.
func normalizeDocumentURL(u *string) error {
	if strings.TrimSpace(*u) == "" {
		*u = ""
		return nil
	}
	normalized, err := urlhandler.NormalizeURL(*u)
	if err != nil {
		return err
	}
	*u = normalized
	return nil
}
