package feed

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(id string) models.ChangeEvent {
	return models.ChangeEvent{
		Service: models.Service{Name: "Vercel", Slug: "vercel"},
		Change: models.Change{
			ID:              id,
			ChangeType:      models.ChangeTypeToSUpdate,
			Severity:        models.SeverityMajor,
			Title:           "Usage limits",
			Summary:         "New limits on builds.",
			SectionsChanged: 2,
			WordsAdded:      12,
			WordsRemoved:    4,
			DetectedAt:      time.Date(2026, 7, 1, 8, 30, 0, 0, time.UTC),
		},
	}
}

func newExporter(dir string, maxEntries int) *JSONFeedExporter {
	cfg := config.NewDefaultFeedConfig()
	cfg.DataDir = dir
	cfg.MaxEntries = maxEntries
	e := NewJSONFeedExporter(cfg, "https://app.example.com", zerolog.Nop())
	e.now = func() time.Time { return time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC) }
	return e
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestPublish_WritesEntries(t *testing.T) {
	e := newExporter(t.TempDir(), 200)

	require.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c1")}))

	entries := readEntries(t, e.Path())
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, "c1", got["id"])
	assert.Equal(t, "Vercel", got["service"])
	assert.Equal(t, "tos_update", got["type"])
	assert.Equal(t, "major", got["severity"])
	assert.Equal(t, "2026-07-01T08:30:00Z", got["date"])
	assert.Equal(t, "2026-07-01T09:00:00Z", got["pushed_at"])
	assert.Equal(t, "https://app.example.com/changes/c1", got["url"])
	assert.Equal(t, float64(12), got["words_added"])
}

func TestPublish_KeepsNewestEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFeedFileName)
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"old","extra":"kept"}]`), 0644))

	e := newExporter(dir, 3)
	require.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c1"), event("c2")}))

	entries := readEntries(t, path)
	require.Len(t, entries, 3)
	assert.Equal(t, "kept", entries[0]["extra"])

	require.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c3")}))
	entries = readEntries(t, path)
	require.Len(t, entries, 3)
	assert.Equal(t, []any{"c1", "c2", "c3"}, []any{entries[0]["id"], entries[1]["id"], entries[2]["id"]})
}

func TestPublish_CorruptFileReplaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFeedFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	e := newExporter(dir, 200)
	require.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c1")}))
	assert.Len(t, readEntries(t, path), 1)
}

func TestPublish_SkipsWithoutDataDir(t *testing.T) {
	e := newExporter("", 200)
	assert.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c1")}))

	missing := filepath.Join(t.TempDir(), "absent")
	e = newExporter(missing, 200)
	assert.NoError(t, e.Publish(context.Background(), []models.ChangeEvent{event("c1")}))
	_, err := os.Stat(missing)
	assert.True(t, os.IsNotExist(err), "the data dir is never created")
}
