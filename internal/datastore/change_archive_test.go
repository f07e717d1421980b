package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(id string) models.ChangeEvent {
	return models.ChangeEvent{
		Service: models.Service{ID: "svc-1", Name: "Stripe", Slug: "stripe"},
		Change: models.Change{
			ID:            id,
			ServiceID:     "svc-1",
			SnapshotOldID: "old",
			SnapshotNewID: "new",
			ChangeType:    models.ChangeTypePrivacyUpdate,
			Severity:      models.SeverityCritical,
			Title:         "AI training",
			Summary:       "Data may be used for training.",
			WordsAdded:    40,
			DetectedAt:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestNewChangeArchive_RequiresDir(t *testing.T) {
	_, err := NewChangeArchive(config.StorageConfig{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestChangeArchive_Appends(t *testing.T) {
	cfg := config.StorageConfig{ArchiveDir: t.TempDir(), CompressionCodec: "snappy"}
	archive, err := NewChangeArchive(cfg, zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	rows, err := archive.Read()
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, archive.Publish(ctx, []models.ChangeEvent{sampleEvent("c1")}))
	require.NoError(t, archive.Publish(ctx, nil))
	require.NoError(t, archive.Publish(ctx, []models.ChangeEvent{sampleEvent("c2"), sampleEvent("c3")}))

	rows, err = archive.Read()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{rows[0].ChangeID, rows[1].ChangeID, rows[2].ChangeID})
	assert.Equal(t, "stripe", rows[0].ServiceSlug)
	assert.Equal(t, "critical", rows[0].Severity)
	assert.Equal(t, int32(40), rows[0].WordsAdded)
	assert.Nil(t, rows[0].DiffHTML)
}
