// Package feed writes detected changes to the JSON file consumed by the
// downstream content pipeline.
package feed

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

const maxFeedFileSize = 32 << 20

// Entry is one change in the feed file.
type Entry struct {
	ID              string `json:"id"`
	Service         string `json:"service"`
	Type            string `json:"type"`
	Summary         string `json:"summary"`
	Title           string `json:"title"`
	Severity        string `json:"severity"`
	Date            string `json:"date"`
	SectionsChanged int    `json:"sections_changed"`
	WordsAdded      int    `json:"words_added"`
	WordsRemoved    int    `json:"words_removed"`
	URL             string `json:"url"`
	PushedAt        string `json:"pushed_at"`
}

// JSONFeedExporter appends change events to <data_dir>/<file_name>, keeping
// only the newest MaxEntries entries.
type JSONFeedExporter struct {
	cfg         config.FeedConfig
	appURL      string
	fileManager *common.FileManager
	logger      zerolog.Logger
	now         func() time.Time
}

func NewJSONFeedExporter(cfg config.FeedConfig, appURL string, logger zerolog.Logger) *JSONFeedExporter {
	moduleLogger := logger.With().Str("component", "FeedExporter").Logger()
	return &JSONFeedExporter{
		cfg:         cfg,
		appURL:      appURL,
		fileManager: common.NewFileManager(moduleLogger),
		logger:      moduleLogger,
		now:         time.Now,
	}
}

func (e *JSONFeedExporter) Name() string { return "json_feed" }

// Path is the feed file location.
func (e *JSONFeedExporter) Path() string {
	return filepath.Join(e.cfg.DataDir, e.cfg.FileName)
}

// Publish appends events to the feed. A disabled feed, an unset data dir or
// a missing data dir is skipped without error. An unreadable existing file
// is replaced.
func (e *JSONFeedExporter) Publish(ctx context.Context, events []models.ChangeEvent) error {
	if !e.cfg.Enabled || e.cfg.DataDir == "" {
		e.logger.Debug().Msg("Feed data dir not set, skipping export")
		return nil
	}
	if !e.fileManager.DirExists(e.cfg.DataDir) {
		e.logger.Warn().Str("data_dir", e.cfg.DataDir).Msg("Feed data dir not found, skipping export")
		return nil
	}
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	existing := e.readExisting()

	pushedAt := e.now().UTC().Format(time.RFC3339)
	for _, ev := range events {
		raw, err := json.Marshal(e.toEntry(ev, pushedAt))
		if err != nil {
			return common.WrapError(err, "failed to marshal feed entry")
		}
		existing = append(existing, raw)
	}

	if limit := e.cfg.MaxEntries; limit > 0 && len(existing) > limit {
		existing = existing[len(existing)-limit:]
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return common.WrapError(err, "failed to marshal feed")
	}
	if err := e.fileManager.WriteFileAtomic(e.Path(), data, 0644); err != nil {
		return err
	}

	e.logger.Info().Int("pushed", len(events)).Int("total", len(existing)).Str("path", e.Path()).Msg("Pushed changes to feed")
	return nil
}

// readExisting keeps prior entries verbatim so fields written by other
// producers survive.
func (e *JSONFeedExporter) readExisting() []json.RawMessage {
	if !e.fileManager.FileExists(e.Path()) {
		return nil
	}
	data, err := e.fileManager.ReadFile(e.Path(), maxFeedFileSize)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Failed to read existing feed, starting fresh")
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		e.logger.Warn().Err(err).Msg("Existing feed is not a JSON array, starting fresh")
		return nil
	}
	return entries
}

func (e *JSONFeedExporter) toEntry(ev models.ChangeEvent, pushedAt string) Entry {
	date := pushedAt
	if !ev.Change.DetectedAt.IsZero() {
		date = ev.Change.DetectedAt.UTC().Format(time.RFC3339)
	}
	return Entry{
		ID:              ev.Change.ID,
		Service:         ev.Service.Name,
		Type:            string(ev.Change.ChangeType),
		Summary:         ev.Change.Summary,
		Title:           ev.Change.Title,
		Severity:        string(ev.Change.Severity),
		Date:            date,
		SectionsChanged: ev.Change.SectionsChanged,
		WordsAdded:      ev.Change.WordsAdded,
		WordsRemoved:    ev.Change.WordsRemoved,
		URL:             models.ChangeURL(e.appURL, ev.Change.ID),
		PushedAt:        pushedAt,
	}
}
