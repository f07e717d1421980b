package datastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/config"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

const archiveFileName = "changes.parquet"

// ChangeArchive appends change events to a single Parquet file. Each append
// rewrites the file with the previous rows followed by the new ones.
type ChangeArchive struct {
	dir         string
	compression string
	logger      zerolog.Logger
	now         func() time.Time
}

// NewChangeArchive returns an archive writing under cfg.ArchiveDir.
func NewChangeArchive(cfg config.StorageConfig, logger zerolog.Logger) (*ChangeArchive, error) {
	if cfg.ArchiveDir == "" {
		return nil, common.NewValidationError("archive_dir", cfg.ArchiveDir, "archive directory is not configured")
	}
	return &ChangeArchive{
		dir:         cfg.ArchiveDir,
		compression: cfg.CompressionCodec,
		logger:      logger.With().Str("component", "ChangeArchive").Logger(),
		now:         time.Now,
	}, nil
}

func (a *ChangeArchive) Name() string { return "parquet_archive" }

// Path is the archive file location.
func (a *ChangeArchive) Path() string {
	return filepath.Join(a.dir, archiveFileName)
}

// Publish appends events to the archive. An empty batch is a no-op.
func (a *ChangeArchive) Publish(ctx context.Context, events []models.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return common.WrapError(err, "failed to create archive directory: "+a.dir)
	}

	existing, err := a.Read()
	if err != nil {
		return err
	}

	archivedAt := a.now().UnixMilli()
	rows := make([]models.ParquetChangeRecord, 0, len(existing)+len(events))
	rows = append(rows, existing...)
	for _, e := range events {
		rows = append(rows, e.ToParquetRecord(archivedAt))
	}

	if err := a.writeAll(rows); err != nil {
		return err
	}

	a.logger.Info().
		Str("file_path", a.Path()).
		Int("records_appended", len(events)).
		Int("records_total", len(rows)).
		Msg("Archived change events")
	return nil
}

// Read returns every archived row. A missing file yields no rows.
func (a *ChangeArchive) Read() ([]models.ParquetChangeRecord, error) {
	if _, err := os.Stat(a.Path()); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[models.ParquetChangeRecord](a.Path())
	if err != nil {
		return nil, common.WrapError(err, "failed to read change archive")
	}
	return rows, nil
}

func (a *ChangeArchive) writeAll(rows []models.ParquetChangeRecord) error {
	tmpPath := a.Path() + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return common.WrapError(err, "failed to create archive file: "+tmpPath)
	}

	writer := parquet.NewGenericWriter[models.ParquetChangeRecord](file, a.compressionOption())
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return common.WrapError(err, "failed to write change archive")
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return common.WrapError(err, "failed to finalize change archive")
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return common.WrapError(err, "failed to close archive file")
	}
	return os.Rename(tmpPath, a.Path())
}

func (a *ChangeArchive) compressionOption() parquet.WriterOption {
	switch a.compression {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}
