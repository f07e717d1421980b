package models

// ParquetChangeRecord is the archived row of one detected change.
// Timestamps are Unix milliseconds.
type ParquetChangeRecord struct {
	ChangeID        string  `parquet:"change_id"`
	ServiceID       string  `parquet:"service_id"`
	ServiceSlug     string  `parquet:"service_slug"`
	ServiceName     string  `parquet:"service_name"`
	ChangeType      string  `parquet:"change_type"`
	Severity        string  `parquet:"severity"`
	Title           string  `parquet:"title"`
	Summary         string  `parquet:"summary"`
	SnapshotOldID   string  `parquet:"snapshot_old_id"`
	SnapshotNewID   string  `parquet:"snapshot_new_id"`
	SectionsChanged int32   `parquet:"sections_changed"`
	WordsAdded      int32   `parquet:"words_added"`
	WordsRemoved    int32   `parquet:"words_removed"`
	DetectedAt      int64   `parquet:"detected_at"`
	ArchivedAt      int64   `parquet:"archived_at"`
	DiffHTML        *string `parquet:"diff_html,optional"`
}

// ToParquetRecord flattens an event into its archive row.
func (e ChangeEvent) ToParquetRecord(archivedAtMillis int64) ParquetChangeRecord {
	rec := ParquetChangeRecord{
		ChangeID:        e.Change.ID,
		ServiceID:       e.Change.ServiceID,
		ServiceSlug:     e.Service.Slug,
		ServiceName:     e.Service.Name,
		ChangeType:      string(e.Change.ChangeType),
		Severity:        string(e.Change.Severity),
		Title:           e.Change.Title,
		Summary:         e.Change.Summary,
		SnapshotOldID:   e.Change.SnapshotOldID,
		SnapshotNewID:   e.Change.SnapshotNewID,
		SectionsChanged: int32(e.Change.SectionsChanged),
		WordsAdded:      int32(e.Change.WordsAdded),
		WordsRemoved:    int32(e.Change.WordsRemoved),
		DetectedAt:      e.Change.DetectedAt.UnixMilli(),
		ArchivedAt:      archivedAtMillis,
	}
	if e.Change.DiffHTML != "" {
		diff := e.Change.DiffHTML
		rec.DiffHTML = &diff
	}
	return rec
}
