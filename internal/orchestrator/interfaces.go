package orchestrator

import (
	"context"

	"github.com/aleister1102/tosmonitor/internal/classifier"
	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/differ"
	"github.com/aleister1102/tosmonitor/internal/fetcher"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/aleister1102/tosmonitor/internal/notifier"
)

// PageFetcher retrieves the normalized text of a document.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) fetcher.Result
}

// DocumentDiffer compares two versions of a document.
type DocumentDiffer interface {
	Compute(oldText, newText string) differ.Result
}

// ChangeClassifier titles and grades a change. It never fails.
type ChangeClassifier interface {
	Classify(ctx context.Context, req classifier.Request) classifier.Classification
}

// AlertDispatcher notifies subscribers of persisted changes.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, changes []models.Change) notifier.DispatchSummary
}

// ChangeSink receives every change found by a scan, after alerts.
type ChangeSink interface {
	Name() string
	Publish(ctx context.Context, events []models.ChangeEvent) error
}

// ScanStore is the persistence used by a scan.
type ScanStore interface {
	Repos() *datastore.Repositories
	InTx(ctx context.Context, fn func(ctx context.Context, repos *datastore.Repositories) error) error
}
