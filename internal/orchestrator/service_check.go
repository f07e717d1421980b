package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleister1102/tosmonitor/internal/classifier"
	"github.com/aleister1102/tosmonitor/internal/common"
	"github.com/aleister1102/tosmonitor/internal/datastore"
	"github.com/aleister1102/tosmonitor/internal/fetcher"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

type fetchedDocument struct {
	doc    models.Document
	result fetcher.Result
}

// processService fetches a service's documents and then records snapshots,
// changes and last_checked_at in one transaction. A panic anywhere in the
// unit is recovered and reported as an error.
func (o *Orchestrator) processService(ctx context.Context, svc models.Service) (changes []models.Change, err error) {
	defer func() {
		if p := recover(); p != nil {
			changes = nil
			err = fmt.Errorf("panic while checking %s: %v", svc.Name, p)
		}
	}()

	log := o.logger.With().Str("service", svc.Name).Logger()

	var fetched []fetchedDocument
	for _, doc := range svc.Documents() {
		res := o.fetcher.Fetch(ctx, doc.URL)
		if !res.OK() {
			log.Warn().Err(res.Err).
				Str("url", doc.URL).
				Str("error_kind", string(res.ErrorKind)).
				Int("status_code", res.StatusCode).
				Msg("Fetch failed, skipping document")
			continue
		}
		fetched = append(fetched, fetchedDocument{doc: doc, result: res})
	}

	err = o.store.InTx(ctx, func(ctx context.Context, repos *datastore.Repositories) error {
		for _, fd := range fetched {
			change, err := o.recordDocument(ctx, repos, svc, fd, log)
			if err != nil {
				return err
			}
			if change != nil {
				changes = append(changes, *change)
			}
		}
		return repos.Services.TouchLastChecked(ctx, svc.ID, o.now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}

// recordDocument stores the new snapshot and, when it differs meaningfully
// from the previous one, a Change linking the two.
func (o *Orchestrator) recordDocument(ctx context.Context, repos *datastore.Repositories, svc models.Service, fd fetchedDocument, log zerolog.Logger) (*models.Change, error) {
	prev, err := repos.Snapshots.Latest(ctx, svc.ID, fd.doc.URL)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	snap := &models.Snapshot{
		ServiceID:   svc.ID,
		URL:         fd.doc.URL,
		ContentHash: fd.result.ContentHash,
		Content:     fd.result.Content,
		WordCount:   fd.result.WordCount,
		FetchedAt:   o.now().UTC(),
	}
	if prev != nil && !snap.FetchedAt.After(prev.FetchedAt) {
		snap.FetchedAt = prev.FetchedAt.Add(1)
	}
	if err := repos.Snapshots.Insert(ctx, snap); err != nil {
		return nil, err
	}

	docLog := log.With().Str("url", fd.doc.URL).Logger()
	if prev == nil {
		docLog.Info().Int("words", snap.WordCount).Msg("First snapshot stored as baseline")
		return nil, nil
	}
	if prev.ContentHash == snap.ContentHash {
		docLog.Debug().Msg("No change")
		return nil, nil
	}

	diff := o.differ.Compute(prev.Content, snap.Content)
	if !diff.HasChanges || diff.SimilarityRatio > o.threshold {
		docLog.Info().Float64("similarity", diff.SimilarityRatio).Msg("Trivial change ignored")
		return nil, nil
	}

	verdict := o.classifier.Classify(ctx, classifier.Request{
		ServiceName: svc.Name,
		OldText:     prev.Content,
		NewText:     snap.Content,
		Sections:    diff.Sections,
	})

	change := &models.Change{
		ServiceID:       svc.ID,
		SnapshotOldID:   prev.ID,
		SnapshotNewID:   snap.ID,
		ChangeType:      fd.doc.ChangeType,
		Severity:        verdict.Severity,
		Title:           verdict.Title,
		Summary:         verdict.Summary,
		DiffHTML:        diff.RenderedDiff,
		SectionsChanged: diff.SectionsChanged,
		WordsAdded:      diff.WordsAdded,
		WordsRemoved:    diff.WordsRemoved,
		DetectedAt:      snap.FetchedAt,
	}
	if err := repos.Changes.Insert(ctx, change); err != nil {
		return nil, err
	}

	docLog.Info().
		Str("severity", string(change.Severity)).
		Str("title", change.Title).
		Int("sections_changed", change.SectionsChanged).
		Msg("Change detected")
	return change, nil
}
