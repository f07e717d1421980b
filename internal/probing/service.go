package probing

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aleister1102/tosmonitor/internal/fetcher"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
)

// BatchFetcher fetches many URLs concurrently, one result per URL in order.
type BatchFetcher interface {
	FetchMultiple(ctx context.Context, urls []string) []fetcher.Result
}

// Report is the probe outcome of one catalogue document.
type Report struct {
	Service    string
	URL        string
	OK         bool
	StatusCode int
	ErrorKind  fetcher.ErrorKind
	WordCount  int
	Rendered   bool
}

// Service probes catalogue URLs without storing anything.
type Service struct {
	fetcher BatchFetcher
	logger  zerolog.Logger
}

// NewService creates a probing service.
func NewService(f BatchFetcher, logger zerolog.Logger) *Service {
	return &Service{
		fetcher: f,
		logger:  logger.With().Str("component", "Probe").Logger(),
	}
}

// Probe fetches every document of services and reports the outcome of each.
func (s *Service) Probe(ctx context.Context, services []models.Service) []Report {
	var (
		urls   []string
		owners []string
	)
	for _, svc := range services {
		for _, doc := range svc.Documents() {
			urls = append(urls, doc.URL)
			owners = append(owners, svc.Name)
		}
	}
	if len(urls) == 0 {
		s.logger.Info().Msg("No URLs to probe")
		return nil
	}

	s.logger.Info().Int("urls", len(urls)).Msg("Probing catalogue URLs")
	results := s.fetcher.FetchMultiple(ctx, urls)

	reports := make([]Report, 0, len(results))
	failed := 0
	for i, res := range results {
		r := Report{
			Service:    owners[i],
			URL:        urls[i],
			OK:         res.OK(),
			StatusCode: res.StatusCode,
			ErrorKind:  res.ErrorKind,
			WordCount:  res.WordCount,
			Rendered:   res.Rendered,
		}
		if !r.OK {
			failed++
		}
		reports = append(reports, r)
	}

	s.logger.Info().Int("ok", len(reports)-failed).Int("failed", failed).Msg("Probe finished")
	return reports
}

// WriteTable prints reports as an aligned table.
func WriteTable(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tSTATUS\tCODE\tWORDS\tURL")
	for _, r := range reports {
		status := "ok"
		if !r.OK {
			status = string(r.ErrorKind)
		} else if r.Rendered {
			status = "ok (rendered)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.Service, status, r.StatusCode, r.WordCount, r.URL)
	}
	return tw.Flush()
}
