package probing

import (
	"bytes"
	"context"
	"testing"

	"github.com/aleister1102/tosmonitor/internal/fetcher"
	"github.com/aleister1102/tosmonitor/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatch struct {
	urls []string
}

func (f *fakeBatch) FetchMultiple(_ context.Context, urls []string) []fetcher.Result {
	f.urls = urls
	out := make([]fetcher.Result, len(urls))
	for i, u := range urls {
		if i == 1 {
			out[i] = fetcher.Result{URL: u, Status: fetcher.StatusError, ErrorKind: fetcher.ErrorKindHTTPStatus, StatusCode: 404}
			continue
		}
		out[i] = fetcher.Result{URL: u, Status: fetcher.StatusOK, StatusCode: 200, WordCount: 1200}
	}
	return out
}

func TestProbe(t *testing.T) {
	batch := &fakeBatch{}
	svc := NewService(batch, zerolog.Nop())

	reports := svc.Probe(context.Background(), []models.Service{
		{Name: "Stripe", TermsURL: "https://stripe.com/legal", PrivacyURL: "https://stripe.com/privacy"},
		{Name: "Zoom", TermsURL: "https://zoom.us/terms"},
	})

	require.Len(t, reports, 3)
	assert.Equal(t, []string{"https://stripe.com/legal", "https://stripe.com/privacy", "https://zoom.us/terms"}, batch.urls)
	assert.True(t, reports[0].OK)
	assert.False(t, reports[1].OK)
	assert.Equal(t, "Stripe", reports[1].Service)
	assert.Equal(t, "Zoom", reports[2].Service)

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, reports))
	assert.Contains(t, buf.String(), "http_status")
	assert.Contains(t, buf.String(), "https://zoom.us/terms")
}

func TestProbe_NoDocuments(t *testing.T) {
	batch := &fakeBatch{}
	assert.Nil(t, NewService(batch, zerolog.Nop()).Probe(context.Background(), []models.Service{{Name: "empty"}}))
	assert.Nil(t, batch.urls)
}
