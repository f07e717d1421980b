package fetcher

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Status is the outcome of a fetch.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrorKindHTTPStatus       ErrorKind = "http_status"
	ErrorKindTimeout          ErrorKind = "timeout"
	ErrorKindConnection       ErrorKind = "connection"
	ErrorKindRetriesExhausted ErrorKind = "retries_exhausted"
	ErrorKindUnexpected       ErrorKind = "unexpected"
)

// Result is the outcome of fetching one document. Failures are reported
// through Status, ErrorKind and Err rather than returned as errors.
type Result struct {
	URL         string
	Content     string
	ContentHash string
	WordCount   int
	Status      Status
	ErrorKind   ErrorKind
	StatusCode  int
	Rendered    bool
	Err         error
}

// OK reports a successful fetch.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

func newOKResult(url, content string, statusCode int) Result {
	return Result{
		URL:         url,
		Content:     content,
		ContentHash: Fingerprint(content),
		WordCount:   CountWords(content),
		Status:      StatusOK,
		StatusCode:  statusCode,
	}
}

func newErrorResult(url string, kind ErrorKind, statusCode int, err error) Result {
	return Result{
		URL:        url,
		Status:     StatusError,
		ErrorKind:  kind,
		StatusCode: statusCode,
		Err:        err,
	}
}

// Fingerprint is the lowercase hex SHA-256 of text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// CountWords counts whitespace separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
