package models

import "time"

// Service is a monitored third-party vendor with up to two tracked legal documents.
type Service struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Category      string     `json:"category,omitempty"`
	TermsURL      string     `json:"tos_url,omitempty" yaml:"tos_url"`
	PrivacyURL    string     `json:"privacy_url,omitempty" yaml:"privacy_url"`
	IsActive      bool       `json:"is_active"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Document is one tracked URL of a service and the change type it produces.
type Document struct {
	URL        string
	ChangeType ChangeType
}

// Documents returns the configured documents, terms first, skipping empty URLs.
func (s Service) Documents() []Document {
	docs := make([]Document, 0, 2)
	if s.TermsURL != "" {
		docs = append(docs, Document{URL: s.TermsURL, ChangeType: ChangeTypeToSUpdate})
	}
	if s.PrivacyURL != "" {
		docs = append(docs, Document{URL: s.PrivacyURL, ChangeType: ChangeTypePrivacyUpdate})
	}
	return docs
}
