package search

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized   = errors.New("invalid API key")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
	ErrEmptyResults   = errors.New("no documents found")
)

type Client interface {
	Search(ctx context.Context, req Request) (*Response, error)
}

type Request struct {
	SearchTerm string
	Offset     int
	Limit      int
}

type Response struct {
	Documents []Document
}

// Document is one search hit: an identifier plus the cleaned body text.
type Document struct {
	ID        string `json:"document_id"`
	CleanText string `json:"clean_text"`
}

// Snippets returns the document texts in response order.
func (r *Response) Snippets() []string {
	snippets := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		snippets[i] = d.CleanText
	}
	return snippets
}

// IDs returns the document identifiers in response order.
func (r *Response) IDs() []string {
	ids := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		ids[i] = d.ID
	}
	return ids
}
