package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/editorial-tools/newsdigest/internal/search"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type searchRequest struct {
	SearchTerm string `json:"search_term"`
}

type searchResponse struct {
	Results struct {
		Documents []searchDocument `json:"documents"`
	} `json:"results"`
}

// Pointer fields distinguish an absent field from an empty one; a document
// missing only one of the two still counts as a hit.
type searchDocument struct {
	DocumentID *string `json:"document_id"`
	CleanText  *string `json:"clean_text"`
}

func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	body, err := json.Marshal(searchRequest{SearchTerm: req.SearchTerm})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/document?%s", c.baseURL, url.Values{
		"offset": []string{strconv.Itoa(req.Offset)},
		"limit":  []string{strconv.Itoa(req.Limit)},
	}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var searchResp searchResponse
		if err := json.Unmarshal(respBody, &searchResp); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return c.toResponse(&searchResp)

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, search.ErrUnauthorized

	case http.StatusBadRequest:
		return nil, search.ErrInvalidRequest

	default:
		c.logger.Error("search API request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return nil, fmt.Errorf("%w: status %d", search.ErrSearchFailed, resp.StatusCode)
	}
}

func (c *Client) toResponse(resp *searchResponse) (*search.Response, error) {
	if len(resp.Results.Documents) == 0 {
		return nil, search.ErrEmptyResults
	}

	documents := make([]search.Document, 0, len(resp.Results.Documents))
	for _, d := range resp.Results.Documents {
		if d.DocumentID == nil && d.CleanText == nil {
			c.logger.Warn("skipping document without document_id and clean_text")
			continue
		}
		documents = append(documents, search.Document{
			ID:        stringValue(d.DocumentID),
			CleanText: stringValue(d.CleanText),
		})
	}

	if len(documents) == 0 {
		return nil, search.ErrEmptyResults
	}

	return &search.Response{Documents: documents}, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
