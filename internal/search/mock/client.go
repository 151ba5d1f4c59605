package mock

import (
	"context"
	"time"

	"github.com/editorial-tools/newsdigest/internal/search"
)

type Client struct {
	Response *search.Response
	Error    error
	Delay    time.Duration

	CallCount   int
	LastRequest search.Request
}

func New() *Client {
	return &Client{
		Response: &search.Response{
			Documents: []search.Document{
				{ID: "doc-1", CleanText: "Mock article text one."},
				{ID: "doc-2", CleanText: "Mock article text two."},
			},
		},
	}
}

func (c *Client) WithDocuments(docs ...search.Document) *Client {
	c.Response = &search.Response{Documents: docs}
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	c.CallCount++
	c.LastRequest = req

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return nil, c.Error
	}

	return c.Response, nil
}

var _ search.Client = (*Client)(nil)
