package mock

import (
	"context"
	"time"

	"github.com/editorial-tools/newsdigest/internal/llm"
)

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	CallCount     int
	LastMessages  []llm.Message
	LastMaxTokens int
	AllCalls      []Call
}

type Call struct {
	Messages  []llm.Message
	MaxTokens int
}

func New() *Client {
	return &Client{
		Response: "This is a mock summary.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
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

func (c *Client) ChatCompletion(ctx context.Context, messages []llm.Message, maxTokens int) (string, error) {
	c.CallCount++
	c.LastMessages = messages
	c.LastMaxTokens = maxTokens
	c.AllCalls = append(c.AllCalls, Call{Messages: messages, MaxTokens: maxTokens})

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) Reset() {
	c.CallCount = 0
	c.LastMessages = nil
	c.LastMaxTokens = 0
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
