package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"

	"werewolf/game"
	"werewolf/meta"
)

var (
	// ErrTransport is returned for any failed exchange with a remote agent.
	ErrTransport = errors.New("agent transport failed")
	// ErrTimeout is returned together with ErrTransport when the remote agent
	// did not answer in time.
	ErrTimeout = errors.New("agent timed out")
)

type Option func(t *HTTPTransport)

// WithTimeout bounds every call. Zero keeps the default.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTPTransport) {
		if timeout > 0 {
			t.client.SetTimeout(timeout)
		}
	}
}

// WithClient swaps the underlying resty client.
func WithClient(client *resty.Client) Option {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// HTTPTransport posts observations as JSON to one endpoint and decodes the
// returned action. It never retries.
type HTTPTransport struct {
	url    string
	client *resty.Client
}

// NewHTTPTransport initializes and returns a new HTTPTransport.
func NewHTTPTransport(url string, options ...Option) *HTTPTransport {
	t := &HTTPTransport{
		url:    url,
		client: resty.New().SetTimeout(meta.A2A_TIMEOUT),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *HTTPTransport) Send(ctx context.Context, obs game.Observation) (game.Action, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(obs).
		Post(t.url)
	if err != nil {
		if isTimeout(err) {
			return game.Action{}, fmt.Errorf("%w: %w: %v", ErrTransport, ErrTimeout, err)
		}
		return game.Action{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return game.Action{}, fmt.Errorf("%w: %s returned status %d", ErrTransport, t.url, resp.StatusCode())
	}

	var action game.Action
	if err := json.Unmarshal(resp.Body(), &action); err != nil {
		return game.Action{}, fmt.Errorf("%w: malformed action: %v", ErrTransport, err)
	}
	if action.Type == "" {
		action.Type = game.ActionNoop
	}
	return action, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
