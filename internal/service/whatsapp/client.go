package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"crm-dashboard-service/internal/domain/whatsapp"
	xerrors "crm-dashboard-service/internal/pkg/errors"
)

// maxResponseBody caps how much of a gateway reply is kept.
const maxResponseBody = 64 << 10

// Client delivers text messages through the gateway's HTTP GET endpoint.
// Calls are bounded by the client timeout and never retried.
type Client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
	}
}

// SendText delivers text to receiver. Transport failures and timeouts are
// ErrUpstream; any HTTP answer is returned as a Delivery, whatever its status.
func (c *Client) SendText(ctx context.Context, receiver, text string) (*whatsapp.Delivery, error) {
	if c.apiURL == "" {
		return nil, fmt.Errorf("%w: gateway url is not configured", xerrors.ErrUpstream)
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gateway url: %v", xerrors.ErrUpstream, err)
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	q.Set("mtype", "text")
	q.Set("receiver", receiver)
	q.Set("text", text)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// the url carries the api key, keep it out of the error
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read gateway response: %v", xerrors.ErrUpstream, err)
	}

	return &whatsapp.Delivery{
		StatusCode: resp.StatusCode,
		Response:   decodeBody(body),
	}, nil
}

// decodeBody keeps JSON replies structured and anything else as text.
func decodeBody(body []byte) interface{} {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return trimmed
}
