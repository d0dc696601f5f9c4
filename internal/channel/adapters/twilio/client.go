package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAPIBaseURL = "https://api.twilio.com"

// Client is a minimal Twilio Messages REST client. One call per send, no
// retry; callers own any backoff policy.
type Client struct {
	logger     *slog.Logger
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Messages API client for the given account.
func NewClient(log *slog.Logger, accountSID, authToken string) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		logger:     log.With(slog.String("component", "twilio_client")),
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type messageResponse struct {
	Sid     string `json:"sid"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateMessage posts one message to the Messages API and returns the
// carrier-assigned message sid.
func (c *Client) CreateMessage(ctx context.Context, params url.Values) (string, error) {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read send response: %w", err)
	}

	var decoded messageResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("send message status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode send response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if decoded.Message != "" {
			return "", fmt.Errorf("send message: %s (status %d)", decoded.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("send message status %d", resp.StatusCode)
	}
	if c.logger != nil {
		c.logger.Debug("message sent", slog.String("sid", decoded.Sid))
	}
	return decoded.Sid, nil
}
