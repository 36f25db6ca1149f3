package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"letterly/internal/config"
	"letterly/internal/logger"
)

// Statuses reported by Publish.
const (
	StatusSuccess       = "success"
	StatusError         = "error"
	StatusNotConfigured = "not_configured"
)

// Result is the structured outcome of a publish attempt. Delivery failures
// are results, not errors: publishing is a side-effecting terminal action
// the caller must explicitly know failed, and it is never retried here.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	EmailID string         `json:"email_id,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// StibeeClient delivers a finished newsletter through the Stibee email API
// using its two-step protocol: create the email, then trigger the send.
type StibeeClient struct {
	apiKey      string
	listID      string
	senderEmail string
	senderName  string
	baseURL     string
	client      *http.Client
}

// NewStibeeClient creates a client from configuration. An unconfigured
// client is still usable; Publish reports the missing configuration.
func NewStibeeClient(cfg config.Email) *StibeeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.stibee.com/v2"
	}
	return &StibeeClient{
		apiKey:      cfg.APIKey,
		listID:      cfg.ListID,
		senderEmail: cfg.SenderEmail,
		senderName:  cfg.SenderName,
		baseURL:     baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether the client can reach the delivery API.
func (c *StibeeClient) Configured() bool {
	return c.apiKey != "" && c.listID != ""
}

// Publish creates the email and sends it. The provider's outcome is
// surfaced verbatim; nothing is retried.
func (c *StibeeClient) Publish(ctx context.Context, title, html string) Result {
	if !c.Configured() {
		return Result{Status: StatusNotConfigured, Message: "Stibee API key or list id is not configured"}
	}

	listID, err := strconv.Atoi(c.listID)
	if err != nil {
		return Result{Status: StatusError, Message: fmt.Sprintf("invalid Stibee list id %q", c.listID)}
	}

	logger.Info("Creating Stibee email", "subject", title)
	emailID, errResult := c.createEmail(ctx, listID, title, html)
	if errResult != nil {
		return *errResult
	}

	logger.Info("Sending Stibee email", "email_id", emailID)
	detail, errResult := c.sendEmail(ctx, emailID)
	if errResult != nil {
		return *errResult
	}

	return Result{
		Status:  StatusSuccess,
		Message: "email created and sent",
		EmailID: emailID,
		Detail:  detail,
	}
}

func (c *StibeeClient) createEmail(ctx context.Context, listID int, title, html string) (string, *Result) {
	payload := map[string]any{
		"listId":      listID,
		"senderEmail": c.senderEmail,
		"senderName":  c.senderName,
		"subject":     title,
		"contents":    html,
	}

	body, status, err := c.post(ctx, c.baseURL+"/emails", payload)
	if err != nil {
		return "", &Result{Status: StatusError, Message: fmt.Sprintf("Stibee create call failed: %v", err)}
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return "", &Result{Status: StatusError, Message: fmt.Sprintf("Stibee create failed with status %d: %s", status, string(body))}
	}

	// The id lives at the top level or under data, depending on API version.
	var created struct {
		ID   json.Number `json:"id"`
		Data struct {
			ID json.Number `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return "", &Result{Status: StatusError, Message: fmt.Sprintf("unreadable Stibee create response: %v", err)}
	}

	emailID := created.ID.String()
	if emailID == "" {
		emailID = created.Data.ID.String()
	}
	if emailID == "" {
		return "", &Result{Status: StatusError, Message: "Stibee response contained no email id"}
	}
	return emailID, nil
}

func (c *StibeeClient) sendEmail(ctx context.Context, emailID string) (map[string]any, *Result) {
	body, status, err := c.post(ctx, fmt.Sprintf("%s/emails/%s/send", c.baseURL, emailID), nil)
	if err != nil {
		return nil, &Result{Status: StatusError, Message: fmt.Sprintf("Stibee send call failed: %v", err)}
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &Result{Status: StatusError, Message: fmt.Sprintf("Stibee send failed with status %d: %s", status, string(body))}
	}

	detail := map[string]any{}
	if len(body) > 0 {
		// Detail is informational; an unparseable body is not a failure.
		_ = json.Unmarshal(body, &detail)
	}
	return detail, nil
}

func (c *StibeeClient) post(ctx context.Context, url string, payload any) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("AccessToken", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
