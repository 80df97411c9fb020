package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appnotification "github.com/consignmentgenie/backend/internal/application/notification"
)

const (
	defaultSendGridBaseURL = "https://api.sendgrid.com"
	sendGridMailPath       = "/v3/mail/send"

	// maxSendGridResponseSize limits the error body read on failed sends
	maxSendGridResponseSize = 64 * 1024
)

// SendGridConfig holds the SendGrid delivery settings
type SendGridConfig struct {
	APIKey         string
	FromEmail      string
	FromName       string
	BaseURL        string
	TimeoutSeconds int
}

// Validate checks that the configuration is usable
func (c *SendGridConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("sendgrid: api key is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("sendgrid: from email is required")
	}
	return nil
}

// SendGridNotifier delivers notifications as email through the SendGrid
// v3 mail send API. Sends are single-shot; retry policy belongs to the
// caller, and event handlers deliberately do not retry.
type SendGridNotifier struct {
	config     *SendGridConfig
	baseURL    string
	httpClient *http.Client
}

// NewSendGridNotifier creates a SendGrid-backed notifier
func NewSendGridNotifier(config *SendGridConfig) (*SendGridNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultSendGridBaseURL
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &SendGridNotifier{
		config:  config,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To                  []sendGridAddress      `json:"to"`
	DynamicTemplateData map[string]interface{} `json:"dynamic_template_data,omitempty"`
}

type sendGridMail struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject,omitempty"`
	TemplateID       string                    `json:"template_id,omitempty"`
	Content          []sendGridContent         `json:"content,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send posts the notification to the SendGrid mail send endpoint. When the
// notification names a dynamic template the data travels as template data;
// otherwise the subject is sent with a minimal plain-text body.
func (n *SendGridNotifier) Send(ctx context.Context, notification appnotification.Notification) error {
	mail := sendGridMail{
		Personalizations: []sendGridPersonalization{{
			To: []sendGridAddress{{Email: notification.To}},
		}},
		From: sendGridAddress{
			Email: n.config.FromEmail,
			Name:  n.config.FromName,
		},
		Subject: notification.Subject,
	}
	if notification.TemplateID != "" {
		mail.TemplateID = notification.TemplateID
		mail.Personalizations[0].DynamicTemplateData = notification.Data
	} else {
		mail.Content = []sendGridContent{{Type: "text/plain", Value: notification.Subject}}
	}

	body, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+sendGridMailPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxSendGridResponseSize))
		return fmt.Errorf("sendgrid: send mail failed with status %d: %s", resp.StatusCode, string(errBody))
	}
	return nil
}

// Ensure SendGridNotifier implements the application Notifier
var _ appnotification.Notifier = (*SendGridNotifier)(nil)
