package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the EmailJS transactional-email API. No retry; a failed
// send is surfaced to the user and resubmission is manual.
type Client struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	BaseURL    string
	http       *http.Client
}

func New(serviceID, templateID, publicKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.emailjs.com"
	}
	return &Client{
		ServiceID:  serviceID,
		TemplateID: templateID,
		PublicKey:  publicKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: 20 * time.Second},
	}
}

// TemplateParams is the field mapping handed to the mail template. Message
// carries the full composed report; the structured fields are passed
// alongside for use in subjects and headers.
type TemplateParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	CardName string `json:"card_name"`
	Phone    string `json:"phone"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
}

func (c *Client) Send(ctx context.Context, params TemplateParams) error {
	if c.ServiceID == "" || c.TemplateID == "" || c.PublicKey == "" {
		return errors.New("missing EmailJS credentials")
	}
	payload := map[string]any{
		"service_id":      c.ServiceID,
		"template_id":     c.TemplateID,
		"user_id":         c.PublicKey,
		"template_params": params,
	}
	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1.0/email/send", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		// EmailJS answers errors with a plain-text message; pass it through.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			return fmt.Errorf("emailjs status %d", resp.StatusCode)
		}
		return errors.New(msg)
	}
	return nil
}
