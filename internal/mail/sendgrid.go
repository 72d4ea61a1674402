package mail

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient sends transactional mail through SendGrid.
type SendGridClient struct {
	apiKey   string
	from     string
	fromName string
	logger   *log.Logger
}

func NewSendGridClient(apiKey, from, fromName string, logger *log.Logger) *SendGridClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SendGridClient{apiKey: apiKey, from: from, fromName: fromName, logger: logger}
}

// SendOTP emails a password-reset code.
func (c *SendGridClient) SendOTP(ctx context.Context, to, otp string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	subject := "Your password reset code"
	plain := fmt.Sprintf("Your one-time code is %s. It expires in 15 minutes.", otp)
	html := fmt.Sprintf("<p>Your one-time code is <strong>%s</strong>.</p><p>It expires in 15 minutes.</p>", otp)

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(c.fromName, c.from),
		subject,
		sgmail.NewEmail("", to),
		plain,
		html,
	)

	client := sendgrid.NewSendClient(c.apiKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.logger.Printf("[sendgrid] error status=%d body=%s", resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid send failed: status=%d", resp.StatusCode)
	}

	c.logger.Printf("[sendgrid] mail sent: status=%d to=%s", resp.StatusCode, to)
	return nil
}
