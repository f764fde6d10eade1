package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendEmailBackend is the production EmailBackend, grounded directly
// on the teacher's EmailService.SendTransactionalEmail: same
// "Name <email>" From construction and resend.SendEmailRequest shape.
type ResendEmailBackend struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

func NewResendEmailBackend(apiKey, fromEmail, fromName string) *ResendEmailBackend {
	return &ResendEmailBackend{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (b *ResendEmailBackend) Send(ctx context.Context, msg EmailMessage) error {
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", b.fromName, b.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	_, err := b.client.Emails.Send(req)
	return err
}
