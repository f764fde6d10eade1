// Package notify implements the Notification Dispatcher (C11):
// preference-gated, pluggable-backend delivery with pure per-kind
// rendering, grounded on the teacher's EmailService
// (libs/go/services/email_service.go) — same from/fromName
// construction and resend-go/v2 client, generalized from one backend
// to three (email/SMS/push) behind a common interface shape, per
// §4.10. HTML/email template content itself is out of scope (spec.md's
// Non-goals), so renderers produce plain subject/text/HTML strings,
// not styled markup.
package notify

import "context"

// EmailMessage is what an EmailBackend delivers.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SMSMessage is what an SMSBackend delivers.
type SMSMessage struct {
	To   string
	Body string
}

// PushMessage is what a PushBackend delivers.
type PushMessage struct {
	To    string
	Title string
	Body  string
}

type EmailBackend interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SMSBackend interface {
	Send(ctx context.Context, msg SMSMessage) error
}

type PushBackend interface {
	Send(ctx context.Context, msg PushMessage) error
}
