package mail

import (
	"context"
	"errors"
	"fmt"
	"log"

	"campus-connect/internal/config"

	gomail "gopkg.in/gomail.v2"
)

var ErrUnavailable = errors.New("mail service unavailable")

type Kind string

const (
	KindJobApproved         Kind = "job_approved"
	KindJobRejected         Kind = "job_rejected"
	KindJobFilled           Kind = "job_filled"
	KindApplicationReceived Kind = "application_received"
	KindApplicationStatus   Kind = "application_status"
	KindCallReceived        Kind = "call_received"
	KindCallAccepted        Kind = "call_accepted"
	KindCallRejected        Kind = "call_rejected"
	KindCallCancelled       Kind = "call_cancelled"
)

// Mailer renders and sends one transactional email. Implementations never
// panic past this boundary; the caller decides whether a failure matters.
type Mailer interface {
	Send(ctx context.Context, to string, kind Kind, data map[string]string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *log.Logger
}

// NewSMTPMailer returns a nil-safe mailer. With no SMTP host configured it
// degrades to a no-op that reports ErrUnavailable, which callers treat as a
// best-effort failure.
func NewSMTPMailer(cfg config.MailConfig, logger *log.Logger) *SMTPMailer {
	if cfg.SMTPHost == "" {
		if logger != nil {
			logger.Printf("Mail disabled | reason=no_smtp_host")
		}
		return &SMTPMailer{logger: logger}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.FromAddress,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to string, kind Kind, data map[string]string) error {
	if m == nil || m.dialer == nil {
		return ErrUnavailable
	}
	if to == "" {
		return fmt.Errorf("empty recipient")
	}

	subject, body := render(kind, data)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail has no context support; run the send in a goroutine and give
	// up when the caller's deadline expires. An abandoned send finishes (or
	// fails) in the background.
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

func render(kind Kind, data map[string]string) (string, string) {
	get := func(key string) string { return data[key] }

	switch kind {
	case KindJobApproved:
		return "Your posting was approved",
			fmt.Sprintf("Your posting %q was approved and can now be published.", get("job_title"))
	case KindJobRejected:
		return "Your posting was rejected",
			fmt.Sprintf("Your posting %q was rejected: %s", get("job_title"), get("reason"))
	case KindJobFilled:
		return "Position filled",
			fmt.Sprintf("The posting %q you applied to has been filled.", get("job_title"))
	case KindApplicationReceived:
		return "New application",
			fmt.Sprintf("%s applied to your posting %q.", get("applicant"), get("job_title"))
	case KindApplicationStatus:
		return "Application update",
			fmt.Sprintf("Your application to %q is now %s.", get("job_title"), get("status"))
	case KindCallReceived:
		return "Interview call requested",
			fmt.Sprintf("You received a call request about %q.", get("job_title"))
	case KindCallAccepted:
		return "Interview call accepted",
			fmt.Sprintf("Your call request about %q was accepted. Join: %s", get("job_title"), get("link"))
	case KindCallRejected:
		return "Interview call declined",
			fmt.Sprintf("Your call request about %q was declined. %s", get("job_title"), get("reason"))
	case KindCallCancelled:
		return "Interview call cancelled",
			fmt.Sprintf("The call about %q was cancelled.", get("job_title"))
	default:
		return "Notification", get("body")
	}
}
