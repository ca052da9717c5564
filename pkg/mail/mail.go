// Package mail builds the analyzer status email and delivers it.
//
// Delivery never fails the caller: Send returns a Result describing what
// happened, and the report content stays usable whatever the outcome.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Message is an HTML email.
type Message struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
	// Date is sent in the Date header; zero means the time of encoding.
	Date time.Time
}

// StatusEmail holds the parts of an analyzer status email.
type StatusEmail struct {
	From      string
	To        []string
	TestGroup string
	// Content is the rendered report fragment.
	Content string
	// RevisionHTML, when set, is appended under a revision heading.
	RevisionHTML string
	// AppendedText is added at the very end of the body.
	AppendedText string
	// OnlyChanges marks the mail as a status-change notification.
	OnlyChanges bool
	Time        time.Time
}

// BuildStatusMessage assembles the status email.
func BuildStatusMessage(s StatusEmail) Message {
	body := s.Content
	if s.RevisionHTML != "" {
		body += "<br><b>Revision Information:</b>" + s.RevisionHTML
	}
	change := ""
	if s.OnlyChanges {
		change = "Status Change "
	}
	return Message{
		From:     s.From,
		To:       s.To,
		Subject:  fmt.Sprintf("Layout Test Analyzer Result %s(%s): %s", change, s.TestGroup, s.Time.Format(time.ANSIC)),
		HTMLBody: body + s.AppendedText,
		Date:     s.Time,
	}
}

// Document wraps the body in a minimal HTML page.
func (m Message) Document() string {
	return "<html>\n<head></head>\n<body>\n" + m.HTMLBody + "\n</body>\n</html>\n"
}

// ErrHeaderInjection is returned for address fields containing line breaks.
var ErrHeaderInjection = errors.New("line break in mail header")

func checkHeader(field, v string) error {
	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("%w: %s %q", ErrHeaderInjection, field, v)
	}
	return nil
}

// Bytes returns the RFC 5322 encoding of m. It fails with
// ErrHeaderInjection when From or a recipient contains CR or LF.
func (m Message) Bytes() ([]byte, error) {
	if err := checkHeader("From", m.From); err != nil {
		return nil, err
	}
	for _, to := range m.To {
		if err := checkHeader("To", to); err != nil {
			return nil, err
		}
	}
	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Document(), "\n", "\r\n"))
	return b.Bytes(), nil
}

// Result reports the outcome of a delivery attempt.
type Result struct {
	Delivered bool
	Err       error
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) Result
}

var errNoRecipients = errors.New("no recipients")

// SendFunc is the SMTP transport used by SMTPSender.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers through an SMTP relay, localhost:25 by default.
type SMTPSender struct {
	Addr string
	Auth smtp.Auth
	send SendFunc
}

// NewSMTPSender returns a sender for the relay at addr.
func NewSMTPSender(addr string, auth smtp.Auth) *SMTPSender {
	if addr == "" {
		addr = "localhost:25"
	}
	return &SMTPSender{Addr: addr, Auth: auth, send: smtp.SendMail}
}

// Send delivers m. Transport and auth failures are returned in the Result.
func (s *SMTPSender) Send(ctx context.Context, m Message) Result {
	if len(m.To) == 0 {
		return Result{Err: errNoRecipients}
	}
	raw, err := m.Bytes()
	if err != nil {
		return Result{Err: err}
	}
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	done := make(chan error, 1)
	go func() {
		done <- send(s.Addr, s.Auth, m.From, m.To, raw)
	}()
	select {
	case <-ctx.Done():
		return Result{Err: fmt.Errorf("sending mail via %s: %w", s.Addr, ctx.Err())}
	case err := <-done:
		if err != nil {
			return Result{Err: fmt.Errorf("sending mail via %s: %w", s.Addr, err)}
		}
		return Result{Delivered: true}
	}
}
