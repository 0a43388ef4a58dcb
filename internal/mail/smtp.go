package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// NewSMTP creates a mailer delivering through the given SMTP server.
// Authentication is used only when a username is set.
func NewSMTP(host string, port int, username, password, from string) *SMTP {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTP{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
		from: from,
	}
}

// SMTP sends mail through a plain SMTP server.
type SMTP struct {
	addr string
	auth smtp.Auth
	from string
}

func (s *SMTP) Send(_ context.Context, msg *Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return smtp.SendMail(s.addr, s.auth, s.from, msg.To, []byte(b.String()))
}
