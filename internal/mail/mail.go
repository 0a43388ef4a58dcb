// Package mail sends the account related notifications, activation links
// and password resets.
package mail

import "context"

// Message is one outgoing mail.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}
