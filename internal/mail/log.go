package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// NewLog creates a mailer that only logs messages. It is the default when
// no SMTP server is configured, which keeps development setups working.
func NewLog() *Log {
	return &Log{}
}

type Log struct{}

func (l *Log) Send(_ context.Context, msg *Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)

	return nil
}
