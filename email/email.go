// Package email delivers transactional mail through SendGrid.
package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
	HTML      string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(key, from, fromName string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(key),
		from:   mail.NewEmail(fromName, from),
	}
}

func (s *SendGrid) Send(ctx context.Context, m Message) error {
	to := mail.NewEmail(m.ToName, m.ToAddress)
	msg := mail.NewSingleEmail(s.from, m.Subject, to, m.Text, m.HTML)

	if err := ctx.Err(); err != nil {
		return err
	}

	resp, err := s.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sending mail to %s: %w", m.ToAddress, err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sending mail to %s: sendgrid answered %d: %s", m.ToAddress, resp.StatusCode, resp.Body)
	}
	return nil
}

// Log only records the mail it is asked to send. It stands in for SendGrid
// when no API key is configured.
type Log struct {
	log logrus.FieldLogger
}

func NewLog(log logrus.FieldLogger) *Log {
	return &Log{log: log}
}

func (l *Log) Send(ctx context.Context, m Message) error {
	l.log.WithFields(logrus.Fields{
		"to":      m.ToAddress,
		"subject": m.Subject,
	}).Info("mail not delivered: no provider configured")
	return nil
}
