package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/crosti/buyerform/config"
	"github.com/crosti/buyerform/model"
)

const defaultSendTimeout = 30 * time.Second

// Attachment is a file carried by a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	// Body is the plain text part
	Body string
	// HTML is an optional alternative part
	HTML       string
	Attachment *Attachment
}

// Notifier performs exactly one delivery attempt per Send.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages through an authenticated SMTP submission
// server. A fresh connection is dialled for every message.
type SMTPMailer struct {
	host    string
	opts    []mail.Option
	timeout time.Duration
}

func NewSMTPMailer(cfg *config.MailConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: smtp host, user and password are required", model.ErrConfiguration)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	return &SMTPMailer{
		host: cfg.Host,
		opts: []mail.Option{
			mail.WithPort(cfg.Port),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
			mail.WithTLSPortPolicy(mail.TLSMandatory),
			mail.WithTimeout(timeout),
		},
		timeout: timeout,
	}, nil
}

// Send builds and transmits msg. Every failure, including the deadline, is a
// delivery error.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	out, err := buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDelivery, err)
	}

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrDelivery, err)
	}
	return nil
}

func buildMessage(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(msg.From); err != nil {
		return nil, fmt.Errorf("%w: sender: %v", model.ErrDelivery, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: recipient: %v", model.ErrDelivery, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	if a := msg.Attachment; a != nil {
		err := out.AttachReader(a.Filename, bytes.NewReader(a.Data), mail.WithFileContentType(mail.ContentType(a.ContentType)))
		if err != nil {
			return nil, fmt.Errorf("%w: attachment: %v", model.ErrDelivery, err)
		}
	}
	return out, nil
}
