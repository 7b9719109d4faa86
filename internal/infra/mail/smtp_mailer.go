package mail

import (
	"context"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"

	"storefront/config"
	"storefront/internal/domain/service"
)

// smtpMailer delivers mail through a single SMTP relay.
type smtpMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer is the constructor for smtpMailer.
// It dials lazily; connection errors surface on the first Send.
func NewSMTPMailer(cfg *config.Config) (service.Mailer, error) {
	if cfg == nil || cfg.Mail == nil || cfg.Mail.Host == "" {
		return nil, errors.New("mail relay is not configured")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Mail.Port),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
	}
	if cfg.Mail.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Mail.Username),
			gomail.WithPassword(cfg.Mail.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Mail.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}

	return &smtpMailer{
		client: client,
		from:   cfg.Mail.From,
	}, nil
}

// Send delivers one message. The context bounds the whole dial-and-send.
func (m *smtpMailer) Send(ctx context.Context, msg *service.MailMessage) error {
	out := gomail.NewMsg()

	from := msg.From
	if from == "" {
		from = m.from
	}
	if err := out.From(from); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := out.To(msg.To); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}

	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}
