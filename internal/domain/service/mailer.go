package service

import "context"

// MailDescription is the structured input for composing a transactional
// email body. The action block is optional; it renders as a button when
// both label and link are set.
type MailDescription struct {
	Name               string   // Recipient display name.
	Intros             []string // Opening lines.
	ActionInstructions string   // Text shown above the button.
	ActionLabel        string   // Button label.
	ActionLink         string   // Button target URL.
	Outros             []string // Closing lines.
}

// MailComposer renders a MailDescription into an HTML body. Pure; no I/O.
type MailComposer interface {
	Compose(desc MailDescription) (string, error)
}

// MailMessage is one outbound email.
type MailMessage struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers transactional email. A failed send surfaces immediately;
// there is no retry at this layer.
type Mailer interface {
	Send(ctx context.Context, msg *MailMessage) error
}
