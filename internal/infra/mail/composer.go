// Package mail renders and delivers transactional email for account flows.
package mail

import (
	"github.com/matcornic/hermes/v2"
	"github.com/pkg/errors"

	"storefront/config"
	"storefront/internal/domain/service"
)

// hermesComposer renders MailDescriptions into HTML with hermes themes.
type hermesComposer struct {
	product hermes.Hermes
}

// NewHermesComposer is the constructor for hermesComposer.
// Product branding comes from AppConfig.
func NewHermesComposer(cfg *config.Config) service.MailComposer {
	productName := "Storefront"
	link := ""
	if cfg != nil && cfg.App != nil {
		if cfg.App.ProductName != "" {
			productName = cfg.App.ProductName
		}
		link = cfg.App.BaseURL
	}

	return &hermesComposer{
		product: hermes.Hermes{
			Product: hermes.Product{
				Name: productName,
				Link: link,
			},
		},
	}
}

// Compose renders the description into an HTML email body.
func (c *hermesComposer) Compose(desc service.MailDescription) (string, error) {
	email := hermes.Email{
		Body: hermes.Body{
			Name:   desc.Name,
			Intros: desc.Intros,
			Outros: desc.Outros,
		},
	}

	if desc.ActionLabel != "" && desc.ActionLink != "" {
		email.Body.Actions = []hermes.Action{
			{
				Instructions: desc.ActionInstructions,
				Button: hermes.Button{
					Text: desc.ActionLabel,
					Link: desc.ActionLink,
				},
			},
		}
	}

	body, err := c.product.GenerateHTML(email)
	if err != nil {
		return "", errors.Wrap(err, "failed to render email body")
	}

	return body, nil
}
