package mail

import (
	"testing"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer() service.MailComposer {
	cfg := &config.Config{
		App: &config.AppConfig{
			BaseURL:     "https://shop.example.com",
			ProductName: "Example Shop",
		},
	}

	return NewHermesComposer(cfg)
}

func TestHermesComposer_ComposeWithAction(t *testing.T) {
	composer := newTestComposer()

	body, err := composer.Compose(service.MailDescription{
		Name:               "Jo",
		Intros:             []string{"Welcome aboard."},
		ActionInstructions: "Click below to verify your account:",
		ActionLabel:        "Verify",
		ActionLink:         "https://shop.example.com/accounts/verify/abc",
		Outros:             []string{"Need help? Just reply to this email."},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Jo")
	assert.Contains(t, body, "Welcome aboard.")
	assert.Contains(t, body, "https://shop.example.com/accounts/verify/abc")
	assert.Contains(t, body, "Verify")
	assert.Contains(t, body, "Example Shop")
}

func TestHermesComposer_ComposeWithoutAction(t *testing.T) {
	composer := newTestComposer()

	body, err := composer.Compose(service.MailDescription{
		Name:   "Jo",
		Intros: []string{"Your password was changed."},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Your password was changed.")
	assert.NotContains(t, body, "<a class=\"button\"")
}

func TestHermesComposer_DefaultsProductName(t *testing.T) {
	composer := NewHermesComposer(&config.Config{})

	body, err := composer.Compose(service.MailDescription{Name: "Jo"})
	require.NoError(t, err)
	assert.Contains(t, body, "Storefront")
}
