// Package smtpconf holds the SMTP configuration form rules and the
// connection tester behind POST /smtp-config/{id}/test.
package smtpconf

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/ignite/campaign-studio/internal/domain"
)

// Default ports per encryption mode.
const (
	PortSSL   = 465
	PortTLS   = 587
	PortPlain = 25
)

// Validation errors. Their text is shown to the user as-is.
var (
	ErrMissingFields    = errors.New("Please fill in all required SMTP fields before testing.")
	ErrUnsaved          = errors.New("Please save the configuration first before testing.")
	ErrMissingFromEmail = errors.New("A valid from email address is required.")
	ErrMissingName      = errors.New("A configuration name is required.")
)

// ErrNotFound is returned by stores for an unknown configuration id.
var ErrNotFound = errors.New("smtp configuration not found")

// SuggestPort returns the port for the selected encryption mode along with
// the field placeholder. A non-zero current port is kept.
func SuggestPort(useTLS, useSSL bool, current int) (int, string) {
	var port int
	var placeholder string
	switch {
	case useSSL:
		port, placeholder = PortSSL, "465 (Default for SSL)"
	case useTLS:
		port, placeholder = PortTLS, "587 (Default for TLS)"
	default:
		port, placeholder = PortPlain, "25 (Default without encryption)"
	}
	if current > 0 {
		port = current
	}
	return port, placeholder
}

// SetTLS toggles STARTTLS. Turning it on turns implicit SSL off.
func SetTLS(c *domain.SMTPConfig, on bool) {
	c.UseTLS = on
	if on {
		c.UseSSL = false
	}
}

// SetSSL toggles implicit SSL. Turning it on turns STARTTLS off.
func SetSSL(c *domain.SMTPConfig, on bool) {
	c.UseSSL = on
	if on {
		c.UseTLS = false
	}
}

// Normalize trims the text fields, resolves a TLS/SSL conflict in favour of
// SSL and fills in the suggested port when none is set.
func Normalize(c *domain.SMTPConfig) {
	c.Name = strings.TrimSpace(c.Name)
	c.Host = strings.TrimSpace(c.Host)
	c.Username = strings.TrimSpace(c.Username)
	c.FromEmail = strings.TrimSpace(c.FromEmail)
	c.FromName = strings.TrimSpace(c.FromName)
	if c.UseSSL {
		SetSSL(c, true)
	}
	c.Port, _ = SuggestPort(c.UseTLS, c.UseSSL, c.Port)
}

// ValidateForTest checks that a connection test can run.
func ValidateForTest(c domain.SMTPConfig) error {
	if strings.TrimSpace(c.Host) == "" || c.Port <= 0 || strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return ErrMissingFields
	}
	if c.ID == 0 {
		return ErrUnsaved
	}
	return nil
}

// Validate checks a configuration before it is saved.
func Validate(c domain.SMTPConfig) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(c.Host) == "" || c.Port <= 0 || strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return ErrMissingFields
	}
	if _, err := mail.ParseAddress(c.FromEmail); err != nil {
		return ErrMissingFromEmail
	}
	return nil
}
