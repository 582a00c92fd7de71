package instrument

import (
	"fmt"
	"net/url"
	"strings"
)

// Form field names read by ReadTrackingConfig.
const (
	FieldClickEnabled  = "has_click_tracking"
	FieldClickURL      = "click_tracking_url"
	FieldOpenEnabled   = "has_open_tracking"
	FieldOpenURL       = "open_tracking_url"
	FieldPixelURL      = "tracking_image_url"
	FieldOptoutEnabled = "has_optout"
	FieldOptoutURL     = "optout_url"
	FieldType          = "type"
)

// Tracking kinds as they appear in the hidden type field.
const (
	KindClick  = "click"
	KindOpen   = "open"
	KindOptout = "optout"
)

// TrackingConfig is the validated state of the tracking checkboxes and their URL
// fields. Empty URL strings mean "not provided".
type TrackingConfig struct {
	ClickEnabled  bool   `json:"click_enabled"`
	ClickURL      string `json:"click_url,omitempty"`
	OpenEnabled   bool   `json:"open_enabled"`
	OpenURL       string `json:"open_url,omitempty"`
	PixelURL      string `json:"pixel_url,omitempty"`
	OptoutEnabled bool   `json:"optout_enabled"`
	OptoutURL     string `json:"optout_url,omitempty"`
}

// ValidationError reports a tracking URL field that is present but unusable.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ReadTrackingConfig builds a TrackingConfig from submitted form values.
// URL fields are trimmed and must be absolute http(s) URLs when non-empty.
// A missing URL is not an error: the preview surfaces it as a warning.
func ReadTrackingConfig(form url.Values) (TrackingConfig, error) {
	cfg := TrackingConfig{
		ClickEnabled:  checked(form.Get(FieldClickEnabled)),
		ClickURL:      strings.TrimSpace(form.Get(FieldClickURL)),
		OpenEnabled:   checked(form.Get(FieldOpenEnabled)),
		OpenURL:       strings.TrimSpace(form.Get(FieldOpenURL)),
		PixelURL:      strings.TrimSpace(form.Get(FieldPixelURL)),
		OptoutEnabled: checked(form.Get(FieldOptoutEnabled)),
		OptoutURL:     strings.TrimSpace(form.Get(FieldOptoutURL)),
	}
	if err := cfg.Validate(); err != nil {
		return TrackingConfig{}, err
	}
	return cfg, nil
}

// Validate checks every non-empty URL field.
func (c TrackingConfig) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{FieldClickURL, c.ClickURL},
		{FieldOpenURL, c.OpenURL},
		{FieldPixelURL, c.PixelURL},
		{FieldOptoutURL, c.OptoutURL},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := validateURL(f.value); err != "" {
			return &ValidationError{Field: f.name, Value: f.value, Reason: err}
		}
	}
	return nil
}

func validateURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "not a valid URL"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "must use http or https"
	}
	if u.Host == "" {
		return "missing host"
	}
	return ""
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}

// TypeField returns the comma-joined list of enabled tracking kinds in the
// fixed order click, open, optout.
func TypeField(c TrackingConfig) string {
	kinds := make([]string, 0, 3)
	if c.ClickEnabled {
		kinds = append(kinds, KindClick)
	}
	if c.OpenEnabled {
		kinds = append(kinds, KindOpen)
	}
	if c.OptoutEnabled {
		kinds = append(kinds, KindOptout)
	}
	return strings.Join(kinds, ",")
}

// TrackingKinds is the decoded form of a type field.
type TrackingKinds struct {
	Click  bool
	Open   bool
	Optout bool
}

// ParseTypeField decodes a stored type field. Unknown entries are ignored and
// the legacy "opens" spelling counts as open.
func ParseTypeField(s string) TrackingKinds {
	var k TrackingKinds
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case KindClick:
			k.Click = true
		case KindOpen, "opens":
			k.Open = true
		case KindOptout:
			k.Optout = true
		}
	}
	return k
}
