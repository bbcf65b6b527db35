// Package account holds the Gong API credentials value object.
// Credentials are all-or-nothing: a partially configured account is not
// representable, and an absent account is a valid runtime state.
package account

import (
	"errors"
	"log/slog"
	"strings"
)

// Environment variable names the credentials are sourced from.
const (
	EnvBaseURL         = "GONG_BASE_URL"
	EnvAccessKey       = "GONG_ACCESS_KEY"
	EnvAccessKeySecret = "GONG_ACCESS_KEY_SECRET"
)

var (
	ErrIncompleteCredentials = errors.New("incomplete gong credentials")
	ErrInvalidBaseURL        = errors.New("invalid gong base url")
)

// Credentials is an immutable base URL plus access key pair.
type Credentials struct {
	baseURL         string
	accessKey       string
	accessKeySecret string
}

// NewCredentials builds Credentials from three independently optional inputs.
// It returns (nil, nil) when every input is blank and
// (nil, ErrIncompleteCredentials) when only some are set.
func NewCredentials(baseURL, accessKey, accessKeySecret string) (*Credentials, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	accessKey = strings.TrimSpace(accessKey)
	accessKeySecret = strings.TrimSpace(accessKeySecret)

	set := 0
	for _, v := range []string{baseURL, accessKey, accessKeySecret} {
		if v != "" {
			set++
		}
	}
	switch set {
	case 0:
		return nil, nil
	case 3:
		return &Credentials{
			baseURL:         baseURL,
			accessKey:       accessKey,
			accessKeySecret: accessKeySecret,
		}, nil
	default:
		return nil, ErrIncompleteCredentials
	}
}

// Missing lists the environment variable names of blank inputs.
func Missing(baseURL, accessKey, accessKeySecret string) []string {
	var missing []string
	if strings.TrimSpace(baseURL) == "" {
		missing = append(missing, EnvBaseURL)
	}
	if strings.TrimSpace(accessKey) == "" {
		missing = append(missing, EnvAccessKey)
	}
	if strings.TrimSpace(accessKeySecret) == "" {
		missing = append(missing, EnvAccessKeySecret)
	}
	return missing
}

func (c *Credentials) BaseURL() string         { return c.baseURL }
func (c *Credentials) AccessKey() string       { return c.accessKey }
func (c *Credentials) AccessKeySecret() string { return c.accessKeySecret }

// Secrets returns the values that must never appear in output.
func (c *Credentials) Secrets() []string {
	if c == nil {
		return nil
	}
	return []string{c.accessKey, c.accessKeySecret}
}

func (c *Credentials) String() string {
	if c == nil {
		return "<unconfigured>"
	}
	return "gong(" + c.baseURL + ")"
}

// LogValue keeps the key pair out of structured logs.
func (c *Credentials) LogValue() slog.Value {
	if c == nil {
		return slog.StringValue("unconfigured")
	}
	return slog.GroupValue(
		slog.String("base_url", c.baseURL),
		slog.String("access_key", "[REDACTED]"),
	)
}
