// Package status reports whether the Gong API is configured. It never
// touches the network and never requires configuration itself.
package status

import (
	"strings"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
)

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Report is the fixed set of diagnostic fields. Secret values are never
// part of it.
type Report struct {
	Configured  bool       `json:"configured"`
	BaseURL     string     `json:"baseUrl,omitempty"`
	Message     string     `json:"message"`
	RequiredEnv []string   `json:"requiredEnv"`
	MissingEnv  []string   `json:"missingEnv,omitempty"`
	InvalidEnv  []string   `json:"invalidEnv,omitempty"`
	Server      ServerInfo `json:"server"`
}

type CheckStatus struct {
	creds   *account.Credentials
	missing []string
	invalid []string
	server  ServerInfo
}

// NewCheckStatus takes the loaded credentials (nil when unconfigured) and
// the names of the environment variables that were blank at startup.
func NewCheckStatus(creds *account.Credentials, missing []string, server ServerInfo) *CheckStatus {
	return &CheckStatus{creds: creds, missing: missing, server: server}
}

// WithInvalid records environment variables that were set but rejected,
// such as a GONG_BASE_URL without a scheme.
func (uc *CheckStatus) WithInvalid(invalid []string) *CheckStatus {
	uc.invalid = invalid
	return uc
}

func (uc *CheckStatus) Execute() Report {
	r := Report{
		Configured:  uc.creds != nil,
		RequiredEnv: []string{account.EnvBaseURL, account.EnvAccessKey, account.EnvAccessKeySecret},
		Server:      uc.server,
	}
	if r.Configured {
		r.BaseURL = uc.creds.BaseURL()
		r.Message = "Gong API is configured and ready to use"
		return r
	}
	r.MissingEnv = uc.missing
	r.InvalidEnv = uc.invalid
	r.Message = "Gong API is not configured. Please set GONG_BASE_URL, GONG_ACCESS_KEY, and GONG_ACCESS_KEY_SECRET environment variables."
	if len(uc.invalid) > 0 {
		r.Message += " Invalid: " + strings.Join(uc.invalid, ", ") + "."
	}
	return r
}
