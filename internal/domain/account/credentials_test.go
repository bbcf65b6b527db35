package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		key      string
		secret   string
		wantNil  bool
		wantErr  error
		wantBase string
	}{
		{name: "all blank is absent", wantNil: true},
		{name: "whitespace only is absent", baseURL: "  ", key: "\t", secret: " ", wantNil: true},
		{name: "complete", baseURL: "https://api.gong.io/", key: "k", secret: "s", wantBase: "https://api.gong.io"},
		{name: "missing secret", baseURL: "https://api.gong.io", key: "k", wantNil: true, wantErr: account.ErrIncompleteCredentials},
		{name: "only base url", baseURL: "https://api.gong.io", wantNil: true, wantErr: account.ErrIncompleteCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := account.NewCredentials(tt.baseURL, tt.key, tt.secret)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, creds)
				return
			}
			require.NotNil(t, creds)
			assert.Equal(t, tt.wantBase, creds.BaseURL())
			assert.Equal(t, tt.key, creds.AccessKey())
			assert.Equal(t, tt.secret, creds.AccessKeySecret())
		})
	}
}

func TestMissing(t *testing.T) {
	assert.Equal(t,
		[]string{account.EnvAccessKey, account.EnvAccessKeySecret},
		account.Missing("https://api.gong.io", "", " "),
	)
	assert.Empty(t, account.Missing("a", "b", "c"))
}

func TestCredentials_StringHidesSecrets(t *testing.T) {
	creds, err := account.NewCredentials("https://api.gong.io", "key-123", "secret-456")
	require.NoError(t, err)

	assert.NotContains(t, creds.String(), "key-123")
	assert.NotContains(t, creds.String(), "secret-456")
	assert.NotContains(t, creds.LogValue().String(), "secret-456")
	assert.ElementsMatch(t, []string{"key-123", "secret-456"}, creds.Secrets())

	var absent *account.Credentials
	assert.Equal(t, "<unconfigured>", absent.String())
	assert.Nil(t, absent.Secrets())
}
