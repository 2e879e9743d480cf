package security

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSLDisabled(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		disabled bool
	}{
		{name: "unset", set: false, disabled: false},
		{name: "empty", value: "", set: true, disabled: false},
		{name: "false", value: "false", set: true, disabled: false},
		{name: "true", value: "true", set: true, disabled: true},
		{name: "true mixed case", value: "True", set: true, disabled: true},
		{name: "other value", value: "1", set: true, disabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv(DisableSSLEnv, tt.value)
			} else {
				// Register the restore, then clear for the genuinely-unset case.
				t.Setenv(DisableSSLEnv, "")
				require.NoError(t, os.Unsetenv(DisableSSLEnv))
			}
			assert.Equal(t, tt.disabled, SSLDisabled())
		})
	}
}

func TestTLSConfig(t *testing.T) {
	t.Setenv(DisableSSLEnv, "")
	assert.False(t, TLSConfig().InsecureSkipVerify)

	t.Setenv(DisableSSLEnv, "true")
	assert.True(t, TLSConfig().InsecureSkipVerify)
}

func TestHTTPClient_SelfSignedServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv(DisableSSLEnv, "")
	resp, err := HTTPClient().Get(srv.URL)
	if err == nil {
		resp.Body.Close()
	}
	assert.Error(t, err, "self-signed cert should be rejected by default")

	t.Setenv(DisableSSLEnv, "true")
	resp, err = HTTPClient().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPClient_DefaultTransport(t *testing.T) {
	t.Setenv(DisableSSLEnv, "")
	c := HTTPClient()
	assert.Nil(t, c.Transport)

	t.Setenv(DisableSSLEnv, "true")
	c = HTTPClient()
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.TLSClientConfig)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
}
