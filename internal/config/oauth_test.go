package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOAuthClient() *OAuthClient {
	return &OAuthClient{
		ClientID:                "test-client-id.apps.googleusercontent.com",
		ProjectID:               "test-project",
		AuthURI:                 "https://accounts.google.com/o/oauth2/auth",
		TokenURI:                "https://oauth2.googleapis.com/token",
		AuthProviderX509CertURL: "https://www.googleapis.com/oauth2/v1/certs",
		ClientSecret:            "test-secret",
		RedirectURIs:            []string{"http://localhost"},
	}
}

func TestValidateOAuthClient_Installed(t *testing.T) {
	cfg := &OAuthClientConfig{Installed: validOAuthClient()}
	assert.NoError(t, ValidateOAuthClient(cfg))
	assert.Equal(t, "test-secret", cfg.Client().ClientSecret)
}

func TestValidateOAuthClient_Web(t *testing.T) {
	cfg := &OAuthClientConfig{Web: validOAuthClient()}
	assert.NoError(t, ValidateOAuthClient(cfg))
	assert.Same(t, cfg.Web, cfg.Client())
}

func TestValidateOAuthClient_NeitherOrBoth(t *testing.T) {
	err := ValidateOAuthClient(&OAuthClientConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")

	err = ValidateOAuthClient(&OAuthClientConfig{Installed: validOAuthClient(), Web: validOAuthClient()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestValidateOAuthClient_MissingClientID(t *testing.T) {
	client := validOAuthClient()
	client.ClientID = ""

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_InvalidURL(t *testing.T) {
	client := validOAuthClient()
	client.AuthURI = "not-a-valid-url"

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateOAuthClient_EmptyRedirectURIs(t *testing.T) {
	client := validOAuthClient()
	client.RedirectURIs = []string{}

	err := ValidateOAuthClient(&OAuthClientConfig{Installed: client})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadOAuthClientFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oauthClient.test.json")
	content := `{
		"installed": {
			"client_id": "test-client-id.apps.googleusercontent.com",
			"project_id": "test-project",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": "https://oauth2.googleapis.com/token",
			"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
			"client_secret": "test-secret",
			"redirect_uris": ["http://localhost"]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Installed)
	assert.Equal(t, "test-project", cfg.Installed.ProjectID)
}

func TestLoadOAuthClientFromPath_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadOAuthClientFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oauth client file")
}

func TestLoadOAuthClientWithEnv_NotFound(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	_, err := LoadOAuthClientWithEnv("prod")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauthClient.prod.json not found")
}
