package resendclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rc := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	rc.BaseURL = base

	return NewClientWithResend(context.Background(), rc, "Cup Volunteers <volunteers@example.com>")
}

func TestSendEmail(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	})

	require.NoError(t, client.SendEmail("organiser@example.com", "Roster", "  1. Alex Kim"))

	assert.Equal(t, "Cup Volunteers <volunteers@example.com>", got["from"])
	assert.Equal(t, []any{"organiser@example.com"}, got["to"])
	assert.Equal(t, "Roster", got["subject"])
	assert.Equal(t, "  1. Alex Kim", got["text"])
}

func TestSendEmail_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	})

	err := client.SendEmail("organiser@example.com", "Roster", "body")
	assert.ErrorContains(t, err, "resend send failed")
}
