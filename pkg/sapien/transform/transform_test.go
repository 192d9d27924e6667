package transform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEndpoint(t *testing.T, handler http.HandlerFunc) *Endpoint {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := plasticity.NewClient(plasticity.Config{URL: srv.URL})
	return NewEndpoint(client, client.URL()+"sapien/")
}

func TestEndpoint_Apply(t *testing.T) {
	var got map[string]interface{}
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sapien/transform/", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data": "ate", "error": false}`))
	})

	out, err := e.Apply(context.Background(), "eating", VerbPast)
	require.NoError(t, err)
	assert.Equal(t, "ate", out)
	assert.Equal(t, map[string]interface{}{"word": "eating", "action": "VerbPast", "pretty": false}, got)
}

func TestEndpoint_ApplyRejectsNonStringData(t *testing.T) {
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": ["leaves"]}`))
	})

	_, err := e.Apply(context.Background(), "leaf", NounPlural)
	assert.True(t, errors.Is(err, plasticity.ErrMalformedPayload))
}

func TestEndpoint_ApplyServiceError(t *testing.T) {
	e := newEndpoint(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": true, "errorCode": 400, "message": "unknown action"}`))
	})

	_, err := e.Apply(context.Background(), "leaf", Action("Nonsense"))
	var se *plasticity.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "unknown action", se.Message)
}
