package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	url  string
	body map[string]interface{}
	resp []byte
	err  error
}

func (p *recordingPoster) Post(_ context.Context, url string, body interface{}) ([]byte, error) {
	p.url = url
	raw, _ := json.Marshal(body)
	_ = json.Unmarshal(raw, &p.body)
	return p.resp, p.err
}

func TestEndpoint_PostSendsFlags(t *testing.T) {
	p := &recordingPoster{resp: []byte(`{"data":[` + catsSentence + `]}`)}
	e := NewEndpoint(p, "https://api.example.com/sapien/")

	resp, err := e.Post(context.Background(), "Cats run.", Flags{Graph: true})
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/sapien/core/", p.url)
	assert.Equal(t, map[string]interface{}{
		"text":   "Cats run.",
		"graph":  true,
		"ner":    false,
		"pretty": false,
	}, p.body)
	assert.Equal(t, Flags{Graph: true}, resp.Flags)
	assert.Equal(t, []string{"Cats", "run"}, resp.Tokenize().Flat)
}

func TestEndpoint_PostReturnsTransportErrors(t *testing.T) {
	boom := errors.New("boom")
	e := NewEndpoint(&recordingPoster{err: boom}, "https://api.example.com/sapien/")

	resp, err := e.Post(context.Background(), "x", DefaultFlags())
	assert.Nil(t, resp)
	assert.Equal(t, boom, err)
}
