// Package transform inflects single words through the sapien transform API.
package transform

import (
	"context"

	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Action names an inflection the service knows. The list is open; any value
// the API accepts may be used.
type Action string

const (
	NounPlural   Action = "NounPlural"
	NounSingular Action = "NounSingular"
	VerbPast     Action = "VerbPast"
	VerbPresent  Action = "VerbPresent"
	VerbGerund   Action = "VerbGerund"
)

type request struct {
	Word   string `json:"word"`
	Action Action `json:"action"`
	Pretty bool   `json:"pretty"`
}

type Response struct {
	plasticity.Response
}

func Decode(raw []byte) (*Response, error) {
	base, err := plasticity.DecodeResponse(raw)
	if err != nil {
		return nil, err
	}
	return &Response{Response: base}, nil
}

// Word returns the transformed word, or false when data is not a string.
func (r *Response) Word() (string, bool) {
	if r.Data.Type != gjson.String {
		return "", false
	}
	return r.Data.Str, true
}

type Endpoint struct {
	poster plasticity.Poster
	url    string
}

func NewEndpoint(poster plasticity.Poster, serviceURL string) *Endpoint {
	return &Endpoint{poster: poster, url: serviceURL + "transform/"}
}

func (e *Endpoint) URL() string {
	return e.url
}

func (e *Endpoint) Post(ctx context.Context, word string, action Action, pretty bool) (*Response, error) {
	raw, err := e.poster.Post(ctx, e.url, request{Word: word, Action: action, Pretty: pretty})
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

// Apply transforms word and returns the result directly.
func (e *Endpoint) Apply(ctx context.Context, word string, action Action) (string, error) {
	resp, err := e.Post(ctx, word, action, false)
	if err != nil {
		return "", err
	}
	if err := resp.Err(); err != nil {
		return "", err
	}
	out, ok := resp.Word()
	if !ok {
		return "", errors.Wrapf(plasticity.ErrMalformedPayload, "transform %q: data is not a string", word)
	}
	return out, nil
}
