package core

import (
	"context"

	"github.com/athapong/plasticity-go/pkg/plasticity"
)

type request struct {
	Text string `json:"text"`
	Flags
}

// Endpoint posts text to the core analysis API.
type Endpoint struct {
	poster plasticity.Poster
	url    string
}

// NewEndpoint creates the core endpoint below the sapien service URL.
func NewEndpoint(poster plasticity.Poster, serviceURL string) *Endpoint {
	return &Endpoint{poster: poster, url: serviceURL + "core/"}
}

func (e *Endpoint) URL() string {
	return e.url
}

// Post analyses text. Transport errors are returned as is; a service-side
// failure comes back as a Response with Error set.
func (e *Endpoint) Post(ctx context.Context, text string, flags Flags) (*Response, error) {
	raw, err := e.poster.Post(ctx, e.url, request{Text: text, Flags: flags})
	if err != nil {
		return nil, err
	}
	return Decode(raw, flags)
}
