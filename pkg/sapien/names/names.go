// Package names classifies personal names through the sapien names API.
package names

import (
	"context"

	"github.com/athapong/plasticity-go/pkg/keypath"
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/tidwall/gjson"
)

// Certain is the only confidence level the classifiers accept.
const Certain = "Certain"

type request struct {
	Name   string `json:"name"`
	Pretty bool   `json:"pretty"`
}

// Response is a names lookup result. Data holds one
// {"value": bool, "confidence": string} object per classification.
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

func (r *Response) certain(field string) bool {
	value := keypath.BoolOr(keypath.Get(r.Data, field, "value"), false)
	confidence := keypath.Get(r.Data, field, "confidence")
	return value && confidence.Type == gjson.String && confidence.Str == Certain
}

func (r *Response) IsMaleName() bool {
	return r.certain("isMaleName")
}

func (r *Response) IsFemaleName() bool {
	return r.certain("isFemaleName")
}

// IsFirstName reports whether the name is certainly male or certainly female.
func (r *Response) IsFirstName() bool {
	return r.IsMaleName() || r.IsFemaleName()
}

func (r *Response) IsFamilyName() bool {
	return r.certain("isFamilyName")
}

func (r *Response) IsName() bool {
	return r.certain("isName")
}

// Endpoint posts names to the names API.
type Endpoint struct {
	poster plasticity.Poster
	url    string
}

func NewEndpoint(poster plasticity.Poster, serviceURL string) *Endpoint {
	return &Endpoint{poster: poster, url: serviceURL + "names/"}
}

func (e *Endpoint) URL() string {
	return e.url
}

func (e *Endpoint) Post(ctx context.Context, name string, pretty bool) (*Response, error) {
	raw, err := e.poster.Post(ctx, e.url, request{Name: name, Pretty: pretty})
	if err != nil {
		return nil, err
	}
	return Decode(raw)
}

func (e *Endpoint) classify(ctx context.Context, name string, check func(*Response) bool) (bool, error) {
	resp, err := e.Post(ctx, name, false)
	if err != nil {
		return false, err
	}
	if err := resp.Err(); err != nil {
		return false, err
	}
	return check(resp), nil
}

func (e *Endpoint) IsMaleName(ctx context.Context, name string) (bool, error) {
	return e.classify(ctx, name, (*Response).IsMaleName)
}

func (e *Endpoint) IsFemaleName(ctx context.Context, name string) (bool, error) {
	return e.classify(ctx, name, (*Response).IsFemaleName)
}

func (e *Endpoint) IsFirstName(ctx context.Context, name string) (bool, error) {
	return e.classify(ctx, name, (*Response).IsFirstName)
}

func (e *Endpoint) IsFamilyName(ctx context.Context, name string) (bool, error) {
	return e.classify(ctx, name, (*Response).IsFamilyName)
}

func (e *Endpoint) IsName(ctx context.Context, name string) (bool, error) {
	return e.classify(ctx, name, (*Response).IsName)
}
