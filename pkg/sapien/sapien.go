// Package sapien groups the language endpoints of the API.
package sapien

import (
	"github.com/athapong/plasticity-go/pkg/plasticity"
	"github.com/athapong/plasticity-go/pkg/sapien/core"
	"github.com/athapong/plasticity-go/pkg/sapien/names"
	"github.com/athapong/plasticity-go/pkg/sapien/transform"
)

type Service struct {
	URL       string
	Core      *core.Endpoint
	Names     *names.Endpoint
	Transform *transform.Endpoint
}

// New builds the sapien service on top of client.
func New(client *plasticity.Client) *Service {
	return NewWithPoster(client, client.URL())
}

// NewWithPoster builds the service over any Poster, baseURL being the API
// root with a trailing slash.
func NewWithPoster(poster plasticity.Poster, baseURL string) *Service {
	url := baseURL + "sapien/"
	return &Service{
		URL:       url,
		Core:      core.NewEndpoint(poster, url),
		Names:     names.NewEndpoint(poster, url),
		Transform: transform.NewEndpoint(poster, url),
	}
}
