// Package cortex groups the knowledge endpoints of the API.
package cortex

import (
	"github.com/athapong/plasticity-go/pkg/cortex/category"
	"github.com/athapong/plasticity-go/pkg/sapien"
)

type Service struct {
	Category *category.Endpoint
}

// New builds the cortex service. Category relies on the names endpoint of s.
func New(s *sapien.Service) *Service {
	return &Service{Category: category.NewEndpoint(s.Names)}
}
