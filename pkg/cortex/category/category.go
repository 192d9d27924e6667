// Package category assigns a coarse category to a decoded entity.
package category

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/athapong/plasticity-go/pkg/sapien/core"
)

type Category string

const (
	None   Category = ""
	Person Category = "Person"
	Place  Category = "Place"
	Thing  Category = "Thing"
)

// places is the fixed room vocabulary recognised as Place.
var places = mapset.NewThreadUnsafeSet("hallway", "bedroom", "bathroom", "kitchen", "office", "garden")

// FirstNameClassifier is satisfied by *names.Endpoint.
type FirstNameClassifier interface {
	IsFirstName(ctx context.Context, name string) (bool, error)
}

type Endpoint struct {
	names FirstNameClassifier
}

func NewEndpoint(names FirstNameClassifier) *Endpoint {
	return &Endpoint{names: names}
}

// OfEntity returns Person for proper nouns that are certainly first names,
// Place for known rooms and Thing otherwise. An entity without text has no
// category.
func (e *Endpoint) OfEntity(ctx context.Context, entity *core.Entity) (Category, error) {
	if entity == nil || entity.Text == nil || *entity.Text == "" {
		return None, nil
	}
	text := *entity.Text

	if entity.ProperNoun != nil && *entity.ProperNoun {
		first, err := e.names.IsFirstName(ctx, text)
		if err != nil {
			return None, err
		}
		if first {
			return Person, nil
		}
	}
	if places.Contains(text) {
		return Place, nil
	}
	return Thing, nil
}
