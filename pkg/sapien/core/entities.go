package core

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NoIndex is the key used for entities the service sent without an index.
const NoIndex = -1

// EntityIndex maps token index to the first entity seen at that index,
// keeping insertion order.
type EntityIndex struct {
	entries *orderedmap.OrderedMap[int, *Entity]
}

func NewEntityIndex() *EntityIndex {
	return &EntityIndex{entries: orderedmap.New[int, *Entity]()}
}

// Add records e unless an entity with the same index is already present.
// It reports whether e was stored.
func (x *EntityIndex) Add(e *Entity) bool {
	key := indexKey(e)
	if _, exists := x.entries.Get(key); exists {
		return false
	}
	x.entries.Set(key, e)
	return true
}

// Merge adds every entity of other, first-seen wins.
func (x *EntityIndex) Merge(other *EntityIndex) {
	for pair := other.entries.Oldest(); pair != nil; pair = pair.Next() {
		if _, exists := x.entries.Get(pair.Key); !exists {
			x.entries.Set(pair.Key, pair.Value)
		}
	}
}

func (x *EntityIndex) Get(index int) (*Entity, bool) {
	return x.entries.Get(index)
}

func (x *EntityIndex) Len() int {
	return x.entries.Len()
}

// Indexes returns the keys in insertion order.
func (x *EntityIndex) Indexes() []int {
	out := make([]int, 0, x.entries.Len())
	for pair := x.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Entities returns the values in insertion order.
func (x *EntityIndex) Entities() []*Entity {
	out := make([]*Entity, 0, x.entries.Len())
	for pair := x.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func indexKey(e *Entity) int {
	if e.Index == nil {
		return NoIndex
	}
	return *e.Index
}

// Entities collects the entities under r: its subject, then its object, then
// the object of each preposition, depth first. With nerOnly set, entities
// without concepts are skipped. Entities sharing an index keep the first one
// reached.
func (r *Relation) Entities(nerOnly bool) *EntityIndex {
	found := NewEntityIndex()
	if r == nil {
		return found
	}

	stack := []Node{r}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch v := n.(type) {
		case *Entity:
			if v == nil || (nerOnly && !v.HasNER()) {
				continue
			}
			found.Add(v)
		case *Relation:
			if v == nil {
				continue
			}
			// pushed in reverse so the subject is visited first
			for i := len(v.Prepositions) - 1; i >= 0; i-- {
				if p := v.Prepositions[i]; p != nil && p.Object != nil {
					stack = append(stack, p.Object)
				}
			}
			if v.Object != nil {
				stack = append(stack, v.Object)
			}
			if v.Subject != nil {
				stack = append(stack, v.Subject)
			}
		}
	}
	return found
}
