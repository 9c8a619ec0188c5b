package websocket

import (
	"fmt"
	"sort"
	"strings"
)

// FeedEntities lists the entity names a client may subscribe to.
var FeedEntities = []EntityType{
	EntityTypeBudget,
	EntityTypeCategory,
	EntityTypeTransaction,
	EntityTypeMonthlySummary,
	EntityTypeSnapshot,
}

// ParseEntityType maps a feed name such as "monthly_summary" onto its
// EntityType. Matching ignores case and surrounding space.
func ParseEntityType(raw string) (EntityType, bool) {
	name := EntityType(strings.ToLower(strings.TrimSpace(raw)))
	for _, entity := range FeedEntities {
		if entity == name {
			return entity, true
		}
	}
	return "", false
}

// Subscription is the set of entities a client receives events for. The zero
// value receives every entity.
type Subscription struct {
	entities map[EntityType]bool
}

// NewSubscription returns a subscription limited to entities. No entities
// means all of them.
func NewSubscription(entities ...EntityType) Subscription {
	if len(entities) == 0 {
		return Subscription{}
	}
	set := make(map[EntityType]bool, len(entities))
	for _, entity := range entities {
		set[entity] = true
	}
	return Subscription{entities: set}
}

// ParseSubscription builds a subscription from feed names. Blank names are
// skipped and any unknown name fails the whole list.
func ParseSubscription(names []string) (Subscription, error) {
	var entities []EntityType
	var unknown []string
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		entity, ok := ParseEntityType(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		entities = append(entities, entity)
	}
	if len(unknown) > 0 {
		return Subscription{}, fmt.Errorf("unknown entities: %s", strings.Join(unknown, ", "))
	}
	return NewSubscription(entities...), nil
}

// Includes reports whether events about entity pass the subscription.
func (s Subscription) Includes(entity EntityType) bool {
	return s.entities == nil || s.entities[entity]
}

// Entities returns the subscribed entities in name order, or nil for all.
func (s Subscription) Entities() []EntityType {
	if s.entities == nil {
		return nil
	}
	out := make([]EntityType, 0, len(s.entities))
	for entity := range s.entities {
		out = append(out, entity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
