package domain

import "time"

type EntityAction string

const (
	ActionCreated EntityAction = "created"
	ActionUpdated EntityAction = "updated"
	ActionDeleted EntityAction = "deleted"
)

// EntityEvent is published after a mutating operation commits.
type EntityEvent struct {
	Kind       Kind         `json:"kind"`
	Action     EntityAction `json:"action"`
	ID         uint64       `json:"id"`
	Entity     any          `json:"entity,omitempty"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// RoutingKey is the topic the event is published under, e.g. "order.created".
func (e EntityEvent) RoutingKey() string {
	return string(e.Kind) + "." + string(e.Action)
}
