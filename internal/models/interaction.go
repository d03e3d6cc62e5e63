package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InteractionType is the closed set of tracked user actions.
type InteractionType string

const (
	InteractionSearch    InteractionType = "search"
	InteractionView      InteractionType = "view"
	InteractionClick     InteractionType = "click"
	InteractionTimeSpend InteractionType = "time_spend"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionSearch, InteractionView, InteractionClick, InteractionTimeSpend:
		return true
	}
	return false
}

// Interaction is one deduplicated user-interaction record. Repeated events
// with the same (sessionId, interactionType, productId, searchQuery) tuple
// are collapsed into a single record whose Count is incremented; for
// time_spend events the duration accumulates across merges.
type Interaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SessionID   string             `bson:"sessionId" json:"sessionId"`
	Type        InteractionType    `bson:"interactionType" json:"interactionType"`
	ProductID   string             `bson:"productId,omitempty" json:"productId,omitempty"`
	SearchQuery string             `bson:"searchQuery,omitempty" json:"searchQuery,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"` // last time the tuple was seen
	Count       int64              `bson:"count" json:"count"`
	TimeSpend   float64            `bson:"time_spend,omitempty" json:"time_spend,omitempty"` // seconds, time_spend only
}
