package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/enums"
)

// ActorRef identifies the person whose workflow action produced the event.
type ActorRef struct {
	PersonID       uuid.UUID  `json:"personId"`
	OrganizationID *uuid.UUID `json:"organizationId,omitempty"`
	Role           string     `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events and
// published as the Pub/Sub message body. The aggregate fields repeat the row
// columns so subscribers can route without reading message attributes.
type PayloadEnvelope struct {
	Version       int                       `json:"version"`
	EventID       string                    `json:"eventId"`
	EventType     enums.OutboxEventType     `json:"eventType,omitempty"`
	AggregateType enums.OutboxAggregateType `json:"aggregateType,omitempty"`
	AggregateID   *uuid.UUID                `json:"aggregateId,omitempty"`
	OccurredAt    time.Time                 `json:"occurredAt"`
	Actor         *ActorRef                 `json:"actor,omitempty"`
	Data          json.RawMessage           `json:"data"`
}
