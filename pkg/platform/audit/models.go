package audit

import (
	"context"
	"time"

	id "timecapsule/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that change who can read a secret:
	// capsule creation, releases and guardian delegation.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring,
	// most importantly refused emergency releases and time-gate bypasses.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine activity that can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// OwnerID is the identity whose capsule partition the event concerns.
	OwnerID id.IdentityKey
	// ActorID is the caller when it differs from the owner (guardian releases).
	ActorID      string
	Action       string
	CapsuleIndex *uint64
	Reason       string
	RequestID    string
	ClientIP     string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by stores that can read events back.
type Lister interface {
	ListByOwner(ctx context.Context, ownerID id.IdentityKey) ([]Event, error)
}

type AuditEvent string

const (
	// Capsule events
	EventCapsuleCreated         AuditEvent = "capsule_created"
	EventCapsuleUnlocked        AuditEvent = "capsule_unlocked"
	EventCapsuleUnlockPremature AuditEvent = "capsule_unlock_premature"
	EventCapsuleForceUnlocked   AuditEvent = "capsule_force_unlocked"

	// Guardian events
	EventGuardianAdded        AuditEvent = "guardian_added"
	EventGuardianUnlocked     AuditEvent = "guardian_unlocked"
	EventGuardianUnlockDenied AuditEvent = "guardian_unlock_denied"

	// Ownership events
	EventOwnershipVerified AuditEvent = "ownership_verified"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventCapsuleCreated:   CategoryCompliance,
	EventCapsuleUnlocked:  CategoryCompliance,
	EventGuardianAdded:    CategoryCompliance,
	EventGuardianUnlocked: CategoryCompliance,

	EventGuardianUnlockDenied: CategorySecurity,
	EventCapsuleForceUnlocked: CategorySecurity,
	EventOwnershipVerified:    CategorySecurity,

	EventCapsuleUnlockPremature: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
