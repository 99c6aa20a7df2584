package models

import (
	"time"

	id "timecapsule/pkg/domain"
)

// State is the lifecycle position of a capsule. The only transition is
// Sealed to Released; Released is terminal.
type State string

const (
	StateSealed   State = "sealed"
	StateReleased State = "released"
)

// Capsule is a sealed, time-gated secret owned by exactly one identity.
// The plaintext is never stored; EncryptedPayload is opaque outside the Encryptor.
type Capsule struct {
	Owner            id.IdentityKey
	Index            uint64
	EncryptedPayload string
	UnlockTime       time.Time
	CreatedAt        time.Time
	IsUnlocked       bool
}

func (c *Capsule) State() State {
	if c.IsUnlocked {
		return StateReleased
	}
	return StateSealed
}

// IsEligible reports whether the time gate is open at now.
func (c *Capsule) IsEligible(now time.Time) bool {
	return !now.Before(c.UnlockTime)
}

// Release marks the capsule unlocked. It is a no-op on a released capsule.
func (c *Capsule) Release() {
	c.IsUnlocked = true
}

// UnlockStatus distinguishes the non-error outcomes of an unlock attempt.
type UnlockStatus string

const (
	UnlockStatusReleased          UnlockStatus = "released"
	UnlockStatusNotReady          UnlockStatus = "not_ready"
	UnlockStatusEmergencyReleased UnlockStatus = "emergency_released"
	UnlockStatusForceReleased     UnlockStatus = "force_released"
)

// NotReadyMessage is returned when the time gate has not yet opened.
const NotReadyMessage = "Capsule not ready to unlock yet!"

type UnlockResult struct {
	Status     UnlockStatus
	Index      uint64
	Plaintext  string
	UnlockTime time.Time
	Message    string
}

type CreateResult struct {
	Index      uint64
	UnlockTime time.Time
	Message    string
}

// AddStatus is the outcome of a guardian registration. A duplicate is a
// distinguishable success, not an error.
type AddStatus string

const (
	AddStatusAdded         AddStatus = "added"
	AddStatusAlreadyExists AddStatus = "already_exists"
)

type AddGuardianResult struct {
	Status  AddStatus
	Message string
}
