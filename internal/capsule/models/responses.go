package models

import "time"

type CreateCapsuleResponse struct {
	Index      uint64    `json:"index"`
	Message    string    `json:"message"`
	UnlockTime time.Time `json:"unlock_time"`
}

type CapsuleResponse struct {
	Index            uint64    `json:"index"`
	EncryptedPayload string    `json:"encrypted_payload"`
	UnlockTime       time.Time `json:"unlock_time"`
	CreatedAt        time.Time `json:"created_at"`
	IsUnlocked       bool      `json:"is_unlocked"`
	State            State     `json:"state"`
}

type ListCapsulesResponse struct {
	Capsules []CapsuleResponse `json:"capsules"`
}

type UnlockResponse struct {
	Status     UnlockStatus `json:"status"`
	Index      uint64       `json:"index"`
	Message    string       `json:"message"`
	Plaintext  string       `json:"plaintext,omitempty"`
	UnlockTime time.Time    `json:"unlock_time"`
}

type AddGuardianResponse struct {
	Status  AddStatus `json:"status"`
	Message string    `json:"message"`
}

type ListGuardiansResponse struct {
	Guardians []string `json:"guardians"`
}

type VerifyOwnershipResponse struct {
	Verified bool `json:"verified"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

func ToCapsuleResponse(c Capsule) CapsuleResponse {
	return CapsuleResponse{
		Index:            c.Index,
		EncryptedPayload: c.EncryptedPayload,
		UnlockTime:       c.UnlockTime.UTC(),
		CreatedAt:        c.CreatedAt.UTC(),
		IsUnlocked:       c.IsUnlocked,
		State:            c.State(),
	}
}

func ToUnlockResponse(r *UnlockResult) UnlockResponse {
	return UnlockResponse{
		Status:     r.Status,
		Index:      r.Index,
		Message:    r.Message,
		Plaintext:  r.Plaintext,
		UnlockTime: r.UnlockTime.UTC(),
	}
}

type AuditEventResponse struct {
	Category     string    `json:"category"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	ActorID      string    `json:"actor_id,omitempty"`
	CapsuleIndex *uint64   `json:"capsule_index,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
}

type ListAuditEventsResponse struct {
	OwnerID string               `json:"owner_id"`
	Events  []AuditEventResponse `json:"events"`
}
