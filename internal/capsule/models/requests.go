package models

import (
	"strings"

	dErrors "timecapsule/pkg/domain-errors"
)

const (
	// MaxPlaintextBytes bounds a single capsule payload.
	MaxPlaintextBytes = 64 * 1024
	// MaxDelayDays keeps unlock times representable and meaningful (about 100 years).
	MaxDelayDays = 36500
	// MaxAddressLength bounds guardian and owner address inputs.
	MaxAddressLength = 256
)

type CreateCapsuleRequest struct {
	Plaintext string `json:"plaintext"`
	DelayDays *int64 `json:"delay_days"`
}

func (r *CreateCapsuleRequest) Validate() error {
	if r.Plaintext == "" {
		return dErrors.New(dErrors.CodeValidation, "plaintext is required")
	}
	if len(r.Plaintext) > MaxPlaintextBytes {
		return dErrors.New(dErrors.CodeValidation, "plaintext exceeds 64 KiB")
	}
	if r.DelayDays == nil {
		return dErrors.New(dErrors.CodeValidation, "delay_days is required")
	}
	if *r.DelayDays < 0 {
		return dErrors.New(dErrors.CodeValidation, "delay_days must be non-negative")
	}
	if *r.DelayDays > MaxDelayDays {
		return dErrors.New(dErrors.CodeValidation, "delay_days exceeds maximum")
	}
	return nil
}

type AddGuardianRequest struct {
	GuardianAddress string `json:"guardian_address"`
}

func (r *AddGuardianRequest) Normalize() {
	r.GuardianAddress = strings.TrimSpace(r.GuardianAddress)
}

func (r *AddGuardianRequest) Validate() error {
	if r.GuardianAddress == "" {
		return dErrors.New(dErrors.CodeValidation, "guardian_address is required")
	}
	if len(r.GuardianAddress) > MaxAddressLength {
		return dErrors.New(dErrors.CodeValidation, "guardian_address is too long")
	}
	return nil
}

type GuardianUnlockRequest struct {
	OwnerAddress string  `json:"owner_address"`
	Index        *uint64 `json:"index"`
}

func (r *GuardianUnlockRequest) Normalize() {
	r.OwnerAddress = strings.TrimSpace(r.OwnerAddress)
}

func (r *GuardianUnlockRequest) Validate() error {
	if r.OwnerAddress == "" {
		return dErrors.New(dErrors.CodeInvalidAddress, "owner_address is required")
	}
	if r.Index == nil {
		return dErrors.New(dErrors.CodeValidation, "index is required")
	}
	return nil
}

type VerifyOwnershipRequest struct {
	Address   string `json:"address"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (r *VerifyOwnershipRequest) Normalize() {
	r.Address = strings.TrimSpace(r.Address)
	r.Signature = strings.TrimSpace(r.Signature)
}

func (r *VerifyOwnershipRequest) Validate() error {
	if r.Address == "" {
		return dErrors.New(dErrors.CodeValidation, "address is required")
	}
	if r.Signature == "" {
		return dErrors.New(dErrors.CodeValidation, "signature is required")
	}
	return nil
}
