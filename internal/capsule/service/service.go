package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"timecapsule/internal/capsule/crypto"
	capsulemetrics "timecapsule/internal/capsule/metrics"
	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
	dErrors "timecapsule/pkg/domain-errors"
	"timecapsule/pkg/platform/audit"
	"timecapsule/pkg/platform/sentinel"
	"timecapsule/pkg/requestcontext"
)

// Version identifies this build of the service.
const Version = "Time Capsule v1.0 (Go)"

const tracerName = "timecapsule/internal/capsule/service"

type CapsuleStore interface {
	Create(ctx context.Context, owner id.IdentityKey, capsule models.Capsule) (uint64, error)
	ListByOwner(ctx context.Context, owner id.IdentityKey) ([]models.Capsule, error)
	FindByIndex(ctx context.Context, owner id.IdentityKey, index uint64) (*models.Capsule, error)
	MarkUnlocked(ctx context.Context, owner id.IdentityKey, index uint64) error
}

type GuardianRegistry interface {
	Add(ctx context.Context, owner id.IdentityKey, address string) (models.AddStatus, error)
	ListByOwner(ctx context.Context, owner id.IdentityKey) ([]string, error)
	IsGuardianOf(ctx context.Context, owner id.IdentityKey, candidate string) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns the capsule lifecycle (Sealed to Released) and the guardian
// emergency-release protocol.
type Service struct {
	capsules       CapsuleStore
	guardians      GuardianRegistry
	encryptor      crypto.Encryptor
	verifier       crypto.SignatureVerifier
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *capsulemetrics.Metrics
	tracer         trace.Tracer
	storeTx        StoreTx
	txTimeout      time.Duration
	devMode        bool
	tx             *ownerTx
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *capsulemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithStoreTx nests each owner-locked operation inside a store transaction.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.storeTx = tx
	}
}

func WithTxTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.txTimeout = d
	}
}

func WithSignatureVerifier(v crypto.SignatureVerifier) Option {
	return func(s *Service) {
		s.verifier = v
	}
}

// WithDevMode enables ForceUnlock.
func WithDevMode(enabled bool) Option {
	return func(s *Service) {
		s.devMode = enabled
	}
}

func New(capsules CapsuleStore, guardians GuardianRegistry, encryptor crypto.Encryptor, opts ...Option) (*Service, error) {
	if capsules == nil {
		return nil, errors.New("capsule store is required")
	}
	if guardians == nil {
		return nil, errors.New("guardian registry is required")
	}
	if encryptor == nil {
		return nil, errors.New("encryptor is required")
	}
	s := &Service{
		capsules:  capsules,
		guardians: guardians,
		encryptor: encryptor,
		verifier:  crypto.NewEd25519Verifier(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tx = newOwnerTx(s.storeTx, s.txTimeout)
	return s, nil
}

// Version returns the static version string.
func (s *Service) Version() string {
	return Version
}

// CreateCapsule seals plaintext for owner and appends it as a new Sealed capsule
// that becomes eligible delayDays after now.
func (s *Service) CreateCapsule(ctx context.Context, owner id.IdentityKey, plaintext string, delayDays uint32) (*models.CreateResult, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.CreateCapsule")
	defer span.End()
	defer s.observe("create_capsule", time.Now())

	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if plaintext == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "plaintext is required")
	}
	if len(plaintext) > models.MaxPlaintextBytes {
		return nil, dErrors.New(dErrors.CodeValidation, "plaintext exceeds 64 KiB")
	}
	if delayDays > models.MaxDelayDays {
		return nil, dErrors.New(dErrors.CodeValidation, "delay_days exceeds maximum")
	}

	now := s.now(ctx)
	sealed, err := s.encryptor.Seal(ctx, owner, plaintext)
	if err != nil {
		return nil, s.fail(span, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seal capsule"))
	}
	capsule := models.Capsule{
		EncryptedPayload: sealed,
		CreatedAt:        now,
		UnlockTime:       now.Add(time.Duration(delayDays) * 24 * time.Hour),
	}

	var index uint64
	err = s.tx.RunInTx(ctx, owner, func(ctx context.Context) error {
		var err error
		index, err = s.capsules.Create(ctx, owner, capsule)
		if err != nil {
			return wrapStoreErr(err, "failed to create capsule")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	span.SetAttributes(attribute.Int64("capsule.index", int64(index)), attribute.Int("capsule.delay_days", int(delayDays)))
	s.emit(ctx, audit.EventCapsuleCreated, audit.Event{OwnerID: owner, CapsuleIndex: &index})
	if s.metrics != nil {
		s.metrics.IncrementCapsuleCreated()
	}

	return &models.CreateResult{
		Index:      index,
		UnlockTime: capsule.UnlockTime,
		Message:    fmt.Sprintf("Encrypted time capsule created! Will unlock in %d days", delayDays),
	}, nil
}

// ListMyCapsules returns a snapshot of owner's capsules, ciphertext included.
func (s *Service) ListMyCapsules(ctx context.Context, owner id.IdentityKey) ([]models.Capsule, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	capsules, err := s.capsules.ListByOwner(ctx, owner)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list capsules")
	}
	return capsules, nil
}

// UnlockCapsule releases the capsule at index once its unlock time has passed.
// Before that it returns a NotReady result and leaves the capsule Sealed.
func (s *Service) UnlockCapsule(ctx context.Context, owner id.IdentityKey, index uint64) (*models.UnlockResult, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.UnlockCapsule", trace.WithAttributes(attribute.Int64("capsule.index", int64(index))))
	defer span.End()
	defer s.observe("unlock_capsule", time.Now())

	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	now := s.now(ctx)

	var result *models.UnlockResult
	err := s.tx.RunInTx(ctx, owner, func(ctx context.Context) error {
		capsule, err := s.capsules.FindByIndex(ctx, owner, index)
		if err != nil {
			return wrapStoreErr(err, "failed to load capsule")
		}
		if !capsule.IsEligible(now) {
			result = &models.UnlockResult{
				Status:     models.UnlockStatusNotReady,
				Index:      index,
				UnlockTime: capsule.UnlockTime,
				Message:    models.NotReadyMessage,
			}
			return nil
		}
		plaintext, err := s.release(ctx, owner, capsule)
		if err != nil {
			return err
		}
		result = &models.UnlockResult{
			Status:     models.UnlockStatusReleased,
			Index:      index,
			Plaintext:  plaintext,
			UnlockTime: capsule.UnlockTime,
			Message:    plaintext,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	if result.Status == models.UnlockStatusNotReady {
		s.emit(ctx, audit.EventCapsuleUnlockPremature, audit.Event{OwnerID: owner, CapsuleIndex: &index})
	} else {
		s.emit(ctx, audit.EventCapsuleUnlocked, audit.Event{OwnerID: owner, CapsuleIndex: &index})
	}
	s.countUnlock(result.Status)
	span.SetAttributes(attribute.String("capsule.unlock_status", string(result.Status)))
	return result, nil
}

// ForceUnlock releases a capsule regardless of its unlock time. It is only
// available in dev mode.
func (s *Service) ForceUnlock(ctx context.Context, owner id.IdentityKey, index uint64) (*models.UnlockResult, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.ForceUnlock", trace.WithAttributes(attribute.Int64("capsule.index", int64(index))))
	defer span.End()

	if !s.devMode {
		return nil, dErrors.New(dErrors.CodeForbidden, "force unlock is disabled")
	}
	if err := requireOwner(owner); err != nil {
		return nil, err
	}

	var result *models.UnlockResult
	err := s.tx.RunInTx(ctx, owner, func(ctx context.Context) error {
		capsule, err := s.capsules.FindByIndex(ctx, owner, index)
		if err != nil {
			return wrapStoreErr(err, "failed to load capsule")
		}
		plaintext, err := s.release(ctx, owner, capsule)
		if err != nil {
			return err
		}
		result = &models.UnlockResult{
			Status:     models.UnlockStatusForceReleased,
			Index:      index,
			Plaintext:  plaintext,
			UnlockTime: capsule.UnlockTime,
			Message:    "TEST UNLOCK: " + plaintext,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	s.emit(ctx, audit.EventCapsuleForceUnlocked, audit.Event{OwnerID: owner, CapsuleIndex: &index})
	s.countUnlock(result.Status)
	return result, nil
}

// AddGuardian registers address as a guardian under owner. Registering the
// same address twice reports AlreadyExists and changes nothing.
func (s *Service) AddGuardian(ctx context.Context, owner id.IdentityKey, address string) (*models.AddGuardianResult, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.AddGuardian")
	defer span.End()
	defer s.observe("add_guardian", time.Now())

	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "guardian_address is required")
	}
	if len(address) > models.MaxAddressLength {
		return nil, dErrors.New(dErrors.CodeValidation, "guardian_address is too long")
	}

	var status models.AddStatus
	err := s.tx.RunInTx(ctx, owner, func(ctx context.Context) error {
		var err error
		status, err = s.guardians.Add(ctx, owner, address)
		if err != nil {
			return wrapStoreErr(err, "failed to add guardian")
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}
	if s.metrics != nil {
		s.metrics.IncrementGuardianRegistration(string(status))
	}

	if status == models.AddStatusAlreadyExists {
		return &models.AddGuardianResult{Status: status, Message: "Guardian already exists!"}, nil
	}
	s.emit(ctx, audit.EventGuardianAdded, audit.Event{OwnerID: owner, ActorID: address})
	return &models.AddGuardianResult{
		Status:  status,
		Message: fmt.Sprintf("Guardian %s added successfully!", address),
	}, nil
}

// ListMyGuardians returns owner's guardians in registration order.
func (s *Service) ListMyGuardians(ctx context.Context, owner id.IdentityKey) ([]string, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	guardians, err := s.guardians.ListByOwner(ctx, owner)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list guardians")
	}
	return guardians, nil
}

// GuardianUnlockCapsule is the emergency bypass of the time gate.
//
// Authorization checks the registry entries written by the caller, looking
// for ownerAddress among them. The capsule is then located and decrypted in
// the owner's partition. The lookup direction is kept exactly as deployed
// because changing it changes who may release a capsule.
func (s *Service) GuardianUnlockCapsule(ctx context.Context, caller id.IdentityKey, ownerAddress string, index uint64) (*models.UnlockResult, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.GuardianUnlockCapsule", trace.WithAttributes(attribute.Int64("capsule.index", int64(index))))
	defer span.End()
	defer s.observe("guardian_unlock_capsule", time.Now())

	if err := requireOwner(caller); err != nil {
		return nil, err
	}
	owner, err := id.ParseIdentityKey(ownerAddress)
	if err != nil {
		return nil, s.fail(span, err)
	}

	authorized, err := s.guardians.IsGuardianOf(ctx, caller, ownerAddress)
	if err != nil {
		return nil, s.fail(span, wrapStoreErr(err, "failed to check guardian"))
	}
	if !authorized {
		s.emit(ctx, audit.EventGuardianUnlockDenied, audit.Event{
			OwnerID:      owner,
			ActorID:      caller.String(),
			CapsuleIndex: &index,
			Reason:       "caller is not a guardian for this address",
		})
		if s.metrics != nil {
			s.metrics.IncrementGuardianUnlockDenied()
		}
		return nil, s.fail(span, dErrors.New(dErrors.CodeForbidden, "Unauthorized: You are not a guardian for this address"))
	}

	var result *models.UnlockResult
	err = s.tx.RunInTx(ctx, owner, func(ctx context.Context) error {
		capsule, err := s.capsules.FindByIndex(ctx, owner, index)
		if err != nil {
			return wrapStoreErr(err, "failed to load capsule")
		}
		plaintext, err := s.release(ctx, owner, capsule)
		if err != nil {
			return err
		}
		result = &models.UnlockResult{
			Status:     models.UnlockStatusEmergencyReleased,
			Index:      index,
			Plaintext:  plaintext,
			UnlockTime: capsule.UnlockTime,
			Message:    "EMERGENCY UNLOCK by guardian: " + plaintext,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(span, err)
	}

	s.emit(ctx, audit.EventGuardianUnlocked, audit.Event{
		OwnerID:      owner,
		ActorID:      caller.String(),
		CapsuleIndex: &index,
	})
	s.countUnlock(result.Status)
	return result, nil
}

// VerifyOwnership checks signature over message against address.
func (s *Service) VerifyOwnership(ctx context.Context, caller id.IdentityKey, address, message, signature string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "capsule.VerifyOwnership")
	defer span.End()

	if err := requireOwner(caller); err != nil {
		return false, err
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return false, dErrors.New(dErrors.CodeInvalidAddress, "address is required")
	}
	verified, err := s.verifier.Verify(ctx, address, message, signature)
	if err != nil {
		if dErrors.GetCode(err) == dErrors.CodeInternal {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify signature")
		}
		return false, s.fail(span, err)
	}

	reason := "rejected"
	if verified {
		reason = "verified"
	}
	s.emit(ctx, audit.EventOwnershipVerified, audit.Event{OwnerID: caller, ActorID: address, Reason: reason})
	span.SetAttributes(attribute.Bool("ownership.verified", verified))
	return verified, nil
}

// release decrypts the capsule and marks it Released. Must run inside the
// owner's transaction.
func (s *Service) release(ctx context.Context, owner id.IdentityKey, capsule *models.Capsule) (string, error) {
	plaintext, err := s.encryptor.Open(ctx, owner, capsule.EncryptedPayload)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to open capsule")
	}
	if !capsule.IsUnlocked {
		if err := s.capsules.MarkUnlocked(ctx, owner, capsule.Index); err != nil {
			return "", wrapStoreErr(err, "failed to mark capsule unlocked")
		}
		capsule.Release()
	}
	return plaintext, nil
}

// now is the request time truncated to the second precision capsules are stored at.
func (s *Service) now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx).UTC().Truncate(time.Second)
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, event audit.Event) {
	event.Action = string(action)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)

	if s.logger != nil {
		args := []any{
			"event", string(action),
			"log_type", "audit",
			"owner_id", event.OwnerID.String(),
		}
		if event.CapsuleIndex != nil {
			args = append(args, "capsule_index", *event.CapsuleIndex)
		}
		if event.ActorID != "" {
			args = append(args, "actor_id", event.ActorID)
		}
		if event.RequestID != "" {
			args = append(args, "request_id", event.RequestID)
		}
		s.logger.InfoContext(ctx, string(action), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"event", string(action),
			"error", err,
		)
	}
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) countUnlock(status models.UnlockStatus) {
	if s.metrics != nil {
		s.metrics.IncrementUnlockOutcome(string(status))
	}
}

func (s *Service) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(dErrors.GetCode(err)))
	return err
}

func requireOwner(owner id.IdentityKey) error {
	if owner.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}
	return nil
}

// wrapStoreErr translates store sentinels into coded errors. Errors that are
// already coded (lock timeouts) pass through.
func wrapStoreErr(err error, msg string) error {
	var coded *dErrors.Error
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Capsule not found!")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "concurrent write conflict, retry")
	case errors.As(err, &coded):
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
