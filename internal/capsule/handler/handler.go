package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
	dErrors "timecapsule/pkg/domain-errors"
	"timecapsule/pkg/platform/audit"
	"timecapsule/pkg/platform/httputil"
	"timecapsule/pkg/requestcontext"
)

// Service defines the capsule operations exposed over HTTP.
type Service interface {
	Version() string
	CreateCapsule(ctx context.Context, owner id.IdentityKey, plaintext string, delayDays uint32) (*models.CreateResult, error)
	ListMyCapsules(ctx context.Context, owner id.IdentityKey) ([]models.Capsule, error)
	UnlockCapsule(ctx context.Context, owner id.IdentityKey, index uint64) (*models.UnlockResult, error)
	ForceUnlock(ctx context.Context, owner id.IdentityKey, index uint64) (*models.UnlockResult, error)
	AddGuardian(ctx context.Context, owner id.IdentityKey, address string) (*models.AddGuardianResult, error)
	ListMyGuardians(ctx context.Context, owner id.IdentityKey) ([]string, error)
	GuardianUnlockCapsule(ctx context.Context, caller id.IdentityKey, ownerAddress string, index uint64) (*models.UnlockResult, error)
	VerifyOwnership(ctx context.Context, caller id.IdentityKey, address, message, signature string) (bool, error)
}

// AuditLister reads back an owner's audit trail.
type AuditLister interface {
	List(ctx context.Context, ownerID id.IdentityKey) ([]audit.Event, error)
}

// Handler wires capsule endpoints to the capsule service.
type Handler struct {
	service Service
	logger  *slog.Logger
	devMode bool
}

// New constructs a capsule handler. devMode mounts the force-unlock route.
func New(service Service, logger *slog.Logger, devMode bool) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		devMode: devMode,
	}
}

// Register mounts the authenticated capsule endpoints. The caller identity
// must already be in the request context.
func (h *Handler) Register(r chi.Router) {
	r.Post("/capsules", h.HandleCreateCapsule)
	r.Get("/capsules", h.HandleListCapsules)
	r.Post("/capsules/{index}/unlock", h.HandleUnlockCapsule)
	r.Post("/guardians", h.HandleAddGuardian)
	r.Get("/guardians", h.HandleListGuardians)
	r.Post("/guardians/unlock", h.HandleGuardianUnlock)
	r.Post("/ownership/verify", h.HandleVerifyOwnership)
	if h.devMode {
		r.Post("/capsules/{index}/force-unlock", h.HandleForceUnlock)
	}
}

// RegisterPublic mounts endpoints that need no caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/version", h.HandleVersion)
}

// HandleCreateCapsule handles POST /capsules.
func (h *Handler) HandleCreateCapsule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.CreateCapsuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.CreateCapsule(ctx, owner, req.Plaintext, uint32(*req.DelayDays))
	if err != nil {
		h.logFailure(ctx, "create capsule failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.CreateCapsuleResponse{
		Index:      result.Index,
		Message:    result.Message,
		UnlockTime: result.UnlockTime.UTC(),
	})
}

// HandleListCapsules handles GET /capsules.
func (h *Handler) HandleListCapsules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	capsules, err := h.service.ListMyCapsules(ctx, owner)
	if err != nil {
		h.logFailure(ctx, "list capsules failed", err)
		httputil.WriteError(w, err)
		return
	}

	resp := models.ListCapsulesResponse{Capsules: make([]models.CapsuleResponse, 0, len(capsules))}
	for _, c := range capsules {
		resp.Capsules = append(resp.Capsules, models.ToCapsuleResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleUnlockCapsule handles POST /capsules/{index}/unlock. A capsule that
// is not yet eligible is a normal 200 with status not_ready.
func (h *Handler) HandleUnlockCapsule(w http.ResponseWriter, r *http.Request) {
	h.handleUnlock(w, r, "unlock capsule failed", h.service.UnlockCapsule)
}

// HandleForceUnlock handles POST /capsules/{index}/force-unlock.
func (h *Handler) HandleForceUnlock(w http.ResponseWriter, r *http.Request) {
	h.handleUnlock(w, r, "force unlock failed", h.service.ForceUnlock)
}

func (h *Handler) handleUnlock(
	w http.ResponseWriter,
	r *http.Request,
	failure string,
	unlock func(context.Context, id.IdentityKey, uint64) (*models.UnlockResult, error),
) {
	ctx := r.Context()
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := unlock(ctx, owner, index)
	if err != nil {
		h.logFailure(ctx, failure, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToUnlockResponse(result))
}

// HandleAddGuardian handles POST /guardians. A newly registered guardian is
// 201; a duplicate is 200 with status already_exists.
func (h *Handler) HandleAddGuardian(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.AddGuardianRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.AddGuardian(ctx, owner, req.GuardianAddress)
	if err != nil {
		h.logFailure(ctx, "add guardian failed", err)
		httputil.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if result.Status == models.AddStatusAdded {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, models.AddGuardianResponse{Status: result.Status, Message: result.Message})
}

// HandleListGuardians handles GET /guardians.
func (h *Handler) HandleListGuardians(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	guardians, err := h.service.ListMyGuardians(ctx, owner)
	if err != nil {
		h.logFailure(ctx, "list guardians failed", err)
		httputil.WriteError(w, err)
		return
	}
	if guardians == nil {
		guardians = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, models.ListGuardiansResponse{Guardians: guardians})
}

// HandleGuardianUnlock handles POST /guardians/unlock.
func (h *Handler) HandleGuardianUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.GuardianUnlockRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.GuardianUnlockCapsule(ctx, caller, req.OwnerAddress, *req.Index)
	if err != nil {
		h.logFailure(ctx, "guardian unlock failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.ToUnlockResponse(result))
}

// HandleVerifyOwnership handles POST /ownership/verify.
func (h *Handler) HandleVerifyOwnership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.VerifyOwnershipRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	verified, err := h.service.VerifyOwnership(ctx, caller, req.Address, req.Message, req.Signature)
	if err != nil {
		h.logFailure(ctx, "verify ownership failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.VerifyOwnershipResponse{Verified: verified})
}

// HandleVersion handles GET /version.
func (h *Handler) HandleVersion(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, models.VersionResponse{Version: h.service.Version()})
}

func (h *Handler) requireIdentity(w http.ResponseWriter, r *http.Request) (id.IdentityKey, bool) {
	caller := requestcontext.Identity(r.Context())
	if caller.IsNil() {
		h.logger.ErrorContext(r.Context(), "identity missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.IdentityKey{}, false
	}
	return caller, true
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error_code", string(dErrors.GetCode(err)),
		"error", err,
	}
	if httputil.StatusFor(dErrors.GetCode(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}

func parseIndex(raw string) (uint64, error) {
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "index must be a non-negative integer")
	}
	return index, nil
}
