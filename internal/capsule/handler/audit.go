package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timecapsule/internal/capsule/models"
	id "timecapsule/pkg/domain"
	"timecapsule/pkg/platform/httputil"
	"timecapsule/pkg/requestcontext"
)

// AuditHandler exposes the audit trail to operators. Mount it behind
// admin.RequireAdminToken.
type AuditHandler struct {
	lister AuditLister
	logger *slog.Logger
}

func NewAuditHandler(lister AuditLister, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{lister: lister, logger: logger}
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Get("/admin/audit/{owner}", h.HandleListAudit)
}

// HandleListAudit handles GET /admin/audit/{owner}.
func (h *AuditHandler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, err := id.ParseIdentityKey(chi.URLParam(r, "owner"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.lister.List(ctx, owner)
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit events failed",
			"request_id", requestcontext.RequestID(ctx),
			"owner_id", owner.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := models.ListAuditEventsResponse{
		OwnerID: owner.String(),
		Events:  make([]models.AuditEventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, models.AuditEventResponse{
			Category:     string(e.Category),
			Timestamp:    e.Timestamp.UTC(),
			Action:       e.Action,
			ActorID:      e.ActorID,
			CapsuleIndex: e.CapsuleIndex,
			Reason:       e.Reason,
			RequestID:    e.RequestID,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
