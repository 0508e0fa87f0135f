package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"topicwheel/internal/domain"
	"topicwheel/internal/moderation"
)

type moderationService interface {
	ListSubmissions(ctx context.Context, actor string, status domain.SubmissionStatus) ([]*domain.Submission, error)
	ListUsers(ctx context.Context, actor string) ([]moderation.UserRow, error)
	Approve(ctx context.Context, actor, id string, input moderation.ApproveInput) (*moderation.Decision, error)
	Reject(ctx context.Context, actor, id, comment string) (*moderation.Decision, error)
}

// AdminHandler serves the moderation endpoints under /api/admin.
type AdminHandler struct {
	svc moderationService
	log *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc moderationService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc: svc,
		log: logger.With("handler", "admin"),
	}
}

type adminUserResp struct {
	*domain.User
	Phase    domain.Phase `json:"phase"`
	DaysLeft *int         `json:"daysLeft"`
}

// Users lists every participant with the remaining days.
// GET /api/admin/users?name=
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListUsers(r.Context(), participant(r, r.URL.Query().Get("name")))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	users := make([]adminUserResp, 0, len(rows))
	for _, row := range rows {
		users = append(users, adminUserResp{User: row.User, Phase: row.Phase, DaysLeft: row.DaysLeft})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Submissions lists submissions, optionally filtered by status.
// GET /api/admin/submissions?name=&status=pending
func (h *AdminHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subs, err := h.svc.ListSubmissions(r.Context(),
		participant(r, q.Get("name")),
		domain.SubmissionStatus(q.Get("status")),
	)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if subs == nil {
		subs = []*domain.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

type approveReq struct {
	Name              string `json:"name"`
	ApprovedTopicText string `json:"approvedTopicText"`
	AdminComment      string `json:"adminComment"`
}

// Approve accepts a pending idea, optionally rewording it.
// POST /api/admin/submissions/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveReq
	if !decodeJSON(w, r, &req) {
		return
	}

	dec, err := h.svc.Approve(r.Context(), participant(r, req.Name), chi.URLParam(r, "id"), moderation.ApproveInput{
		TopicText: req.ApprovedTopicText,
		Comment:   req.AdminComment,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submission": dec.Submission,
		"user":       toUserResponse(dec.Owner, time.Now()),
	})
}

type rejectReq struct {
	Name         string `json:"name"`
	AdminComment string `json:"adminComment"`
}

// Reject declines a pending idea. The comment is mandatory.
// POST /api/admin/submissions/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectReq
	if !decodeJSON(w, r, &req) {
		return
	}

	dec, err := h.svc.Reject(r.Context(), participant(r, req.Name), chi.URLParam(r, "id"), req.AdminComment)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submission": dec.Submission,
		"user":       toUserResponse(dec.Owner, time.Now()),
	})
}
