package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"topicwheel/internal/auth"
	"topicwheel/internal/domain"
	"topicwheel/internal/workflow"
)

type workflowService interface {
	Register(ctx context.Context, input workflow.RegisterInput) (*workflow.RegisterResult, error)
	ChooseFlow(ctx context.Context, input workflow.ChooseFlowInput) (*domain.User, error)
	SubmitIdea(ctx context.Context, input workflow.SubmitIdeaInput) (*workflow.IdeaResult, error)
	DrawTopic(ctx context.Context, name string) (*workflow.DrawResult, error)
	Status(ctx context.Context, name string) (*workflow.StatusView, error)
	Complete(ctx context.Context, input workflow.CompleteInput) (*domain.User, error)
}

// ParticipantHandler serves the participant endpoints under /api.
type ParticipantHandler struct {
	svc    workflowService
	tokens *auth.JWT
	log    *slog.Logger
}

// NewParticipantHandler creates a ParticipantHandler. tokens may be nil, in
// which case login does not issue session tokens.
func NewParticipantHandler(svc workflowService, tokens *auth.JWT, logger *slog.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		svc:    svc,
		tokens: tokens,
		log:    logger.With("handler", "participant"),
	}
}

type loginReq struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

type loginResp struct {
	User    *userResponse `json:"user"`
	Created bool          `json:"created"`
	Token   string        `json:"token,omitempty"`
}

// Login registers the participant or returns the existing record.
// POST /api/login
func (h *ParticipantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Register(r.Context(), workflow.RegisterInput{
		Name:  req.Name,
		Level: domain.Level(req.Level),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := loginResp{User: toUserResponse(res.User, time.Now()), Created: res.Created}
	if h.tokens != nil {
		token, err := h.tokens.Sign(res.User.Key())
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}
		resp.Token = token
	}

	writeJSON(w, http.StatusOK, resp)
}

type statusResp struct {
	Status        workflow.Status    `json:"status"`
	Phase         domain.Phase       `json:"phase"`
	User          *userResponse      `json:"user"`
	DaysRemaining *int               `json:"daysRemaining"`
	AdminComment  string             `json:"adminComment,omitempty"`
	Submission    *domain.Submission `json:"submission,omitempty"`
	CanResubmit   bool               `json:"canResubmit"`
}

// Me reports the participant's status. The first call after an approval
// starts the deadline clock.
// GET /api/me?name=
func (h *ParticipantHandler) Me(w http.ResponseWriter, r *http.Request) {
	name := participant(r, r.URL.Query().Get("name"))

	view, err := h.svc.Status(r.Context(), name)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResp{
		Status:        view.Status,
		Phase:         view.Phase,
		User:          toUserResponse(view.User, time.Now()),
		DaysRemaining: view.DaysRemaining,
		AdminComment:  view.AdminComment,
		Submission:    view.Submission,
		CanResubmit:   view.CanResubmit,
	})
}

type flowReq struct {
	Name string `json:"name"`
	Flow string `json:"flow"`
}

// Flow commits the participant to the random or own flow.
// POST /api/flow
func (h *ParticipantHandler) Flow(w http.ResponseWriter, r *http.Request) {
	var req flowReq
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.svc.ChooseFlow(r.Context(), workflow.ChooseFlowInput{
		Name: participant(r, req.Name),
		Flow: domain.Flow(req.Flow),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(u, time.Now())})
}

type ideaReq struct {
	Name string `json:"name"`
	Idea string `json:"idea"`
}

// Idea files an own-flow idea for moderation.
// POST /api/idea
func (h *ParticipantHandler) Idea(w http.ResponseWriter, r *http.Request) {
	var req ideaReq
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.SubmitIdea(r.Context(), workflow.SubmitIdeaInput{
		Name: participant(r, req.Name),
		Idea: req.Idea,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":       toUserResponse(res.User, time.Now()),
		"submission": res.Submission,
	})
}

type nameReq struct {
	Name string `json:"name"`
}

// Spin draws a random topic from the participant's pool.
// POST /api/spin
func (h *ParticipantHandler) Spin(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.DrawTopic(r.Context(), participant(r, req.Name))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toUserResponse(res.User, time.Now()),
		"topicId": res.TopicID,
		"topic":   res.Topic,
	})
}

type completeReq struct {
	Name    string `json:"name"`
	GitLink string `json:"gitLink"`
}

// Complete records that the participant finished the task.
// POST /api/complete
func (h *ParticipantHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeReq
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.svc.Complete(r.Context(), workflow.CompleteInput{
		Name:    participant(r, req.Name),
		GitLink: req.GitLink,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(u, time.Now())})
}
