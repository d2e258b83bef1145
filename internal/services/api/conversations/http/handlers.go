// Package http provides http transport for conversation histories
package http

import (
	stdhttp "net/http"

	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/services/api/conversations/domain"
	svc "reqrelay/internal/services/api/conversations/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PutJSON[domain.SaveInput](r, "/{id}/messages", h.save)
	httpkit.Get(r, "/{id}/messages", h.load)
}

type handlers struct{ svc svc.Service }

// @Summary Replace the stored messages of a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation id"
// @Param payload body domain.SaveInput true "Messages"
// @Success 200 {object} domain.SaveOutput "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /conversations/{id}/messages [put]
func (h *handlers) save(r *stdhttp.Request, in domain.SaveInput) (any, error) {
	id, err := httpkit.RequireParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Save(r.Context(), id, in)
}

// @Summary Stored messages of a conversation
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} domain.History "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /conversations/{id}/messages [get]
func (h *handlers) load(r *stdhttp.Request) (any, error) {
	id, err := httpkit.RequireParam(r, "id")
	if err != nil {
		return nil, err
	}
	return h.svc.Load(r.Context(), id)
}
