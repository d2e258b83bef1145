// Package http provides the streaming relay endpoint
package http

import (
	stdhttp "net/http"

	"reqrelay/internal/modkit/httpkit"
	"reqrelay/internal/services/api/relay/domain"
	svc "reqrelay/internal/services/api/relay/service"
)

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	r.Post("/", h.relay)
}

type handlers struct{ svc svc.Service }

// @Summary Relay requirements through the chat engine as an event stream
// @Description Frames are `data: <json>` lines. The first frame is progress(file-processing, complete)
// @Description and the last is progress(preview, complete).
// @Tags relay
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce text/event-stream
// @Param payload body domain.RelayInput true "Relay"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} httpkit.Envelope "validation or empty input"
// @Failure 502 {object} httpkit.Envelope "chat engine unavailable"
// @Router /relay [post]
func (h *handlers) relay(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := httpkit.ParseBody[domain.RelayInput](r)
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	run, err := h.svc.Open(r.Context(), in, r.Header.Get("Cookie"))
	if err != nil {
		httpkit.RespondError(w, r, err)
		return
	}
	// once frames flow the status is committed; the service logs stream errors
	_, _ = h.svc.Stream(r.Context(), run, httpkit.NewEventStream(w))
}
