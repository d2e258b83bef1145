// Package http provides http transport for the requirements mailbox
package http

import (
	"io"
	"mime"
	stdhttp "net/http"

	"reqrelay/internal/modkit/httpkit"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/requirements/domain"
	svc "reqrelay/internal/services/api/requirements/service"
)

// MaxUpload is the largest accepted requirements file
const MaxUpload = 1 << 20

// Register mounts the router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.status)
	httpkit.PostBody[domain.SubmitInput](r, "/", h.ingest)
	httpkit.Post(r, "/upload", h.upload)
}

type handlers struct{ svc svc.Service }

// @Summary Current mailbox state
// @Tags requirements
// @Produce json
// @Success 200 {object} domain.Status "ok"
// @Failure 405 {object} httpkit.Envelope "method not allowed"
// @Router /requirements [get]
func (h *handlers) status(r *stdhttp.Request) (any, error) {
	return h.svc.Status(r.Context())
}

// @Summary Submit requirements or mark the current entry processed
// @Tags requirements
// @Accept json
// @Accept x-www-form-urlencoded
// @Accept mpfd
// @Produce json
// @Param payload body domain.SubmitInput true "Submission"
// @Success 200 {object} domain.Ack "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 404 {object} httpkit.Envelope "nothing to mark"
// @Failure 409 {object} httpkit.Envelope "entry replaced"
// @Router /requirements [post]
func (h *handlers) ingest(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	return h.svc.Handle(r.Context(), in)
}

// @Summary Submit requirements from a text file
// @Tags requirements
// @Accept mpfd
// @Produce json
// @Param file formData file true "text/plain requirements, at most 1MiB"
// @Success 200 {object} domain.Ack "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Router /requirements/upload [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	content, err := readUpload(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Submit(r.Context(), content, "")
}

func readUpload(r *stdhttp.Request) (string, error) {
	// headroom for multipart framing around the file part
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, MaxUpload+64<<10)
	if err := r.ParseMultipartForm(MaxUpload); err != nil {
		return "", perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "upload must be multipart/form-data under 1MiB"), "file")
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return "", perr.WithField(perr.Validationf("file is required"), "file")
	}
	defer func() { _ = f.Close() }()

	if mt, _, _ := mime.ParseMediaType(hdr.Header.Get("Content-Type")); mt != "text/plain" {
		return "", perr.WithField(perr.Validationf("please upload a text file (.txt)"), "file")
	}
	if hdr.Size > MaxUpload {
		return "", perr.WithField(perr.Validationf("please upload a file smaller than 1MB"), "file")
	}
	b, err := io.ReadAll(io.LimitReader(f, MaxUpload+1))
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeValidation, "read upload")
	}
	if len(b) > MaxUpload {
		return "", perr.WithField(perr.Validationf("please upload a file smaller than 1MB"), "file")
	}
	return string(b), nil
}
