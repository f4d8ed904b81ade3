package cases

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/internal/audit"
	"github.com/archis17/AI-KYC/internal/documents"
	"github.com/archis17/AI-KYC/pkg/formatting"
	"github.com/archis17/AI-KYC/pkg/handlers"
	"github.com/archis17/AI-KYC/pkg/middleware"
	"github.com/archis17/AI-KYC/pkg/pagination"
	"github.com/archis17/AI-KYC/pkg/routes"
)

// allowedUploadTypes are the media types accepted for document uploads.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// Handler provides HTTP endpoints for case operations, including document
// upload, which dispatches the pipeline run for the new document.
type Handler struct {
	sys           System
	documents     documents.System
	audit         audit.System
	dispatcher    Dispatcher
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler wired to the case, document, and audit systems.
func NewHandler(
	sys System,
	docs documents.System,
	auditSys audit.System,
	dispatcher Dispatcher,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		documents:     docs,
		audit:         auditSys,
		dispatcher:    dispatcher,
		logger:        logger.With("handler", "cases"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for case endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Detail},
			{Method: "GET", Pattern: "/{id}/status", Handler: h.Status},
			{Method: "GET", Pattern: "/{id}/audit", Handler: h.Audit},
			{Method: "POST", Pattern: "/{id}/documents", Handler: h.Upload},
			{Method: "POST", Pattern: "/{id}/approve", Handler: h.Approve},
			{Method: "POST", Pattern: "/{id}/reject", Handler: h.Reject},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// AutomationRoutes returns the route group served to automated workflows,
// mounted behind the internal API key instead of user auth.
func (h *Handler) AutomationRoutes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/approve", Handler: h.AutoApprove},
			{Method: "POST", Pattern: "/{id}/reject", Handler: h.AutoReject},
		},
	}
}

// Create opens a new case owned by the authenticated subject.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, middleware.ErrUnauthorized)
		return
	}

	c, err := h.sys.Create(r.Context(), principal.Subject)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// List returns a paginated list of cases. Non-admin callers only see their own.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok || !principal.HasRole(middleware.RoleAdmin) {
		var subject string
		if ok {
			subject = principal.Subject
		}
		filters.Subject = &subject
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Detail returns a case with its documents and risk score.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}

	detail, err := h.sys.Detail(r.Context(), c.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Status reports the case status with its projected processing stage.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}

	progress, err := h.sys.Progress(r.Context(), c.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, progress)
}

// Audit returns the case's audit trail, newest first.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.audit.ListByCase(r.Context(), c.ID, page)
	if err != nil {
		handlers.RespondError(w, h.logger, audit.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload accepts a multipart document for a case, records the audit entry,
// and queues the processing run. The response returns as soon as the
// document is stored; the pipeline proceeds in the background.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	c, ok := h.resolve(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		limited := fmt.Errorf("%w (limit %s)", documents.ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0))
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, limited)
		return
	}

	docType, err := documents.ParseType(r.FormValue("doc_type"))
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrInvalidFile)
		return
	}

	contentType := documents.DetectContentType(header.Header.Get("Content-Type"), data)
	if !allowedUploadTypes[contentType] {
		handlers.RespondError(w, h.logger, MapHTTPStatus(ErrUnsupportedFile), ErrUnsupportedFile)
		return
	}

	doc, err := h.documents.Create(r.Context(), documents.CreateCommand{
		CaseID:      c.ID,
		Type:        docType,
		Data:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		PageCount:   documents.PDFPageCount(h.logger, data, contentType),
	})
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	principal, _ := middleware.PrincipalFrom(r.Context())
	if _, err := h.audit.Append(r.Context(), audit.Record{
		CaseID: c.ID,
		Actor:  principal.Subject,
		Action: audit.ActionUpload,
		Details: map[string]any{
			"document_id": doc.ID,
			"doc_type":    doc.Type,
			"filename":    doc.Filename,
		},
	}); err != nil {
		h.logger.Warn("audit append failed for upload", "case_id", c.ID, "error", err)
	}

	if err := h.dispatcher.Enqueue(r.Context(), doc.ID); err != nil {
		h.logger.Error("pipeline enqueue failed, document awaits recovery",
			"document_id", doc.ID,
			"error", err,
		)
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

// Approve applies a manual approval decision. Admin only.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, StatusApproved, false)
}

// Reject applies a manual rejection decision. Admin only.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, StatusRejected, false)
}

// AutoApprove applies an approval on behalf of an automated workflow.
func (h *Handler) AutoApprove(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, StatusApproved, true)
}

// AutoReject applies a rejection on behalf of an automated workflow.
func (h *Handler) AutoReject(w http.ResponseWriter, r *http.Request) {
	h.override(w, r, StatusRejected, true)
}

// Delete removes a case and everything it owns. Admin only.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok || !principal.HasRole(middleware.RoleAdmin) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, middleware.ErrUnauthorized)
		return
	}

	if err := h.sys.Delete(r.Context(), id, principal.Subject); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type overrideRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) override(w http.ResponseWriter, r *http.Request, decision Status, automated bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	actor := audit.ActorSystem
	if !automated {
		principal, ok := middleware.PrincipalFrom(r.Context())
		if !ok || !principal.HasRole(middleware.RoleAdmin) {
			handlers.RespondError(w, h.logger, http.StatusForbidden, middleware.ErrUnauthorized)
			return
		}
		actor = principal.Subject
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Override(r.Context(), id, OverrideCommand{
		Decision:  decision,
		Actor:     actor,
		Reason:    req.Reason,
		Automated: automated,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// resolve parses the id path value, loads the case, and enforces that the
// caller owns it or holds the admin role.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*Case, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return nil, false
	}

	c, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok || (!principal.HasRole(middleware.RoleAdmin) && principal.Subject != c.Subject) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return nil, false
	}

	return c, true
}
