package documents

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/handlers"
	"github.com/archis17/AI-KYC/pkg/middleware"
	"github.com/archis17/AI-KYC/pkg/pagination"
	"github.com/archis17/AI-KYC/pkg/routes"
)

// Handler provides HTTP endpoints for document reads. Uploads go through the
// case routes, which own the processing dispatch.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "documents"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/content", Handler: h.Content},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
		},
	}
}

// List returns a paginated list of documents with optional query parameter
// filters. Non-admin callers only see documents of their own cases.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	scopeToPrincipal(r, &filters)

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single document by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.resolve(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Content streams the stored blob for a document.
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.resolve(w, r)
	if !ok {
		return
	}

	content, err := h.sys.Content(r.Context(), doc.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer content.Body.Close()

	w.Header().Set("Content-Type", content.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", content.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", content.SizeBytes))

	if _, err := io.Copy(w, content.Body); err != nil {
		h.logger.Warn("document content stream interrupted", "id", doc.ID, "error", err)
	}
}

// Search accepts a JSON body with pagination and filter criteria and returns
// matching documents.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	scopeToPrincipal(r, &req.Filters)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// resolve parses the id path value, loads the document, and enforces that
// the caller owns the case or holds the admin role.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (*Document, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return nil, false
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok || (!principal.HasRole(middleware.RoleAdmin) && principal.Subject != doc.Subject) {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return nil, false
	}

	return doc, true
}

// scopeToPrincipal forces the subject filter to the caller unless they are
// an admin, so listings never leak other subjects' documents.
func scopeToPrincipal(r *http.Request, f *Filters) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if ok && principal.HasRole(middleware.RoleAdmin) {
		return
	}

	var subject string
	if ok {
		subject = principal.Subject
	}
	f.Subject = &subject
}
