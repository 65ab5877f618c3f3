// Package dashboard exposes a session's providers, categories, files and
// usage statistics over HTTP.
package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloudvault/service/internal/ledger"
	"github.com/cloudvault/service/internal/middleware"
	"github.com/cloudvault/service/internal/registry"
	"github.com/cloudvault/service/internal/response"
	"github.com/cloudvault/service/internal/session"
	"github.com/cloudvault/service/internal/workspace"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Sessions resolves the workspace of a signed-in user.
type Sessions interface {
	Get(userID string) (session.Session, *workspace.Workspace, error)
}

// Handler holds HTTP handlers for dashboard endpoints.
type Handler struct {
	sessions Sessions
}

// NewHandler creates a new dashboard Handler.
func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// Register adds the authenticated dashboard routes to r. Callers register
// them behind middleware.RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/providers", h.ListProviders)
	r.Post("/providers/{id}/link", h.LinkProvider)
	r.Delete("/providers/{id}/link", h.UnlinkProvider)

	r.Get("/categories", h.ListCategories)
	r.Get("/categories/{key}/files", h.ListFiles)
	r.Post("/categories/{key}/files", h.UploadFile)
	r.Delete("/categories/{key}/files/{fileID}", h.DeleteFile)

	r.Get("/stats", h.Stats)
	r.Get("/stats/orphans", h.Orphans)
}

type uploadRequest struct {
	Name       string `json:"name"       example:"report.pdf"`
	Size       int64  `json:"size"       example:"1048576"`
	MimeType   string `json:"mimeType"   example:"application/pdf"`
	ProviderID string `json:"providerId,omitempty" example:"google-drive"`
	Strategy   string `json:"strategy,omitempty"   example:"most-available"`
}

func (h *Handler) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return nil, false
	}
	_, ws, err := h.sessions.Get(userID)
	if err != nil {
		response.Unauthorized(w, "session expired, sign in again")
		return nil, false
	}
	return ws, true
}

// Catalog godoc
//
//	@Summary		List supported providers
//	@Description	Returns the static catalog of cloud-storage services that can be linked.
//	@Tags			providers
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]registry.Provider}
//	@Router			/providers/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	response.OK(w, registry.List())
}

// ListProviders godoc
//
//	@Summary		List session providers
//	@Description	Returns every provider with its linkage, quota and usage in bytes.
//	@Tags			providers
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]ledger.Provider}
//	@Failure		401	{object}	response.Envelope
//	@Router			/providers [get]
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	response.OK(w, ws.Providers())
}

// LinkProvider godoc
//
//	@Summary		Link a provider
//	@Tags			providers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Provider id"	example(google-drive)
//	@Success		200	{object}	response.Envelope{data=ledger.Provider}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/providers/{id}/link [post]
func (h *Handler) LinkProvider(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	p, err := ws.Link(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, p)
}

// UnlinkProvider godoc
//
//	@Summary		Unlink a provider
//	@Description	Files stored on the provider stay listed but drop out of the statistics.
//	@Tags			providers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Provider id"
//	@Success		200	{object}	response.Envelope{data=ledger.Provider}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/providers/{id}/link [delete]
func (h *Handler) UnlinkProvider(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	p, err := ws.Unlink(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, p)
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]catalog.Category}
//	@Failure		401	{object}	response.Envelope
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	response.OK(w, ws.Categories())
}

// ListFiles godoc
//
//	@Summary		List files of a category
//	@Description	Oldest first. Files on unlinked providers are included.
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key	path		string	true	"Category id or name"
//	@Success		200	{object}	response.Envelope{data=[]catalog.FileRecord}
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Router			/categories/{key}/files [get]
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	files, err := ws.Files(chi.URLParam(r, "key"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, files)
}

// UploadFile godoc
//
//	@Summary		Record an upload
//	@Description	Records a file in the category (created if unknown) on a provider chosen by the strategy and charges its quota.
//	@Tags			files
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key		path		string			true	"Category id or name"
//	@Param			request	body		uploadRequest	true	"File metadata"
//	@Success		201		{object}	response.Envelope{data=catalog.FileRecord}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		409		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/categories/{key}/files [post]
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	var strategy ledger.Strategy
	if req.Strategy != "" {
		s, err := ledger.ParseStrategy(req.Strategy)
		if err != nil {
			response.BadRequest(w, "strategy must be one of: most-available, caller")
			return
		}
		strategy = s
	}

	rec, err := ws.Upload(r.Context(), workspace.UploadRequest{
		Category:   chi.URLParam(r, "key"),
		Name:       req.Name,
		SizeBytes:  req.Size,
		MimeType:   req.MimeType,
		ProviderID: req.ProviderID,
		Strategy:   strategy,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, rec)
}

// DeleteFile godoc
//
//	@Summary		Delete a file
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key		path		string	true	"Category id or name"
//	@Param			fileID	path		string	true	"File id"
//	@Success		200		{object}	response.Envelope{data=catalog.FileRecord}
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		503		{object}	response.Envelope
//	@Router			/categories/{key}/files/{fileID} [delete]
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	rec, err := ws.Remove(r.Context(), chi.URLParam(r, "fileID"), chi.URLParam(r, "key"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w, rec)
}

// Stats godoc
//
//	@Summary		Storage statistics
//	@Description	Totals over linked providers, utilization, and per-provider and per-category tiles.
//	@Tags			stats
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=aggregate.Summary}
//	@Failure		401	{object}	response.Envelope
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	response.OK(w, ws.Summary())
}

// Orphans godoc
//
//	@Summary		Orphaned files
//	@Description	Files that reference a provider which has since been unlinked.
//	@Tags			stats
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	response.Envelope{data=[]catalog.FileRecord}
//	@Failure		401	{object}	response.Envelope
//	@Router			/stats/orphans [get]
func (h *Handler) Orphans(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}
	response.OK(w, ws.Orphans())
}
