package customers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/documents"
	"crm-backend/internal/drive"
	"crm-backend/internal/shared/server/middleware"
	"crm-backend/internal/shared/server/respond"
)

// FileGetter fetches live Drive metadata for document enrichment.
type FileGetter interface {
	GetFile(ctx context.Context, token, fileID string) (drive.File, error)
}

// Handler wires HTTP handlers to the customers service.
type Handler struct {
	Svc   *Service
	Docs  documents.Repo
	Files FileGetter
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, docs documents.Repo, files FileGetter) *Handler {
	return &Handler{Svc: svc, Docs: docs, Files: files}
}

// RegisterRoutes attaches customer routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/customers", h.listCustomers)
	rg.POST("/customers", h.createCustomer)
	rg.GET("/customers/:id", h.getCustomer)
	rg.PATCH("/customers/:id", h.updateCustomer)
	rg.GET("/customers/:id/documents", h.listCustomerDocuments)
}

type createCustomerRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "name is required", []map[string]string{
			{"field": "name", "issue": "required"},
		})
		return
	}
	if req.Email != "" && !strings.Contains(req.Email, "@") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "email is invalid", []map[string]string{
			{"field": "email", "issue": "invalid"},
		})
		return
	}
	status := StatusLead
	if req.Status != "" {
		parsed, ok := ParseStatus(req.Status)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "status must be one of lead, active, inactive", []map[string]string{
				{"field": "status", "issue": "invalid"},
			})
			return
		}
		status = parsed
	}

	token := middleware.AccessTokenFromContext(c)
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "missing_access_token", "Authorization bearer token is required", nil)
		return
	}

	customer, err := h.Svc.Create(c.Request.Context(), token, CreateInput{
		Name:   req.Name,
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
		Status: status,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingRootFolder):
			respond.Error(c, http.StatusBadRequest, "missing_root_folder_id", "DRIVE_ROOT_FOLDER_ID is not configured", nil)
		case drive.IsRemote(err):
			respond.Error(c, http.StatusBadGateway, "drive_error", "failed to provision customer folder", gin.H{
				"status": drive.StatusOf(err),
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create customer", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"customer": customer})
}

func (h *Handler) listCustomers(c *gin.Context) {
	summaries, err := h.Svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list customers", nil)
		return
	}
	respond.OK(c, gin.H{"customers": summaries})
}

func (h *Handler) getCustomer(c *gin.Context) {
	customer, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "customer not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch customer", nil)
		}
		return
	}
	respond.OK(c, gin.H{"customer": customer})
}

type updateCustomerRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	in := UpdateInput{Email: req.Email, Phone: req.Phone}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "name cannot be empty", []map[string]string{
				{"field": "name", "issue": "required"},
			})
			return
		}
		in.Name = &name
	}
	if req.Status != nil {
		status, ok := ParseStatus(*req.Status)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "status must be one of lead, active, inactive", []map[string]string{
				{"field": "status", "issue": "invalid"},
			})
			return
		}
		in.Status = &status
	}

	customer, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "customer not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update customer", nil)
		}
		return
	}
	respond.OK(c, gin.H{"customer": customer})
}

// documentView is a mirror row optionally enriched with live Drive metadata.
type documentView struct {
	documents.Document
	DriveFile any `json:"driveFile,omitempty"`
}

func (h *Handler) listCustomerDocuments(c *gin.Context) {
	customer, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "customer not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch customer", nil)
		}
		return
	}

	filter, ok := documents.FilterFromQuery(c)
	if !ok {
		return
	}
	filter.CustomerID = customer.ID

	docs, err := h.Docs.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	token := middleware.AccessTokenFromContext(c)
	if token == "" && strings.TrimSpace(c.GetHeader("Authorization")) != "" {
		respond.Error(c, http.StatusUnauthorized, "missing_access_token", "Authorization header is malformed", nil)
		return
	}

	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		view := documentView{Document: doc}
		if token != "" {
			view.DriveFile = h.fetchDriveFile(c, token, doc)
		}
		views = append(views, view)
	}

	respond.OK(c, gin.H{"customer": customer, "documents": views})
}

// fetchDriveFile degrades to a stub built from the mirror row so one revoked
// or deleted file cannot fail the whole listing.
func (h *Handler) fetchDriveFile(c *gin.Context, token string, doc documents.Document) any {
	file, err := h.Files.GetFile(c.Request.Context(), token, doc.DriveFileID)
	if err != nil {
		return gin.H{
			"id":       doc.DriveFileID,
			"name":     doc.Title,
			"mimeType": doc.MimeType,
		}
	}
	return file
}
