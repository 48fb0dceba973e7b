package reconcile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/customers"
	"crm-backend/internal/drive"
	"crm-backend/internal/shared/metrics"
	"crm-backend/internal/shared/server/middleware"
	"crm-backend/internal/shared/server/respond"
)

// Handler exposes the engine's link and sync operations over HTTP.
type Handler struct {
	Engine *Engine
}

// NewHandler constructs a Handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

// RegisterRoutes attaches the write-side document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/link-drive-file", h.linkDriveFile)
	rg.POST("/documents/sync", h.syncFolder)
}

type linkRequest struct {
	DriveFileID string `json:"driveFileId"`
	CustomerID  string `json:"customerId"`
	Category    string `json:"category"`
	Stage       string `json:"stage"`
}

func (h *Handler) linkDriveFile(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.DriveFileID = strings.TrimSpace(req.DriveFileID)
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	var issues []map[string]string
	if req.DriveFileID == "" {
		issues = append(issues, map[string]string{"field": "driveFileId", "issue": "required"})
	}
	if req.CustomerID == "" {
		issues = append(issues, map[string]string{"field": "customerId", "issue": "required"})
	}
	if len(issues) > 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "driveFileId and customerId are required", issues)
		return
	}

	token := middleware.AccessTokenFromContext(c)
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "missing_access_token", "Authorization bearer token is required", nil)
		return
	}

	doc, file, err := h.Engine.LinkFile(c.Request.Context(), token, LinkInput{
		CustomerID:  req.CustomerID,
		DriveFileID: req.DriveFileID,
		Category:    strings.TrimSpace(req.Category),
		Stage:       strings.TrimSpace(req.Stage),
	})
	if err != nil {
		switch {
		case errors.Is(err, customers.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "customer_not_found", "customer not found", nil)
		case drive.IsRemote(err):
			respond.Error(c, http.StatusBadGateway, "drive_error", "failed to update drive file", gin.H{
				"status": drive.StatusOf(err),
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to link drive file", nil)
		}
		return
	}

	respond.OK(c, gin.H{"document": doc, "driveFile": file})
}

func (h *Handler) syncFolder(c *gin.Context) {
	token := middleware.AccessTokenFromContext(c)
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "missing_access_token", "Authorization bearer token is required", nil)
		return
	}

	started := metrics.NowMillis()
	summary, err := h.Engine.SyncFolder(c.Request.Context(), token, strings.TrimSpace(c.Query("rootFolderId")))
	metrics.ObserveSyncDurationMs(metrics.NowMillis() - started)
	if err != nil {
		metrics.IncSyncFailed()
		switch {
		case errors.Is(err, ErrMissingRootFolder):
			respond.Error(c, http.StatusBadRequest, "missing_root_folder_id", "rootFolderId query param or DRIVE_ROOT_FOLDER_ID is required", nil)
		case drive.IsRemote(err):
			respond.Error(c, http.StatusBadGateway, "drive_error", "drive listing failed during sync", gin.H{
				"status": drive.StatusOf(err),
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "sync failed", nil)
		}
		return
	}

	metrics.IncSyncRun()
	metrics.AddSyncFiles(summary.Scanned, summary.Patched)
	respond.OK(c, summary)
}
