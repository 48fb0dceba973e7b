package documents

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crm-backend/internal/shared/server/respond"
)

// listLimit caps the global document listing.
const listLimit = 500

// Handler wires HTTP handlers to the documents repository.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.listDocuments)
}

func (h *Handler) listDocuments(c *gin.Context) {
	filter, ok := FilterFromQuery(c)
	if !ok {
		return
	}
	filter.CustomerID = c.Query("customerId")
	filter.Limit = listLimit

	docs, err := h.Repo.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.OK(c, gin.H{"documents": docs})
}

// FilterFromQuery parses the shared listing filters from the query string.
// On an unparseable date it writes a validation error and reports false.
func FilterFromQuery(c *gin.Context) (Filter, bool) {
	filter := Filter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Stage:    strings.TrimSpace(c.Query("stage")),
	}

	from, ok := parseDateParam(c, "dateFrom", false)
	if !ok {
		return Filter{}, false
	}
	to, ok := parseDateParam(c, "dateTo", true)
	if !ok {
		return Filter{}, false
	}
	filter.DateFrom = from
	filter.DateTo = to
	return filter, true
}

// parseDateParam accepts RFC 3339 timestamps or bare YYYY-MM-DD dates. A bare
// upper-bound date is extended to the end of that day so the range is inclusive.
func parseDateParam(c *gin.Context, name string, upperBound bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		t = t.UTC()
		if upperBound {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, true
	}

	respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be an RFC 3339 timestamp or YYYY-MM-DD date", []map[string]string{
		{"field": name, "issue": "invalid"},
	})
	return nil, false
}
