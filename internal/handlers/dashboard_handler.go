package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wealth/internal/errors"
	"wealth/internal/revalidate"
	"wealth/internal/services"
)

// ViewCache stores rendered views until their path is revalidated.
type ViewCache interface {
	Generation(path string) uint64
	Get(path, key string) (any, bool)
	SetAt(path, key string, value any, gen uint64)
}

// DashboardHandler serves the composed dashboard view.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	cache            ViewCache
}

// NewDashboardHandler creates a new DashboardHandler. cache may be nil.
func NewDashboardHandler(dashboardService services.DashboardServicer, cache ViewCache) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, cache: cache}
}

// GetDashboard returns the caller's accounts and transactions.
// @Summary     Get dashboard
// @Description Accounts and transactions of the authenticated user. A section that fails to load is null and its error is listed under "errors"; the response is still 200.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ident := getIdentity(c)
	if ident == nil {
		respondWithError(c, apperrors.ErrUnauthenticated)
		return
	}
	key := ident.ExternalID

	if h.cache != nil {
		if cached, ok := h.cache.Get(revalidate.DashboardPath, key); ok {
			c.Header("X-Cache", "HIT")
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var gen uint64
	if h.cache != nil {
		gen = h.cache.Generation(revalidate.DashboardPath)
	}
	dashboard := h.dashboardService.GetDashboard(c.Request.Context(), ident)

	// Only complete views are cached so a failed section is retried next time.
	if h.cache != nil && len(dashboard.Errors) == 0 {
		h.cache.SetAt(revalidate.DashboardPath, key, dashboard, gen)
	}
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, dashboard)
}
