package handler

import (
	"net/http"

	"partsadmin/internal/dto"
	"partsadmin/internal/middleware"
	"partsadmin/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the end-user catalog for the caller's organization.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func viewer(c *gin.Context) service.Viewer {
	claims := middleware.GetClaims(c)
	return service.Viewer{
		UserID:         claims.UserUUID(),
		OrganizationID: claims.OrganizationUUID(),
		Role:           claims.Role,
	}
}

func (h *CatalogHandler) List(c *gin.Context) {
	var filter dto.CatalogFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), viewer(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), viewer(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
