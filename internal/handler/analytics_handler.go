package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/internal/middleware"
	"github.com/utsavjain246/shortify/pkg/response"
)

type AnalyticsService interface {
	GetLinkSummary(ctx context.Context, shortCode string) (*domain.LinkSummary, error)
	GetUserSummary(ctx context.Context, ownerID *int64) (*domain.UserSummary, error)
	GetClickHistory(ctx context.Context, shortCode string, page, pageSize int) (*domain.ClickHistory, error)
}

type AnalyticsHandler struct {
	service AnalyticsService
}

func NewAnalyticsHandler(service AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) GetLinkSummary(c *gin.Context) {
	shortCode := c.Param("shortCode")
	if shortCode == "" {
		response.BadRequest(c, "Short code is required")
		return
	}

	summary, err := h.service.GetLinkSummary(c.Request.Context(), shortCode)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Analytics retrieved", summary)
}

func (h *AnalyticsHandler) GetUserSummary(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

	summary, err := h.service.GetUserSummary(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "User summary retrieved", summary)
}

func (h *AnalyticsHandler) GetClickHistory(c *gin.Context) {
	shortCode := c.Param("shortCode")
	if shortCode == "" {
		response.BadRequest(c, "Short code is required")
		return
	}

	page := 1
	if pageParam := c.Query("page"); pageParam != "" {
		if p, err := strconv.Atoi(pageParam); err == nil && p > 0 {
			page = p
		}
	}

	pageSize := 20
	if sizeParam := c.Query("page_size"); sizeParam != "" {
		if s, err := strconv.Atoi(sizeParam); err == nil && s > 0 && s <= 100 {
			pageSize = s
		}
	}

	history, err := h.service.GetClickHistory(c.Request.Context(), shortCode, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Click history retrieved", history)
}
