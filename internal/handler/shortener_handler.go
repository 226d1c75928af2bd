package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/internal/middleware"
	"github.com/utsavjain246/shortify/pkg/detector"
	"github.com/utsavjain246/shortify/pkg/response"
)

type ResolverService interface {
	CreateLink(ctx context.Context, req *domain.CreateLinkRequest, ownerID *int64) (*domain.Link, error)
	Resolve(ctx context.Context, shortCode string, visit domain.ClickRequest) (*domain.Link, bool, error)
	Deactivate(ctx context.Context, shortCode string, ownerID *int64) error
	ListLinks(ctx context.Context, ownerID *int64, page, pageSize int) (*domain.LinkPage, error)
}

type ShortenerHandler struct {
	service ResolverService
	baseURL string
}

func NewShortenerHandler(service ResolverService, baseURL string) *ShortenerHandler {
	return &ShortenerHandler{service: service, baseURL: baseURL}
}

func (h *ShortenerHandler) Shorten(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	owner := middleware.OwnerFromContext(c)

	link, err := h.service.CreateLink(c.Request.Context(), &req, owner)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.RecordLinkCreated(link.CustomAlias)

	response.Created(c, "Short link created", gin.H{
		"short_url":    h.baseURL + "/" + link.ShortCode,
		"short_code":   link.ShortCode,
		"target_url":   link.TargetURL,
		"custom_alias": link.CustomAlias,
		"created_at":   link.CreatedAt,
		"expires_at":   link.ExpiresAt,
		"is_active":    link.IsActive,
	})
}

func (h *ShortenerHandler) Redirect(c *gin.Context) {
	shortCode := c.Param("shortCode")

	visit := domain.ClickRequest{
		IPAddress: detector.GetClientIP(
			c.Request.RemoteAddr,
			c.GetHeader("X-Forwarded-For"),
			c.GetHeader("X-Real-IP"),
		),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.GetHeader("Referer"),
	}

	link, fromCache, err := h.service.Resolve(c.Request.Context(), shortCode, visit)
	if fromCache {
		middleware.RecordCacheLookup("hit")
	} else {
		middleware.RecordCacheLookup("miss")
	}
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.RecordRedirect()
	c.Redirect(http.StatusMovedPermanently, link.TargetURL)
}

func (h *ShortenerHandler) Deactivate(c *gin.Context) {
	shortCode := c.Param("shortCode")
	owner := middleware.OwnerFromContext(c)

	if err := h.service.Deactivate(c.Request.Context(), shortCode, owner); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Short link deactivated", nil)
}

func (h *ShortenerHandler) ListLinks(c *gin.Context) {
	owner := middleware.OwnerFromContext(c)

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

	links, err := h.service.ListLinks(c.Request.Context(), owner, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, "Links retrieved", links)
}
