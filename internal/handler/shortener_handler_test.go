package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utsavjain246/shortify/internal/domain"
	"github.com/utsavjain246/shortify/internal/middleware"
	"github.com/utsavjain246/shortify/tests/mocks"
)

const testBaseURL = "http://localhost:8080"

func setupShortenerRouter(service *mocks.MockResolverService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewShortenerHandler(service, testBaseURL)

	router := gin.New()
	router.Use(middleware.Identity())
	router.POST("/api/shorten", h.Shorten)
	router.GET("/api/links", h.ListLinks)
	router.DELETE("/api/links/:shortCode", h.Deactivate)
	router.GET("/:shortCode", h.Redirect)
	return router
}

func anonymousOwner(id *int64) bool { return id == nil }

func ownerWithID(want int64) func(*int64) bool {
	return func(id *int64) bool { return id != nil && *id == want }
}

func TestShorten_Success(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	created := &domain.Link{
		ID:        1,
		ShortCode: "abc1234",
		TargetURL: "https://example.com",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	service.On("CreateLink", mock.Anything,
		mock.MatchedBy(func(req *domain.CreateLinkRequest) bool {
			return req.TargetURL == "https://example.com"
		}),
		mock.MatchedBy(anonymousOwner),
	).Return(created, nil).Once()

	body, _ := json.Marshal(gin.H{"url": "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ShortURL  string `json:"short_url"`
			ShortCode string `json:"short_code"`
			TargetURL string `json:"target_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, testBaseURL+"/abc1234", resp.Data.ShortURL)
	assert.Equal(t, "abc1234", resp.Data.ShortCode)
	assert.Equal(t, "https://example.com", resp.Data.TargetURL)
	service.AssertExpectations(t)
}

func TestShorten_OwnerForwardedFromHeader(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	created := &domain.Link{ID: 2, ShortCode: "mine123", TargetURL: "https://example.com", IsActive: true}
	service.On("CreateLink", mock.Anything, mock.Anything, mock.MatchedBy(ownerWithID(42))).
		Return(created, nil).Once()

	body, _ := json.Marshal(gin.H{"url": "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	service.AssertExpectations(t)
}

func TestShorten_MalformedBody(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	service.AssertNotCalled(t, "CreateLink")
}

func TestShorten_InvalidInput(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("CreateLink", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrInvalidInput).Once()

	body, _ := json.Marshal(gin.H{"url": "not a url"})
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShorten_AliasTaken(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("CreateLink", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrAliasTaken).Once()

	body, _ := json.Marshal(gin.H{"url": "https://example.com", "custom_alias": "taken"})
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestShorten_GenerationExhausted(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("CreateLink", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrGenerationExhausted).Once()

	body, _ := json.Marshal(gin.H{"url": "https://example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRedirect_Success(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	link := &domain.Link{ID: 1, ShortCode: "abc1234", TargetURL: "https://example.com/landing", IsActive: true}

	service.On("Resolve", mock.Anything, "abc1234",
		mock.MatchedBy(func(visit domain.ClickRequest) bool {
			return visit.IPAddress == "203.0.113.9" &&
				visit.Referrer == "https://news.example" &&
				visit.UserAgent != ""
		}),
	).Return(link, true, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("Referer", "https://news.example")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0)")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))
	service.AssertExpectations(t)
}

func TestRedirect_NotFound(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("Resolve", mock.Anything, "missing", mock.Anything).
		Return(nil, false, domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirect_StorageUnavailable(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("Resolve", mock.Anything, "abc1234", mock.Anything).
		Return(nil, false, domain.ErrStorageUnavailable).Once()

	req := httptest.NewRequest(http.MethodGet, "/abc1234", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDeactivate_Success(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("Deactivate", mock.Anything, "mine123", mock.MatchedBy(ownerWithID(7))).
		Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/links/mine123", nil)
	req.Header.Set("X-User-ID", "7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestDeactivate_Forbidden(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("Deactivate", mock.Anything, "theirs1", mock.Anything).
		Return(domain.ErrForbidden).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/links/theirs1", nil)
	req.Header.Set("X-User-ID", "7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeactivate_NotFound(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("Deactivate", mock.Anything, "missing", mock.Anything).
		Return(domain.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/links/missing", nil)
	req.Header.Set("X-User-ID", "7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListLinks_PagingDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&page_size=50", 3, 50},
		{"oversized page size ignored", "?page_size=500", 1, 20},
		{"non-numeric ignored", "?page=abc&page_size=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mocks.MockResolverService)
			router := setupShortenerRouter(service)

			service.On("ListLinks", mock.Anything, mock.MatchedBy(ownerWithID(7)), tt.wantPage, tt.wantPageSize).
				Return(&domain.LinkPage{Page: tt.wantPage, PageSize: tt.wantPageSize}, nil).Once()

			req := httptest.NewRequest(http.MethodGet, "/api/links"+tt.query, nil)
			req.Header.Set("X-User-ID", "7")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestListLinks_Anonymous_Forbidden(t *testing.T) {
	service := new(mocks.MockResolverService)
	router := setupShortenerRouter(service)

	service.On("ListLinks", mock.Anything, mock.MatchedBy(anonymousOwner), 1, 20).
		Return(nil, domain.ErrForbidden).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
