package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"studynova_backend/internal/config"
	"studynova_backend/internal/middleware"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/internal/service"
	"studynova_backend/pkg/docstore"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type solutionTestEnv struct {
	router  *gin.Engine
	store   *docstore.MemStore
	service *service.SolutionService
}

func newSolutionTestEnv(t *testing.T) *solutionTestEnv {
	t.Helper()

	store := docstore.NewMemStore()
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	progress := service.NewProgressService(repository.NewProgressRepository(store))
	solutionSvc := service.NewSolutionService(
		repository.NewSolutionRepository(store),
		repository.NewContentRepository(store),
		repository.NewAccessLogRepository(store),
		progress,
	)
	statsSvc := service.NewStatsService(repository.NewSolutionRepository(store))
	storageSvc := service.NewStorageService(cfg)

	ctrl := NewSolutionController(solutionSvc, statsSvc, storageSvc)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.IdentityMiddleware(cfg))
	{
		api.GET("/solutions", ctrl.List)
		api.POST("/solutions", ctrl.CreateOrTrack)
		api.GET("/solutions/stats", ctrl.Stats)
		api.GET("/solutions/:id", ctrl.Get)
		api.GET("/solutions/:id/content", ctrl.GetContent)
		api.POST("/solutions/:id/content",
			middleware.RequireUser(),
			middleware.RoleMiddleware(model.Admin),
			ctrl.AddContent)
	}

	return &solutionTestEnv{router: router, store: store, service: solutionSvc}
}

func (env *solutionTestEnv) seedSolution(t *testing.T) *model.Solution {
	t.Helper()
	solution, err := env.service.Create(context.Background(), service.CreateSolutionInput{
		Board:         "CBSE",
		Class:         "10",
		Subject:       "Mathematics",
		Chapter:       "Polynomials",
		ChapterNumber: 2,
		Exercise:      "Exercise 2.1",
		Difficulty:    "easy",
	})
	require.NoError(t, err)
	return solution
}

func doJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListEndpoint(t *testing.T) {
	env := newSolutionTestEnv(t)
	env.seedSolution(t)

	w := doJSON(env.router, http.MethodGet, "/api/solutions?subject=Mathematics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Solutions []model.Solution `json:"solutions"`
			Total     int              `json:"total"`
			Pages     int              `json:"pages"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Pages)
	require.Len(t, resp.Data.Solutions, 1)
	assert.Equal(t, "Polynomials", resp.Data.Solutions[0].Chapter)
}

func TestListEndpointDegradesOnStoreFailure(t *testing.T) {
	env := newSolutionTestEnv(t)
	env.store.FailReads = true

	w := doJSON(env.router, http.MethodGet, "/api/solutions", nil, nil)
	// 浏览列表在存储故障下仍是 200 空结果
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no solutions found")
}

func TestGetEndpointNotFound(t *testing.T) {
	env := newSolutionTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/api/solutions/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpointAlways200(t *testing.T) {
	env := newSolutionTestEnv(t)

	w := doJSON(env.router, http.MethodGet, "/api/solutions/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no solutions found")

	env.store.FailReads = true
	w = doJSON(env.router, http.MethodGet, "/api/solutions/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "temporarily unavailable")
}

func TestTrackAccessEndpoint(t *testing.T) {
	env := newSolutionTestEnv(t)
	solution := env.seedSolution(t)

	// JSON 请求体走访问事件上报分支
	w := doJSON(env.router, http.MethodPost, "/api/solutions", map[string]interface{}{
		"userId":    "user-1",
		"chapterId": solution.ID,
		"action":    "solution_viewed",
		"timeSpent": 30,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access recorded")

	stored, err := env.service.Get(context.Background(), solution.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ViewCount)
}

func TestTrackAccessEndpointValidation(t *testing.T) {
	env := newSolutionTestEnv(t)

	w := doJSON(env.router, http.MethodPost, "/api/solutions", map[string]interface{}{
		"userId": "user-1",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "chapterId")
	assert.Contains(t, w.Body.String(), "action")
}

func TestCreateSolutionEndpoint(t *testing.T) {
	env := newSolutionTestEnv(t)

	form := "board=CBSE&class=10&subject=Mathematics&chapter=Circles&chapterNumber=10&exercise=Exercise+10.1&difficulty=hard"
	req := httptest.NewRequest(http.MethodPost, "/api/solutions", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-User-Id", "admin-1")
	req.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			SolutionID string         `json:"solutionId"`
			Solution   model.Solution `json:"solution"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.SolutionID)
	assert.Equal(t, "Circles", resp.Data.Solution.Chapter)
	assert.Equal(t, "admin-1", resp.Data.Solution.CreatedBy)
}

func TestCreateSolutionEndpointValidation(t *testing.T) {
	env := newSolutionTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/solutions", strings.NewReader("board=CBSE"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required fields")
}

func TestAddContentEndpointAuthz(t *testing.T) {
	env := newSolutionTestEnv(t)
	solution := env.seedSolution(t)

	body := map[string]interface{}{
		"questionNumber": 1,
		"question":       "What is x?",
		"solution":       "x = 2",
	}

	// 匿名 → 401
	w := doJSON(env.router, http.MethodPost, "/api/solutions/"+solution.ID+"/content", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 学生 → 403
	w = doJSON(env.router, http.MethodPost, "/api/solutions/"+solution.ID+"/content", body, map[string]string{
		"X-User-Id": "user-1", "X-User-Role": "student",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员 → 201
	w = doJSON(env.router, http.MethodPost, "/api/solutions/"+solution.ID+"/content", body, map[string]string{
		"X-User-Id": "admin-1", "X-User-Role": "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), solution.ID+"_q1")
}

func TestAddContentEndpointParentMissing(t *testing.T) {
	env := newSolutionTestEnv(t)

	w := doJSON(env.router, http.MethodPost, "/api/solutions/ghost/content", map[string]interface{}{
		"questionNumber": 1,
		"question":       "q",
		"solution":       "s",
	}, map[string]string{"X-User-Id": "admin-1", "X-User-Role": "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetContentEndpoint(t *testing.T) {
	env := newSolutionTestEnv(t)
	solution := env.seedSolution(t)

	// 无内容时返回空列表而不是 404
	w := doJSON(env.router, http.MethodGet, "/api/solutions/"+solution.ID+"/content", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.SolutionContent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	w = doJSON(env.router, http.MethodGet, "/api/solutions/ghost/content", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
