package controller

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"studynova_backend/internal/service"
	"studynova_backend/internal/util"
	"studynova_backend/pkg/docstore"
	"studynova_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SolutionController struct {
	SolutionService *service.SolutionService
	StatsService    *service.StatsService
	StorageService  *service.StorageService
}

func NewSolutionController(
	solutionService *service.SolutionService,
	statsService *service.StatsService,
	storageService *service.StorageService,
) *SolutionController {
	return &SolutionController{
		SolutionService: solutionService,
		StatsService:    statsService,
		StorageService:  storageService,
	}
}

// List godoc
// @Summary List NCERT solutions
// @Description Equality filters + free-text search + pagination. Store failures degrade to an empty result.
// @Tags solutions
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Param sortBy query string false "Sort field (default chapterNumber)"
// @Param sortOrder query string false "asc or desc"
// @Param search query string false "Free-text search over chapter/subject/exercise/board"
// @Param board query string false "Board filter, 'all' disables"
// @Param class query string false "Class filter, 'all' disables"
// @Param subject query string false "Subject filter, 'all' disables"
// @Param difficulty query string false "easy|medium|hard, 'all' disables"
// @Success 200 {object} util.Response{data=service.ListResult}
// @Router /solutions [get]
func (c *SolutionController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result := c.SolutionService.List(ctx.Request.Context(), service.ListQuery{
		Board:      ctx.Query("board"),
		Class:      ctx.Query("class"),
		Subject:    ctx.Query("subject"),
		Difficulty: ctx.Query("difficulty"),
		Search:     ctx.Query("search"),
		Page:       page,
		Limit:      limit,
		SortBy:     ctx.Query("sortBy"),
		SortOrder:  ctx.Query("sortOrder"),
	})

	util.Success(ctx, result)
}

// CreateSolutionRequest 创建解答的表单字段
// swagger:model CreateSolutionRequest
type CreateSolutionRequest struct {
	Board          string `form:"board"`
	Class          string `form:"class"`
	Subject        string `form:"subject"`
	Chapter        string `form:"chapter"`
	ChapterNumber  int    `form:"chapterNumber"`
	Exercise       string `form:"exercise"`
	Difficulty     string `form:"difficulty"`
	TotalQuestions int    `form:"totalQuestions"`
}

// TrackAccessRequest 访问事件上报
// swagger:model TrackAccessRequest
type TrackAccessRequest struct {
	UserID     string `json:"userId"`
	ChapterID  string `json:"chapterId"`
	QuestionID string `json:"questionId"`
	Action     string `json:"action"`
	TimeSpent  int    `json:"timeSpent"`
}

// CreateOrTrack godoc
// @Summary Create a solution (multipart) or record an access event (JSON)
// @Description The endpoint dispatches on Content-Type: multipart/form-data creates a solution, application/json records an access event.
// @Tags solutions
// @Accept mpfd
// @Accept json
// @Produce json
// @Param board formData string false "Board"
// @Param class formData string false "Class"
// @Param subject formData string false "Subject"
// @Param chapter formData string false "Chapter title"
// @Param chapterNumber formData int false "Chapter number (>= 1)"
// @Param exercise formData string false "Exercise"
// @Param difficulty formData string false "easy|medium|hard"
// @Param solutionFile formData file false "Solution PDF"
// @Param thumbnailImage formData file false "Thumbnail image"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Validation error"
// @Failure 500 {object} util.Response "Store error"
// @Router /solutions [post]
func (c *SolutionController) CreateOrTrack(ctx *gin.Context) {
	contentType := ctx.GetHeader("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		c.track(ctx)
		return
	}
	c.create(ctx)
}

func (c *SolutionController) create(ctx *gin.Context) {
	var req CreateSolutionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	solutionFile, _ := ctx.FormFile("solutionFile")
	thumbnail, _ := ctx.FormFile("thumbnailImage")

	createdBy := ""
	if user := util.GetUserFromContext(ctx); user != nil {
		createdBy = user.UserID
	}

	solution, err := c.SolutionService.Create(ctx.Request.Context(), service.CreateSolutionInput{
		Board:           req.Board,
		Class:           req.Class,
		Subject:         req.Subject,
		Chapter:         req.Chapter,
		ChapterNumber:   req.ChapterNumber,
		Exercise:        req.Exercise,
		Difficulty:      req.Difficulty,
		TotalQuestions:  req.TotalQuestions,
		CreatedBy:       createdBy,
		HasSolutionFile: solutionFile != nil,
		HasThumbnail:    thumbnail != nil,
	})
	if err != nil {
		if ve, ok := util.AsValidationError(err); ok {
			util.BadRequest(ctx, ve.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	// 文件内容在这一层不做校验或转码，存不上只记日志
	if solutionFile != nil {
		c.storeUpload(ctx, solutionFile, solution.ID+".pdf", "application/pdf")
	}
	if thumbnail != nil {
		c.storeUpload(ctx, thumbnail, solution.ID+"_thumb.jpg", "image/jpeg")
	}

	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: "solution created",
		Data: gin.H{
			"solutionId": solution.ID,
			"solution":   solution,
		},
	})
}

func (c *SolutionController) storeUpload(ctx *gin.Context, fileHeader *multipart.FileHeader, filename, contentType string) {
	src, err := fileHeader.Open()
	if err != nil {
		logger.Log.Warn("upload open failed", zap.String("file", filename), zap.Error(err))
		return
	}
	defer src.Close()

	if _, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, fileHeader.Size, contentType); err != nil {
		logger.Log.Warn("upload store failed", zap.String("file", filename), zap.Error(err))
	}
}

func (c *SolutionController) track(ctx *gin.Context) {
	var req TrackAccessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if req.UserID == "" {
		if user := util.GetUserFromContext(ctx); user != nil {
			req.UserID = user.UserID
		}
	}

	_, err := c.SolutionService.RecordAccess(ctx.Request.Context(), service.RecordAccessInput{
		UserID:     req.UserID,
		ChapterID:  req.ChapterID,
		QuestionID: req.QuestionID,
		Action:     req.Action,
		TimeSpent:  req.TimeSpent,
	})
	if err != nil {
		if ve, ok := util.AsValidationError(err); ok {
			util.BadRequest(ctx, ve.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "access recorded"})
}

// Stats godoc
// @Summary Solution corpus statistics
// @Description Full-scan summary counts. Never fails: store errors return zeroed stats.
// @Tags solutions
// @Produce json
// @Success 200 {object} util.Response{data=model.SolutionStats}
// @Router /solutions/stats [get]
func (c *SolutionController) Stats(ctx *gin.Context) {
	util.Success(ctx, c.StatsService.ComputeStats(ctx.Request.Context()))
}

// Get godoc
// @Summary Fetch a solution by id
// @Tags solutions
// @Produce json
// @Param id path string true "Solution id"
// @Success 200 {object} util.Response{data=model.Solution}
// @Failure 404 {object} util.Response
// @Router /solutions/{id} [get]
func (c *SolutionController) Get(ctx *gin.Context) {
	solution, err := c.SolutionService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, solution)
}

// GetContent godoc
// @Summary Ordered question content for a solution
// @Tags solutions
// @Produce json
// @Param id path string true "Solution id"
// @Success 200 {object} util.Response{data=[]model.SolutionContent}
// @Failure 404 {object} util.Response "Solution not found"
// @Failure 500 {object} util.Response "Store error"
// @Router /solutions/{id}/content [get]
func (c *SolutionController) GetContent(ctx *gin.Context) {
	contents, err := c.SolutionService.GetContent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contents)
}

// AddContentRequest 新增/覆盖题目内容
// swagger:model AddContentRequest
type AddContentRequest struct {
	QuestionNumber  int      `json:"questionNumber"`
	Question        string   `json:"question"`
	Solution        string   `json:"solution"`
	Steps           []string `json:"steps"`
	Hints           []string `json:"hints"`
	RelatedConcepts []string `json:"relatedConcepts"`
}

// AddContent godoc
// @Summary Add question content to a solution (Admin only)
// @Description Idempotent on (solutionId, questionNumber): resubmission overwrites.
// @Tags solutions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Solution id"
// @Param request body AddContentRequest true "Question content"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "Validation error"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Solution not found"
// @Router /solutions/{id}/content [post]
func (c *SolutionController) AddContent(ctx *gin.Context) {
	var req AddContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.SolutionService.AddContent(ctx.Request.Context(), service.AddContentInput{
		SolutionID:      ctx.Param("id"),
		QuestionNumber:  req.QuestionNumber,
		Question:        req.Question,
		Solution:        req.Solution,
		Steps:           req.Steps,
		Hints:           req.Hints,
		RelatedConcepts: req.RelatedConcepts,
	})
	if err != nil {
		if ve, ok := util.AsValidationError(err); ok {
			util.BadRequest(ctx, ve.Error())
			return
		}
		if errors.Is(err, docstore.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, util.Response{
		Code:    http.StatusCreated,
		Message: "content saved",
		Data: gin.H{
			"contentId": content.ID,
			"content":   content,
		},
	})
}
