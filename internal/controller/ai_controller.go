package controller

import (
	"net/http"
	"strconv"
	"studynova_backend/internal/model"
	"studynova_backend/internal/service"
	"studynova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	TutorService *service.TutorService
}

func NewAIController(tutorService *service.TutorService) *AIController {
	return &AIController{TutorService: tutorService}
}

// Explain godoc
// @Summary Generate a student-facing explanation for a solved question
// @Tags ai
// @Accept json
// @Produce json
// @Param request body service.ExplainRequest true "Question and verified answer"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.Response "Missing question or answer"
// @Failure 500 {object} util.Response "Upstream AI failure"
// @Router /ai/explain [post]
func (c *AIController) Explain(ctx *gin.Context) {
	var req service.ExplainRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TutorService.Explain(ctx.Request.Context(), req)
	if err != nil {
		if ve, ok := util.AsValidationError(err); ok {
			util.BadRequest(ctx, ve.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"explanation": result.Explanation,
		"metadata":    result.Metadata,
	})
}

// HelpRequestBody 互动求助请求
// swagger:model HelpRequestBody
type HelpRequestBody struct {
	Query      string            `json:"query"`
	SolutionID string            `json:"solutionId"`
	Context    model.HelpContext `json:"context"`
}

// Help godoc
// @Summary Interactive tutor help grounded in textbook context
// @Description Upstream failures still return a friendly fallback message in the 500 body.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body HelpRequestBody true "Student query with textbook context"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} util.Response "Missing or too-short query"
// @Failure 500 {object} map[string]interface{} "Fallback response"
// @Router /ai/help [post]
func (c *AIController) Help(ctx *gin.Context) {
	var req HelpRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID := ""
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID
	}

	result, err := c.TutorService.Help(ctx.Request.Context(), service.HelpRequest{
		UserID:     userID,
		SolutionID: req.SolutionID,
		Query:      req.Query,
		Context:    req.Context,
	})
	if err != nil {
		if ve, ok := util.AsValidationError(err); ok {
			util.BadRequest(ctx, ve.Error())
			return
		}
		// 兜底话术随 500 返回，前端仍有东西可展示
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"response": result.Response,
			"context":  req.Context,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"response": result.Response,
		"context":  req.Context,
	})
}

// History godoc
// @Summary Recent tutor Q&A history for the current user
// @Tags ai
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Max entries (default 20)"
// @Success 200 {object} util.Response{data=[]model.AIHelpLog}
// @Failure 401 {object} util.Response
// @Router /ai/help [get]
func (c *AIController) History(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	entries := c.TutorService.History(ctx.Request.Context(), user.UserID, limit)

	util.Success(ctx, gin.H{"history": entries})
}
