package controller

import (
	"net/http"
	"studynova_backend/internal/config"
	"studynova_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB     *gorm.DB
	Config *config.Config
}

func NewHealthController(db *gorm.DB, cfg *config.Config) *HealthController {
	return &HealthController{DB: db, Config: cfg}
}

// @Summary 健康检查
// @Description 检查数据库连接和 AI 上游配置状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	aiStatus := "configured"
	if c.Config.AI.APIKey == "" {
		aiStatus = "unconfigured"
	}

	util.Success(ctx, gin.H{
		"status":  "ok",
		"service": "studynova-backend",
		"components": gin.H{
			"database": "up",
			"ai":       aiStatus,
		},
	})
}
