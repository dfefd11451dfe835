package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/internal/util"
	"studynova_backend/pkg/docstore"
	"studynova_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

const DefaultPageLimit = 20

type SolutionService struct {
	solutionRepo *repository.SolutionRepository
	contentRepo  *repository.ContentRepository
	accessRepo   *repository.AccessLogRepository
	progress     *ProgressService
}

func NewSolutionService(
	solutionRepo *repository.SolutionRepository,
	contentRepo *repository.ContentRepository,
	accessRepo *repository.AccessLogRepository,
	progress *ProgressService,
) *SolutionService {
	return &SolutionService{
		solutionRepo: solutionRepo,
		contentRepo:  contentRepo,
		accessRepo:   accessRepo,
		progress:     progress,
	}
}

type ListQuery struct {
	Board      string
	Class      string
	Subject    string
	Difficulty string
	Search     string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

type ListResult struct {
	Solutions []model.Solution `json:"solutions"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	Pages     int              `json:"pages"`
	Limit     int              `json:"limit"`
	Message   string           `json:"message,omitempty"`
}

// List 取回 等值过滤+排序 后的全集，再在内存中做文本检索和分页。
// 读路径的存储故障降级为空结果，不让浏览页面报错。
func (s *SolutionService) List(ctx context.Context, q ListQuery) *ListResult {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}

	var filters []docstore.Filter
	for field, value := range map[string]string{
		"board":      q.Board,
		"class":      q.Class,
		"subject":    q.Subject,
		"difficulty": q.Difficulty,
	} {
		// "all" 等价于不过滤
		if value != "" && value != "all" {
			filters = append(filters, docstore.Eq(field, value))
		}
	}

	orderBy := &docstore.Order{Field: "chapterNumber"}
	if q.SortBy != "" {
		orderBy.Field = q.SortBy
	}
	if q.SortOrder == "desc" {
		orderBy.Desc = true
	}

	solutions, err := s.solutionRepo.Query(ctx, filters, orderBy)
	if err != nil {
		logger.Log.Warn("solution list query failed, degrading to empty result", zap.Error(err))
		return &ListResult{
			Solutions: []model.Solution{},
			Total:     0,
			Page:      q.Page,
			Pages:     0,
			Limit:     q.Limit,
			Message:   "no solutions found",
		}
	}

	solutions = FilterBySearchText(solutions, q.Search)
	total := len(solutions)

	pageItems, pages := Paginate(solutions, q.Page, q.Limit)

	result := &ListResult{
		Solutions: pageItems,
		Total:     total,
		Page:      q.Page,
		Pages:     pages,
		Limit:     q.Limit,
	}
	if total == 0 {
		result.Message = "no solutions found"
	}
	return result
}

type CreateSolutionInput struct {
	Board          string
	Class          string
	Subject        string
	Chapter        string
	ChapterNumber  int
	Exercise       string
	Difficulty     string
	TotalQuestions int
	CreatedBy      string

	HasSolutionFile bool
	HasThumbnail    bool
}

// Create 校验后落库。所有校验问题一次性聚合返回。
func (s *SolutionService) Create(ctx context.Context, input CreateSolutionInput) (*model.Solution, error) {
	var issues []string

	missing := []string{}
	required := []struct {
		name  string
		empty bool
	}{
		{"board", input.Board == ""},
		{"class", input.Class == ""},
		{"subject", input.Subject == ""},
		{"chapter", input.Chapter == ""},
		{"chapterNumber", input.ChapterNumber == 0},
		{"exercise", input.Exercise == ""},
		{"difficulty", input.Difficulty == ""},
	}
	for _, f := range required {
		if f.empty {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, "missing required fields: "+strings.Join(missing, ", "))
	}

	if input.Difficulty != "" && !model.Difficulty(input.Difficulty).Valid() {
		issues = append(issues, fmt.Sprintf("difficulty must be one of easy, medium, hard (got %q)", input.Difficulty))
	}
	if input.ChapterNumber != 0 && input.ChapterNumber < 1 {
		issues = append(issues, "chapterNumber must be a positive integer")
	}

	if len(issues) > 0 {
		return nil, util.NewValidationError(issues...)
	}

	now := time.Now()
	solution := &model.Solution{
		ID:             model.GenerateID(),
		Board:          input.Board,
		Class:          input.Class,
		Subject:        input.Subject,
		Chapter:        input.Chapter,
		ChapterNumber:  input.ChapterNumber,
		Exercise:       input.Exercise,
		Difficulty:     model.Difficulty(input.Difficulty),
		TotalQuestions: input.TotalQuestions,
		IsAvailable:    true,
		AIHelpEnabled:  true,
		ViewCount:      0,
		CreatedAt:      now,
		LastUpdated:    now,
		CreatedBy:      input.CreatedBy,
	}
	if solution.TotalQuestions <= 0 {
		solution.TotalQuestions = 10
	}
	if solution.CreatedBy == "" {
		solution.CreatedBy = "admin"
	}

	// 文件本体由存储服务落盘，这里只记派生路径
	if input.HasSolutionFile {
		solution.SolutionFile = "/uploads/" + solution.ID + ".pdf"
	}
	if input.HasThumbnail {
		solution.ThumbnailImage = "/uploads/" + solution.ID + "_thumb.jpg"
	}

	if err := s.solutionRepo.Create(ctx, solution); err != nil {
		return nil, err
	}
	return solution, nil
}

func (s *SolutionService) Get(ctx context.Context, id string) (*model.Solution, error) {
	return s.solutionRepo.FindByID(ctx, id)
}

// GetContent 父解答不存在时报 NotFound，否则按题号升序返回全部题目
func (s *SolutionService) GetContent(ctx context.Context, solutionID string) ([]model.SolutionContent, error) {
	if _, err := s.solutionRepo.FindByID(ctx, solutionID); err != nil {
		return nil, err
	}
	contents, err := s.contentRepo.FindBySolution(ctx, solutionID)
	if err != nil {
		return nil, err
	}
	if contents == nil {
		contents = []model.SolutionContent{}
	}
	return contents, nil
}

type AddContentInput struct {
	SolutionID      string
	QuestionNumber  int
	Question        string
	Solution        string
	Steps           []string
	Hints           []string
	RelatedConcepts []string
}

// AddContent 以 (solutionId, questionNumber) 为幂等键 upsert
func (s *SolutionService) AddContent(ctx context.Context, input AddContentInput) (*model.SolutionContent, error) {
	missing := []string{}
	if input.QuestionNumber == 0 {
		missing = append(missing, "questionNumber")
	}
	if input.Question == "" {
		missing = append(missing, "question")
	}
	if input.Solution == "" {
		missing = append(missing, "solution")
	}
	if len(missing) > 0 {
		return nil, util.MissingFieldsError(missing)
	}
	if input.QuestionNumber < 1 {
		return nil, util.NewValidationError("questionNumber must be a positive integer")
	}

	if _, err := s.solutionRepo.FindByID(ctx, input.SolutionID); err != nil {
		return nil, err
	}

	now := time.Now()
	content := &model.SolutionContent{
		ID:              fmt.Sprintf("%s_q%d", input.SolutionID, input.QuestionNumber),
		SolutionID:      input.SolutionID,
		QuestionNumber:  input.QuestionNumber,
		Question:        input.Question,
		Solution:        input.Solution,
		Steps:           emptyIfNil(input.Steps),
		Hints:           emptyIfNil(input.Hints),
		RelatedConcepts: emptyIfNil(input.RelatedConcepts),
		CreatedAt:       now,
		LastUpdated:     now,
	}

	if err := s.contentRepo.Upsert(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

type RecordAccessInput struct {
	UserID     string
	ChapterID  string
	QuestionID string
	Action     string
	TimeSpent  int
}

// RecordAccess 追加访问事件；solution_viewed 时原子自增浏览数，
// 并尽力更新用户进度（失败只记日志，不影响主请求）。
func (s *SolutionService) RecordAccess(ctx context.Context, input RecordAccessInput) (*model.AccessEvent, error) {
	missing := []string{}
	if input.ChapterID == "" {
		missing = append(missing, "chapterId")
	}
	if input.Action == "" {
		missing = append(missing, "action")
	}
	if len(missing) > 0 {
		return nil, util.MissingFieldsError(missing)
	}

	event := &model.AccessEvent{
		UserID:     input.UserID,
		ChapterID:  input.ChapterID,
		QuestionID: input.QuestionID,
		Action:     input.Action,
		TimeSpent:  input.TimeSpent,
		Timestamp:  time.Now(),
	}
	if err := s.accessRepo.Append(ctx, event); err != nil {
		return nil, err
	}

	if input.Action == model.ActionSolutionViewed {
		if err := s.solutionRepo.IncrementViewCount(ctx, input.ChapterID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			logger.Log.Warn("view count increment failed",
				zap.String("solutionId", input.ChapterID), zap.Error(err))
		}
	}

	if s.progress != nil && input.UserID != "" {
		if err := s.progress.RecordActivity(ctx, input.UserID, input.Action, input.TimeSpent); err != nil {
			logger.Log.Warn("progress update failed",
				zap.String("userId", input.UserID), zap.Error(err))
		}
	}

	return event, nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
