package service

import (
	"context"
	"strings"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/internal/util"
	"studynova_backend/pkg/logger"
	"studynova_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// HelpQueryMinLength 过短的提问直接拒绝
const HelpQueryMinLength = 5

// HelpFallbackMessage 上游故障时给学生的兜底话术
const HelpFallbackMessage = "I'm having trouble connecting right now, but don't give up! " +
	"Re-read the step you're working on and try it once more. I'll be back to help you in a moment."

type TutorService struct {
	ai       *AIService
	prompts  *PromptBuilder
	helpLogs *repository.AIHelpLogRepository
}

func NewTutorService(ai *AIService, prompts *PromptBuilder, helpLogs *repository.AIHelpLogRepository) *TutorService {
	return &TutorService{ai: ai, prompts: prompts, helpLogs: helpLogs}
}

type ExplainRequest struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	StudentClass int    `json:"class"`
	Subject      string `json:"subject"`
}

type ExplainMetadata struct {
	Model          string    `json:"model"`
	GeneratedAt    time.Time `json:"generatedAt"`
	QuestionLength int       `json:"questionLength"`
	AnswerLength   int       `json:"answerLength"`
}

type ExplainResult struct {
	Explanation string          `json:"explanation"`
	Metadata    ExplainMetadata `json:"metadata"`
}

// Explain 生成面向学生的答案讲解。上游失败原样上抛（没有兜底文案有意义）。
func (s *TutorService) Explain(ctx context.Context, req ExplainRequest) (*ExplainResult, error) {
	missing := []string{}
	if strings.TrimSpace(req.Question) == "" {
		missing = append(missing, "question")
	}
	if strings.TrimSpace(req.Answer) == "" {
		missing = append(missing, "answer")
	}
	if len(missing) > 0 {
		return nil, util.MissingFieldsError(missing)
	}

	system, user := s.prompts.BuildExplanation(ExplainParams{
		Question:     req.Question,
		Answer:       req.Answer,
		StudentClass: req.StudentClass,
		Subject:      req.Subject,
	})

	explanation, err := s.ai.Complete(ctx, system, user)
	if err != nil {
		monitoring.UpstreamAICounter.WithLabelValues(string(TemplateExplanation), "error").Inc()
		return nil, err
	}
	monitoring.UpstreamAICounter.WithLabelValues(string(TemplateExplanation), "success").Inc()

	return &ExplainResult{
		Explanation: explanation,
		Metadata: ExplainMetadata{
			Model:          s.ai.Model(),
			GeneratedAt:    time.Now(),
			QuestionLength: len(req.Question),
			AnswerLength:   len(req.Answer),
		},
	}, nil
}

type HelpRequest struct {
	UserID     string
	SolutionID string
	Query      string
	Context    model.HelpContext
}

type HelpResult struct {
	Response string `json:"response"`
	Fallback bool   `json:"-"`
}

// Help 辅导对话。上游失败时返回兜底话术而不是裸错误，问答（无论成败）
// 都尽力写入历史，写历史失败绝不影响主请求。
func (s *TutorService) Help(ctx context.Context, req HelpRequest) (*HelpResult, error) {
	query := strings.TrimSpace(req.Query)
	if len(query) < HelpQueryMinLength {
		return nil, util.NewValidationError("query is too short (minimum 5 characters)")
	}
	if req.Context == (model.HelpContext{}) {
		return nil, util.NewValidationError("missing context (subject/class/chapter/exercise/board)")
	}

	system, user := s.prompts.BuildInteractiveHelp(query, req.Context)

	response, err := s.ai.Complete(ctx, system, user)

	entry := &model.AIHelpLog{
		UserID:     req.UserID,
		SolutionID: req.SolutionID,
		Query:      query,
		Context:    req.Context,
		Timestamp:  time.Now(),
		Successful: err == nil,
	}

	if err != nil {
		monitoring.UpstreamAICounter.WithLabelValues(string(TemplateInteractiveHelp), "error").Inc()
		entry.Error = err.Error()
		s.logHelp(ctx, entry)
		return &HelpResult{Response: HelpFallbackMessage, Fallback: true}, err
	}

	monitoring.UpstreamAICounter.WithLabelValues(string(TemplateInteractiveHelp), "success").Inc()
	entry.Response = response
	s.logHelp(ctx, entry)

	return &HelpResult{Response: response}, nil
}

// History 最近的问答记录。读故障降级为空历史。
func (s *TutorService) History(ctx context.Context, userID string, limit int) []model.AIHelpLog {
	entries, err := s.helpLogs.FindByUser(ctx, userID, limit)
	if err != nil {
		logger.Log.Warn("help history query failed, degrading to empty list",
			zap.String("userId", userID), zap.Error(err))
		return []model.AIHelpLog{}
	}
	if entries == nil {
		entries = []model.AIHelpLog{}
	}
	return entries
}

func (s *TutorService) logHelp(ctx context.Context, entry *model.AIHelpLog) {
	if err := s.helpLogs.Append(ctx, entry); err != nil {
		logger.Log.Warn("help log write failed", zap.String("userId", entry.UserID), zap.Error(err))
	}
}
