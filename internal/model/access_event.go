package model

import "time"

// 触发解答浏览计数的动作
const ActionSolutionViewed = "solution_viewed"

// AccessEvent 用户与解答交互的审计记录，只追加不修改
// swagger:model AccessEvent
type AccessEvent struct {
	UserID     string    `json:"userId"`
	ChapterID  string    `json:"chapterId"`
	QuestionID string    `json:"questionId,omitempty"`
	Action     string    `json:"action"`
	TimeSpent  int       `json:"timeSpent"`
	Timestamp  time.Time `json:"timestamp"`
}
