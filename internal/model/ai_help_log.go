package model

import "time"

// HelpContext 学生提问时所处的教材上下文
type HelpContext struct {
	Board    string `json:"board,omitempty"`
	Class    string `json:"class,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Chapter  string `json:"chapter,omitempty"`
	Exercise string `json:"exercise,omitempty"`
}

// AIHelpLog AI 辅导问答的历史记录，只追加不修改
// swagger:model AIHelpLog
type AIHelpLog struct {
	UserID     string      `json:"userId"`
	SolutionID string      `json:"solutionId,omitempty"`
	Query      string      `json:"query"`
	Context    HelpContext `json:"context"`
	Response   string      `json:"response,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Successful bool        `json:"successful"`
}
