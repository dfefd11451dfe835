package model

import "time"

// UserProgress 学习进度（XP 与连续活跃天数），按事件即时累加
// swagger:model UserProgress
type UserProgress struct {
	UserID         string    `json:"userId"`
	XP             int       `json:"xp"`
	StreakDays     int       `json:"streakDays"`
	LastActiveDate string    `json:"lastActiveDate"` // 格式 2006-01-02
	TotalTimeSpent int       `json:"totalTimeSpent"` // 秒
	UpdatedAt      time.Time `json:"updatedAt"`
}
