package model

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Solution 一个章节练习单元的解答记录
// swagger:model Solution
type Solution struct {
	ID             string     `json:"id"`
	Board          string     `json:"board"`
	Class          string     `json:"class"`
	Subject        string     `json:"subject"`
	Chapter        string     `json:"chapter"`
	ChapterNumber  int        `json:"chapterNumber"`
	Exercise       string     `json:"exercise"`
	Difficulty     Difficulty `json:"difficulty"`
	TotalQuestions int        `json:"totalQuestions"`
	IsAvailable    bool       `json:"isAvailable"`
	AIHelpEnabled  bool       `json:"aiHelpEnabled"`
	ViewCount      int        `json:"viewCount"`
	SolutionFile   string     `json:"solutionFile,omitempty"`
	ThumbnailImage string     `json:"thumbnailImage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastUpdated    time.Time  `json:"lastUpdated"`
	CreatedBy      string     `json:"createdBy"`
}

// SolutionContent 解答中的单个题目，ID 形如 {solutionId}_q{questionNumber}
// swagger:model SolutionContent
type SolutionContent struct {
	ID              string    `json:"id"`
	SolutionID      string    `json:"solutionId"`
	QuestionNumber  int       `json:"questionNumber"`
	Question        string    `json:"question"`
	Solution        string    `json:"solution"`
	Steps           []string  `json:"steps"`
	Hints           []string  `json:"hints"`
	RelatedConcepts []string  `json:"relatedConcepts"`
	CreatedAt       time.Time `json:"createdAt"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// SolutionStats 全量扫描得到的汇总统计
// swagger:model SolutionStats
type SolutionStats struct {
	TotalSolutions     int            `json:"totalSolutions"`
	AvailableSolutions int            `json:"availableSolutions"`
	EasyCount          int            `json:"easyCount"`
	MediumCount        int            `json:"mediumCount"`
	HardCount          int            `json:"hardCount"`
	TotalViews         int            `json:"totalViews"`
	MostViewed         int            `json:"mostViewed"`
	ByBoard            map[string]int `json:"byBoard"`
	ByClass            map[string]int `json:"byClass"`
	BySubject          map[string]int `json:"bySubject"`
	Message            string         `json:"message,omitempty"`
}
