package service

import (
	"strings"
	"studynova_backend/internal/model"
)

// 内存中的 搜索/分页 阶段。底层文档存储只支持等值过滤和单字段排序，
// 自由文本检索和分页只能在取回后的结果集上做，独立成纯函数便于测试和
// 将来替换成服务端全文检索。

// FilterBySearchText 大小写不敏感的子串匹配，命中
// chapter/subject/exercise/board 任一字段即保留
func FilterBySearchText(solutions []model.Solution, search string) []model.Solution {
	search = strings.TrimSpace(search)
	if search == "" {
		return solutions
	}
	needle := strings.ToLower(search)

	filtered := make([]model.Solution, 0, len(solutions))
	for _, s := range solutions {
		if strings.Contains(strings.ToLower(s.Chapter), needle) ||
			strings.Contains(strings.ToLower(s.Subject), needle) ||
			strings.Contains(strings.ToLower(s.Exercise), needle) ||
			strings.Contains(strings.ToLower(s.Board), needle) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Paginate 切出第 page 页（1 起），返回页内数据和总页数
func Paginate(solutions []model.Solution, page, limit int) ([]model.Solution, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}

	total := len(solutions)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start >= total {
		return []model.Solution{}, pages
	}
	end := start + limit
	if end > total {
		end = total
	}
	return solutions[start:end], pages
}
