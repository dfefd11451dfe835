package service

import (
	"context"
	"fmt"
	"studynova_backend/internal/model"
	"studynova_backend/internal/repository"
	"studynova_backend/internal/util"
	"studynova_backend/pkg/docstore"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolutionService(store docstore.Store) *SolutionService {
	progress := NewProgressService(repository.NewProgressRepository(store))
	return NewSolutionService(
		repository.NewSolutionRepository(store),
		repository.NewContentRepository(store),
		repository.NewAccessLogRepository(store),
		progress,
	)
}

func validCreateInput() CreateSolutionInput {
	return CreateSolutionInput{
		Board:         "CBSE",
		Class:         "10",
		Subject:       "Mathematics",
		Chapter:       "Quadratic Equations",
		ChapterNumber: 4,
		Exercise:      "Exercise 4.1",
		Difficulty:    "medium",
	}
}

func TestCreateSolutionValidationAggregatesIssues(t *testing.T) {
	svc := newTestSolutionService(docstore.NewMemStore())

	_, err := svc.Create(context.Background(), CreateSolutionInput{})
	require.Error(t, err)

	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	// 所有缺失字段一次性报出
	assert.Contains(t, ve.Error(), "board")
	assert.Contains(t, ve.Error(), "class")
	assert.Contains(t, ve.Error(), "subject")
	assert.Contains(t, ve.Error(), "chapter")
	assert.Contains(t, ve.Error(), "chapterNumber")
	assert.Contains(t, ve.Error(), "exercise")
	assert.Contains(t, ve.Error(), "difficulty")
}

func TestCreateSolutionRejectsBadValues(t *testing.T) {
	svc := newTestSolutionService(docstore.NewMemStore())

	input := validCreateInput()
	input.Difficulty = "impossible"
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Error(), "difficulty")

	input = validCreateInput()
	input.ChapterNumber = -3
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	_, ok = util.AsValidationError(err)
	assert.True(t, ok)
}

func TestCreateSolutionDefaults(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)

	input := validCreateInput()
	input.HasSolutionFile = true
	input.HasThumbnail = true

	solution, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotEmpty(t, solution.ID)

	assert.Equal(t, 10, solution.TotalQuestions)
	assert.Equal(t, "admin", solution.CreatedBy)
	assert.True(t, solution.IsAvailable)
	assert.True(t, solution.AIHelpEnabled)
	assert.Equal(t, 0, solution.ViewCount)
	assert.Equal(t, "/uploads/"+solution.ID+".pdf", solution.SolutionFile)
	assert.Equal(t, "/uploads/"+solution.ID+"_thumb.jpg", solution.ThumbnailImage)

	// 落库后能取回
	stored, err := svc.Get(context.Background(), solution.ID)
	require.NoError(t, err)
	assert.Equal(t, solution.ID, stored.ID)
}

func TestListPagination(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		input := validCreateInput()
		input.Chapter = fmt.Sprintf("Chapter %d", i)
		input.ChapterNumber = i
		_, err := svc.Create(ctx, input)
		require.NoError(t, err)
	}

	result := svc.List(ctx, ListQuery{Page: 1, Limit: 20})
	assert.Len(t, result.Solutions, 20)
	assert.Equal(t, 25, result.Total)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, result.Page)
	assert.Empty(t, result.Message)

	result = svc.List(ctx, ListQuery{Page: 2, Limit: 20})
	assert.Len(t, result.Solutions, 5)

	// 默认按 chapterNumber 升序
	result = svc.List(ctx, ListQuery{Page: 1, Limit: 5})
	require.Len(t, result.Solutions, 5)
	assert.Equal(t, 1, result.Solutions[0].ChapterNumber)
	assert.Equal(t, 5, result.Solutions[4].ChapterNumber)
}

func TestListFiltersAndSearch(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	math := validCreateInput()
	math.Chapter = "Linear Algebra"
	_, err := svc.Create(ctx, math)
	require.NoError(t, err)

	physics := validCreateInput()
	physics.Subject = "Physics"
	physics.Chapter = "Waves"
	_, err = svc.Create(ctx, physics)
	require.NoError(t, err)

	result := svc.List(ctx, ListQuery{Subject: "Physics"})
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, "Waves", result.Solutions[0].Chapter)

	// "all" 等价于不过滤
	result = svc.List(ctx, ListQuery{Subject: "all"})
	assert.Equal(t, 2, result.Total)

	result = svc.List(ctx, ListQuery{Search: "algebra"})
	require.Len(t, result.Solutions, 1)
	assert.Equal(t, "Linear Algebra", result.Solutions[0].Chapter)

	result = svc.List(ctx, ListQuery{Search: "chemistry"})
	assert.Empty(t, result.Solutions)
	assert.Equal(t, "no solutions found", result.Message)
}

func TestListDegradesOnStoreFailure(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)

	store.FailReads = true
	result := svc.List(context.Background(), ListQuery{Page: 2, Limit: 10})

	assert.Empty(t, result.Solutions)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, "no solutions found", result.Message)
}

func TestGetContentParentMissing(t *testing.T) {
	svc := newTestSolutionService(docstore.NewMemStore())

	_, err := svc.GetContent(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestAddContentIdempotent(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	solution, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	input := AddContentInput{
		SolutionID:     solution.ID,
		QuestionNumber: 1,
		Question:       "What is x?",
		Solution:       "x = 2",
	}

	first, err := svc.AddContent(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, solution.ID+"_q1", first.ID)
	assert.NotNil(t, first.Steps)
	assert.NotNil(t, first.Hints)

	// 同一题号重复提交覆盖而不是追加
	input.Solution = "x = 2 (revised)"
	second, err := svc.AddContent(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	contents, err := svc.GetContent(ctx, solution.ID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "x = 2 (revised)", contents[0].Solution)
}

func TestAddContentValidation(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	solution, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = svc.AddContent(ctx, AddContentInput{SolutionID: solution.ID})
	require.Error(t, err)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Error(), "questionNumber")
	assert.Contains(t, ve.Error(), "question")
	assert.Contains(t, ve.Error(), "solution")

	_, err = svc.AddContent(ctx, AddContentInput{
		SolutionID:     "missing-parent",
		QuestionNumber: 1,
		Question:       "q",
		Solution:       "s",
	})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestContentSortedByQuestionNumber(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	solution, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	for _, n := range []int{3, 1, 2} {
		_, err := svc.AddContent(ctx, AddContentInput{
			SolutionID:     solution.ID,
			QuestionNumber: n,
			Question:       fmt.Sprintf("Q%d", n),
			Solution:       fmt.Sprintf("A%d", n),
		})
		require.NoError(t, err)
	}

	contents, err := svc.GetContent(ctx, solution.ID)
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, 1, contents[0].QuestionNumber)
	assert.Equal(t, 2, contents[1].QuestionNumber)
	assert.Equal(t, 3, contents[2].QuestionNumber)
}

func TestRecordAccessIncrementsViewCount(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)
	ctx := context.Background()

	solution, err := svc.Create(ctx, validCreateInput())
	require.NoError(t, err)

	event, err := svc.RecordAccess(ctx, RecordAccessInput{
		UserID:    "user-1",
		ChapterID: solution.ID,
		Action:    model.ActionSolutionViewed,
		TimeSpent: 30,
	})
	require.NoError(t, err)
	assert.False(t, event.Timestamp.IsZero())

	stored, err := svc.Get(ctx, solution.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ViewCount)

	// 非浏览动作不计浏览数
	_, err = svc.RecordAccess(ctx, RecordAccessInput{
		UserID:    "user-1",
		ChapterID: solution.ID,
		Action:    "hint_opened",
	})
	require.NoError(t, err)

	stored, err = svc.Get(ctx, solution.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ViewCount)
}

func TestRecordAccessMissingFields(t *testing.T) {
	svc := newTestSolutionService(docstore.NewMemStore())

	_, err := svc.RecordAccess(context.Background(), RecordAccessInput{UserID: "user-1"})
	require.Error(t, err)
	ve, ok := util.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Error(), "chapterId")
	assert.Contains(t, ve.Error(), "action")
}

func TestRecordAccessUnknownSolution(t *testing.T) {
	store := docstore.NewMemStore()
	svc := newTestSolutionService(store)

	// 事件指向不存在的解答也照常入账，浏览数自增静默跳过
	event, err := svc.RecordAccess(context.Background(), RecordAccessInput{
		UserID:    "user-1",
		ChapterID: "ghost-chapter",
		Action:    model.ActionSolutionViewed,
	})
	require.NoError(t, err)
	assert.Equal(t, "ghost-chapter", event.ChapterID)
}
