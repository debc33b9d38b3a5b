package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"notes-app/src/domain"
	"notes-app/src/query"
	"notes-app/src/usecase"
	"notes-app/src/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNoteRepository は domain.NoteRepository のモック実装
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) List(ctx context.Context, plan *query.Plan) ([]domain.Note, int, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int), args.Error(2)
	}
	return args.Get(0).([]domain.Note), args.Get(1).(int), args.Error(2)
}

func (m *MockNoteRepository) Update(ctx context.Context, id int, changes *domain.NoteChanges) (*domain.Note, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func strPtr(s string) *string {
	return &s
}

func TestNoteUsecase_CreateNote(t *testing.T) {
	tests := []struct {
		name           string
		request        usecase.CreateNoteRequest
		mockSetup      func(*MockNoteRepository)
		expectedError  bool
		expectedFields []string
	}{
		{
			name: "successful creation",
			request: usecase.CreateNoteRequest{
				Title:    "Shopping list",
				Content:  "Milk, eggs, bread",
				Category: "Personal",
				Date:     "2024-05-01",
			},
			mockSetup: func(m *MockNoteRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(&domain.Note{
					ID:       1,
					Title:    "Shopping list",
					Content:  "Milk, eggs, bread",
					Category: domain.CategoryPersonal,
					Date:     "2024-05-01",
				}, nil)
			},
		},
		{
			name:           "全ての欠落フィールドを列挙する",
			request:        usecase.CreateNoteRequest{},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"title", "content", "category", "date"},
		},
		{
			name: "空白のみのフィールドは欠落扱い",
			request: usecase.CreateNoteRequest{
				Title:    "   ",
				Content:  "C",
				Category: "Work",
				Date:     "2024-05-01",
			},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"title"},
		},
		{
			name: "不正な日付は拒否",
			request: usecase.CreateNoteRequest{
				Title:    "T",
				Content:  "C",
				Category: "Work",
				Date:     "2024-02-30",
			},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"date"},
		},
		{
			name: "固定ラベル外のカテゴリは拒否",
			request: usecase.CreateNoteRequest{
				Title:    "T",
				Content:  "C",
				Category: "Misc",
				Date:     "2024-05-01",
			},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"category"},
		},
		{
			name: "タイトルが長すぎる",
			request: usecase.CreateNoteRequest{
				Title:    strings.Repeat("a", 101),
				Content:  "C",
				Category: "Work",
				Date:     "2024-05-01",
			},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"title"},
		},
		{
			name: "本文が長すぎる",
			request: usecase.CreateNoteRequest{
				Title:    "T",
				Content:  strings.Repeat("a", 2001),
				Category: "Work",
				Date:     "2024-05-01",
			},
			mockSetup:      func(m *MockNoteRepository) {},
			expectedError:  true,
			expectedFields: []string{"content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockNoteRepository)
			tt.mockSetup(mockRepo)
			u := usecase.NewNoteUsecase(mockRepo, 0)

			note, err := u.CreateNote(context.Background(), tt.request)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, note)

				validationErrors, ok := err.(validator.ValidationErrors)
				assert.True(t, ok, "expected ValidationErrors, got %T", err)

				var fields []string
				for _, fe := range validationErrors.Errors {
					fields = append(fields, fe.Field)
				}
				assert.ElementsMatch(t, tt.expectedFields, fields)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 1, note.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestNoteUsecase_ListNotes(t *testing.T) {
	t.Run("ページネーション計算", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("List", mock.Anything, mock.AnythingOfType("*query.Plan")).Return(
			[]domain.Note{{ID: 1, Title: "T", Content: "C", Category: domain.CategoryWork, Date: "2024-05-01"}},
			23, nil,
		)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		list, err := u.ListNotes(context.Background(), query.Params{Page: 2, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, 2, list.Pagination.CurrentPage)
		assert.Equal(t, 3, list.Pagination.TotalPages) // ceil(23/10)
		assert.Equal(t, 23, list.Pagination.TotalNotes)
		assert.Equal(t, 10, list.Pagination.Limit)
	})

	t.Run("結果なしでも notes は空配列", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("List", mock.Anything, mock.AnythingOfType("*query.Plan")).Return(nil, 0, nil)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		list, err := u.ListNotes(context.Background(), query.Params{})

		assert.NoError(t, err)
		assert.NotNil(t, list.Notes)
		assert.Empty(t, list.Notes)
		assert.Equal(t, 0, list.Pagination.TotalPages)
	})

	t.Run("不正なパラメータでも失敗しない", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("List", mock.Anything, mock.MatchedBy(func(plan *query.Plan) bool {
			return plan.Sort.Column == "date" && plan.Sort.Order == "DESC" &&
				plan.Limit == 50 && plan.Offset == 0
		})).Return([]domain.Note{}, 0, nil)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		_, err := u.ListNotes(context.Background(), query.Params{
			Page:  -3,
			Limit: 9999,
			Sort:  "nonsense",
			Order: "sideways",
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestNoteUsecase_UpdateNote(t *testing.T) {
	t.Run("カテゴリのみの更新は他フィールドに触れない", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Update", mock.Anything, 1, mock.MatchedBy(func(c *domain.NoteChanges) bool {
			return c.Title == nil && c.Content == nil && c.Date == nil &&
				c.Category != nil && *c.Category == "Ideas"
		})).Return(&domain.Note{
			ID:       1,
			Title:    "T",
			Content:  "C",
			Category: domain.CategoryIdeas,
			Date:     "2024-05-01",
		}, nil)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		note, err := u.UpdateNote(context.Background(), 1, usecase.UpdateNoteRequest{
			Category: strPtr("Ideas"),
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.CategoryIdeas, note.Category)
		mockRepo.AssertExpectations(t)
	})

	t.Run("空白のみのフィールドは未指定扱い", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		_, err := u.UpdateNote(context.Background(), 1, usecase.UpdateNoteRequest{
			Title:   strPtr("   "),
			Content: strPtr(""),
		})

		assert.ErrorIs(t, err, usecase.ErrNoFieldsToUpdate)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("フィールドなしは検証エラー", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		_, err := u.UpdateNote(context.Background(), 1, usecase.UpdateNoteRequest{})

		assert.ErrorIs(t, err, usecase.ErrNoFieldsToUpdate)
	})

	t.Run("不正な日付は他フィールドが有効でも更新全体を拒否", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		_, err := u.UpdateNote(context.Background(), 1, usecase.UpdateNoteRequest{
			Title: strPtr("New title"),
			Date:  strPtr("2024-13-40"),
		})

		assert.Error(t, err)
		_, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("存在しないIDは not found", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Update", mock.Anything, 999999, mock.Anything).Return(nil, domain.ErrNotFound)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		_, err := u.UpdateNote(context.Background(), 999999, usecase.UpdateNoteRequest{
			Title: strPtr("T"),
		})

		assert.ErrorIs(t, err, usecase.ErrNoteNotFound)
	})
}

func TestNoteUsecase_DeleteNote(t *testing.T) {
	t.Run("successful deletion", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Delete", mock.Anything, 1).Return(nil)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		assert.NoError(t, u.DeleteNote(context.Background(), 1))
	})

	t.Run("存在しないIDは not found", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Delete", mock.Anything, 999999).Return(domain.ErrNotFound)
		u := usecase.NewNoteUsecase(mockRepo, 0)

		err := u.DeleteNote(context.Background(), 999999)
		assert.ErrorIs(t, err, usecase.ErrNoteNotFound)
	})

	t.Run("二重削除は2回目が not found（冪等ではない）", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Delete", mock.Anything, 1).Return(nil).Once()
		mockRepo.On("Delete", mock.Anything, 1).Return(domain.ErrNotFound).Once()
		u := usecase.NewNoteUsecase(mockRepo, 0)

		assert.NoError(t, u.DeleteNote(context.Background(), 1))
		assert.ErrorIs(t, u.DeleteNote(context.Background(), 1), usecase.ErrNoteNotFound)
	})
}

func TestNoteUsecase_StoreTimeout(t *testing.T) {
	t.Run("タイムアウトは StoreUnavailable に写像", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Delete", mock.Anything, 1).Return(context.DeadlineExceeded)
		u := usecase.NewNoteUsecase(mockRepo, time.Millisecond)

		err := u.DeleteNote(context.Background(), 1)
		assert.ErrorIs(t, err, usecase.ErrStoreUnavailable)
	})

	t.Run("リポジトリ呼び出しに期限付きコンテキストを渡す", func(t *testing.T) {
		mockRepo := new(MockNoteRepository)
		mockRepo.On("Delete", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), 1).Return(nil)
		u := usecase.NewNoteUsecase(mockRepo, time.Second)

		assert.NoError(t, u.DeleteNote(context.Background(), 1))
		mockRepo.AssertExpectations(t)
	})
}
