package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"notes-app/src/domain"
	"notes-app/src/query"
	"notes-app/src/validator"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNoFieldsToUpdate = errors.New("no valid fields provided for update")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DefaultStoreTimeout はリポジトリ呼び出し1回あたりの既定タイムアウト
const DefaultStoreTimeout = 5 * time.Second

// CreateNoteRequest represents input for creating a note
type CreateNoteRequest struct {
	Title    string
	Content  string
	Category string
	Date     string
}

// UpdateNoteRequest represents input for updating a note.
// nil のフィールドは「未指定」を意味する。
type UpdateNoteRequest struct {
	Title    *string
	Content  *string
	Category *string
	Date     *string
}

// Pagination carries page arithmetic for a list result
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalNotes  int `json:"total_notes"`
	Limit       int `json:"limit"`
}

// NoteList represents a paginated list result
type NoteList struct {
	Notes      []domain.Note `json:"notes"`
	Pagination Pagination    `json:"pagination"`
}

// NoteUsecase defines the interface for note business logic
type NoteUsecase interface {
	CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error)
	ListNotes(ctx context.Context, params query.Params) (*NoteList, error)
	UpdateNote(ctx context.Context, id int, req UpdateNoteRequest) (*domain.Note, error)
	DeleteNote(ctx context.Context, id int) error
}

type noteUsecase struct {
	noteRepo     domain.NoteRepository
	storeTimeout time.Duration
}

// NewNoteUsecase creates a new note usecase
func NewNoteUsecase(noteRepo domain.NoteRepository, storeTimeout time.Duration) NoteUsecase {
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &noteUsecase{
		noteRepo:     noteRepo,
		storeTimeout: storeTimeout,
	}
}

// CreateNote validates the request and persists a new note
func (u *noteUsecase) CreateNote(ctx context.Context, req CreateNoteRequest) (*domain.Note, error) {
	if err := u.validateCreateRequest(req); err != nil {
		return nil, err
	}

	note := &domain.Note{
		Title:    req.Title,
		Content:  req.Content,
		Category: domain.Category(req.Category),
		Date:     req.Date,
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	created, err := u.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, u.mapStoreError(err)
	}
	return created, nil
}

// ListNotes builds a query plan and returns the matching page of notes.
// 読み取り系は決して検証エラーにならない（パラメータは全て正規化される）。
func (u *noteUsecase) ListNotes(ctx context.Context, params query.Params) (*NoteList, error) {
	plan := query.Build(params)

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	notes, total, err := u.noteRepo.List(ctx, plan)
	if err != nil {
		return nil, u.mapStoreError(err)
	}

	if notes == nil {
		notes = []domain.Note{}
	}

	return &NoteList{
		Notes: notes,
		Pagination: Pagination{
			CurrentPage: plan.Page(),
			TotalPages:  plan.TotalPages(total),
			TotalNotes:  total,
			Limit:       plan.Limit,
		},
	}, nil
}

// UpdateNote applies the supplied fields onto the stored note
func (u *noteUsecase) UpdateNote(ctx context.Context, id int, req UpdateNoteRequest) (*domain.Note, error) {
	changes, err := u.buildChanges(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	updated, err := u.noteRepo.Update(ctx, id, changes)
	if err != nil {
		return nil, u.mapStoreError(err)
	}
	return updated, nil
}

// DeleteNote removes a note permanently
func (u *noteUsecase) DeleteNote(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, u.storeTimeout)
	defer cancel()

	if err := u.noteRepo.Delete(ctx, id); err != nil {
		return u.mapStoreError(err)
	}
	return nil
}

// validateCreateRequest collects every violation into a single error
func (u *noteUsecase) validateCreateRequest(req CreateNoteRequest) error {
	fields := map[string]string{
		"title":    req.Title,
		"content":  req.Content,
		"category": req.Category,
		"date":     req.Date,
	}
	fieldErrors := validator.ValidateRequired(fields, []string{"title", "content", "category", "date"})

	missing := make(map[string]bool, len(fieldErrors))
	for _, fe := range fieldErrors {
		missing[fe.Field] = true
	}

	// 欠落していないフィールドのみ形式チェックを行う
	if !missing["title"] && utf8.RuneCountInString(req.Title) > validator.MaxTitleLength {
		fieldErrors = append(fieldErrors, validator.FieldError{
			Field:  "title",
			Reason: fmt.Sprintf("title must be at most %d characters", validator.MaxTitleLength),
		})
	}
	if !missing["content"] && utf8.RuneCountInString(req.Content) > validator.MaxContentLength {
		fieldErrors = append(fieldErrors, validator.FieldError{
			Field:  "content",
			Reason: fmt.Sprintf("content must be at most %d characters", validator.MaxContentLength),
		})
	}
	if !missing["category"] {
		if err := validator.ValidateCategory(req.Category); err != nil {
			fieldErrors = append(fieldErrors, validator.FieldError{Field: "category", Reason: err.Error()})
		}
	}
	if !missing["date"] {
		if err := validator.ValidateDate(req.Date); err != nil {
			fieldErrors = append(fieldErrors, validator.FieldError{Field: "date", Reason: err.Error()})
		}
	}

	if len(fieldErrors) > 0 {
		return validator.ValidationErrors{Errors: fieldErrors}
	}
	return nil
}

// buildChanges converts an update request into a column change set.
// 空白のみのフィールドは「未指定」扱い。日付だけは指定された時点で厳格に
// 検証し、不正なら更新全体を拒否する。
func (u *noteUsecase) buildChanges(req UpdateNoteRequest) (*domain.NoteChanges, error) {
	changes := &domain.NoteChanges{}
	var fieldErrors []validator.FieldError

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		if utf8.RuneCountInString(*req.Title) > validator.MaxTitleLength {
			fieldErrors = append(fieldErrors, validator.FieldError{
				Field:  "title",
				Reason: fmt.Sprintf("title must be at most %d characters", validator.MaxTitleLength),
			})
		} else {
			changes.Title = req.Title
		}
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
		if utf8.RuneCountInString(*req.Content) > validator.MaxContentLength {
			fieldErrors = append(fieldErrors, validator.FieldError{
				Field:  "content",
				Reason: fmt.Sprintf("content must be at most %d characters", validator.MaxContentLength),
			})
		} else {
			changes.Content = req.Content
		}
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		if err := validator.ValidateCategory(*req.Category); err != nil {
			fieldErrors = append(fieldErrors, validator.FieldError{Field: "category", Reason: err.Error()})
		} else {
			changes.Category = req.Category
		}
	}
	if req.Date != nil {
		if err := validator.ValidateDate(*req.Date); err != nil {
			fieldErrors = append(fieldErrors, validator.FieldError{Field: "date", Reason: err.Error()})
		} else {
			changes.Date = req.Date
		}
	}

	if len(fieldErrors) > 0 {
		return nil, validator.ValidationErrors{Errors: fieldErrors}
	}

	if changes.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return changes, nil
}

// mapStoreError maps repository failures onto the usecase error taxonomy
func (u *noteUsecase) mapStoreError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return ErrNoteNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrStoreUnavailable
	default:
		return err
	}
}
