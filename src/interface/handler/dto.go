package handler

import (
	"notes-app/src/validator"
)

// CreateNoteRequestDTO represents HTTP request for creating a note
type CreateNoteRequestDTO struct {
	Title    string `json:"title" validate:"required,max=100"`
	Content  string `json:"content" validate:"required,max=2000"`
	Category string `json:"category" validate:"required,note_category"`
	Date     string `json:"date" validate:"required,note_date"`
}

// UpdateNoteRequestDTO represents HTTP request for updating a note
type UpdateNoteRequestDTO struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=100"`
	Content  *string `json:"content,omitempty" validate:"omitempty,max=2000"`
	Category *string `json:"category,omitempty"`
	Date     *string `json:"date,omitempty" validate:"omitempty,note_date"`
}

// SuccessResponseDTO is the envelope for successful responses
type SuccessResponseDTO struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponseDTO is the envelope for error responses.
// Debug は非本番環境でのみ設定される。
type ErrorResponseDTO struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
	Debug   string                 `json:"debug,omitempty"`
}

// DeletedNoteDTO carries the id of a deleted note
type DeletedNoteDTO struct {
	ID int `json:"id"`
}
