package handler

import (
	"errors"
	"net/http"
	"strconv"

	"notes-app/src/query"
	"notes-app/src/usecase"
	"notes-app/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NoteHandler handles HTTP requests for note operations
type NoteHandler struct {
	noteUsecase usecase.NoteUsecase
	validator   *validator.CustomValidator
	logger      *logrus.Logger
	production  bool
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteUsecase usecase.NoteUsecase, cv *validator.CustomValidator, logger *logrus.Logger, production bool) *NoteHandler {
	return &NoteHandler{
		noteUsecase: noteUsecase,
		validator:   cv,
		logger:      logger,
		production:  production,
	}
}

// CreateNote creates a new note
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req CreateNoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Status:  "error",
			Message: "Invalid JSON data provided",
		})
		return
	}

	// DTOレベルの検証（全フィールドの違反をまとめて返す）
	if err := h.validator.Validate(&req); err != nil {
		h.respondError(c, err)
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), usecase.CreateNoteRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		h.logger.WithError(err).Error("ノートの作成に失敗")
		h.respondError(c, err)
		return
	}

	h.logger.WithField("note_id", note.ID).Info("ノートを作成しました")
	c.JSON(http.StatusCreated, SuccessResponseDTO{
		Status:  "success",
		Message: "Note added successfully",
		Data:    note,
	})
}

// ListNotes retrieves notes with filtering, sorting and pagination.
// クエリパラメータは全て寛容に扱い、不正値は既定値へ正規化する
// （一覧取得がバリデーションで失敗することはない）。
func (h *NoteHandler) ListNotes(c *gin.Context) {
	params := query.Params{
		Page:     lenientAtoi(c.Query("page")),
		Limit:    lenientAtoi(c.Query("limit")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Order:    c.Query("order"),
	}

	list, err := h.noteUsecase.ListNotes(c.Request.Context(), params)
	if err != nil {
		h.logger.WithError(err).Error("ノート一覧の取得に失敗")
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponseDTO{
		Status: "success",
		Data:   list,
	})
}

// UpdateNote updates an existing note
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}

	var req UpdateNoteRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("リクエストのバインドに失敗")
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Status:  "error",
			Message: "Invalid JSON data provided",
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.respondError(c, err)
		return
	}

	note, err := h.noteUsecase.UpdateNote(c.Request.Context(), id, usecase.UpdateNoteRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		h.logger.WithError(err).WithField("note_id", id).Warn("ノートの更新に失敗")
		h.respondError(c, err)
		return
	}

	h.logger.WithField("note_id", id).Info("ノートを更新しました")
	c.JSON(http.StatusOK, SuccessResponseDTO{
		Status:  "success",
		Message: "Note updated successfully",
		Data:    note,
	})
}

// DeleteNote deletes a note permanently
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}

	if err := h.noteUsecase.DeleteNote(c.Request.Context(), id); err != nil {
		h.logger.WithError(err).WithField("note_id", id).Warn("ノートの削除に失敗")
		h.respondError(c, err)
		return
	}

	h.logger.WithField("note_id", id).Info("ノートを削除しました")
	c.JSON(http.StatusOK, SuccessResponseDTO{
		Status:  "success",
		Message: "Note deleted successfully",
		Data:    DeletedNoteDTO{ID: id},
	})
}

// noteID parses and validates the id path parameter
func (h *NoteHandler) noteID(c *gin.Context) (int, bool) {
	id, err := validator.ValidateID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Status:  "error",
			Message: "Valid note ID is required",
		})
		return 0, false
	}
	return id, true
}

// respondError maps usecase errors onto HTTP status codes and the error envelope
func (h *NoteHandler) respondError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Status:  "error",
			Message: "Validation failed",
			Errors:  validationErrors.Errors,
		})
		return
	}

	switch {
	case errors.Is(err, usecase.ErrNoFieldsToUpdate):
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Status:  "error",
			Message: "No valid fields provided for update",
		})
	case errors.Is(err, usecase.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, ErrorResponseDTO{
			Status:  "error",
			Message: "Note not found",
		})
	default:
		// ストア起因の失敗。詳細はサーバー側ログに残し、クライアントには
		// 非本番環境でのみ debug として返す
		resp := ErrorResponseDTO{
			Status:  "error",
			Message: "Database error occurred",
		}
		if !h.production {
			resp.Debug = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// lenientAtoi parses an int, degrading to 0 on any malformed input
func lenientAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
