package validator

import (
	"fmt"
	"regexp"
	"strings"

	"notes-app/src/domain"

	"github.com/go-playground/validator/v10"
)

// 入力フィールドの長さ上限
const (
	MaxTitleLength   = 100
	MaxContentLength = 2000
)

var idPattern = regexp.MustCompile(`^\d+$`)

// FieldError はバリデーション違反の詳細情報
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors は複数のバリデーションエラー
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

func (ve ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d errors", len(ve.Errors))
}

// CustomValidator は拡張バリデーション機能を提供
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator creates a new custom validator instance
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	cv := &CustomValidator{validator: v}

	// カスタムバリデーションルールを登録
	v.RegisterValidation("note_date", cv.validateNoteDate)
	v.RegisterValidation("note_category", cv.validateNoteCategory)

	return cv
}

// Validate validates a struct and returns detailed error information
func (cv *CustomValidator) Validate(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		var fieldErrors []FieldError

		for _, err := range err.(validator.ValidationErrors) {
			fieldErrors = append(fieldErrors, FieldError{
				Field:  strings.ToLower(err.Field()),
				Reason: cv.generateErrorMessage(err),
			})
		}

		return ValidationErrors{Errors: fieldErrors}
	}
	return nil
}

// ValidateRequired checks that every required field is present and non-empty
// after trimming whitespace. Pure function: fields と required 以外の状態には
// 依存しない。
func ValidateRequired(fields map[string]string, required []string) []FieldError {
	var errors []FieldError
	for _, field := range required {
		value, ok := fields[field]
		if !ok || strings.TrimSpace(value) == "" {
			errors = append(errors, FieldError{
				Field:  field,
				Reason: fmt.Sprintf("%s is required", field),
			})
		}
	}
	return errors
}

// ValidateDate checks that s is a YYYY-MM-DD calendar date that reformats
// to the identical string
func ValidateDate(s string) error {
	if !domain.IsValidDate(s) {
		return fmt.Errorf("invalid date format, please use YYYY-MM-DD")
	}
	return nil
}

// ValidateCategory checks membership in the fixed label set
func ValidateCategory(s string) error {
	if !domain.Category(s).IsValid() {
		return fmt.Errorf("category must be one of: %s", categoryList())
	}
	return nil
}

// ValidateID validates ID parameters
func ValidateID(idStr string) (int, error) {
	// 数値以外の文字をチェック
	if !idPattern.MatchString(idStr) {
		return 0, fmt.Errorf("ID must be a positive integer")
	}

	// 長さチェック（異常に長いIDを防ぐ）
	if len(idStr) > 10 {
		return 0, fmt.Errorf("ID is too long")
	}

	var id int
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid ID format")
	}

	if id <= 0 {
		return 0, fmt.Errorf("ID must be positive")
	}

	return id, nil
}

// カスタムバリデーション関数

func (cv *CustomValidator) validateNoteDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 必須チェックは required タグ側で行う
	}
	return domain.IsValidDate(value)
}

func (cv *CustomValidator) validateNoteCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return domain.Category(value).IsValid()
}

// generateErrorMessage generates user-friendly error messages
func (cv *CustomValidator) generateErrorMessage(err validator.FieldError) string {
	field := strings.ToLower(err.Field())

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, err.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, err.Param())
	case "note_date":
		return "invalid date format, please use YYYY-MM-DD"
	case "note_category":
		return fmt.Sprintf("category must be one of: %s", categoryList())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func categoryList() string {
	labels := domain.Categories()
	parts := make([]string, len(labels))
	for i, c := range labels {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
