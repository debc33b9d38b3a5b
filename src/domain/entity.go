package domain

import (
	"time"
)

// DateLayout はノートの日付の正規形式（YYYY-MM-DD）
const DateLayout = "2006-01-02"

// Note represents a note domain entity
type Note struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
	Date     string   `json:"date"`
}

// Category represents the fixed set of note category labels
type Category string

const (
	CategoryPersonal  Category = "Personal"
	CategoryWork      Category = "Work"
	CategoryIdeas     Category = "Ideas"
	CategoryImportant Category = "Important"

	// CategoryAll はフィルタ専用の番兵値（保存されることはない）
	CategoryAll Category = "All"
)

// IsValid validates if the category is a storable label
func (c Category) IsValid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryIdeas, CategoryImportant:
		return true
	default:
		return false
	}
}

// String returns string representation of Category
func (c Category) String() string {
	return string(c)
}

// Categories returns all storable category labels
func Categories() []Category {
	return []Category{CategoryPersonal, CategoryWork, CategoryIdeas, CategoryImportant}
}

// NoteChanges represents a partial update: nil fields are left untouched.
// 更新は変更対象カラムだけを UPDATE 文に載せるため、フルエンティティではなく
// 差分で受け渡す。
type NoteChanges struct {
	Title    *string
	Content  *string
	Category *string
	Date     *string
}

// IsEmpty reports whether no field is set
func (c *NoteChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil && c.Category == nil && c.Date == nil
}

// IsValidDate reports whether s is a calendar date that round-trips
// exactly through the YYYY-MM-DD layout (rejects values like 2024-02-30)
func IsValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}
