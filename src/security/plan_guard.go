package security

import (
	"fmt"
)

// PlanGuard validates query plans immediately before execution.
// クエリビルダー側で正規化済みだが、SQL 組み立ての直前にもう一段の
// ホワイトリスト検証を行う（多層防御）。
type PlanGuard struct {
	allowedSortColumns   map[string]bool
	allowedFilterColumns map[string]bool
}

// NewPlanGuard creates a guard for the note table schema
func NewPlanGuard() *PlanGuard {
	return &PlanGuard{
		allowedSortColumns: map[string]bool{
			"date":     true,
			"title":    true,
			"category": true,
		},
		allowedFilterColumns: map[string]bool{
			"title":    true,
			"content":  true,
			"category": true,
		},
	}
}

// ValidateOrderBy validates a sort column and direction against the whitelist
func (g *PlanGuard) ValidateOrderBy(column, order string) error {
	if !g.allowedSortColumns[column] {
		return fmt.Errorf("sort column not allowed: %s", column)
	}
	if order != "ASC" && order != "DESC" {
		return fmt.Errorf("sort order not allowed: %s", order)
	}
	return nil
}

// ValidateFilterColumn checks that a predicate targets a known column
func (g *PlanGuard) ValidateFilterColumn(column string) error {
	if !g.allowedFilterColumns[column] {
		return fmt.Errorf("filter column not allowed: %s", column)
	}
	return nil
}

// ValidateLimitOffset validates pagination bounds to prevent resource exhaustion
func (g *PlanGuard) ValidateLimitOffset(limit, offset int) error {
	if limit < 1 {
		return fmt.Errorf("limit must be positive")
	}
	if limit > 1000 {
		return fmt.Errorf("limit too large (max: 1000)")
	}
	if offset < 0 {
		return fmt.Errorf("offset must be non-negative")
	}
	if offset > 100000 {
		return fmt.Errorf("offset too large (max: 100000)")
	}
	return nil
}
