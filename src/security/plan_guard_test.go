package security_test

import (
	"testing"

	"notes-app/src/security"

	"github.com/stretchr/testify/assert"
)

func TestPlanGuard_ValidateOrderBy(t *testing.T) {
	g := security.NewPlanGuard()

	for _, column := range []string{"date", "title", "category"} {
		assert.NoError(t, g.ValidateOrderBy(column, "ASC"), column)
		assert.NoError(t, g.ValidateOrderBy(column, "DESC"), column)
	}

	assert.Error(t, g.ValidateOrderBy("id; DROP TABLE note", "ASC"))
	assert.Error(t, g.ValidateOrderBy("content", "ASC")) // 並び替え対象外のカラム
	assert.Error(t, g.ValidateOrderBy("date", "SIDEWAYS"))
	assert.Error(t, g.ValidateOrderBy("date", "asc")) // 正規化前の小文字は拒否
}

func TestPlanGuard_ValidateFilterColumn(t *testing.T) {
	g := security.NewPlanGuard()

	for _, column := range []string{"title", "content", "category"} {
		assert.NoError(t, g.ValidateFilterColumn(column), column)
	}

	assert.Error(t, g.ValidateFilterColumn("id"))
	assert.Error(t, g.ValidateFilterColumn("title; --"))
}

func TestPlanGuard_ValidateLimitOffset(t *testing.T) {
	g := security.NewPlanGuard()

	assert.NoError(t, g.ValidateLimitOffset(10, 0))
	assert.NoError(t, g.ValidateLimitOffset(1, 100000))

	assert.Error(t, g.ValidateLimitOffset(0, 0))
	assert.Error(t, g.ValidateLimitOffset(-1, 0))
	assert.Error(t, g.ValidateLimitOffset(1001, 0))
	assert.Error(t, g.ValidateLimitOffset(10, -1))
	assert.Error(t, g.ValidateLimitOffset(10, 100001))
}
