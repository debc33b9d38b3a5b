package query

import (
	"strings"
)

// ページングの既定値と上限
const (
	DefaultLimit = 10
	MaxLimit     = 50

	DefaultSort  = "date"
	DefaultOrder = "DESC"

	// categoryAll はフィルタ無効を意味する番兵値
	categoryAll = "All"
)

// sortableColumns は ORDER BY に使用できるカラムのホワイトリスト
var sortableColumns = map[string]bool{
	"date":     true,
	"title":    true,
	"category": true,
}

// Params represents raw list query parameters as received from the client
type Params struct {
	Page     int
	Limit    int
	Category string
	Search   string
	Sort     string
	Order    string
}

// Predicate is a tagged filter condition carrying its own bound value.
// Implementations are data only; SQL rendering happens at the repository.
type Predicate interface {
	isPredicate()
}

// Equals matches rows where Column equals Value exactly
type Equals struct {
	Column string
	Value  string
}

func (Equals) isPredicate() {}

// ContainsAny matches rows where Term is a case-insensitive substring
// of at least one of Columns
type ContainsAny struct {
	Columns []string
	Term    string
}

func (ContainsAny) isPredicate() {}

// SortSpec represents a validated sort column and direction
type SortSpec struct {
	Column string
	Order  string
}

// Plan is a bounded, injection-safe query plan ready for execution
type Plan struct {
	Predicates []Predicate
	Sort       SortSpec
	Limit      int
	Offset     int
}

// Build normalizes raw parameters into a valid Plan. Every input degrades
// to a safe default; Build never fails. 書き込み系の厳格なバリデーションとは
// 対照的に、読み取り系は常に寛容に扱う。
func Build(p Params) *Plan {
	page := p.Page
	if page < 1 {
		page = 1
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sort := strings.ToLower(strings.TrimSpace(p.Sort))
	if !sortableColumns[sort] {
		sort = DefaultSort
	}

	order := strings.ToUpper(strings.TrimSpace(p.Order))
	if order != "ASC" && order != "DESC" {
		order = DefaultOrder
	}

	var predicates []Predicate

	category := strings.TrimSpace(p.Category)
	if category != "" && category != categoryAll {
		predicates = append(predicates, Equals{Column: "category", Value: category})
	}

	search := strings.TrimSpace(p.Search)
	if search != "" {
		predicates = append(predicates, ContainsAny{
			Columns: []string{"title", "content"},
			Term:    search,
		})
	}

	return &Plan{
		Predicates: predicates,
		Sort:       SortSpec{Column: sort, Order: order},
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
}

// Page derives the current page number back from the plan
func (p *Plan) Page() int {
	return p.Offset/p.Limit + 1
}

// TotalPages computes ceil(total/limit) for the plan's limit
func (p *Plan) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
