package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"notes-app/src/database"
	"notes-app/src/domain"
	"notes-app/src/query"
	"notes-app/src/security"

	"github.com/sirupsen/logrus"
)

// NoteRepository implements domain.NoteRepository against Postgres
type NoteRepository struct {
	db        *database.DB
	logger    *logrus.Logger
	planGuard *security.PlanGuard
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB, logger *logrus.Logger) domain.NoteRepository {
	return &NoteRepository{
		db:        db,
		logger:    logger,
		planGuard: security.NewPlanGuard(),
	}
}

// Create inserts a new note and returns it with the store-assigned id
func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	q := `
		INSERT INTO note (title, content, category, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int
	err := r.db.QueryRowContext(ctx, q,
		note.Title, note.Content, note.Category.String(), note.Date,
	).Scan(&id)

	if err != nil {
		r.logger.WithError(err).Error("ノートの作成に失敗")
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	created := &domain.Note{
		ID:       id,
		Title:    note.Title,
		Content:  note.Content,
		Category: note.Category,
		Date:     note.Date,
	}

	r.logger.WithField("note_id", id).Info("ノートを作成しました")
	return created, nil
}

// List executes a query plan and returns the matching page of notes plus
// the total row count independent of pagination
func (r *NoteRepository) List(ctx context.Context, plan *query.Plan) ([]domain.Note, int, error) {
	where, args, err := r.renderPredicates(plan.Predicates)
	if err != nil {
		return nil, 0, err
	}

	if err := r.planGuard.ValidateOrderBy(plan.Sort.Column, plan.Sort.Order); err != nil {
		return nil, 0, fmt.Errorf("unsafe query plan: %w", err)
	}
	if err := r.planGuard.ValidateLimitOffset(plan.Limit, plan.Offset); err != nil {
		return nil, 0, fmt.Errorf("unsafe query plan: %w", err)
	}

	q := `SELECT id, title, content, category, date FROM note` + where
	// カラム名はホワイトリスト検証済みのため直接埋め込んで良い
	q += fmt.Sprintf(" ORDER BY %s %s", plan.Sort.Column, plan.Sort.Order)
	q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, q, append(args, plan.Limit, plan.Offset)...)
	if err != nil {
		r.logger.WithError(err).Error("ノート一覧の取得に失敗")
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			r.logger.WithError(err).Error("ノートのスキャンに失敗")
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notes: %w", err)
	}

	// 総数はページングと独立に取得
	countQuery := `SELECT COUNT(*) FROM note` + where

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.WithError(err).Error("ノート総数の取得に失敗")
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	return notes, total, nil
}

// Update applies a change set to a note. The UPDATE statement itself is the
// authority on existence: sql.ErrNoRows from RETURNING means not found, so
// there is no check-then-act window between an existence read and the write.
func (r *NoteRepository) Update(ctx context.Context, id int, changes *domain.NoteChanges) (*domain.Note, error) {
	var setClauses []string
	var args []interface{}

	appendSet := func(column string, value string) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if changes.Title != nil {
		appendSet("title", *changes.Title)
	}
	if changes.Content != nil {
		appendSet("content", *changes.Content)
	}
	if changes.Category != nil {
		appendSet("category", *changes.Category)
	}
	if changes.Date != nil {
		appendSet("date", *changes.Date)
	}

	if len(setClauses) == 0 {
		return nil, fmt.Errorf("no columns to update")
	}

	args = append(args, id)
	q := fmt.Sprintf(`
		UPDATE note SET %s WHERE id = $%d
		RETURNING id, title, content, category, date`,
		strings.Join(setClauses, ", "), len(args))

	note, err := scanNote(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		r.logger.WithError(err).WithField("note_id", id).Error("ノートの更新に失敗")
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	r.logger.WithField("note_id", id).Info("ノートを更新しました")
	return note, nil
}

// Delete removes a note permanently. RowsAffected is the sole source of
// truth for existence; a concurrent delete that lost the race gets not found.
func (r *NoteRepository) Delete(ctx context.Context, id int) error {
	q := `DELETE FROM note WHERE id = $1`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		r.logger.WithError(err).WithField("note_id", id).Error("ノートの削除に失敗")
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	r.logger.WithField("note_id", id).Info("ノートを削除しました")
	return nil
}

// renderPredicates turns the plan's tagged predicates into a WHERE clause
// with $n placeholders. Values are always bound parameters.
func (r *NoteRepository) renderPredicates(predicates []query.Predicate) (string, []interface{}, error) {
	if len(predicates) == 0 {
		return "", nil, nil
	}

	var clauses []string
	var args []interface{}

	for _, p := range predicates {
		switch pred := p.(type) {
		case query.Equals:
			if err := r.planGuard.ValidateFilterColumn(pred.Column); err != nil {
				return "", nil, fmt.Errorf("unsafe query plan: %w", err)
			}
			args = append(args, pred.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", pred.Column, len(args)))
		case query.ContainsAny:
			args = append(args, "%"+pred.Term+"%")
			placeholder := len(args)
			var ors []string
			for _, column := range pred.Columns {
				if err := r.planGuard.ValidateFilterColumn(column); err != nil {
					return "", nil, fmt.Errorf("unsafe query plan: %w", err)
				}
				ors = append(ors, fmt.Sprintf("%s ILIKE $%d", column, placeholder))
			}
			clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
		default:
			return "", nil, fmt.Errorf("unknown predicate type %T", p)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanNote reads one note row. date カラムは DATE 型なので time.Time で
// 受け取り、境界で正規形式の文字列に変換する。
func scanNote(s scanner) (*domain.Note, error) {
	var note domain.Note
	var category string
	var date time.Time

	if err := s.Scan(&note.ID, &note.Title, &note.Content, &category, &date); err != nil {
		return nil, err
	}

	note.Category = domain.Category(category)
	note.Date = date.Format(domain.DateLayout)
	return &note, nil
}
