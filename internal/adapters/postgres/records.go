package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spigell/assessor/internal/domain"
)

const recordColumns = `id::text, candidate_id, email, name, status, question_set_id::text,
	score, max_score, percentage, total_questions, raw_feedback,
	duration_used_seconds, duration_used_minutes, created_at, updated_at, completed_at`

func scanRecord(row pgx.Row) (*domain.Record, error) {
	var r domain.Record
	var status string
	err := row.Scan(
		&r.ID, &r.CandidateID, &r.Email, &r.Name, &status, &r.QuestionSetID,
		&r.Score, &r.MaxScore, &r.Percentage, &r.TotalQuestions, &r.RawFeedback,
		&r.DurationUsedSeconds, &r.DurationUsedMinutes, &r.CreatedAt, &r.UpdatedAt, &r.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Status = domain.Status(status)
	return &r, nil
}

// FindByCandidateID returns the candidate's test_results row, or nil when there is none.
func (db *DB) FindByCandidateID(ctx context.Context, candidateID string) (*domain.Record, error) {
	rec, err := scanRecord(db.Pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM test_results WHERE candidate_id = $1`, candidateID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select test result: %w", err)
	}
	return rec, nil
}

func (db *DB) Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec == nil {
		return nil, nil
	}
	stored, err := scanRecord(db.Pool.QueryRow(ctx, `
		INSERT INTO test_results (candidate_id, email, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (candidate_id) DO NOTHING
		RETURNING `+recordColumns,
		rec.CandidateID, rec.Email, rec.Name, string(rec.Status), rec.CreatedAt, rec.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("insert %s: %w", rec.CandidateID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("insert test result: %w", err)
	}
	return stored, nil
}

func (db *DB) Update(ctx context.Context, candidateID string, patch domain.RecordPatch) (*domain.Record, error) {
	query, args := buildUpdate(candidateID, patch)
	rec, err := scanRecord(db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update test result: %w", err)
	}
	return rec, nil
}

// buildUpdate renders a single UPDATE touching only the columns set in the patch.
func buildUpdate(candidateID string, p domain.RecordPatch) (string, []any) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Email != nil {
		set("email", *p.Email)
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.QuestionSetID != nil {
		args = append(args, *p.QuestionSetID)
		sets = append(sets, fmt.Sprintf("question_set_id = $%d::uuid", len(args)))
	}
	if p.Score != nil {
		set("score", *p.Score)
	}
	if p.MaxScore != nil {
		set("max_score", *p.MaxScore)
	}
	if p.Percentage != nil {
		set("percentage", *p.Percentage)
	}
	if p.TotalQuestions != nil {
		set("total_questions", *p.TotalQuestions)
	}
	if p.RawFeedback != nil {
		set("raw_feedback", *p.RawFeedback)
	}
	if p.DurationUsedSeconds != nil {
		set("duration_used_seconds", *p.DurationUsedSeconds)
	}
	if p.DurationUsedMinutes != nil {
		set("duration_used_minutes", *p.DurationUsedMinutes)
	}
	if p.CompletedAt != nil {
		set("completed_at", *p.CompletedAt)
	}
	if p.UpdatedAt.IsZero() {
		sets = append(sets, "updated_at = now()")
	} else {
		set("updated_at", p.UpdatedAt)
	}

	args = append(args, candidateID)
	where := fmt.Sprintf("candidate_id = $%d", len(args))
	if p.OnlyIfOpen {
		open := make([]string, 0, len(domain.OpenStatuses))
		for _, status := range domain.OpenStatuses {
			args = append(args, string(status))
			open = append(open, fmt.Sprintf("$%d", len(args)))
		}
		where += " AND status IN (" + strings.Join(open, ", ") + ")"
	}

	query := "UPDATE test_results SET " + strings.Join(sets, ", ") +
		" WHERE " + where + " RETURNING " + recordColumns
	return query, args
}
