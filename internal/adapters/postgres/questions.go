package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/assessor/internal/domain"
)

// GetQuestionSet returns nil when id is unknown or is not a UUID.
func (db *DB) GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error) {
	setID, ok := canonicalID(id)
	if !ok {
		return nil, nil
	}

	var set domain.QuestionSet
	err := db.Pool.QueryRow(ctx, `
		SELECT id::text, expires_at::text, duration
		FROM question_sets
		WHERE id = $1::uuid
	`, setID).Scan(&set.ID, &set.ExpiresAt, &set.Duration)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select question set: %w", err)
	}
	return &set, nil
}

func (db *DB) ListQuestions(ctx context.Context, questionSetID string) ([]domain.Question, error) {
	setID, ok := canonicalID(questionSetID)
	if !ok {
		return nil, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT question, COALESCE(options, '[]'::jsonb), answer
		FROM questions
		WHERE question_set_id = $1::uuid
		ORDER BY position, id
	`, setID)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}

	questions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Question, error) {
		var q domain.Question
		err := row.Scan(&q.Question, &q.Options, &q.Answer)
		return q, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan questions: %w", err)
	}
	return questions, nil
}

// canonicalID lower-cases a UUID so it compares against uuid columns.
func canonicalID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
