package ports

import (
	"context"

	"github.com/spigell/assessor/internal/domain"
)

// RecordStore keeps one test_results row per candidate. Lookups return nil, nil on no match.
type RecordStore interface {
	FindByCandidateID(ctx context.Context, candidateID string) (*domain.Record, error)
	// Insert returns the stored row, or an error wrapping domain.ErrAlreadyExists
	// when a row for the candidate is already there.
	Insert(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	// Update returns nil, nil when no row matched.
	Update(ctx context.Context, candidateID string, patch domain.RecordPatch) (*domain.Record, error)
}

// QuestionBank reads question sets. It is never written by this service.
type QuestionBank interface {
	GetQuestionSet(ctx context.Context, id string) (*domain.QuestionSet, error)
	// ListQuestions returns the set's questions in presentation order.
	ListQuestions(ctx context.Context, questionSetID string) ([]domain.Question, error)
}
