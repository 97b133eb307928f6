package ports

import (
	"context"

	"github.com/spigell/assessor/internal/domain"
)

// Directory resolves a candidate in the external HR system.
type Directory interface {
	Lookup(ctx context.Context, email string) (*domain.Identity, error)
}

// Scorer grades a submission. Missing fields in the evaluation are defaulted by the caller.
type Scorer interface {
	Evaluate(ctx context.Context, submission domain.Submission) (*domain.Evaluation, error)
}

// Provisioning is the candidate login flow.
type Provisioning interface {
	Provision(ctx context.Context, email string) (*domain.Record, error)
	Details(ctx context.Context, candidateID string) (*domain.Record, error)
}

type Delivery interface {
	Fetch(ctx context.Context, questionSetID string) (*domain.Delivery, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, submission domain.Submission) (*domain.ScoreResult, error)
}
