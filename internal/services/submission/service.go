package submission

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/logger"
	"github.com/spigell/assessor/internal/ports"
)

// PointsPerQuestion backs the default max score when the engine does not report one.
const PointsPerQuestion = 10

// Service scores submissions and folds the outcome into the candidate's existing record.
type Service struct {
	records ports.RecordStore
	scorer  ports.Scorer
	logger  *zap.Logger
	now     func() time.Time
}

func New(records ports.RecordStore, scorer ports.Scorer, log *zap.Logger) *Service {
	return &Service{
		records: records,
		scorer:  scorer,
		logger:  logger.WithFields(log),
		now:     time.Now,
	}
}

// SetClock replaces the time source used for completion timestamps.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Reconcile grades a submission and records the result with a single update.
// It never creates a record: candidates must have been provisioned first.
func (s *Service) Reconcile(ctx context.Context, sub domain.Submission) (*domain.ScoreResult, error) {
	candidateID := strings.TrimSpace(sub.CandidateID)
	if candidateID == "" {
		return nil, domain.ErrMissingCandidateID
	}
	sub.CandidateID = candidateID

	log := logger.WithCandidate(s.logger, candidateID, "").With(
		zap.String(logger.FieldQuestionSetID, sub.QuestionSetID),
	)
	log.Info("submission received", zap.Int("questions", len(sub.Questions)), zap.Int("answers", len(sub.Answers)))

	existing, err := s.records.FindByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("find candidate record: %w", err)
	}
	if existing == nil {
		log.Warn("submission for unknown candidate")
		return nil, fmt.Errorf("%w: %s", domain.ErrCandidateNotFound, candidateID)
	}
	if !existing.Status.Open() {
		log.Warn("submission for candidate that already completed the test")
		return nil, domain.ErrAlreadyCompleted
	}

	evaluation, err := s.scorer.Evaluate(ctx, sub)
	if err != nil {
		log.Warn("scoring failed", logger.Upstream("scoring engine"), zap.Error(err))
		return nil, err
	}
	if evaluation == nil {
		evaluation = &domain.Evaluation{}
	}

	score := normalize(evaluation, len(sub.Questions))
	log.Info("submission scored", logger.Upstream("scoring engine"),
		zap.Float64("score", score.Score),
		zap.Float64("max_score", score.MaxScore),
		zap.String("engine_status", score.EngineStatus),
	)

	now := s.now().UTC()
	// The engine's own status label never reaches the record.
	status := domain.StatusCompleted
	total := len(sub.Questions)
	patch := domain.RecordPatch{
		Score:               &score.Score,
		MaxScore:            &score.MaxScore,
		Percentage:          &score.Percentage,
		Status:              &status,
		TotalQuestions:      &total,
		RawFeedback:         &score.RawFeedback,
		DurationUsedSeconds: sub.DurationUsed,
		DurationUsedMinutes: DurationMinutes(sub.DurationUsed),
		CompletedAt:         &now,
		UpdatedAt:           now,
		OnlyIfOpen:          true,
	}
	if id := strings.TrimSpace(sub.QuestionSetID); id != "" {
		patch.QuestionSetID = &id
	}

	updated, err := s.records.Update(ctx, candidateID, patch)
	if err != nil {
		log.Error("storing submission result failed", zap.Error(err))
		return nil, fmt.Errorf("%w: update test result: %v", domain.ErrPersistence, err)
	}
	if updated == nil {
		log.Error("storing submission result updated no row")
		return nil, fmt.Errorf("%w: no candidate record was updated", domain.ErrPersistence)
	}

	log.Info("submission result stored", zap.String("result_id", updated.ID), zap.String("status", string(updated.Status)))

	return &domain.ScoreResult{
		Score:        score.Score,
		MaxScore:     score.MaxScore,
		Percentage:   score.Percentage,
		Status:       updated.Status,
		RawFeedback:  score.RawFeedback,
		ResultID:     updated.ID,
		DurationUsed: sub.DurationUsed,
	}, nil
}

type normalized struct {
	Score       float64
	MaxScore    float64
	Percentage  float64
	RawFeedback string
	// EngineStatus is the engine's own verdict label. It is logged, never stored.
	EngineStatus string
}

func normalize(e *domain.Evaluation, questionCount int) normalized {
	out := normalized{
		MaxScore:     float64(PointsPerQuestion * questionCount),
		RawFeedback:  e.RawFeedback,
		EngineStatus: strings.TrimSpace(e.Status),
	}
	if e.Score != nil {
		out.Score = *e.Score
	}
	if e.MaxScore != nil {
		out.MaxScore = *e.MaxScore
	}
	switch {
	case e.Percentage != nil:
		out.Percentage = *e.Percentage
	case out.MaxScore > 0:
		out.Percentage = round2(out.Score / out.MaxScore * 100)
	}
	return out
}

// DurationMinutes converts seconds to minutes rounded to two decimals. Nil stays nil.
func DurationMinutes(seconds *int) *float64 {
	if seconds == nil {
		return nil
	}
	minutes := round2(float64(*seconds) / 60)
	return &minutes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
