package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/logger"
	"github.com/spigell/assessor/internal/ports"
)

// DefaultDuration is the allowed test time in minutes when a set does not specify one.
const DefaultDuration = 20

// Service hands out question sets that have not expired.
type Service struct {
	bank   ports.QuestionBank
	logger *zap.Logger
	now    func() time.Time
}

func New(bank ports.QuestionBank, log *zap.Logger) *Service {
	return &Service{bank: bank, logger: logger.WithFields(log), now: time.Now}
}

// SetClock replaces the time source used for expiry checks.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Fetch returns the questions of a set without their answers.
func (s *Service) Fetch(ctx context.Context, questionSetID string) (*domain.Delivery, error) {
	questionSetID = strings.TrimSpace(questionSetID)
	if questionSetID == "" {
		return nil, fmt.Errorf("%w: question set id is required", domain.ErrValidation)
	}

	log := s.logger.With(zap.String(logger.FieldQuestionSetID, questionSetID))

	set, err := s.bank.GetQuestionSet(ctx, questionSetID)
	if err != nil {
		return nil, fmt.Errorf("get question set: %w", err)
	}
	if set == nil {
		return nil, fmt.Errorf("%w: test not found", domain.ErrNotFound)
	}

	if set.ExpiresAt != nil && strings.TrimSpace(*set.ExpiresAt) != "" {
		expiresAt, err := ParseExpiry(*set.ExpiresAt)
		if err != nil {
			log.Error("question set has unparseable expiry", zap.String("expires_at", *set.ExpiresAt))
			return nil, err
		}
		if s.now().UTC().After(expiresAt) {
			log.Info("question set expired", zap.Time("expires_at", expiresAt))
			return nil, fmt.Errorf("%w: test expired at %s", domain.ErrExpired, expiresAt.Format(time.RFC3339))
		}
	}

	questions, err := s.bank.ListQuestions(ctx, questionSetID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions found", domain.ErrNotFound)
	}

	public := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, domain.PublicQuestion{Question: q.Question, Options: q.Options})
	}

	duration := DefaultDuration
	if set.Duration != nil && *set.Duration > 0 {
		duration = *set.Duration
	}

	log.Debug("question set delivered", zap.Int("questions", len(public)), zap.Int("duration", duration))

	return &domain.Delivery{
		Questions: public,
		Duration:  duration,
		TestID:    questionSetID,
	}, nil
}
