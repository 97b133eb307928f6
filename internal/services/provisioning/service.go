package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/logger"
	"github.com/spigell/assessor/internal/ports"
)

// Service makes sure exactly one record exists per candidate known to the HR directory.
type Service struct {
	directory ports.Directory
	records   ports.RecordStore
	logger    *zap.Logger
	now       func() time.Time
}

func New(directory ports.Directory, records ports.RecordStore, log *zap.Logger) *Service {
	return &Service{
		directory: directory,
		records:   records,
		logger:    logger.WithFields(log),
		now:       time.Now,
	}
}

// SetClock replaces the time source used for timestamps.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Provision resolves email in the HR directory and returns the candidate's record,
// creating it on first login and backfilling empty identity fields afterwards.
// The status of an existing record is never changed here.
func (s *Service) Provision(ctx context.Context, email string) (*domain.Record, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
	}

	log := logger.WithCandidate(s.logger, "", email)
	log.Info("candidate login received")

	identity, err := s.directory.Lookup(ctx, email)
	if err != nil {
		log.Warn("hr directory lookup failed", logger.Upstream("hr directory"), zap.Error(err))
		return nil, err
	}

	log = log.With(zap.String(logger.FieldCandidateID, identity.CandidateID))
	log.Info("hr directory resolved candidate", logger.Upstream("hr directory"))

	existing, err := s.records.FindByCandidateID(ctx, identity.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("find candidate record: %w", err)
	}
	if existing != nil {
		return s.backfill(ctx, log, existing, identity)
	}

	now := s.now().UTC()
	stored, err := s.records.Insert(ctx, &domain.Record{
		CandidateID: identity.CandidateID,
		Email:       identity.Email,
		Name:        identity.Name,
		Status:      domain.InitialStatus,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		// Lost the race against a concurrent first login; the other insert won.
		log.Info("candidate record created concurrently, continuing with existing record")
		existing, err = s.records.FindByCandidateID(ctx, identity.CandidateID)
		if err != nil {
			return nil, fmt.Errorf("find candidate record: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("%w: candidate record conflicted but cannot be found", domain.ErrPersistence)
		}
		return s.backfill(ctx, log, existing, identity)
	case err != nil:
		log.Error("storing candidate record failed", zap.Error(err))
		return nil, fmt.Errorf("%w: store candidate details: %v", domain.ErrPersistence, err)
	case stored == nil:
		log.Error("storing candidate record returned no row")
		return nil, fmt.Errorf("%w: failed to store candidate details", domain.ErrPersistence)
	}

	log.Info("candidate record created", zap.String("status", string(stored.Status)))
	return stored, nil
}

func (s *Service) backfill(ctx context.Context, log *zap.Logger, existing *domain.Record, identity *domain.Identity) (*domain.Record, error) {
	var patch domain.RecordPatch
	changed := false

	if strings.TrimSpace(existing.Email) == "" && identity.Email != "" {
		patch.Email = &identity.Email
		changed = true
	}
	if strings.TrimSpace(existing.Name) == "" && identity.Name != "" {
		patch.Name = &identity.Name
		changed = true
	}

	if !changed {
		log.Info("existing candidate logged in", zap.String("status", string(existing.Status)))
		return existing, nil
	}

	patch.UpdatedAt = s.now().UTC()
	updated, err := s.records.Update(ctx, existing.CandidateID, patch)
	if err != nil {
		log.Error("backfilling candidate record failed", zap.Error(err))
		return nil, fmt.Errorf("%w: backfill candidate details: %v", domain.ErrPersistence, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: candidate record disappeared during backfill", domain.ErrPersistence)
	}

	log.Info("candidate record backfilled",
		zap.Bool("email", patch.Email != nil),
		zap.Bool("name", patch.Name != nil),
	)
	return updated, nil
}

// Details returns the stored record for a candidate.
func (s *Service) Details(ctx context.Context, candidateID string) (*domain.Record, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, domain.ErrMissingCandidateID
	}

	rec, err := s.records.FindByCandidateID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("find candidate record: %w", err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCandidateNotFound, candidateID)
	}
	return rec, nil
}
