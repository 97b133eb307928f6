package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/spigell/assessor/internal/domain"
)

// Store is an in-process RecordStore and QuestionBank.
type Store struct {
	mu        sync.RWMutex
	records   map[string]domain.Record
	sets      map[string]domain.QuestionSet
	questions map[string][]domain.Question
}

func New() *Store {
	return &Store{
		records:   make(map[string]domain.Record),
		sets:      make(map[string]domain.QuestionSet),
		questions: make(map[string][]domain.Question),
	}
}

func (s *Store) FindByCandidateID(_ context.Context, candidateID string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[candidateID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *Store) Insert(_ context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.CandidateID]; ok {
		return nil, fmt.Errorf("insert %s: %w", rec.CandidateID, domain.ErrAlreadyExists)
	}

	stored := *rec
	stored.ID = uuid.NewString()
	s.records[stored.CandidateID] = stored
	return &stored, nil
}

func (s *Store) Update(_ context.Context, candidateID string, patch domain.RecordPatch) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[candidateID]
	if !ok {
		return nil, nil
	}
	if patch.OnlyIfOpen && !rec.Status.Open() {
		return nil, nil
	}

	patch.Apply(&rec)
	s.records[candidateID] = rec
	return &rec, nil
}

// Len reports how many records are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// PutQuestionSet seeds a question set with its questions.
func (s *Store) PutQuestionSet(set domain.QuestionSet, questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets[set.ID] = set
	s.questions[set.ID] = append([]domain.Question(nil), questions...)
}

func (s *Store) GetQuestionSet(_ context.Context, id string) (*domain.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, nil
	}
	return &set, nil
}

func (s *Store) ListQuestions(_ context.Context, questionSetID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Question(nil), s.questions[questionSetID]...), nil
}
