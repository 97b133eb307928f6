package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/adapters/memory"
	"github.com/spigell/assessor/internal/domain"
)

const setID = "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10"

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newService(set domain.QuestionSet, questions []domain.Question) *Service {
	store := memory.New()
	store.PutQuestionSet(set, questions)
	svc := New(store, zap.NewNop())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Question: "First?", Options: []string{"a", "b"}, Answer: "a"},
		{Question: "Second?", Answer: "secret"},
	}
}

func TestFetch(t *testing.T) {
	svc := newService(domain.QuestionSet{ID: setID, Duration: ptr(45)}, sampleQuestions())

	got, err := svc.Fetch(context.Background(), setID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.TestID != setID || got.Duration != 45 {
		t.Fatalf("unexpected delivery: %+v", got)
	}
	if len(got.Questions) != 2 || got.Questions[0].Question != "First?" || got.Questions[1].Question != "Second?" {
		t.Fatalf("expected questions in store order, got %+v", got.Questions)
	}

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(payload), "secret") || strings.Contains(string(payload), "answer") {
		t.Fatalf("answers leaked into delivery: %s", payload)
	}
}

func TestFetchDefaultDuration(t *testing.T) {
	svc := newService(domain.QuestionSet{ID: setID}, sampleQuestions())

	got, err := svc.Fetch(context.Background(), setID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Duration != DefaultDuration {
		t.Fatalf("expected default duration %d, got %d", DefaultDuration, got.Duration)
	}
}

func TestFetchExpiryBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		expiresAt string
		expectErr error
	}{
		{name: "one second ago", expiresAt: fixedNow.Add(-time.Second).Format(time.RFC3339), expectErr: domain.ErrExpired},
		{name: "one second ahead", expiresAt: fixedNow.Add(time.Second).Format(time.RFC3339)},
		{name: "exactly now", expiresAt: fixedNow.Format(time.RFC3339)},
		{name: "offset in the past", expiresAt: "2025-03-01T12:59:59+03:00", expectErr: domain.ErrExpired},
		{name: "postgres text form ahead", expiresAt: "2025-03-01 10:00:01.5+00"},
		{name: "empty means no expiry", expiresAt: "  "},
		{name: "garbage", expiresAt: "next tuesday", expectErr: domain.ErrMalformedExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(domain.QuestionSet{ID: setID, ExpiresAt: ptr(tt.expiresAt)}, sampleQuestions())

			_, err := svc.Fetch(context.Background(), setID)
			if tt.expectErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectErr) {
				t.Fatalf("expected %v, got %v", tt.expectErr, err)
			}
		})
	}
}

func TestFetchNotFound(t *testing.T) {
	svc := newService(domain.QuestionSet{ID: setID}, nil)

	if _, err := svc.Fetch(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown set, got %v", err)
	}
	if _, err := svc.Fetch(context.Background(), setID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty set, got %v", err)
	}
}

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	expect := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)
	inputs := []string{
		"2025-06-30T23:59:00Z",
		"2025-06-30T23:59:00+00:00",
		"2025-07-01T02:59:00+03:00",
		"2025-06-30T23:59:00.000000Z",
		"2025-06-30 23:59:00+00",
		"2025-07-01 05:29:00+05:30",
		"2025-06-30T23:59:00",
		" 2025-06-30 23:59:00 ",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseExpiry(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(expect) {
				t.Fatalf("expected %s, got %s", expect, got)
			}
		})
	}

	if _, err := ParseExpiry("30/06/2025"); !errors.Is(err, domain.ErrMalformedExpiry) {
		t.Fatalf("expected ErrMalformedExpiry, got %v", err)
	}
}
