package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestStatusAdvance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current Status
		next    Status
		expect  Status
	}{
		{name: "not started to completed", current: StatusNotStarted, next: StatusCompleted, expect: StatusCompleted},
		{name: "logged in to completed", current: StatusLoggedIn, next: StatusCompleted, expect: StatusCompleted},
		{name: "completed never regresses", current: StatusCompleted, next: StatusNotStarted, expect: StatusCompleted},
		{name: "empty keeps current", current: StatusLoggedIn, next: "", expect: StatusLoggedIn},
		{name: "unknown engine status is terminal", current: StatusNotStarted, next: "Evaluated", expect: "Evaluated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.current.Advance(tt.next); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestStatusOpen(t *testing.T) {
	t.Parallel()

	for status, open := range map[Status]bool{
		StatusNotStarted: true,
		StatusLoggedIn:   true,
		StatusCompleted:  false,
		"Passed":         false,
		"":               false,
	} {
		if got := status.Open(); got != open {
			t.Fatalf("%q: expected open=%v, got %v", status, open, got)
		}
	}

	for _, status := range OpenStatuses {
		if !status.Open() {
			t.Fatalf("%q is listed as open but is not", status)
		}
	}
}

func TestRecordPatchApply(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &Record{CandidateID: "c1", Email: "a@b.c", Status: StatusNotStarted, CreatedAt: created, UpdatedAt: created}

	name := "Jane"
	score := 7.0
	later := created.Add(time.Hour)
	RecordPatch{Name: &name, Score: &score, UpdatedAt: later}.Apply(rec)

	if rec.Name != "Jane" {
		t.Fatalf("expected name to be patched, got %q", rec.Name)
	}
	if rec.Email != "a@b.c" {
		t.Fatalf("email must be untouched, got %q", rec.Email)
	}
	if rec.Score == nil || *rec.Score != 7 {
		t.Fatalf("expected score 7, got %v", rec.Score)
	}
	if !rec.UpdatedAt.Equal(later) || !rec.CreatedAt.Equal(created) {
		t.Fatalf("unexpected timestamps: %+v", rec)
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("reconcile: %w", ErrMissingCandidateID)
	if !errors.Is(wrapped, ErrValidation) {
		t.Fatalf("missing candidate id must be a validation error")
	}
	if !errors.Is(ErrCandidateNotFound, ErrNotFound) {
		t.Fatalf("candidate not found must be a not found error")
	}
	if !errors.Is(ErrAlreadyCompleted, ErrConflict) || !errors.Is(ErrAlreadyExists, ErrConflict) {
		t.Fatalf("already completed/exists must be conflicts")
	}
	if errors.Is(ErrAlreadyCompleted, ErrAlreadyExists) {
		t.Fatalf("conflict kinds must stay distinguishable")
	}
}
