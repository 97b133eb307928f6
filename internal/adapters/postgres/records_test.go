package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/ports"
)

var (
	_ ports.RecordStore  = (*DB)(nil)
	_ ports.QuestionBank = (*DB)(nil)
)

func TestBuildUpdateOnlyTouchesSetColumns(t *testing.T) {
	t.Parallel()

	name := "Jane"
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	query, args := buildUpdate("c-1", domain.RecordPatch{Name: &name, UpdatedAt: at})

	if !strings.HasPrefix(query, "UPDATE test_results SET name = $1, updated_at = $2 WHERE candidate_id = $3 RETURNING ") {
		t.Fatalf("unexpected query: %s", query)
	}
	if strings.Contains(query, "email =") || strings.Contains(query, "status IN") {
		t.Fatalf("query touches unset columns: %s", query)
	}
	if len(args) != 3 || args[0] != "Jane" || args[1] != at || args[2] != "c-1" {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestBuildUpdateOnlyIfOpen(t *testing.T) {
	t.Parallel()

	status := domain.StatusCompleted
	setID := "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10"
	score := 40.0

	query, args := buildUpdate("c-1", domain.RecordPatch{
		Status:        &status,
		QuestionSetID: &setID,
		Score:         &score,
		OnlyIfOpen:    true,
	})

	expect := "SET status = $1, question_set_id = $2::uuid, score = $3, updated_at = now() WHERE candidate_id = $4 AND status IN ($5, $6) RETURNING "
	if !strings.Contains(query, expect) {
		t.Fatalf("expected %q in %s", expect, query)
	}
	if len(args) != 6 || args[3] != "c-1" || args[4] != "Not Started" || args[5] != "Logged In" {
		t.Fatalf("unexpected args: %#v", args)
	}
}
