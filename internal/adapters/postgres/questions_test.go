package postgres

import (
	"context"
	"testing"
)

func TestCanonicalID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
		ok     bool
	}{
		{input: "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10", expect: "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10", ok: true},
		{input: "4B0F2C1E-8D7E-4C55-9A53-6F1C2D9B1A10", expect: "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10", ok: true},
		{input: " 4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10 ", expect: "4b0f2c1e-8d7e-4c55-9a53-6f1c2d9b1a10", ok: true},
		{input: "expired", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		got, ok := canonicalID(tt.input)
		if ok != tt.ok || got != tt.expect {
			t.Fatalf("%q: expected %q/%v, got %q/%v", tt.input, tt.expect, tt.ok, got, ok)
		}
	}
}

func TestQuestionBankTreatsNonUUIDAsMissing(t *testing.T) {
	t.Parallel()

	// No pool: a non-UUID id must be answered without touching the database.
	db := &DB{}

	set, err := db.GetQuestionSet(context.Background(), "not-a-uuid")
	if err != nil || set != nil {
		t.Fatalf("expected nil, nil, got %v, %v", set, err)
	}
	questions, err := db.ListQuestions(context.Background(), "not-a-uuid")
	if err != nil || questions != nil {
		t.Fatalf("expected nil, nil, got %v, %v", questions, err)
	}
}
