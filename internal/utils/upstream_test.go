package utils

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spigell/assessor/internal/domain"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestUpstreamError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect error
	}{
		{name: "context deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), expect: domain.ErrUpstreamTimeout},
		{name: "net timeout", err: timeoutErr{}, expect: domain.ErrUpstreamTimeout},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), expect: domain.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := UpstreamError("hr directory", tt.err)
			if !errors.Is(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
