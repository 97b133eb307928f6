package utils

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/spigell/assessor/internal/domain"
)

// UpstreamError classifies a failed outbound call as a timeout or an unavailable service.
func UpstreamError(upstream string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamTimeout, upstream, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, upstream, err)
}
