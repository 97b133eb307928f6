package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/spigell/assessor/internal/domain"
)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z07",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z07",
}

// Timestamps without a zone are taken as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseExpiry reads an expires_at value as written by the store or by hand:
// RFC 3339 with a Z marker or an explicit offset, or the Postgres text form.
func ParseExpiry(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedExpiry, raw)
}
