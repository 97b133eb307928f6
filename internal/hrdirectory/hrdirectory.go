package hrdirectory

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/utils"
)

const (
	DefaultPath    = "/api/jd/get-filteredCandidateByEmail"
	DefaultTimeout = 30 * time.Second
	userAgent      = "spigell/assessor"
	maxLogLength   = 300
)

// Client looks candidates up in the HR directory. One request per call, no retries.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Path       string
	// Method is POST (JSON body) or GET (email query parameter).
	Method string
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  strings.TrimSpace(token),
		APIURL: strings.TrimRight(strings.TrimSpace(apiURL), "/"),
		Path:   DefaultPath,
		Method: http.MethodPost,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// Lookup resolves email to a candidate identity.
func (c *Client) Lookup(ctx context.Context, email string) (*domain.Identity, error) {
	resp, err := c.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("hr directory returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(resp.Body), maxLogLength)),
		)
		return nil, fmt.Errorf("%w: directory returned %s", domain.ErrUpstreamNotFound, resp.Status)
	}

	body, err := resp.decode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamMalformed, err)
	}

	identity, variant, err := mapIdentity(body)
	if err != nil {
		c.logger.Warn("hr directory response rejected", zap.Stringer("variant", variant), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("hr directory resolved candidate",
		zap.Stringer("variant", variant),
		zap.String("candidate_id", identity.CandidateID),
	)

	return identity, nil
}

// Inspection is the unfiltered view of a directory lookup, used for debugging integrations.
type Inspection struct {
	StatusCode          int               `json:"status_code"`
	RawResponse         any               `json:"raw_response"`
	MappedCandidateData *domain.Identity  `json:"mapped_candidate_data"`
	Variant             string            `json:"variant"`
	Headers             map[string]string `json:"headers"`
	RequestPayload      map[string]string `json:"request_payload"`
	Error               string            `json:"error,omitempty"`
}

// Inspect performs a lookup and reports what came back without failing on bad statuses or shapes.
// Only transport failures are returned as errors.
func (c *Client) Inspect(ctx context.Context, email string) (*Inspection, error) {
	resp, err := c.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		StatusCode:     resp.StatusCode,
		Headers:        make(map[string]string, len(resp.Header)),
		RequestPayload: map[string]string{"email": email},
		Variant:        VariantUnknown.String(),
	}
	for key := range resp.Header {
		out.Headers[key] = resp.Header.Get(key)
	}

	if resp.StatusCode != http.StatusOK {
		return out, nil
	}

	body, err := resp.decode()
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.RawResponse = body

	identity, variant, err := mapIdentity(body)
	out.Variant = variant.String()
	if err != nil {
		out.Error = err.Error()
		return out, nil
	}
	out.MappedCandidateData = identity

	return out, nil
}
