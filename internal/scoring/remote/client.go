package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/domain"
	"github.com/spigell/assessor/internal/utils"
)

const (
	DefaultTimeout = 60 * time.Second
	upstreamName   = "scoring engine"
	maxLogLength   = 300
)

// Client posts submissions to an external scoring engine.
type Client struct {
	url        string
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
}

func New(logger *zap.Logger, url, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        strings.TrimSpace(url),
		token:      strings.TrimSpace(token),
		logger:     logger,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Evaluate sends the whole submission and decodes the engine's verdict as is.
func (c *Client) Evaluate(ctx context.Context, submission domain.Submission) (*domain.Evaluation, error) {
	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	c.logger.Debug("scoring engine request",
		zap.String("candidate_id", submission.CandidateID),
		zap.Int("questions", len(submission.Questions)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, utils.UpstreamError(upstreamName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.UpstreamError(upstreamName, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("scoring engine returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("body", utils.TruncateForLog(string(data), maxLogLength)),
		)
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrUpstreamUnavailable, upstreamName, resp.Status)
	}

	var evaluation domain.Evaluation
	if err := json.Unmarshal(data, &evaluation); err != nil {
		return nil, fmt.Errorf("%w: decode %s response: %v", domain.ErrUpstreamUnavailable, upstreamName, err)
	}

	return &evaluation, nil
}
