package hrdirectory

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessor/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	upstreamName    = "hr directory"
)

type rawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (c *Client) lookup(ctx context.Context, email string) (*rawResponse, error) {
	req, err := c.newLookupRequest(ctx, email)
	if err != nil {
		return nil, err
	}

	resp, err := c.request(req)
	if err != nil {
		c.logger.Warn("hr directory request failed", zap.Error(err))
		return nil, utils.UpstreamError(upstreamName, err)
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, utils.UpstreamError(upstreamName, err)
	}

	c.logger.Debug("got response from hr directory",
		zap.Int("status", resp.StatusCode),
		zap.String("body", utils.TruncateForLog(string(data), maxLogLength)),
	)

	return &rawResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) newLookupRequest(ctx context.Context, email string) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s%s", c.APIURL, c.Path)

	var req *http.Request
	var err error
	switch strings.ToUpper(c.Method) {
	case http.MethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := url.Values{}
		q.Set("email", email)
		req.URL.RawQuery = q.Encode()
	case "", http.MethodPost:
		payload, merr := json.Marshal(map[string]string{"email": email})
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
	default:
		return nil, fmt.Errorf("unsupported hr directory method %q", c.Method)
	}

	return c.setHeaders(req), nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("method", req.Method), zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}

func (r *rawResponse) decode() (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}
	if body == nil {
		return nil, fmt.Errorf("directory response is empty")
	}
	return body, nil
}
