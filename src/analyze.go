package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultEndpoint    = "http://localhost:8000/analyze_video"
	defaultHTTPTimeout = 130 * time.Second
	maxResponseBytes   = 4 << 20
)

var (
	ErrUnexpectedStatus = errors.New("analysis service returned a non-2xx HTTP status code")
	ErrResponseTooLarge = errors.New("analysis service response exceeds size limit")
)

type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultEmptyShape
	ResultTransportError
)

func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultEmptyShape:
		return "empty_shape"
	case ResultTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// AnalysisResult is the outcome of one analysis request. Concepts is only
// set for ResultOK, Err only for ResultTransportError. Body keeps the raw
// response for ResultEmptyShape diagnostics.
type AnalysisResult struct {
	Kind     ResultKind
	Concepts []Concept
	Body     string
	Err      error
}

// Analyzer submits a video link for analysis.
type Analyzer interface {
	Analyze(ctx context.Context, link string) AnalysisResult
}

type analyzeRequest struct {
	YoutubeLink string `json:"youtube_link"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// AnalysisClient talks to the analysis service over HTTP.
type AnalysisClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewAnalysisClient(endpoint string, timeout time.Duration) *AnalysisClient {
	return &AnalysisClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *AnalysisClient) Endpoint() string {
	return c.endpoint
}

func (c *AnalysisClient) Analyze(ctx context.Context, link string) AnalysisResult {
	jsonData, err := json.Marshal(analyzeRequest{YoutubeLink: link})
	if err != nil {
		return transportError(errors.Wrap(err, "encoding analysis request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return transportError(errors.Wrap(err, "creating analysis request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(errors.Wrap(err, "calling analysis service"))
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp.Body)
	if err != nil {
		return transportError(errors.Wrap(err, "reading analysis response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportError(&StatusError{StatusCode: resp.StatusCode, Body: string(respBody)})
	}

	concepts, ok := parseKeyConcepts(respBody)
	if !ok {
		return AnalysisResult{Kind: ResultEmptyShape, Body: string(respBody)}
	}
	return AnalysisResult{Kind: ResultOK, Concepts: concepts}
}

// Ping checks the health route at the root of the analysis service.
func (c *AnalysisClient) Ping(ctx context.Context) error {
	root, err := serviceRoot(c.endpoint)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root, nil)
	if err != nil {
		return errors.Wrap(err, "creating health request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling analysis service health check")
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading health response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var status statusResponse
	if err := json.Unmarshal(respBody, &status); err != nil {
		return errors.Wrapf(err, "parsing health response %q", string(respBody))
	}
	if status.Status != "OK" {
		return errors.Errorf("analysis service reported status %q", status.Status)
	}
	return nil
}

// readBody reads at most maxResponseBytes, failing rather than truncating.
func readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseBytes {
		return nil, ErrResponseTooLarge
	}
	return body, nil
}

func serviceRoot(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parsing analysis endpoint")
	}
	u.Path = "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return errors.Wrapf(ErrUnexpectedStatus, "status %d", e.StatusCode).Error()
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

func transportError(err error) AnalysisResult {
	return AnalysisResult{Kind: ResultTransportError, Err: err}
}
