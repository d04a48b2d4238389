package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"piercing-studio-site/config"
	"piercing-studio-site/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
)

const (
	endpointBusinessInfo = "/api/business-info"
	endpointPricing      = "/api/pricing"
	endpointReleaseForm  = "/api/release-form"
	endpointHealth       = "/api/health"

	maxResponseBytes = 1 << 20
)

// StudioAPI is the remote studio backend the site reads from and submits to.
type StudioAPI interface {
	BusinessInfo(ctx context.Context) (*models.BusinessInfo, error)
	Pricing(ctx context.Context) (*models.PricingInfo, error)
	SubmitReleaseForm(ctx context.Context, sub models.Submission) (*models.SubmitResult, error)
	Health(ctx context.Context) error
}

// ErrEmptyResponse is returned when a read succeeds but carries nothing to show.
var ErrEmptyResponse = errors.New("empty response")

type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Code)
}

// StudioBreakers holds one breaker for the reads and another for the
// release form submit.
type StudioBreakers struct {
	Reads  *gobreaker.CircuitBreaker
	Submit *gobreaker.CircuitBreaker
}

type StudioClient struct {
	baseURL  string
	http     *http.Client
	breakers StudioBreakers
	requests *prometheus.CounterVec
}

// NewStudioClient builds a client for baseURL. Either breaker and requests
// may be nil, in which case those calls are not guarded or not counted.
func NewStudioClient(baseURL string, timeout time.Duration, breakers StudioBreakers, requests *prometheus.CounterVec) *StudioClient {
	return &StudioClient{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		breakers: breakers,
		requests: requests,
	}
}

func (s *StudioClient) BusinessInfo(ctx context.Context) (*models.BusinessInfo, error) {
	var info *models.BusinessInfo
	if err := s.call(ctx, s.breakers.Reads, endpointBusinessInfo, func() error {
		if err := s.getJSON(ctx, endpointBusinessInfo, &info); err != nil {
			return err
		}
		if !info.Complete() {
			return fmt.Errorf("%s: %w", endpointBusinessInfo, ErrEmptyResponse)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *StudioClient) Pricing(ctx context.Context) (*models.PricingInfo, error) {
	var pricing *models.PricingInfo
	if err := s.call(ctx, s.breakers.Reads, endpointPricing, func() error {
		if err := s.getJSON(ctx, endpointPricing, &pricing); err != nil {
			return err
		}
		if !pricing.Complete() {
			return fmt.Errorf("%s: %w", endpointPricing, ErrEmptyResponse)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return pricing, nil
}

// SubmitReleaseForm posts the submission. The response body is decoded
// whatever the status code; the API reports rejection through success=false.
func (s *StudioClient) SubmitReleaseForm(ctx context.Context, sub models.Submission) (*models.SubmitResult, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	var result models.SubmitResult
	err = s.call(ctx, s.breakers.Submit, endpointReleaseForm, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpointReleaseForm, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := decodeBody(resp.Body, &result); err != nil {
			return fmt.Errorf("%s: decode response (status %d): %w", endpointReleaseForm, resp.StatusCode, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *StudioClient) Health(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := s.call(ctx, s.breakers.Reads, endpointHealth, func() error {
		return s.getJSON(ctx, endpointHealth, &body)
	}); err != nil {
		return err
	}
	if body.Status != "healthy" {
		return fmt.Errorf("%s: reported status %q", endpointHealth, body.Status)
	}
	return nil
}

func (s *StudioClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	if err := decodeBody(resp.Body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

func decodeBody(r io.Reader, out any) error {
	return json.NewDecoder(io.LimitReader(r, maxResponseBytes)).Decode(out)
}

func (s *StudioClient) call(ctx context.Context, breaker *gobreaker.CircuitBreaker, endpoint string, fn func() error) error {
	guarded := func() error {
		err := fn()
		if err != nil && ctx.Err() != nil {
			return fmt.Errorf("%w: %w", config.ErrAbandoned, err)
		}
		return err
	}

	var err error
	if breaker != nil {
		_, err = breaker.Execute(func() (interface{}, error) {
			return nil, guarded()
		})
	} else {
		err = guarded()
	}
	s.observe(ctx, endpoint, err)
	return err
}

func (s *StudioClient) observe(ctx context.Context, endpoint string, err error) {
	if s.requests == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case ctx.Err() != nil:
		outcome = "canceled"
	default:
		outcome = "error"
	}
	s.requests.WithLabelValues(endpoint, outcome).Inc()
}
