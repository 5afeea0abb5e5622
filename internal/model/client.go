package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"swipr/internal/domain"
	"swipr/internal/ports"
)

// probabilityTolerance bounds how far the returned triple may drift
// from summing to 1 before the prediction is rejected as malformed.
const probabilityTolerance = 0.01

// Client talks to an external inference service hosting the relevance
// model. The service receives the fixed non-embedding feature record
// and substitutes a zero vector for the training-time text embedding.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.RelevanceModel = (*Client)(nil)

// NewClient creates a reusable HTTP client for one endpoint.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type predictResponse struct {
	DislikeProb float64 `json:"dislike_prob"`
	NeutralProb float64 `json:"neutral_prob"`
	LikeProb    float64 `json:"like_prob"`
}

// Predict sends the feature record for scoring and validates the
// returned distribution's shape.
func (c *Client) Predict(ctx context.Context, features domain.FeatureRecord) (domain.Probabilities, error) {
	var resp predictResponse
	if err := c.post(ctx, "/predict", features, &resp); err != nil {
		return domain.Probabilities{}, err
	}

	probs := domain.Probabilities{
		Dislike: resp.DislikeProb,
		Neutral: resp.NeutralProb,
		Like:    resp.LikeProb,
	}

	if err := validate(probs); err != nil {
		return domain.Probabilities{}, err
	}
	return probs, nil
}

func validate(p domain.Probabilities) error {
	for _, v := range []float64{p.Dislike, p.Neutral, p.Like} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("probability %v out of range", v)
		}
	}
	if math.Abs(p.Sum()-1) > probabilityTolerance {
		return fmt.Errorf("probabilities sum to %v, expected 1", p.Sum())
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
