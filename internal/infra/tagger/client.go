// Package tagger implements the keyphrase extraction client used for auto-tagging.
package tagger

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// DefaultEndpoint is the keyphrase model path used when none is configured.
const DefaultEndpoint = "/models/ml6team/keyphrase-extraction-kbir-openkp"

// Client implements domain.Tagger over HTTP.
type Client struct {
	endpoint string
	client   *resty.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
	logger   *zap.Logger
}

// New creates a new keyphrase client.
func New(cfg ClientConfig, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		client:   newRestyClient(cfg),
		cb:       newCircuitBreaker[[]byte]("keyphrase", cfg.CB, logger),
		logger:   logger,
	}
}

// ExtractKeyphrases posts text to the keyphrase service and returns the words found.
func (c *Client) ExtractKeyphrases(ctx context.Context, text string) ([]string, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetBody(Request{Inputs: text}).
			Post(c.endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("keyphrase service returned status %d", r.StatusCode())
		}

		return r.Body(), nil
	})
	if err != nil {
		c.logger.Warn("keyphrase extraction failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("calling keyphrase service: %w", err)
	}

	phrases, err := parseKeyphrases(body)
	if err != nil {
		c.logger.Warn("keyphrase response rejected", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("keyphrase extraction completed",
		zap.Int("text_length", len(text)),
		zap.Int("count", len(phrases)),
	)

	return phrases, nil
}

// HealthCheck verifies the keyphrase service is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
