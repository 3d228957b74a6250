package ai

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const defaultInitialInterval = 2 * time.Second

// RetryingGenerator decorates a Generator with exponential backoff on
// transient failures. Context cancellation stops the retry loop.
type RetryingGenerator struct {
	next       Generator
	maxRetries uint64
	logger     *zap.Logger
}

// WithRetries wraps the provided generator. maxRetries is the number of
// retries after the initial attempt; zero disables retrying entirely.
func WithRetries(next Generator, maxRetries int, logger *zap.Logger) *RetryingGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &RetryingGenerator{
		next:       next,
		maxRetries: uint64(maxRetries),
		logger:     logger,
	}
}

func (r *RetryingGenerator) GenerateContent(ctx context.Context, system, prompt string) (string, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultInitialInterval

	var attempt int
	var result string

	operation := func() error {
		attempt++
		out, err := r.next.GenerateContent(ctx, system, prompt)
		if err != nil {
			r.logger.Warn("generate content attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		result = out
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(policy, r.maxRetries), ctx))
	if err != nil {
		return "", err
	}

	return result, nil
}

func (r *RetryingGenerator) Model() string {
	return r.next.Model()
}
