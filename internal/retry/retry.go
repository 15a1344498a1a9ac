package retry

import (
	"context"
	"fmt"
	"time"

	"souq/internal/errors"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig returns sensible retry defaults for backend operations
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// QuickConfig returns faster retry settings for interactive operations
func QuickConfig() *Config {
	return &Config{
		MaxAttempts: 2,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// WithRetry executes a function with exponential backoff retry logic
func WithRetry(ctx context.Context, config *Config, operation string, fn func() error) error {
	if config == nil {
		config = DefaultConfig()
	}

	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		// Non-retryable backend errors fail immediately
		if souqErr, ok := err.(*errors.SouqError); ok {
			if !souqErr.IsRetryable() {
				return souqErr
			}

			// Use error-specific retry delay if available
			if retryAfter := souqErr.GetRetryAfter(); retryAfter > 0 {
				if attempt < config.MaxAttempts {
					select {
					case <-time.After(retryAfter):
						continue
					case <-ctx.Done():
						return ctx.Err()
					}
				}
				continue
			}
		}

		// Don't sleep after the last attempt
		if attempt >= config.MaxAttempts {
			break
		}

		delay := backoffDelay(config, attempt)

		select {
		case <-time.After(delay):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// All attempts failed, return the last error with retry context
	if souqErr, ok := lastErr.(*errors.SouqError); ok {
		souqErr.Message = fmt.Sprintf("%s (failed after %d attempts)", souqErr.Message, config.MaxAttempts)
		return souqErr
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, config.MaxAttempts, lastErr)
}

// WithQuickRetry is a convenience function for interactive operations that need fast retry
func WithQuickRetry(ctx context.Context, operation string, fn func() error) error {
	return WithRetry(ctx, QuickConfig(), operation, fn)
}

// WithDefaultRetry is a convenience function using default retry settings
func WithDefaultRetry(ctx context.Context, operation string, fn func() error) error {
	return WithRetry(ctx, DefaultConfig(), operation, fn)
}

// backoffDelay computes the exponential backoff delay for an attempt
func backoffDelay(config *Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= config.Multiplier
	}
	if time.Duration(delay) > config.MaxDelay {
		return config.MaxDelay
	}
	return time.Duration(delay)
}
