package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/tutora-cli/internal/core/domain"
	"github.com/custodia-labs/tutora-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tutora-cli/internal/logger"
)

// Retry policy for generation calls. Only rate limits are retried;
// every other failure is terminal on first sight. Local backends get a
// short back-off because their limits clear as soon as the previous
// request finishes; cloud quotas need longer.
const (
	generateAttempts = 3

	remoteRetryBackoff = 10 * time.Second
	localRetryBackoff  = 2 * time.Second
)

// User-facing texts for terminal generation failures. Returned as the
// answer rather than as errors, so every surface shows the same words.
const (
	msgRateLimited   = "API rate limit reached. The free tier has limited daily requests. Please wait a minute and try again."
	msgUnavailable   = "The AI service is temporarily unavailable. Please try again in a few minutes."
	msgUnreachable   = "Cannot reach the AI service. Check that it is running and try again."
	msgModelNotFound = "Model %q is not available. Pull it first or choose a different model in settings."
	msgNoAnswer      = "Unable to generate an answer at this time."
)

// GenerationService runs prompts through the configured LLM. It owns
// the retry policy and translates the failures a user can do something
// about into plain sentences; anything it cannot classify comes back
// as an error for the caller to surface.
type GenerationService struct {
	llm     driven.LLMService
	backoff time.Duration

	// wait blocks between retries. Swapped for a no-op in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewGenerationService creates a generation service for the given
// backend. The provider picks the retry back-off.
func NewGenerationService(llm driven.LLMService, provider domain.AIProvider) *GenerationService {
	backoff := remoteRetryBackoff
	if provider.IsLocal() {
		backoff = localRetryBackoff
	}
	return &GenerationService{
		llm:     llm,
		backoff: backoff,
		wait:    waitFor,
	}
}

// Generate sends the prompt to the model and returns its raw output.
// Rate-limited calls are retried up to generateAttempts times before
// giving up with a user-facing message.
func (s *GenerationService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("no LLM configured: %w", domain.ErrLLMUnavailable)
	}

	for attempt := 1; attempt <= generateAttempts; attempt++ {
		logger.Debug("LLM call attempt %d/%d (%d chars of prompt)", attempt, generateAttempts, len(prompt))

		answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
		if err == nil {
			return answer, nil
		}

		switch {
		case isRateLimited(err):
			if attempt < generateAttempts {
				logger.Warn("Rate limited, retrying in %s: %v", s.backoff, err)
				if werr := s.wait(ctx, s.backoff); werr != nil {
					return "", werr
				}
				continue
			}
			logger.Warn("Rate limited on final attempt: %v", err)
			return msgRateLimited, nil

		case isUnavailable(err):
			logger.Warn("LLM unavailable: %v", err)
			return msgUnavailable, nil

		case isUnreachable(err):
			logger.Warn("LLM unreachable: %v", err)
			return msgUnreachable, nil

		case errors.Is(err, domain.ErrModelNotFound):
			logger.Warn("Model missing: %v", err)
			return fmt.Sprintf(msgModelNotFound, s.llm.ModelName()), nil

		default:
			return "", fmt.Errorf("generating answer: %w", err)
		}
	}

	return msgNoAnswer, nil
}

// waitFor sleeps for d unless the context ends first.
func waitFor(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRateLimited reports whether the backend rejected the call on quota
// grounds. Adapters that classify for themselves wrap ErrRateLimited;
// the substrings cover the provider SDK messages seen in the wild.
func isRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "rate limit")
}

// isUnavailable reports whether the backend is up but refusing work.
func isUnavailable(err error) bool {
	if errors.Is(err, domain.ErrLLMUnavailable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") || strings.Contains(msg, "unavailable")
}

// isUnreachable reports whether the backend could not be contacted at
// all, which for a local backend usually means it is not running.
func isUnreachable(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")
}
