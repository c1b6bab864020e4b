package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wahoo2garmin/workout"
)

// DefaultMaxRetries bounds the generate/validate loop when the caller does
// not configure a budget.
const DefaultMaxRetries = 3

// Converter runs the generate → validate → retry loop for one workout text.
// Attempts are strictly sequential; only the most recent attempt's error and
// artifact are carried into the next prompt.
type Converter struct {
	llm        LLMClient
	sink       Sink
	log        *zap.SugaredLogger
	maxRetries int
	system     string
}

func NewConverter(llm LLMClient, sink Sink, log *zap.SugaredLogger, maxRetries int) (*Converter, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if sink == nil {
		return nil, errors.New("output sink is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Converter{
		llm:        llm,
		sink:       sink,
		log:        log,
		maxRetries: maxRetries,
		system:     SystemContext(),
	}, nil
}

// ConvertWithRetry translates workout text into a validated Workout. Each
// attempt makes exactly one model call and one validation pass. Validation
// failures feed the next attempt; transport and rate-limit failures abort
// immediately without consuming the retry budget. When the budget runs out
// the last validation diagnostic is returned in an *ExhaustedError.
func (c *Converter) ConvertWithRetry(ctx context.Context, text string, sport workout.Sport) (*workout.Workout, error) {
	var lastErr *workout.ValidationError
	var lastArtifact string

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		var prompt Prompt
		if attempt == 0 {
			prompt = BuildInitialPrompt(c.system, text, sport)
		} else {
			prompt = BuildRetryPrompt(c.system, text, sport, lastArtifact, lastErr.Error())
		}

		c.log.Infow("generating workout expression",
			"attempt", attempt+1, "max_retries", c.maxRetries, "sport", string(sport))

		raw, err := c.llm.Complete(ctx, prompt)
		if err != nil {
			// Transport and rate-limit failures are fatal, not retried.
			return nil, err
		}

		if err := c.sink.WriteArtifact(raw); err != nil {
			return nil, fmt.Errorf("persist artifact: %w", err)
		}
		artifact, err := c.sink.ReadArtifact()
		if err != nil {
			return nil, fmt.Errorf("read artifact: %w", err)
		}

		w, err := workout.Parse(artifact)
		if err == nil {
			if err := c.sink.WriteWorkout(w); err != nil {
				return nil, fmt.Errorf("persist workout: %w", err)
			}
			c.log.Infow("workout validated",
				"name", w.Name,
				"sport", string(w.Sport),
				"segments", len(w.Steps),
				"estimated_duration_seconds", w.EstimatedDurationSeconds)
			return w, nil
		}

		var verr *workout.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		c.log.Warnw("validation failed",
			"attempt", attempt+1, "kind", verr.Kind.String(), "err", verr.Message)

		lastErr = verr
		lastArtifact = artifact
	}

	return nil, &ExhaustedError{Attempts: c.maxRetries, LastErr: lastErr}
}
