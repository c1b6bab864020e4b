package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wahoo2garmin/workout"
)

const wahooText = "3x100yd intervals at effort 4, 50yd easy recovery between"

const brokenArtifact = `SwimmingWorkout("3x100 Intervals", IntervalStepDistance(100, 1)`

const emptyArtifact = `SwimmingWorkout("3x100 Intervals")`

const validArtifact = `SwimmingWorkout("3x100 Intervals",
	IntervalStepDistanceEffort(100, 1, 4),
	RecoveryStepDistance(50, 2),
	IntervalStepDistanceEffort(100, 3, 4),
	RecoveryStepDistance(50, 4),
	IntervalStepDistanceEffort(100, 5, 4))`

func newTestSink(t *testing.T) *FileSink {
	t.Helper()
	return NewFileSink(filepath.Join(t.TempDir(), "generated_workout.txt"))
}

func TestConvertSucceedsFirstAttempt(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{{Text: validArtifact}}}
	sink := newTestSink(t)
	conv, err := NewConverter(llm, sink, nil, 3)
	require.NoError(t, err)

	w, err := conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)
	require.NoError(t, err)

	assert.Equal(t, 1, llm.Calls())
	assert.Equal(t, "3x100 Intervals", w.Name)
	assert.Len(t, w.Steps, 5)

	// The artifact and the canonical JSON are both persisted.
	artifact, err := sink.ReadArtifact()
	require.NoError(t, err)
	assert.Contains(t, artifact, "SwimmingWorkout")

	data, err := os.ReadFile(sink.WorkoutPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "estimatedDurationSeconds")
	assert.Contains(t, string(data), `"subtype": "swimming"`)
}

// Attempt 1 fails with a syntax error, attempt 2 with a structural error,
// attempt 3 succeeds: three call pairs and five segments in the result.
func TestConvertRetriesWithFeedback(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{
		{Text: brokenArtifact},
		{Text: emptyArtifact},
		{Text: validArtifact},
	}}
	sink := newTestSink(t)
	conv, err := NewConverter(llm, sink, nil, 3)
	require.NoError(t, err)

	w, err := conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)
	require.NoError(t, err)

	assert.Equal(t, 3, llm.Calls())
	assert.Len(t, w.Steps, 5)

	// The second request carries attempt 1's artifact and diagnostic verbatim.
	require.Len(t, llm.Prompts, 3)
	assert.Contains(t, llm.Prompts[1].User, brokenArtifact)
	assert.Contains(t, llm.Prompts[1].User, "syntax:")
	assert.Contains(t, llm.Prompts[1].User, wahooText)

	// The third request carries attempt 2's failure, not attempt 1's.
	assert.Contains(t, llm.Prompts[2].User, emptyArtifact)
	assert.Contains(t, llm.Prompts[2].User, "no segments")
	assert.NotContains(t, llm.Prompts[2].User, brokenArtifact)
}

func TestConvertRateLimitIsFatal(t *testing.T) {
	rateErr := &RateLimitError{Err: errors.New("429 too many requests")}
	llm := &ScriptedLLM{Responses: []ScriptedResponse{{Err: rateErr}}}
	sink := newTestSink(t)
	conv, err := NewConverter(llm, sink, nil, 3)
	require.NoError(t, err)

	_, err = conv.ConvertWithRetry(context.Background(), wahooText, workout.SportUnspecified)
	var rle *RateLimitError
	require.ErrorAs(t, err, &rle)

	// Terminates immediately: one model call, no validation, budget untouched.
	assert.Equal(t, 1, llm.Calls())
	_, statErr := os.Stat(sink.ArtifactPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertTransportErrorIsFatal(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{
		{Err: &TransportError{Err: errors.New("connection refused")}},
	}}
	conv, err := NewConverter(llm, newTestSink(t), nil, 3)
	require.NoError(t, err)

	_, err = conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 1, llm.Calls())
}

func TestConvertExhaustsBudget(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{{Text: brokenArtifact}}}
	sink := newTestSink(t)
	conv, err := NewConverter(llm, sink, nil, 1)
	require.NoError(t, err)

	_, err = conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 1, exhausted.Attempts)
	assert.Equal(t, workout.ErrSyntax, exhausted.LastErr.Kind)
	assert.Contains(t, err.Error(), exhausted.LastErr.Message)

	// No second model call after the budget is spent.
	assert.Equal(t, 1, llm.Calls())
}

func TestConvertKeepsOnlyLastDiagnostic(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{
		{Text: brokenArtifact},
		{Text: emptyArtifact},
	}}
	conv, err := NewConverter(llm, newTestSink(t), nil, 2)
	require.NoError(t, err)

	_, err = conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, workout.ErrStructural, exhausted.LastErr.Kind)
	assert.Equal(t, "no segments", exhausted.LastErr.Message)
}

func TestConvertOverwritesArtifactEachAttempt(t *testing.T) {
	llm := &ScriptedLLM{Responses: []ScriptedResponse{
		{Text: brokenArtifact},
		{Text: validArtifact},
	}}
	sink := newTestSink(t)
	conv, err := NewConverter(llm, sink, nil, 2)
	require.NoError(t, err)

	_, err = conv.ConvertWithRetry(context.Background(), wahooText, workout.SportSwimming)
	require.NoError(t, err)

	artifact, err := sink.ReadArtifact()
	require.NoError(t, err)
	assert.Contains(t, artifact, "IntervalStepDistanceEffort")
	assert.NotEqual(t, brokenArtifact+"\n", artifact)
}

func TestNewConverterDefaults(t *testing.T) {
	_, err := NewConverter(nil, newTestSink(t), nil, 3)
	assert.Error(t, err)

	llm := &ScriptedLLM{}
	conv, err := NewConverter(llm, newTestSink(t), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRetries, conv.maxRetries)
}
