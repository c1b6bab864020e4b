package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wahoo2garmin/garmin"
	"wahoo2garmin/generator"
	"wahoo2garmin/workout"
)

const swimArtifact = `SwimmingWorkout("Test Swim",
    WarmupStepDistance(200, 1),
    IntervalStepDistanceEffort(100, 2, 4),
    CooldownStepDistance(100, 3))`

type fakeUploader struct {
	calls int
	last  *workout.Workout
	err   error
}

func (f *fakeUploader) UploadWorkout(_ context.Context, w *workout.Workout) (string, error) {
	f.calls++
	f.last = w
	if f.err != nil {
		return "", f.err
	}
	return "9001", nil
}

func newTestServer(t *testing.T, llm generator.LLMClient, uploader Uploader) *httptest.Server {
	t.Helper()
	srv, err := New(llm, uploader, garmin.Config{}, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postConversion(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/conversions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestConvertEndpoint(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{{Text: swimArtifact}}}
	ts := newTestServer(t, llm, nil)

	resp := postConversion(t, ts, `{"text": "200 warmup, 100 hard, 100 easy", "type": "swimming"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data conversionResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	assert.NotEmpty(t, data.ConversionID)
	assert.Equal(t, "Test Swim", data.Workout["name"])
	assert.Equal(t, "swimming", data.Workout["subtype"])
	assert.Contains(t, data.SummaryHTML, "<h1")
	assert.Contains(t, data.SummaryHTML, "Test Swim")
	assert.Contains(t, data.Artifact, "SwimmingWorkout")
}

func TestConvertRequiresText(t *testing.T) {
	ts := newTestServer(t, &generator.ScriptedLLM{}, nil)

	resp := postConversion(t, ts, `{"text": "  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConvertRejectsUnknownType(t *testing.T) {
	ts := newTestServer(t, &generator.ScriptedLLM{}, nil)

	resp := postConversion(t, ts, `{"text": "ride 20 miles", "type": "rowing"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConvertSurfacesGenerationFailure(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{
		{Err: &generator.TransportError{Err: errors.New("connection reset")}},
	}}
	ts := newTestServer(t, llm, nil)

	resp := postConversion(t, ts, `{"text": "easy run", "type": "running"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestGetConversion(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{{Text: swimArtifact}}}
	ts := newTestServer(t, llm, nil)

	resp := postConversion(t, ts, `{"text": "swim", "type": "swimming"}`)
	var created conversionResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	getResp, err := http.Get(ts.URL + "/api/conversions/" + created.ConversionID)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched conversionResp
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	assert.Equal(t, created.ConversionID, fetched.ConversionID)
	assert.Equal(t, created.Workout, fetched.Workout)
}

func TestGetConversionNotFound(t *testing.T) {
	ts := newTestServer(t, &generator.ScriptedLLM{}, nil)

	resp, err := http.Get(ts.URL + "/api/conversions/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadConversion(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{{Text: swimArtifact}}}
	uploader := &fakeUploader{}
	ts := newTestServer(t, llm, uploader)

	resp := postConversion(t, ts, `{"text": "swim", "type": "swimming"}`)
	var created conversionResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	upResp, err := http.Post(ts.URL+"/api/conversions/"+created.ConversionID+"/upload", "application/json", nil)
	require.NoError(t, err)
	defer upResp.Body.Close()
	require.Equal(t, http.StatusOK, upResp.StatusCode)

	var result uploadResult
	require.NoError(t, json.NewDecoder(upResp.Body).Decode(&result))
	assert.Equal(t, "9001", result.WorkoutID)
	assert.Equal(t, 1, uploader.calls)
	require.NotNil(t, uploader.last)
	assert.Equal(t, "Test Swim", uploader.last.Name)
}

func TestUploadWithoutUploader(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{{Text: swimArtifact}}}
	ts := newTestServer(t, llm, nil)

	resp := postConversion(t, ts, `{"text": "swim", "type": "swimming"}`)
	var created conversionResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	upResp, err := http.Post(ts.URL+"/api/conversions/"+created.ConversionID+"/upload", "application/json", nil)
	require.NoError(t, err)
	defer upResp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, upResp.StatusCode)
}

func TestUploadFailure(t *testing.T) {
	llm := &generator.ScriptedLLM{Responses: []generator.ScriptedResponse{{Text: swimArtifact}}}
	uploader := &fakeUploader{err: errors.New("garmin is down")}
	ts := newTestServer(t, llm, uploader)

	resp := postConversion(t, ts, `{"text": "swim", "type": "swimming"}`)
	var created conversionResp
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	upResp, err := http.Post(ts.URL+"/api/conversions/"+created.ConversionID+"/upload", "application/json", nil)
	require.NoError(t, err)
	defer upResp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, upResp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t, &generator.ScriptedLLM{}, nil)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestNewRequiresLLM(t *testing.T) {
	_, err := New(nil, nil, garmin.Config{}, nil)
	assert.Error(t, err)
}
