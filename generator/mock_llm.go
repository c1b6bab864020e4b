package generator

import (
	"context"
	"errors"
)

// ScriptedLLM replays a fixed sequence of responses (or errors), one per
// Complete call. It records every prompt it saw, which makes the retry
// loop and its feedback threading testable without a live model.
type ScriptedLLM struct {
	Responses []ScriptedResponse
	Prompts   []Prompt
	calls     int
}

// ScriptedResponse is one canned turn: either Text or Err.
type ScriptedResponse struct {
	Text string
	Err  error
}

func (m *ScriptedLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.calls >= len(m.Responses) {
		return "", &TransportError{Err: errors.New("scripted llm: no responses left")}
	}
	r := m.Responses[m.calls]
	m.calls++
	if r.Err != nil {
		return "", r.Err
	}
	return StripFences(r.Text), nil
}

// Calls reports how many times Complete was invoked.
func (m *ScriptedLLM) Calls() int { return m.calls }
