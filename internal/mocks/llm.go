package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockLLM is a testify mock for the planner's LLM invoker.
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Invoke(ctx context.Context, prompt string, schema map[string]interface{}) (json.RawMessage, error) {
	args := m.Called(ctx, prompt, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// StubLLM returns a fixed payload for every invocation and records the
// prompts it saw. Simpler than MockLLM when a test only needs a canned
// model response.
type StubLLM struct {
	Response json.RawMessage
	Err      error
	Prompts  []string
}

func (s *StubLLM) Invoke(_ context.Context, prompt string, _ map[string]interface{}) (json.RawMessage, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Response, nil
}
