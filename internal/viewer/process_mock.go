package viewer

import (
	"context"
	"errors"
	"io"
)

// MockRunner is a Runner for tests that records its calls.
type MockRunner struct {
	// RunFunc allows tests to provide custom behavior
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// ShouldTimeout if true, will block until context is cancelled
	ShouldTimeout bool

	// CallCount tracks how many times Run was called
	CallCount int

	// LastPath stores the last path passed to Run
	LastPath string

	// LastArgs stores the last args passed to Run
	LastArgs []string
}

// Run executes the mock behavior.
func (m *MockRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	m.CallCount++
	m.LastPath = path
	m.LastArgs = args

	if m.ShouldTimeout {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, stdin)
	}
	return nil, nil, nil
}

// NewMockRunner creates a mock that succeeds without output.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// NewErrorMockRunner creates a mock that fails with errMsg on stderr.
func NewErrorMockRunner(errMsg string) *MockRunner {
	return &MockRunner{
		RunFunc: func(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}
