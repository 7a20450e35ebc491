package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/sitegen/internal/scaffold"
)

// MockScaffolder is a mock implementation of the provisioning Scaffolder.
type MockScaffolder struct {
	mock.Mock
}

// NewMockScaffolder creates a mock that expects no calls.
func NewMockScaffolder() *MockScaffolder {
	return &MockScaffolder{}
}

// Scaffold records the call.
func (m *MockScaffolder) Scaffold(ctx context.Context, opts scaffold.Options) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

// WithSuccess expects any scaffold and succeeds.
func (m *MockScaffolder) WithSuccess() *MockScaffolder {
	m.On("Scaffold", mock.Anything, mock.Anything).Return(nil)
	return m
}

// WithError expects any scaffold and fails with err.
func (m *MockScaffolder) WithError(err error) *MockScaffolder {
	m.On("Scaffold", mock.Anything, mock.Anything).Return(err)
	return m
}
