package publisher

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGitClient là GitClient giả cho test
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{}

func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	ret := m.Called(callArgs...)

	var out []byte
	if v := ret.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, ret.Error(1)
}
