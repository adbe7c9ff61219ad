package publisher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// GitClient chạy lệnh git trong một repository
type GitClient interface {
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)
}

// LocalGitClient dùng binary git trên máy, credential lấy từ môi trường sẵn có
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{}

func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git %s failed in %q: %s", strings.Join(args, " "), repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return out, nil
}
