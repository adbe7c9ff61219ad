package publisher

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/pkg/log"
)

const stagedOutput = "archive/daily/2024/03/15/Go.csv\narchive/weekly/2024/11/.csv\n"

func newTestPublisher(t *testing.T, git GitClient) *Publisher {
	t.Helper()
	logger, err := log.NewCslLoggerTo(io.Discard, false)
	require.NoError(t, err)

	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "archive"), 0o755))
	return &Publisher{
		Logger:        logger,
		Git:           git,
		RepoPath:      repo,
		ArchiveDir:    "archive",
		CommitMessage: "crawler auto commit",
	}
}

func expectStage(git *MockGitClient, repo, staged string) {
	git.On("Run", mock.Anything, repo, "pull").Return([]byte{}, nil).Once()
	git.On("Run", mock.Anything, repo, "add", "--all", "--", "archive").Return([]byte{}, nil).Once()
	git.On("Run", mock.Anything, repo, "diff", "--cached", "--name-only", "--", "archive").
		Return([]byte(staged), nil).Once()
}

func TestPublisher_PublishSuccess(t *testing.T) {
	git := new(MockGitClient)
	p := newTestPublisher(t, git)
	expectStage(git, p.RepoPath, stagedOutput)
	git.On("Run", mock.Anything, p.RepoPath, "commit", "-m", "crawler auto commit", "--", "archive").Return([]byte{}, nil).Once()
	git.On("Run", mock.Anything, p.RepoPath, "push").Return([]byte{}, nil).Once()

	result := p.Publish(context.Background())

	assert.True(t, result.OK())
	assert.Equal(t, 2, result.Files)
	assert.True(t, result.Committed)
	assert.True(t, result.Pushed)
	git.AssertExpectations(t)
}

func TestPublisher_NothingToPublish(t *testing.T) {
	git := new(MockGitClient)
	p := newTestPublisher(t, git)
	expectStage(git, p.RepoPath, "")

	result := p.Publish(context.Background())

	assert.True(t, result.OK())
	assert.Equal(t, 0, result.Files)
	assert.False(t, result.Committed)
	assert.Equal(t, "nothing to publish", result.String())
	git.AssertExpectations(t)
	git.AssertNotCalled(t, "Run", mock.Anything, p.RepoPath, "push")
}

func TestPublisher_MissingArchiveDir(t *testing.T) {
	git := new(MockGitClient)
	p := newTestPublisher(t, git)
	p.ArchiveDir = "not-yet"
	git.On("Run", mock.Anything, p.RepoPath, "pull").Return([]byte{}, nil).Once()

	result := p.Publish(context.Background())

	assert.True(t, result.OK())
	assert.Equal(t, 0, result.Files)
	git.AssertExpectations(t)
}

func TestPublisher_PullFailureStops(t *testing.T) {
	git := new(MockGitClient)
	p := newTestPublisher(t, git)
	git.On("Run", mock.Anything, p.RepoPath, "pull").Return(nil, errors.New("no remote")).Once()

	result := p.Publish(context.Background())

	assert.False(t, result.OK())
	assert.Equal(t, StagePull, result.Stage)
	assert.Contains(t, result.String(), "publish failed at pull")
	git.AssertExpectations(t)
}

func TestPublisher_PushFailureKeepsCommit(t *testing.T) {
	git := new(MockGitClient)
	p := newTestPublisher(t, git)
	expectStage(git, p.RepoPath, "archive/monthly/2024/03/Go.csv\n")
	git.On("Run", mock.Anything, p.RepoPath, "commit", "-m", "crawler auto commit", "--", "archive").Return([]byte{}, nil).Once()
	git.On("Run", mock.Anything, p.RepoPath, "push").Return(nil, errors.New("rejected")).Once()

	result := p.Publish(context.Background())

	assert.False(t, result.OK())
	assert.Equal(t, StagePush, result.Stage)
	assert.True(t, result.Committed)
	assert.False(t, result.Pushed)
	git.AssertExpectations(t)
}

func TestStagedFiles(t *testing.T) {
	out := []byte("archive/a.csv\n\"archive/with space.csv\"\n\n")
	assert.Equal(t, []string{"archive/a.csv", "archive/with space.csv"}, stagedFiles(out))
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client)
	assert.IsType(t, &LocalGitClient{}, client)
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// Repo thật: crawler chạy trong thư mục con "crawler" của repo lớn hơn
func TestPublisher_RepoPathInSubdirectory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not installed")
	}

	root := t.TempDir()
	remote := filepath.Join(root, "remote.git")
	work := filepath.Join(root, "work")
	runGit(t, root, "init", "--bare", remote)
	runGit(t, root, "clone", remote, work)
	runGit(t, work, "config", "user.email", "crawler@example.com")
	runGit(t, work, "config", "user.name", "crawler")
	runGit(t, work, "config", "commit.gpgsign", "false")

	require.NoError(t, os.WriteFile(filepath.Join(work, "README.md"), []byte("trending\n"), 0o644))
	runGit(t, work, "add", "README.md")
	runGit(t, work, "commit", "-m", "init")
	runGit(t, work, "push", "-u", "origin", "HEAD")

	crawlerDir := filepath.Join(work, "crawler")
	daily := filepath.Join(crawlerDir, "archive", "daily", "2024", "03", "15")
	require.NoError(t, os.MkdirAll(daily, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(daily, "Go.csv"), []byte("id,name,lang,new_stars\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(daily, ".csv"), []byte("id,name,lang,new_stars\n"), 0o644))
	// File ngoài archive không được commit
	require.NoError(t, os.WriteFile(filepath.Join(crawlerDir, "notes.txt"), []byte("x\n"), 0o644))

	logger, err := log.NewCslLoggerTo(io.Discard, false)
	require.NoError(t, err)
	p := &Publisher{
		Logger:        logger,
		Git:           NewLocalGitClient(),
		RepoPath:      crawlerDir,
		ArchiveDir:    "archive",
		CommitMessage: "crawler auto commit",
	}

	result := p.Publish(context.Background())
	require.True(t, result.OK(), result.String())
	assert.Equal(t, 2, result.Files)
	assert.True(t, result.Pushed)

	branch := runGit(t, work, "rev-parse", "--abbrev-ref", "HEAD")
	tree := runGit(t, remote, "ls-tree", "-r", "--name-only", branch)
	assert.Contains(t, tree, "crawler/archive/daily/2024/03/15/Go.csv")
	assert.Contains(t, tree, "crawler/archive/daily/2024/03/15/.csv")
	assert.NotContains(t, tree, "crawler/notes.txt")

	again := p.Publish(context.Background())
	assert.True(t, again.OK(), again.String())
	assert.Equal(t, "nothing to publish", again.String())
}
