// Package publisher đẩy thư mục archive lên remote git.
// Đây là bước "best effort": lỗi được trả về trong Result để caller log, không retry.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/pkg/log"
)

type Stage string

const (
	StagePull   Stage = "pull"
	StageStatus Stage = "status"
	StageAdd    Stage = "add"
	StageCommit Stage = "commit"
	StagePush   Stage = "push"
)

// Result là kết quả của một lần publish. Err != nil thì Stage là bước bị lỗi.
type Result struct {
	Files     int
	Committed bool
	Pushed    bool
	Stage     Stage
	Err       error
}

func (r Result) OK() bool {
	return r.Err == nil
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("publish failed at %s: %v", r.Stage, r.Err)
	}
	if r.Files == 0 {
		return "nothing to publish"
	}
	return fmt.Sprintf("published %d archive files", r.Files)
}

type Publisher struct {
	Logger        log.Logger
	Git           GitClient
	RepoPath      string
	ArchiveDir    string
	CommitMessage string
}

func NewPublisher(logger log.Logger, config *cfg.Config, git GitClient) *Publisher {
	msg := config.Scheduler.CommitMessage
	if msg == "" {
		msg = "crawler auto commit"
	}
	repoPath := config.Scheduler.RepoPath
	if repoPath == "" {
		repoPath = "."
	}
	archiveDir := config.Archive.Dir
	if archiveDir == "" {
		archiveDir = "archive"
	}
	return &Publisher{
		Logger:        logger,
		Git:           git,
		RepoPath:      repoPath,
		ArchiveDir:    archiveDir,
		CommitMessage: msg,
	}
}

// Publish: pull, stage thư mục archive, commit, push.
// Pathspec được git hiểu tương đối với RepoPath nên RepoPath có thể là thư mục con của repo.
func (p *Publisher) Publish(ctx context.Context) Result {
	if _, err := p.Git.Run(ctx, p.RepoPath, "pull"); err != nil {
		return Result{Stage: StagePull, Err: err}
	}

	// git add lỗi với pathspec không tồn tại, archive chưa được tạo thì chưa có gì để publish
	if _, err := os.Stat(p.archivePath()); errors.Is(err, os.ErrNotExist) {
		p.Logger.Debug(ctx, "Archive dir %s does not exist yet", p.archivePath())
		return Result{}
	}

	pathspec := filepath.ToSlash(p.ArchiveDir)
	if _, err := p.Git.Run(ctx, p.RepoPath, "add", "--all", "--", pathspec); err != nil {
		return Result{Stage: StageAdd, Err: err}
	}
	out, err := p.Git.Run(ctx, p.RepoPath, "diff", "--cached", "--name-only", "--", pathspec)
	if err != nil {
		return Result{Stage: StageStatus, Err: err}
	}
	files := stagedFiles(out)
	if len(files) == 0 {
		p.Logger.Debug(ctx, "No archive changes to publish")
		return Result{}
	}

	// Chỉ commit archive, không kéo theo file khác đã stage sẵn
	if _, err := p.Git.Run(ctx, p.RepoPath, "commit", "-m", p.CommitMessage, "--", pathspec); err != nil {
		return Result{Files: len(files), Stage: StageCommit, Err: err}
	}
	if _, err := p.Git.Run(ctx, p.RepoPath, "push"); err != nil {
		return Result{Files: len(files), Committed: true, Stage: StagePush, Err: err}
	}
	return Result{Files: len(files), Committed: true, Pushed: true}
}

func (p *Publisher) archivePath() string {
	if filepath.IsAbs(p.ArchiveDir) {
		return p.ArchiveDir
	}
	return filepath.Join(p.RepoPath, p.ArchiveDir)
}

// stagedFiles đọc output "git diff --cached --name-only", mỗi dòng một file
func stagedFiles(out []byte) []string {
	files := make([]string, 0)
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, strings.Trim(line, `"`))
		}
	}
	return files
}
